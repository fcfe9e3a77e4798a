// Package client provides the API client for interacting with the exchange API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/handlers"
	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// DefaultBaseURL is the base URL used when no server address is configured
const DefaultBaseURL = "http://localhost:8080"

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for the API client
type Client interface {
	// Health Check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Public Endpoints
	Register(ctx context.Context, name string) (models.User, error)
	Profile(ctx context.Context) (models.User, error)
	ListInstruments(ctx context.Context) ([]models.Instrument, error)
	GetOrderbook(ctx context.Context, ticker string, limit int) (services.Orderbook, error)
	GetTransactions(ctx context.Context, ticker string, limit int) ([]models.Transaction, error)

	// Order Endpoints
	CreateOrder(ctx context.Context, req handlers.CreateOrderRequest) (handlers.OrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (handlers.OrderDetailResponse, error)
	ListOrders(ctx context.Context) ([]handlers.OrderDetailResponse, error)
	CancelOrder(ctx context.Context, id uuid.UUID) error

	// Balance Endpoints
	GetBalances(ctx context.Context) (map[string]int64, error)

	// Admin Endpoints
	CreateInstrument(ctx context.Context, instrument models.Instrument) error
	DeleteInstrument(ctx context.Context, ticker string) error
	ListUsers(ctx context.Context, opts *models.ListOptions) ([]models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (models.User, error)
	Deposit(ctx context.Context, req handlers.DepositRequest) error
	Withdraw(ctx context.Context, req handlers.WithdrawRequest) error
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// APIKey authenticates requests. Empty means unauthenticated.
	APIKey string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Validate the base URL
	_, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
	}, nil
}

// createAgent creates a new Fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(ctx context.Context, method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	// Set timeout from context or client default
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	} else {
		agent.Timeout(c.timeout)
	}

	agent.Set("Content-Type", "application/json")
	agent.Set("Accept", "application/json")
	if c.apiKey != "" {
		agent.Set("Authorization", "Bearer "+c.apiKey)
	}

	if body != nil {
		agent.JSON(body)
	}

	return agent, nil
}

// doRequest sends the HTTP request and decodes the response into v
func (c *APIClient) doRequest(agent *fiber.Agent, v interface{}) error {
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("error sending request: %w", errs[0])
	}

	if statusCode < 200 || statusCode >= 300 {
		return &fiber.Error{
			Code:    statusCode,
			Message: string(body),
		}
	}

	if v != nil && len(body) > 0 {
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("error decoding response: %w", err)
		}
	}

	return nil
}

// executeRequest creates an agent, sends the request, and processes the response
func (c *APIClient) executeRequest(ctx context.Context, method, endpoint string, body, response interface{}) error {
	agent, err := c.createAgent(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	return c.doRequest(agent, response)
}

// HealthCheck checks the health of the API server
func (c *APIClient) HealthCheck(ctx context.Context) (map[string]string, error) {
	var response map[string]string
	err := c.executeRequest(ctx, http.MethodGet, "/api/v1/health", nil, &response)
	return response, err
}

// Register creates a new user and returns the profile including the API key
func (c *APIClient) Register(ctx context.Context, name string) (models.User, error) {
	var user models.User
	req := handlers.RegisterRequest{Name: name}
	err := c.executeRequest(ctx, http.MethodPost, "/api/v1/public/register", req, &user)
	return user, err
}

// Profile returns the authenticated user's profile
func (c *APIClient) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.executeRequest(ctx, http.MethodGet, "/api/v1/public/profile", nil, &user)
	return user, err
}

// ListInstruments returns all tradable instruments
func (c *APIClient) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	var instruments []models.Instrument
	err := c.executeRequest(ctx, http.MethodGet, "/api/v1/public/instrument", nil, &instruments)
	return instruments, err
}

// GetOrderbook returns the aggregated order book of a ticker
func (c *APIClient) GetOrderbook(ctx context.Context, ticker string, limit int) (services.Orderbook, error) {
	var orderbook services.Orderbook
	endpoint := fmt.Sprintf("/api/v1/public/orderbook/%s?limit=%d", ticker, limit)
	err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &orderbook)
	return orderbook, err
}

// GetTransactions returns the recent trades of a ticker, newest first
func (c *APIClient) GetTransactions(ctx context.Context, ticker string, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	endpoint := fmt.Sprintf("/api/v1/public/transactions/%s?limit=%d", ticker, limit)
	err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &transactions)
	return transactions, err
}

// CreateOrder places a new limit or market order
func (c *APIClient) CreateOrder(ctx context.Context, req handlers.CreateOrderRequest) (handlers.OrderResponse, error) {
	var response handlers.OrderResponse
	err := c.executeRequest(ctx, http.MethodPost, "/api/v1/order", req, &response)
	return response, err
}

// GetOrder returns one of the authenticated user's orders
func (c *APIClient) GetOrder(ctx context.Context, id uuid.UUID) (handlers.OrderDetailResponse, error) {
	var response handlers.OrderDetailResponse
	err := c.executeRequest(ctx, http.MethodGet, "/api/v1/order/"+id.String(), nil, &response)
	return response, err
}

// ListOrders returns all of the authenticated user's orders
func (c *APIClient) ListOrders(ctx context.Context) ([]handlers.OrderDetailResponse, error) {
	var response []handlers.OrderDetailResponse
	err := c.executeRequest(ctx, http.MethodGet, "/api/v1/order", nil, &response)
	return response, err
}

// CancelOrder cancels an open order and releases its blocked funds
func (c *APIClient) CancelOrder(ctx context.Context, id uuid.UUID) error {
	return c.executeRequest(ctx, http.MethodDelete, "/api/v1/order/"+id.String(), nil, nil)
}

// GetBalances returns the authenticated user's available balance per ticker
func (c *APIClient) GetBalances(ctx context.Context) (map[string]int64, error) {
	var balances map[string]int64
	err := c.executeRequest(ctx, http.MethodGet, "/api/v1/balance", nil, &balances)
	return balances, err
}

// CreateInstrument adds a tradable instrument (admin only)
func (c *APIClient) CreateInstrument(ctx context.Context, instrument models.Instrument) error {
	return c.executeRequest(ctx, http.MethodPost, "/api/v1/admin/instrument", instrument, nil)
}

// DeleteInstrument removes an instrument (admin only)
func (c *APIClient) DeleteInstrument(ctx context.Context, ticker string) error {
	return c.executeRequest(ctx, http.MethodDelete, "/api/v1/admin/instrument/"+ticker, nil, nil)
}

// ListUsers returns registered users with pagination (admin only)
func (c *APIClient) ListUsers(ctx context.Context, opts *models.ListOptions) ([]models.User, error) {
	endpoint := "/api/v1/admin/user"
	if opts != nil {
		endpoint = fmt.Sprintf("%s?limit=%d&offset=%d", endpoint, opts.Limit, opts.Offset)
	}

	var users []models.User
	err := c.executeRequest(ctx, http.MethodGet, endpoint, nil, &users)
	return users, err
}

// DeleteUser deletes a user and returns the deleted profile (admin only)
func (c *APIClient) DeleteUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := c.executeRequest(ctx, http.MethodDelete, "/api/v1/admin/user/"+id.String(), nil, &user)
	return user, err
}

// Deposit credits a user's balance (admin only)
func (c *APIClient) Deposit(ctx context.Context, req handlers.DepositRequest) error {
	return c.executeRequest(ctx, http.MethodPost, "/api/v1/admin/balance/deposit", req, nil)
}

// Withdraw debits a user's available balance (admin only)
func (c *APIClient) Withdraw(ctx context.Context, req handlers.WithdrawRequest) error {
	return c.executeRequest(ctx, http.MethodPost, "/api/v1/admin/balance/withdraw", req, nil)
}
