package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/handlers"
	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

// APITestSuite exercises the HTTP API end to end against an in-memory
// database
type APITestSuite struct {
	suite.Suite
	db    *gorm.DB
	app   *fiber.App
	admin *models.User
}

func TestAPI(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Instrument{},
		&models.Balance{},
		&models.Order{},
		&models.Transaction{},
	)
	require.NoError(s.T(), err, "Failed to run database migrations")

	s.db = db
	s.app = New(db)

	s.admin = &models.User{Name: "admin", Role: models.UserRoleAdmin}
	require.NoError(s.T(), db.Create(s.admin).Error)
}

func (s *APITestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// request performs an HTTP request against the app and decodes the JSON
// response into out when it is non-nil
func (s *APITestSuite) request(method, path, apiKey string, body, out interface{}) int {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := s.app.Test(req, -1)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	if out != nil {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// registerUser registers a fresh user through the API
func (s *APITestSuite) registerUser(name string) models.User {
	var user models.User
	status := s.request(http.MethodPost, "/api/v1/public/register", "", handlers.RegisterRequest{Name: name}, &user)
	s.Require().Equal(http.StatusOK, status)
	s.Require().NotEmpty(user.APIKey)
	return user
}

// listInstrument lists a ticker through the admin API
func (s *APITestSuite) listInstrument(ticker, name string) {
	status := s.request(http.MethodPost, "/api/v1/admin/instrument", s.admin.APIKey,
		models.Instrument{Ticker: ticker, Name: name}, nil)
	s.Require().Equal(http.StatusOK, status)
}

// deposit credits a user through the admin API
func (s *APITestSuite) deposit(userID, ticker string, amount int64) {
	status := s.request(http.MethodPost, "/api/v1/admin/balance/deposit", s.admin.APIKey,
		fiber.Map{"user_id": userID, "ticker": ticker, "amount": amount}, nil)
	s.Require().Equal(http.StatusOK, status)
}

func (s *APITestSuite) TestHealth() {
	var body map[string]string
	status := s.request(http.MethodGet, "/api/v1/health", "", nil, &body)
	s.Equal(http.StatusOK, status)
	s.Equal("healthy", body["status"])
}

func (s *APITestSuite) TestRegisterAndProfile() {
	user := s.registerUser("alice")

	var profile models.User
	status := s.request(http.MethodGet, "/api/v1/public/profile", user.APIKey, nil, &profile)
	s.Equal(http.StatusOK, status)
	s.Equal(user.ID, profile.ID)
	s.Equal(models.UserRoleUser, profile.Role)
}

func (s *APITestSuite) TestAuthRequired() {
	status := s.request(http.MethodGet, "/api/v1/public/profile", "", nil, nil)
	s.Equal(http.StatusUnauthorized, status)

	status = s.request(http.MethodGet, "/api/v1/balance", "key-unknown", nil, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *APITestSuite) TestAdminOnly() {
	user := s.registerUser("bob")

	status := s.request(http.MethodPost, "/api/v1/admin/instrument", user.APIKey,
		models.Instrument{Ticker: "AAPL", Name: "Apple"}, nil)
	s.Equal(http.StatusForbidden, status)
}

func (s *APITestSuite) TestInstrumentLifecycle() {
	s.listInstrument("AAPL", "Apple")

	// Duplicate listing conflicts
	status := s.request(http.MethodPost, "/api/v1/admin/instrument", s.admin.APIKey,
		models.Instrument{Ticker: "AAPL", Name: "Apple"}, nil)
	s.Equal(http.StatusConflict, status)

	// Bad tickers are rejected
	status = s.request(http.MethodPost, "/api/v1/admin/instrument", s.admin.APIKey,
		models.Instrument{Ticker: "aapl", Name: "Apple"}, nil)
	s.Equal(http.StatusUnprocessableEntity, status)

	var instruments []models.Instrument
	status = s.request(http.MethodGet, "/api/v1/public/instrument", "", nil, &instruments)
	s.Equal(http.StatusOK, status)
	s.Len(instruments, 1)

	status = s.request(http.MethodDelete, "/api/v1/admin/instrument/AAPL", s.admin.APIKey, nil, nil)
	s.Equal(http.StatusOK, status)

	status = s.request(http.MethodDelete, "/api/v1/admin/instrument/AAPL", s.admin.APIKey, nil, nil)
	s.Equal(http.StatusNotFound, status)
}

func (s *APITestSuite) TestDepositWithdrawBalance() {
	user := s.registerUser("carol")
	s.deposit(user.ID.String(), models.CurrencyRUB, 1000)

	var balances map[string]int64
	status := s.request(http.MethodGet, "/api/v1/balance", user.APIKey, nil, &balances)
	s.Equal(http.StatusOK, status)
	s.Equal(int64(1000), balances[models.CurrencyRUB])

	status = s.request(http.MethodPost, "/api/v1/admin/balance/withdraw", s.admin.APIKey,
		fiber.Map{"user_id": user.ID.String(), "ticker": models.CurrencyRUB, "amount": 400}, nil)
	s.Equal(http.StatusOK, status)

	// Overdraft is rejected
	status = s.request(http.MethodPost, "/api/v1/admin/balance/withdraw", s.admin.APIKey,
		fiber.Map{"user_id": user.ID.String(), "ticker": models.CurrencyRUB, "amount": 601}, nil)
	s.Equal(http.StatusUnprocessableEntity, status)

	status = s.request(http.MethodGet, "/api/v1/balance", user.APIKey, nil, &balances)
	s.Equal(http.StatusOK, status)
	s.Equal(int64(600), balances[models.CurrencyRUB])
}

func (s *APITestSuite) TestOrderFlow() {
	s.listInstrument("MEMCOIN", "Mem Coin")

	seller := s.registerUser("seller")
	buyer := s.registerUser("buyer")
	s.deposit(seller.ID.String(), "MEMCOIN", 10)
	s.deposit(buyer.ID.String(), models.CurrencyRUB, 1000)

	var sellResp handlers.OrderResponse
	status := s.request(http.MethodPost, "/api/v1/order", seller.APIKey,
		handlers.CreateOrderRequest{Direction: models.OrderDirectionSell, Ticker: "MEMCOIN", Qty: 10, Price: int64Ptr(100)},
		&sellResp)
	s.Require().Equal(http.StatusOK, status)
	s.True(sellResp.Success)

	var buyResp handlers.OrderResponse
	status = s.request(http.MethodPost, "/api/v1/order", buyer.APIKey,
		handlers.CreateOrderRequest{Direction: models.OrderDirectionBuy, Ticker: "MEMCOIN", Qty: 4, Price: int64Ptr(100)},
		&buyResp)
	s.Require().Equal(http.StatusOK, status)

	var detail handlers.OrderDetailResponse
	status = s.request(http.MethodGet, "/api/v1/order/"+buyResp.OrderID, buyer.APIKey, nil, &detail)
	s.Equal(http.StatusOK, status)
	s.Equal(models.OrderStatusExecuted, detail.Status)
	s.Equal(int64(4), detail.Filled)

	// Orders are private to their owner
	status = s.request(http.MethodGet, "/api/v1/order/"+buyResp.OrderID, seller.APIKey, nil, nil)
	s.Equal(http.StatusNotFound, status)

	var orders []handlers.OrderDetailResponse
	status = s.request(http.MethodGet, "/api/v1/order", seller.APIKey, nil, &orders)
	s.Equal(http.StatusOK, status)
	s.Len(orders, 1)

	var book map[string][]map[string]int64
	status = s.request(http.MethodGet, "/api/v1/public/orderbook/MEMCOIN", "", nil, &book)
	s.Equal(http.StatusOK, status)
	s.Require().Len(book["ask_levels"], 1)
	s.Equal(int64(6), book["ask_levels"][0]["qty"])

	var trades []models.Transaction
	status = s.request(http.MethodGet, "/api/v1/public/transactions/MEMCOIN", "", nil, &trades)
	s.Equal(http.StatusOK, status)
	s.Require().Len(trades, 1)
	s.Equal(int64(4), trades[0].Amount)

	// Cancel the resting remainder
	status = s.request(http.MethodDelete, "/api/v1/order/"+sellResp.OrderID, seller.APIKey, nil, nil)
	s.Equal(http.StatusOK, status)

	status = s.request(http.MethodDelete, "/api/v1/order/"+sellResp.OrderID, seller.APIKey, nil, nil)
	s.Equal(http.StatusBadRequest, status)
}

func (s *APITestSuite) TestOrderInsufficientFunds() {
	s.listInstrument("MEMCOIN", "Mem Coin")
	buyer := s.registerUser("poor")
	s.deposit(buyer.ID.String(), models.CurrencyRUB, 50)

	var errBody map[string]string
	status := s.request(http.MethodPost, "/api/v1/order", buyer.APIKey,
		handlers.CreateOrderRequest{Direction: models.OrderDirectionBuy, Ticker: "MEMCOIN", Qty: 5, Price: int64Ptr(100)},
		&errBody)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(errBody["error"], "insufficient funds")

	// The rejection left a CANCELLED order in the history
	var orders []handlers.OrderDetailResponse
	status = s.request(http.MethodGet, "/api/v1/order", buyer.APIKey, nil, &orders)
	s.Equal(http.StatusOK, status)
	s.Require().Len(orders, 1)
	s.Equal(models.OrderStatusCancelled, orders[0].Status)
}

func (s *APITestSuite) TestOrderUnknownInstrument() {
	buyer := s.registerUser("dave")

	status := s.request(http.MethodPost, "/api/v1/order", buyer.APIKey,
		handlers.CreateOrderRequest{Direction: models.OrderDirectionBuy, Ticker: "GHOST", Qty: 1, Price: int64Ptr(1)}, nil)
	s.Equal(http.StatusBadRequest, status)
}

func (s *APITestSuite) TestRegisterEmptyName() {
	var errBody map[string]string
	status := s.request(http.MethodPost, "/api/v1/public/register", "", handlers.RegisterRequest{Name: ""}, &errBody)
	s.Equal(http.StatusBadRequest, status)
	s.Equal(handlers.ErrMsgUserCreateFailed, errBody["error"])
}

func (s *APITestSuite) TestListLimitValidation() {
	s.listInstrument("MEMCOIN", "Mem Coin")

	for _, path := range []string{
		"/api/v1/public/orderbook/MEMCOIN",
		"/api/v1/public/transactions/MEMCOIN",
	} {
		status := s.request(http.MethodGet, path+"?limit=0", "", nil, nil)
		s.Equal(http.StatusUnprocessableEntity, status, path)

		status = s.request(http.MethodGet, path+"?limit=1001", "", nil, nil)
		s.Equal(http.StatusUnprocessableEntity, status, path)

		status = s.request(http.MethodGet, path+"?limit=1000", "", nil, nil)
		s.Equal(http.StatusOK, status, path)
	}
}

func (s *APITestSuite) TestListUsers() {
	alice := s.registerUser("alice")
	s.registerUser("bob")

	var users []models.User
	status := s.request(http.MethodGet, "/api/v1/admin/user", s.admin.APIKey, nil, &users)
	s.Equal(http.StatusOK, status)
	s.Len(users, 3)

	status = s.request(http.MethodGet, "/api/v1/admin/user?limit=1&offset=1", s.admin.APIKey, nil, &users)
	s.Equal(http.StatusOK, status)
	s.Len(users, 1)

	status = s.request(http.MethodGet, "/api/v1/admin/user?limit=0", s.admin.APIKey, nil, nil)
	s.Equal(http.StatusUnprocessableEntity, status)

	status = s.request(http.MethodGet, "/api/v1/admin/user", alice.APIKey, nil, nil)
	s.Equal(http.StatusForbidden, status)
}

func (s *APITestSuite) TestDeleteUser() {
	user := s.registerUser("victim")

	var deleted models.User
	status := s.request(http.MethodDelete, fmt.Sprintf("/api/v1/admin/user/%s", user.ID), s.admin.APIKey, nil, &deleted)
	s.Equal(http.StatusOK, status)
	s.Equal(user.ID, deleted.ID)

	status = s.request(http.MethodGet, "/api/v1/public/profile", user.APIKey, nil, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func int64Ptr(v int64) *int64 {
	return &v
}
