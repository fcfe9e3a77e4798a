package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/middleware"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	order *services.Order
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(order *services.Order) *OrderHandler {
	return &OrderHandler{order: order}
}

// CreateOrder places a limit or market order for the authenticated user
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgInvalidReqFormat)
	}

	user := middleware.CurrentUser(c)
	order, err := h.order.CreateOrder(c.Context(), services.CreateOrderInput{
		UserID:    user.ID,
		Direction: req.Direction,
		Ticker:    req.Ticker,
		Qty:       req.Qty,
		Price:     req.Price,
	})
	if errors.Is(err, services.ErrInsufficientFunds) {
		// The rejected order was persisted as CANCELLED
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, services.ErrUnknownInstrument) {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgInstrumentNotFound)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(OrderResponse{Success: true, OrderID: order.ID.String()})
}

// ListOrders returns all orders of the authenticated user, newest first
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	orders, err := h.order.ListOrders(c.Context(), user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}

	response := make([]OrderDetailResponse, 0, len(orders))
	for i := range orders {
		response = append(response, NewOrderDetailResponse(&orders[i]))
	}
	return c.JSON(response)
}

// GetOrder returns one order of the authenticated user
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidReqFormat)
	}

	user := middleware.CurrentUser(c)
	order, err := h.order.GetOrder(c.Context(), user.ID, orderID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, ErrMsgOrderNotFound)
	}
	return c.JSON(NewOrderDetailResponse(order))
}

// CancelOrder cancels an open order of the authenticated user
func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidReqFormat)
	}

	user := middleware.CurrentUser(c)
	order, err := h.order.CancelOrder(c.Context(), user.ID, orderID)
	if errors.Is(err, services.ErrOrderNotFound) {
		return fiber.NewError(fiber.StatusNotFound, ErrMsgOrderNotFound)
	}
	if errors.Is(err, services.ErrOrderNotOpen) {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgOrderNotOpen)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}

	return c.JSON(OrderResponse{Success: true, OrderID: order.ID.String()})
}
