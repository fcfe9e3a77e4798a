package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/middleware"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// BalanceHandler handles HTTP requests for balance operations
type BalanceHandler struct {
	balance *services.Balance
}

// NewBalanceHandler creates a new BalanceHandler instance
func NewBalanceHandler(balance *services.Balance) *BalanceHandler {
	return &BalanceHandler{balance: balance}
}

// GetBalances returns the authenticated user's available balances per ticker
func (h *BalanceHandler) GetBalances(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	balances, err := h.balance.GetUserBalances(c.Context(), user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.JSON(balances)
}

// Deposit credits a user's balance (admin only)
func (h *BalanceHandler) Deposit(c *fiber.Ctx) error {
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidReqFormat)
	}

	err := h.balance.Deposit(c.Context(), req.UserID, req.Ticker, req.Amount)
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgUserNotFound)
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.JSON(OkResponse{Success: true})
}

// Withdraw debits a user's available balance (admin only)
func (h *BalanceHandler) Withdraw(c *fiber.Ctx) error {
	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidReqFormat)
	}

	err := h.balance.Withdraw(c.Context(), req.UserID, req.Ticker, req.Amount)
	switch {
	case errors.Is(err, services.ErrInvalidAmount), errors.Is(err, services.ErrInsufficientFunds):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgUserNotFound)
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.JSON(OkResponse{Success: true})
}
