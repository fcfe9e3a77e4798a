package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// MarketDataHandler handles the public order book and trade history endpoints
type MarketDataHandler struct {
	marketData *services.MarketData
}

// NewMarketDataHandler creates a new MarketDataHandler instance
func NewMarketDataHandler(marketData *services.MarketData) *MarketDataHandler {
	return &MarketDataHandler{marketData: marketData}
}

// GetOrderbook returns the aggregated bid and ask levels of a ticker
func (h *MarketDataHandler) GetOrderbook(c *fiber.Ctx) error {
	ticker := c.Params("ticker")
	if err := models.ValidateTicker(ticker); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	limit := c.QueryInt("limit", models.DefaultListLimit)
	if limit < 1 || limit > models.MaxListLimit {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidLimit)
	}

	orderbook, err := h.marketData.GetOrderbook(c.Context(), ticker, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.JSON(orderbook)
}

// GetTransactions returns the recent trades of a ticker, newest first
func (h *MarketDataHandler) GetTransactions(c *fiber.Ctx) error {
	ticker := c.Params("ticker")
	if err := models.ValidateTicker(ticker); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	limit := c.QueryInt("limit", models.DefaultListLimit)
	if limit < 1 || limit > models.MaxListLimit {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidLimit)
	}

	transactions, err := h.marketData.GetTransactions(c.Context(), ticker, limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.JSON(transactions)
}
