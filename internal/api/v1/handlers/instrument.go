package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// InstrumentHandler handles HTTP requests for the instrument listing
type InstrumentHandler struct {
	instrument *services.Instrument
}

// NewInstrumentHandler creates a new InstrumentHandler instance
func NewInstrumentHandler(instrument *services.Instrument) *InstrumentHandler {
	return &InstrumentHandler{instrument: instrument}
}

// ListInstruments returns all listed instruments
func (h *InstrumentHandler) ListInstruments(c *fiber.Ctx) error {
	instruments, err := h.instrument.ListInstruments(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.JSON(instruments)
}

// CreateInstrument lists a new instrument
func (h *InstrumentHandler) CreateInstrument(c *fiber.Ctx) error {
	var instrument models.Instrument
	if err := c.BodyParser(&instrument); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidReqFormat)
	}

	err := h.instrument.CreateInstrument(c.Context(), &instrument)
	if errors.Is(err, services.ErrInstrumentExists) {
		return fiber.NewError(fiber.StatusConflict, ErrMsgInstrumentExists)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(instrument)
}

// DeleteInstrument removes an instrument from the listing
func (h *InstrumentHandler) DeleteInstrument(c *fiber.Ctx) error {
	ticker := c.Params("ticker")
	if err := models.ValidateTicker(ticker); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	if err := h.instrument.DeleteInstrument(c.Context(), ticker); err != nil {
		return fiber.NewError(fiber.StatusNotFound, ErrMsgInstrumentNotFound)
	}
	return c.JSON(OkResponse{Success: true})
}
