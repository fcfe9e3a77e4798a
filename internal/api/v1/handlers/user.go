package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/middleware"
	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	user *services.User
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(user *services.User) *UserHandler {
	return &UserHandler{user: user}
}

// Register creates a new user and returns the profile including the API key
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgInvalidReqFormat)
	}

	user, err := h.user.Register(c.Context(), req.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, ErrMsgUserCreateFailed)
	}
	return c.JSON(user)
}

// Profile returns the authenticated user's profile
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// ListUsers returns registered users with pagination (admin only)
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", models.DefaultListLimit)
	offset := c.QueryInt("offset", 0)
	if limit < 1 || limit > models.MaxListLimit || offset < 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidLimit)
	}

	users, err := h.user.ListUsers(c.Context(), &models.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, ErrMsgInternal)
	}
	return c.JSON(users)
}

// DeleteUser deletes a user by id and returns the deleted profile
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, ErrMsgInvalidReqFormat)
	}

	user, err := h.user.DeleteUser(c.Context(), userID)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, ErrMsgUserNotFound)
	}
	return c.JSON(user)
}
