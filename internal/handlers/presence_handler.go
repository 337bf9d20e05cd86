package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

type presenceService interface {
	ListOnlineUsers(ctx context.Context) ([]models.User, error)
	GetPresence(ctx context.Context, userID int64) (*services.UserPresence, error)
}

type PresenceHandler struct {
	service presenceService
}

func NewPresenceHandler(service presenceService) *PresenceHandler {
	return &PresenceHandler{service: service}
}

func (h *PresenceHandler) ListOnlineUsers(c *fiber.Ctx) error {
	users, err := h.service.ListOnlineUsers(c.Context())
	if err != nil {
		return mapPresenceError(c, err)
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

func (h *PresenceHandler) GetPresence(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	presence, err := h.service.GetPresence(c.Context(), userID)
	if err != nil {
		return mapPresenceError(c, err)
	}
	return c.JSON(presence)
}

func mapPresenceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return badRequest(c, "Invalid user id")
	case errors.Is(err, services.ErrPresenceUnavailable):
		return errorResponse(c, fiber.StatusServiceUnavailable, "Presence is not available")
	default:
		return internalError(c, "Failed to fetch presence")
	}
}
