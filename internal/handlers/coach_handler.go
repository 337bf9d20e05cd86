package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

type coachService interface {
	ListClients(ctx context.Context, coachID int64) ([]models.User, error)
	RemoveClient(ctx context.Context, coachID int64, clientID int64, reason string) (*models.ClientRemoval, error)
}

type CoachHandler struct {
	service coachService
}

func NewCoachHandler(service coachService) *CoachHandler {
	return &CoachHandler{service: service}
}

type removeClientRequest struct {
	CoachID int64  `json:"coach_id"`
	Reason  string `json:"reason"`
}

func (h *CoachHandler) ListClients(c *fiber.Ctx) error {
	coachID, err := parseIDParam(c, "coach_id")
	if err != nil {
		return badRequest(c, "Invalid coach id")
	}

	clients, err := h.service.ListClients(c.Context(), coachID)
	if err != nil {
		return internalError(c, "Failed to fetch clients")
	}
	if clients == nil {
		clients = []models.User{}
	}
	return c.JSON(clients)
}

func (h *CoachHandler) RemoveClient(c *fiber.Ctx) error {
	clientID, err := parseIDParam(c, "client_id")
	if err != nil {
		return badRequest(c, "Invalid client id")
	}

	var req removeClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.CoachID <= 0 || strings.TrimSpace(req.Reason) == "" {
		return badRequest(c, "coach_id and reason are required")
	}

	removal, err := h.service.RemoveClient(c.Context(), req.CoachID, clientID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return badRequest(c, "coach_id and reason are required")
		case errors.Is(err, services.ErrClientNotFound):
			return notFound(c, "Client not found for this coach")
		default:
			return internalError(c, "Failed to remove client")
		}
	}

	return c.JSON(fiber.Map{
		"message": "Client removed",
		"removal": removal,
	})
}
