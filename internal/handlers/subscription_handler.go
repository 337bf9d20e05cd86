package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

type subscriptionService interface {
	ListPlans(ctx context.Context) ([]models.Subscription, error)
	CreatePlan(ctx context.Context, plan *models.Subscription) error
	Claim(ctx context.Context, userID int64, subscriptionName string) (*models.Subscription, error)
}

type SubscriptionHandler struct {
	service subscriptionService
}

func NewSubscriptionHandler(service subscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

type subscriptionPlanRequest struct {
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Color    string   `json:"color"`
	Features []string `json:"features"`
}

type claimSubscriptionRequest struct {
	SubscriptionName string `json:"subscription_name"`
}

func (h *SubscriptionHandler) ListPlans(c *fiber.Ctx) error {
	plans, err := h.service.ListPlans(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch subscriptions")
	}
	return c.JSON(plans)
}

func (h *SubscriptionHandler) CreatePlan(c *fiber.Ctx) error {
	var req subscriptionPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan := &models.Subscription{
		Name:     req.Name,
		Price:    req.Price,
		Color:    req.Color,
		Features: req.Features,
	}
	if err := h.service.CreatePlan(c.Context(), plan); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return badRequest(c, "name, price and color are required")
		case errors.As(err, &pgErr) && pgErr.Code == "23505":
			return errorResponse(c, fiber.StatusConflict, "Subscription already exists")
		default:
			return internalError(c, "Failed to create subscription")
		}
	}
	if plan.Features == nil {
		plan.Features = []string{}
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// Claim assigns a plan to a user. Unexpected failures report their cause.
func (h *SubscriptionHandler) Claim(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req claimSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	plan, err := h.service.Claim(c.Context(), userID, req.SubscriptionName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return badRequest(c, "subscription_name is required")
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, "User not found")
		case errors.Is(err, services.ErrSubscriptionNotFound):
			return notFound(c, "Subscription not found")
		default:
			return internalError(c, "Error: "+err.Error())
		}
	}

	return c.JSON(fiber.Map{
		"message":      "Subscription updated",
		"subscription": plan,
	})
}
