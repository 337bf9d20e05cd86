package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type goalStore interface {
	Create(ctx context.Context, goal *models.Goal) error
	GetFirstByUserID(ctx context.Context, userID int64) (*models.Goal, error)
}

type GoalHandler struct {
	goalRepo goalStore
}

func NewGoalHandler(goalRepo goalStore) *GoalHandler {
	return &GoalHandler{goalRepo: goalRepo}
}

type goalRequest struct {
	UserID          int64   `json:"user_id"`
	GoalType        string  `json:"goal_type"`
	TargetDate      string  `json:"target_date"`
	CurrentProgress float64 `json:"current_progress"`
}

func (h *GoalHandler) CreateGoal(c *fiber.Ctx) error {
	var req goalRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	goal := &models.Goal{
		UserID:          req.UserID,
		GoalType:        strings.TrimSpace(req.GoalType),
		TargetDate:      strings.TrimSpace(req.TargetDate),
		CurrentProgress: req.CurrentProgress,
	}
	switch {
	case goal.UserID <= 0 || goal.GoalType == "" || goal.TargetDate == "":
		return badRequest(c, "user_id, goal_type and target_date are required")
	case !validDate(goal.TargetDate):
		return badRequest(c, "target_date must use the YYYY-MM-DD format")
	case goal.CurrentProgress < 0:
		return badRequest(c, "current_progress must not be negative")
	}

	if err := h.goalRepo.Create(c.Context(), goal); err != nil {
		if isForeignKeyViolation(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to create goal")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Goal set",
		"goal":    goal,
	})
}

func (h *GoalHandler) GetGoal(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	goal, err := h.goalRepo.GetFirstByUserID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "No goal set")
		}
		return internalError(c, "Failed to fetch goal")
	}
	return c.JSON(goal)
}
