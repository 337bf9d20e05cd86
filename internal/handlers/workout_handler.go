package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/repository"
)

type workoutStore interface {
	Create(ctx context.Context, userID int64, input repository.WorkoutInput) (*models.Workout, error)
	Update(ctx context.Context, workoutID int64, input repository.WorkoutInput) error
	UpdateStatus(ctx context.Context, workoutID int64, status string) error
	Delete(ctx context.Context, workoutID int64) error
	ListByUserID(ctx context.Context, userID int64) ([]models.Workout, error)
	StatsByUserID(ctx context.Context, userID int64) (*models.WorkoutStats, error)
}

type WorkoutHandler struct {
	workoutRepo workoutStore
}

func NewWorkoutHandler(workoutRepo workoutStore) *WorkoutHandler {
	return &WorkoutHandler{workoutRepo: workoutRepo}
}

type workoutRequest struct {
	UserID    int64  `json:"user_id"`
	Date      string `json:"date"`
	Type      string `json:"type"`
	Duration  int    `json:"duration"`
	Exercises string `json:"exercises"`
}

type workoutStatusRequest struct {
	Status string `json:"status"`
}

func (req workoutRequest) input() (repository.WorkoutInput, string) {
	input := repository.WorkoutInput{
		Date:      strings.TrimSpace(req.Date),
		Type:      strings.TrimSpace(req.Type),
		Duration:  req.Duration,
		Exercises: strings.TrimSpace(req.Exercises),
	}
	switch {
	case input.Date == "" || input.Type == "":
		return input, "date and type are required"
	case !validDate(input.Date):
		return input, "date must use the YYYY-MM-DD format"
	case input.Duration <= 0:
		return input, "duration must be a positive number of minutes"
	}
	return input, ""
}

func (h *WorkoutHandler) CreateWorkout(c *fiber.Ctx) error {
	var req workoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.UserID <= 0 {
		return badRequest(c, "user_id is required")
	}
	input, validationErr := req.input()
	if validationErr != "" {
		return badRequest(c, validationErr)
	}

	workout, err := h.workoutRepo.Create(c.Context(), req.UserID, input)
	if err != nil {
		if isForeignKeyViolation(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to create workout")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Workout added",
		"workout": workout,
	})
}

func (h *WorkoutHandler) UpdateWorkout(c *fiber.Ctx) error {
	workoutID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid workout id")
	}

	var req workoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	input, validationErr := req.input()
	if validationErr != "" {
		return badRequest(c, validationErr)
	}

	if err := h.workoutRepo.Update(c.Context(), workoutID, input); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "Workout not found")
		}
		return internalError(c, "Failed to update workout")
	}
	return c.JSON(fiber.Map{"message": "Workout updated"})
}

// UpdateStatus is the coach review path: a workout is approved or rejected.
func (h *WorkoutHandler) UpdateStatus(c *fiber.Ctx) error {
	workoutID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid workout id")
	}

	var req workoutStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case models.WorkoutStatusPending, models.WorkoutStatusApproved, models.WorkoutStatusRejected:
	default:
		return badRequest(c, "status must be pending, approved or rejected")
	}

	if err := h.workoutRepo.UpdateStatus(c.Context(), workoutID, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "Workout not found")
		}
		return internalError(c, "Failed to update workout status")
	}
	return c.JSON(fiber.Map{"message": "Workout status updated", "status": status})
}

func (h *WorkoutHandler) DeleteWorkout(c *fiber.Ctx) error {
	workoutID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid workout id")
	}

	if err := h.workoutRepo.Delete(c.Context(), workoutID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "Workout not found")
		}
		return internalError(c, "Failed to delete workout")
	}
	return c.JSON(fiber.Map{"message": "Workout deleted"})
}

func (h *WorkoutHandler) ListWorkouts(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	workouts, err := h.workoutRepo.ListByUserID(c.Context(), userID)
	if err != nil {
		return internalError(c, "Failed to fetch workouts")
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	return c.JSON(workouts)
}

func (h *WorkoutHandler) GetStats(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	stats, err := h.workoutRepo.StatsByUserID(c.Context(), userID)
	if err != nil {
		return internalError(c, "Failed to compute stats")
	}
	return c.JSON(stats)
}
