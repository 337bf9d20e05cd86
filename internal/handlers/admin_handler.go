package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

type adminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ChangeRole(ctx context.Context, userID int64, role string) error
	AssignCoach(ctx context.Context, userID int64, coachID *int64) error
	ListUpcomingWorkouts(ctx context.Context) ([]models.ScheduledWorkout, error)
	BanUser(ctx context.Context, userID int64, reason string) error
	UnbanUser(ctx context.Context, userID int64) error
	ListBannedUsers(ctx context.Context) ([]models.BannedUser, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type AdminHandler struct {
	service adminService
}

func NewAdminHandler(service adminService) *AdminHandler {
	return &AdminHandler{service: service}
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

type assignCoachRequest struct {
	CoachID *int64 `json:"coach_id"`
}

type banUserRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch users")
	}
	if users == nil {
		users = []models.User{}
	}
	return c.JSON(users)
}

func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req changeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.service.ChangeRole(c.Context(), userID, req.Role); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return badRequest(c, "role must be user, coach or admin")
		}
		return mapAdminError(c, err, "Failed to change role")
	}
	return c.JSON(fiber.Map{"message": "Role updated", "role": req.Role})
}

// AssignCoach sets or clears the coach of a user; a null coach_id unassigns.
func (h *AdminHandler) AssignCoach(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req assignCoachRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.service.AssignCoach(c.Context(), userID, req.CoachID); err != nil {
		return mapAdminError(c, err, "Failed to assign coach")
	}
	if req.CoachID == nil {
		return c.JSON(fiber.Map{"message": "Coach unassigned"})
	}
	return c.JSON(fiber.Map{"message": "Coach assigned", "coach_id": *req.CoachID})
}

func (h *AdminHandler) ListUpcomingWorkouts(c *fiber.Ctx) error {
	workouts, err := h.service.ListUpcomingWorkouts(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch workouts")
	}
	if workouts == nil {
		workouts = []models.ScheduledWorkout{}
	}
	return c.JSON(workouts)
}

func (h *AdminHandler) BanUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req banUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.service.BanUser(c.Context(), userID, req.Reason); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return badRequest(c, "reason is required")
		}
		return mapAdminError(c, err, "Failed to ban user")
	}
	return c.JSON(fiber.Map{"message": "User banned"})
}

func (h *AdminHandler) UnbanUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.service.UnbanUser(c.Context(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return notFound(c, "User is not banned")
		}
		return mapAdminError(c, err, "Failed to unban user")
	}
	return c.JSON(fiber.Map{"message": "User unbanned"})
}

func (h *AdminHandler) ListBannedUsers(c *fiber.Ctx) error {
	banned, err := h.service.ListBannedUsers(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch banned users")
	}
	if banned == nil {
		banned = []models.BannedUser{}
	}
	return c.JSON(banned)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	if err := h.service.DeleteUser(c.Context(), userID); err != nil {
		return mapAdminError(c, err, "Failed to delete user")
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

func mapAdminError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return badRequest(c, "Invalid request")
	case errors.Is(err, services.ErrNotCoach):
		return badRequest(c, "Target user is not a coach")
	case errors.Is(err, services.ErrUserNotFound):
		return notFound(c, "User not found")
	case errors.Is(err, services.ErrCoachNotFound):
		return notFound(c, "Coach not found")
	default:
		return internalError(c, fallback)
	}
}
