package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/repository"
)

type userLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type userProfileStore interface {
	userLookup
	UpdateProfile(ctx context.Context, id int64, input repository.UpdateProfileInput) error
}

type UserHandler struct {
	userRepo userProfileStore
}

func NewUserHandler(userRepo userProfileStore) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

type updateUserRequest struct {
	Username  string   `json:"username"`
	Name      *string  `json:"name"`
	Age       *int     `json:"age"`
	Weight    *float64 `json:"weight"`
	Height    *float64 `json:"height"`
	SportGoal *string  `json:"sport_goal"`
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to fetch user")
	}
	return c.JSON(user)
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return badRequest(c, "Username is required")
	}
	if (req.Age != nil && *req.Age < 0) || (req.Weight != nil && *req.Weight < 0) || (req.Height != nil && *req.Height < 0) {
		return badRequest(c, "Age, weight and height must not be negative")
	}

	err = h.userRepo.UpdateProfile(c.Context(), userID, repository.UpdateProfileInput{
		Username:  username,
		Name:      trimmedPtr(req.Name),
		Age:       req.Age,
		Weight:    req.Weight,
		Height:    req.Height,
		SportGoal: trimmedPtr(req.SportGoal),
	})
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return notFound(c, "User not found")
		case errors.As(err, &pgErr) && pgErr.Code == "23505":
			return errorResponse(c, fiber.StatusConflict, "Username already exists")
		default:
			return internalError(c, "Failed to update user")
		}
	}

	return c.JSON(fiber.Map{"message": "User updated"})
}
