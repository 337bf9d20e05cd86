package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

type authService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, username string, password string) (*services.LoginResult, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword string, newPassword string) error
}

type AuthHandler struct {
	service  authService
	userRepo userLookup
}

func NewAuthHandler(service authService, userRepo userLookup) *AuthHandler {
	return &AuthHandler{
		service:  service,
		userRepo: userRepo,
	}
}

type registerRequest struct {
	Username  string   `json:"username"`
	Email     *string  `json:"email"`
	Password  string   `json:"password"`
	Name      *string  `json:"name"`
	Age       *int     `json:"age"`
	Weight    *float64 `json:"weight"`
	Height    *float64 `json:"height"`
	SportGoal *string  `json:"sport_goal"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	user, err := h.service.Register(c.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     trimmedPtr(req.Email),
		Password:  req.Password,
		Name:      trimmedPtr(req.Name),
		Age:       req.Age,
		Weight:    req.Weight,
		Height:    req.Height,
		SportGoal: trimmedPtr(req.SportGoal),
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return badRequest(c, "Password must be at least 6 characters")
		case errors.Is(err, services.ErrConflict):
			return errorResponse(c, fiber.StatusConflict, "Username already exists")
		default:
			return internalError(c, "Failed to register user")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered",
		"user_id": user.ID,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return badRequest(c, "Username and password are required")
	}

	result, err := h.service.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, services.ErrUserBanned):
			return errorResponse(c, fiber.StatusForbidden, "User is banned")
		default:
			return internalError(c, "Failed to login")
		}
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user_id": result.User.ID,
		"role":    result.User.Role,
		"token":   result.Token,
	})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid token")
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

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return badRequest(c, "old_password and new_password are required")
	}

	if err := h.service.ChangePassword(c.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return notFound(c, "User not found")
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorResponse(c, fiber.StatusUnauthorized, "Old password is incorrect")
		case errors.Is(err, services.ErrInvalidInput):
			return badRequest(c, "Password must be at least 6 characters")
		default:
			return internalError(c, "Failed to change password")
		}
	}

	return c.JSON(fiber.Map{"message": "Password updated"})
}
