package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type nutritionStore interface {
	Create(ctx context.Context, entry *models.NutritionEntry) error
	ListAll(ctx context.Context) ([]models.NutritionEntry, error)
	GetByID(ctx context.Context, id int64) (*models.NutritionEntry, error)
	Update(ctx context.Context, entry *models.NutritionEntry) error
	Delete(ctx context.Context, id int64) error
}

type NutritionHandler struct {
	nutritionRepo nutritionStore
}

func NewNutritionHandler(nutritionRepo nutritionStore) *NutritionHandler {
	return &NutritionHandler{nutritionRepo: nutritionRepo}
}

type nutritionRequest struct {
	Name            string `json:"name"`
	Ingredients     string `json:"ingredients"`
	PreparationTime int    `json:"preparation_time"`
	Calories        int    `json:"calories"`
	Category        string `json:"category"`
	GoalCategory    string `json:"goal_category"`
}

func (req nutritionRequest) entry() (*models.NutritionEntry, string) {
	entry := &models.NutritionEntry{
		Name:            strings.TrimSpace(req.Name),
		Ingredients:     strings.TrimSpace(req.Ingredients),
		PreparationTime: req.PreparationTime,
		Calories:        req.Calories,
		Category:        strings.TrimSpace(req.Category),
		GoalCategory:    strings.TrimSpace(req.GoalCategory),
	}
	if entry.Name == "" || entry.Ingredients == "" || entry.Category == "" || entry.GoalCategory == "" {
		return nil, "name, ingredients, category and goal_category are required"
	}
	if entry.PreparationTime < 0 || entry.Calories < 0 {
		return nil, "preparation_time and calories must not be negative"
	}
	return entry, ""
}

func (h *NutritionHandler) CreateEntry(c *fiber.Ctx) error {
	var req nutritionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	entry, validationErr := req.entry()
	if validationErr != "" {
		return badRequest(c, validationErr)
	}

	if err := h.nutritionRepo.Create(c.Context(), entry); err != nil {
		return internalError(c, "Failed to create nutrition entry")
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *NutritionHandler) ListEntries(c *fiber.Ctx) error {
	entries, err := h.nutritionRepo.ListAll(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch nutrition entries")
	}
	return c.JSON(entries)
}

func (h *NutritionHandler) GetEntry(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid nutrition id")
	}

	entry, err := h.nutritionRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "Nutrition entry not found")
		}
		return internalError(c, "Failed to fetch nutrition entry")
	}
	return c.JSON(entry)
}

func (h *NutritionHandler) UpdateEntry(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid nutrition id")
	}

	var req nutritionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	entry, validationErr := req.entry()
	if validationErr != "" {
		return badRequest(c, validationErr)
	}
	entry.ID = id

	if err := h.nutritionRepo.Update(c.Context(), entry); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "Nutrition entry not found")
		}
		return internalError(c, "Failed to update nutrition entry")
	}
	return c.JSON(entry)
}

func (h *NutritionHandler) DeleteEntry(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid nutrition id")
	}

	if err := h.nutritionRepo.Delete(c.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "Nutrition entry not found")
		}
		return internalError(c, "Failed to delete nutrition entry")
	}
	return c.JSON(fiber.Map{"message": "Nutrition entry deleted"})
}
