package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scafette/ProjetDev/internal/models"
)

type exerciseStore interface {
	Create(ctx context.Context, exercise *models.Exercise) error
	ListAll(ctx context.Context) ([]models.Exercise, error)
}

type newsStore interface {
	Create(ctx context.Context, post *models.NewsPost) error
	ListRecent(ctx context.Context) ([]models.NewsPost, error)
	GetRandom(ctx context.Context) (*models.NewsPost, error)
}

// CatalogHandler serves the read-mostly content: the exercise library and news posts.
type CatalogHandler struct {
	exerciseRepo exerciseStore
	newsRepo     newsStore
}

func NewCatalogHandler(exerciseRepo exerciseStore, newsRepo newsStore) *CatalogHandler {
	return &CatalogHandler{
		exerciseRepo: exerciseRepo,
		newsRepo:     newsRepo,
	}
}

type exerciseRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type newsRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
}

func (h *CatalogHandler) ListExercises(c *fiber.Ctx) error {
	exercises, err := h.exerciseRepo.ListAll(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch exercises")
	}
	return c.JSON(exercises)
}

func (h *CatalogHandler) CreateExercise(c *fiber.Ctx) error {
	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	exercise := &models.Exercise{
		Name:        strings.TrimSpace(req.Name),
		Description: trimmedPtr(req.Description),
		Category:    trimmedPtr(req.Category),
	}
	if exercise.Name == "" {
		return badRequest(c, "name is required")
	}

	if err := h.exerciseRepo.Create(c.Context(), exercise); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return errorResponse(c, fiber.StatusConflict, "Exercise already exists")
		}
		return internalError(c, "Failed to create exercise")
	}
	return c.Status(fiber.StatusCreated).JSON(exercise)
}

func (h *CatalogHandler) CreateNews(c *fiber.Ctx) error {
	var req newsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	post := &models.NewsPost{
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		ImageURL: trimmedPtr(req.ImageURL),
	}
	if post.Title == "" || post.Content == "" {
		return badRequest(c, "title and content are required")
	}

	if err := h.newsRepo.Create(c.Context(), post); err != nil {
		return internalError(c, "Failed to create news post")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "News post created",
		"post":    post,
	})
}

func (h *CatalogHandler) ListNews(c *fiber.Ctx) error {
	posts, err := h.newsRepo.ListRecent(c.Context())
	if err != nil {
		return internalError(c, "Failed to fetch news")
	}
	return c.JSON(posts)
}

func (h *CatalogHandler) RandomNews(c *fiber.Ctx) error {
	post, err := h.newsRepo.GetRandom(c.Context())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "No news available")
		}
		return internalError(c, "Failed to fetch news")
	}
	return c.JSON(post)
}
