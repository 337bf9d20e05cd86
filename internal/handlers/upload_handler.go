package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
)

type uploadService interface {
	Upload(ctx context.Context, input services.UploadInput) (*models.UploadedFile, error)
}

type UploadHandler struct {
	service uploadService
}

func NewUploadHandler(service uploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}

	var uploadedBy *int64
	if raw := strings.TrimSpace(c.FormValue("user_id")); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			return badRequest(c, "Invalid user id")
		}
		uploadedBy = &userID
	}

	file, err := fileHeader.Open()
	if err != nil {
		return internalError(c, "Failed to open uploaded file")
	}
	defer file.Close()

	record, err := h.service.Upload(c.Context(), services.UploadInput{
		File:       file,
		Filename:   fileHeader.Filename,
		UploadedBy: uploadedBy,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return badRequest(c, "Invalid upload")
		case errors.Is(err, services.ErrStorageUnavailable):
			return errorResponse(c, fiber.StatusServiceUnavailable, "Storage service is not configured")
		case isForeignKeyViolation(err):
			return notFound(c, "User not found")
		default:
			return internalError(c, "Failed to upload file")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "File uploaded",
		"file":    record,
	})
}
