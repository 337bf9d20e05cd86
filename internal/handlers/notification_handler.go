package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type notificationStore interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUserID(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, notificationID int64) error
}

type NotificationHandler struct {
	notificationRepo notificationStore
	now              func() time.Time
}

func NewNotificationHandler(notificationRepo notificationStore) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notificationRepo,
		now:              time.Now,
	}
}

type notificationRequest struct {
	UserID  int64  `json:"user_id"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var req notificationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	notification := &models.Notification{
		UserID:  req.UserID,
		Message: strings.TrimSpace(req.Message),
		Date:    strings.TrimSpace(req.Date),
	}
	if notification.UserID <= 0 || notification.Message == "" {
		return badRequest(c, "user_id and message are required")
	}
	if notification.Date == "" {
		notification.Date = h.now().Format(models.DateLayout)
	} else if !validDate(notification.Date) {
		return badRequest(c, "date must use the YYYY-MM-DD format")
	}

	if err := h.notificationRepo.Create(c.Context(), notification); err != nil {
		if isForeignKeyViolation(err) {
			return notFound(c, "User not found")
		}
		return internalError(c, "Failed to create notification")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Notification created",
		"notification": notification,
	})
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	notifications, err := h.notificationRepo.ListByUserID(c.Context(), userID)
	if err != nil {
		return internalError(c, "Failed to fetch notifications")
	}
	return c.JSON(notifications)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.notificationRepo.MarkRead(c.Context(), notificationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound(c, "Notification not found")
		}
		return internalError(c, "Failed to update notification")
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
