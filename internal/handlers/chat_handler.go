package handlers

import (
	"context"
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/scafette/ProjetDev/internal/middleware"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/services"
	chatws "github.com/scafette/ProjetDev/internal/websocket"
	"github.com/scafette/ProjetDev/pkg/utils"
)

type chatApplicationService interface {
	SendMessage(ctx context.Context, input services.SendMessageInput) (*models.Message, error)
	ListConversation(ctx context.Context, firstID int64, secondID int64) ([]models.Message, error)
	ListCoachConversation(ctx context.Context, userID int64) ([]models.Message, error)
	UpdateMessage(ctx context.Context, messageID int64, content string) error
	DeleteMessage(ctx context.Context, messageID int64) error
	MarkRead(ctx context.Context, input services.MarkReadInput) (int64, error)
}

type ChatHandler struct {
	service   chatApplicationService
	hub       *chatws.Hub
	jwtSecret string
}

type sendMessageRequest struct {
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Message    string `json:"message"`
}

type updateMessageRequest struct {
	Message string `json:"message"`
}

type markReadRequest struct {
	MessageIDs []int64 `json:"message_ids"`
	SenderID   int64   `json:"sender_id"`
	ReceiverID int64   `json:"receiver_id"`
}

func NewChatHandler(service chatApplicationService, hub *chatws.Hub, jwtSecret string) *ChatHandler {
	return &ChatHandler{
		service:   service,
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	message, err := h.service.SendMessage(c.Context(), services.SendMessageInput{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Message:    req.Message,
	})
	if err != nil {
		return mapChatError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *ChatHandler) GetConversation(c *fiber.Ctx) error {
	senderID, err := parseIDParam(c, "sender_id")
	if err != nil {
		return badRequest(c, "Invalid sender id")
	}
	receiverID, err := parseIDParam(c, "receiver_id")
	if err != nil {
		return badRequest(c, "Invalid receiver id")
	}

	messages, err := h.service.ListConversation(c.Context(), senderID, receiverID)
	if err != nil {
		return mapChatError(c, err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return c.JSON(messages)
}

func (h *ChatHandler) GetCoachConversation(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "user_id")
	if err != nil {
		return badRequest(c, "Invalid user id")
	}

	messages, err := h.service.ListCoachConversation(c.Context(), userID)
	if err != nil {
		return mapChatError(c, err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return c.JSON(messages)
}

func (h *ChatHandler) UpdateMessage(c *fiber.Ctx) error {
	messageID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid message id")
	}

	var req updateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.service.UpdateMessage(c.Context(), messageID, req.Message); err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message updated"})
}

func (h *ChatHandler) DeleteMessage(c *fiber.Ctx) error {
	messageID, err := parseIDParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid message id")
	}

	if err := h.service.DeleteMessage(c.Context(), messageID); err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}

func (h *ChatHandler) MarkRead(c *fiber.Ctx) error {
	var req markReadRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	updated, err := h.service.MarkRead(c.Context(), services.MarkReadInput{
		MessageIDs: req.MessageIDs,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
	})
	if err != nil {
		return mapChatError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Messages marked as read",
		"updated": updated,
	})
}

// WebSocketAuth accepts anonymous upgrades; a supplied token must be valid and
// pins the connection to its user.
func (h *ChatHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return errorResponse(c, fiber.StatusUpgradeRequired, "WebSocket upgrade required")
	}

	tokenString := wsToken(c)
	if tokenString == "" {
		return c.Next()
	}

	claims, err := utils.ValidateToken(tokenString, h.jwtSecret)
	if err != nil {
		return errorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *ChatHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := chatws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump(h.service)
}

func wsToken(c *fiber.Ctx) string {
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		return token
	}
	return middleware.BearerToken(c)
}

func mapChatError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return badRequest(c, "Invalid message request")
	case errors.Is(err, services.ErrMessageNotFound):
		return notFound(c, "Message not found")
	case errors.Is(err, services.ErrUserNotFound):
		return notFound(c, "User not found")
	case errors.Is(err, services.ErrNoCoachAssigned):
		return notFound(c, "No coach assigned")
	case isForeignKeyViolation(err):
		return notFound(c, "User not found")
	default:
		return internalError(c, "Failed to process message request")
	}
}
