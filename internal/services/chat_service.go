package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type messageStore interface {
	Create(ctx context.Context, senderID int64, receiverID int64, content string) (*models.Message, error)
	ListBetween(ctx context.Context, firstID int64, secondID int64) ([]models.Message, error)
	UpdateContent(ctx context.Context, messageID int64, content string) error
	Delete(ctx context.Context, messageID int64) error
	MarkRead(ctx context.Context, messageIDs []int64) (int64, error)
	MarkConversationRead(ctx context.Context, senderID int64, receiverID int64) (int64, error)
}

// MessagePublisher receives every stored message for real-time fan-out.
type MessagePublisher interface {
	PublishMessage(message *models.Message)
}

type ChatService struct {
	messageRepo messageStore
	userRepo    userReader
	publisher   MessagePublisher
}

type SendMessageInput struct {
	SenderID   int64
	ReceiverID int64
	Message    string
}

type MarkReadInput struct {
	MessageIDs []int64
	SenderID   int64
	ReceiverID int64
}

func NewChatService(messageRepo messageStore, userRepo userReader, publisher MessagePublisher) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		publisher:   publisher,
	}
}

// SendMessage is the single send path shared by REST and the websocket channel:
// the message is persisted first and only then handed to the publisher.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*models.Message, error) {
	if input.SenderID <= 0 || input.ReceiverID <= 0 {
		return nil, ErrInvalidInput
	}

	content := strings.TrimSpace(input.Message)
	if content == "" {
		return nil, ErrInvalidInput
	}

	message, err := s.messageRepo.Create(ctx, input.SenderID, input.ReceiverID, content)
	if err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	if s.publisher != nil {
		s.publisher.PublishMessage(message)
	}
	return message, nil
}

func (s *ChatService) ListConversation(ctx context.Context, firstID int64, secondID int64) ([]models.Message, error) {
	if firstID <= 0 || secondID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.messageRepo.ListBetween(ctx, firstID, secondID)
}

func (s *ChatService) ListCoachConversation(ctx context.Context, userID int64) ([]models.Message, error) {
	user, err := lookupUser(ctx, s.userRepo, userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	if user.CoachID == nil {
		return nil, ErrNoCoachAssigned
	}
	return s.messageRepo.ListBetween(ctx, user.ID, *user.CoachID)
}

func (s *ChatService) UpdateMessage(ctx context.Context, messageID int64, content string) error {
	trimmed := strings.TrimSpace(content)
	if messageID <= 0 || trimmed == "" {
		return ErrInvalidInput
	}
	return mapMessageError(s.messageRepo.UpdateContent(ctx, messageID, trimmed))
}

func (s *ChatService) DeleteMessage(ctx context.Context, messageID int64) error {
	if messageID <= 0 {
		return ErrInvalidInput
	}
	return mapMessageError(s.messageRepo.Delete(ctx, messageID))
}

// MarkRead accepts either explicit ids or a sender/receiver pair. Repeating the
// call leaves the same final state.
func (s *ChatService) MarkRead(ctx context.Context, input MarkReadInput) (int64, error) {
	if len(input.MessageIDs) > 0 {
		for _, id := range input.MessageIDs {
			if id <= 0 {
				return 0, ErrInvalidInput
			}
		}
		return s.messageRepo.MarkRead(ctx, input.MessageIDs)
	}
	if input.SenderID <= 0 || input.ReceiverID <= 0 {
		return 0, ErrInvalidInput
	}
	return s.messageRepo.MarkConversationRead(ctx, input.SenderID, input.ReceiverID)
}

func mapMessageError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrMessageNotFound
	}
	return err
}

func FormatChatTimestamp(ts time.Time) string {
	return ts.UTC().Format(time.RFC3339)
}
