package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(
	ctx context.Context,
	senderID int64,
	receiverID int64,
	content string,
) (*models.Message, error) {
	query := `
		INSERT INTO messages (sender_id, receiver_id, message, is_read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, sender_id, receiver_id, message, timestamp, is_read
	`
	return scanMessage(r.db.QueryRow(ctx, query, senderID, receiverID, content))
}

// ListBetween returns both directions of a conversation, oldest first.
func (r *MessageRepository) ListBetween(ctx context.Context, firstID int64, secondID int64) ([]models.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, sender_id, receiver_id, message, timestamp, is_read
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY timestamp ASC, id ASC
	`, firstID, secondID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *MessageRepository) UpdateContent(ctx context.Context, messageID int64, content string) error {
	tag, err := r.db.Exec(ctx, `UPDATE messages SET message = $1 WHERE id = $2`, content, messageID)
	return affectedOrNoRows(tag, err)
}

func (r *MessageRepository) Delete(ctx context.Context, messageID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, messageID)
	return affectedOrNoRows(tag, err)
}

// MarkRead flags the given messages as read and reports how many changed state.
func (r *MessageRepository) MarkRead(ctx context.Context, messageIDs []int64) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE id = ANY($1)
		  AND is_read = FALSE
	`, messageIDs)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// MarkConversationRead flags every unread message sent by senderID to receiverID.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, senderID int64, receiverID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE messages
		SET is_read = TRUE
		WHERE sender_id = $1
		  AND receiver_id = $2
		  AND is_read = FALSE
	`, senderID, receiverID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanMessage(row pgx.Row) (*models.Message, error) {
	var message models.Message
	if err := row.Scan(
		&message.ID,
		&message.SenderID,
		&message.ReceiverID,
		&message.Message,
		&message.Timestamp,
		&message.IsRead,
	); err != nil {
		return nil, err
	}
	return &message, nil
}
