package repository

import (
	"context"

	"github.com/scafette/ProjetDev/internal/models"
)

type NotificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO notifications (user_id, message, date)
		VALUES ($1, $2, $3)
		RETURNING id, is_read
	`, notification.UserID, notification.Message, notification.Date).Scan(&notification.ID, &notification.IsRead)
}

func (r *NotificationRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Notification, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, message, date, is_read
		FROM notifications
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Message,
			&notification.Date,
			&notification.IsRead,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, notificationID)
	return affectedOrNoRows(tag, err)
}
