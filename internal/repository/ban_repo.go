package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type BanRepository struct {
	db DBTX
}

func NewBanRepository(db DBTX) *BanRepository {
	return &BanRepository{db: db}
}

// Ban records or refreshes the ban of a user.
func (r *BanRepository) Ban(ctx context.Context, userID int64, reason string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO banned_users (user_id, reason)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET reason = EXCLUDED.reason, banned_at = NOW()
	`, userID, reason)
	return err
}

func (r *BanRepository) Unban(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM banned_users WHERE user_id = $1`, userID)
	return affectedOrNoRows(tag, err)
}

func (r *BanRepository) IsBanned(ctx context.Context, userID int64) (bool, error) {
	var banned bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM banned_users WHERE user_id = $1)`, userID).Scan(&banned)
	return banned, err
}

func (r *BanRepository) ListAll(ctx context.Context) ([]models.BannedUser, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.user_id, u.username, u.name, b.reason, b.banned_at
		FROM banned_users b
		JOIN users u ON u.id = b.user_id
		ORDER BY b.banned_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.BannedUser, error) {
		var banned models.BannedUser
		err := row.Scan(&banned.UserID, &banned.Username, &banned.Name, &banned.Reason, &banned.BannedAt)
		return banned, err
	})
}
