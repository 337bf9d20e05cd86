package repository

import (
	"context"

	"github.com/scafette/ProjetDev/internal/models"
)

type ClientRemovalRepository struct {
	db DBTX
}

func NewClientRemovalRepository(db DBTX) *ClientRemovalRepository {
	return &ClientRemovalRepository{db: db}
}

func (r *ClientRemovalRepository) Create(ctx context.Context, removal *models.ClientRemoval) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO client_removals (coach_id, client_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, removed_at
	`, removal.CoachID, removal.ClientID, removal.Reason).Scan(&removal.ID, &removal.RemovedAt)
}

func (r *ClientRemovalRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM client_removals`).Scan(&total)
	return total, err
}
