package repository

import (
	"context"

	"github.com/scafette/ProjetDev/internal/models"
)

type UploadRepository struct {
	db DBTX
}

func NewUploadRepository(db DBTX) *UploadRepository {
	return &UploadRepository{db: db}
}

func (r *UploadRepository) Create(ctx context.Context, file *models.UploadedFile) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO uploaded_files (filename, filepath, uploaded_by)
		VALUES ($1, $2, $3)
		RETURNING id, uploaded_at
	`, file.Filename, file.Filepath, file.UploadedBy).Scan(&file.ID, &file.UploadedAt)
}
