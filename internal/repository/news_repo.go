package repository

import (
	"context"

	"github.com/scafette/ProjetDev/internal/models"
)

type NewsRepository struct {
	db DBTX
}

func NewNewsRepository(db DBTX) *NewsRepository {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) Create(ctx context.Context, post *models.NewsPost) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO news (title, content, image_url)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, post.Title, post.Content, post.ImageURL).Scan(&post.ID, &post.CreatedAt)
}

func (r *NewsRepository) ListRecent(ctx context.Context) ([]models.NewsPost, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, title, content, image_url, created_at
		FROM news
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]models.NewsPost, 0)
	for rows.Next() {
		var post models.NewsPost
		if err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.ImageURL, &post.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *NewsRepository) GetRandom(ctx context.Context) (*models.NewsPost, error) {
	var post models.NewsPost
	err := r.db.QueryRow(ctx, `
		SELECT id, title, content, image_url, created_at
		FROM news
		ORDER BY RANDOM()
		LIMIT 1
	`).Scan(&post.ID, &post.Title, &post.Content, &post.ImageURL, &post.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
