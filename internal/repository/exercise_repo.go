package repository

import (
	"context"

	"github.com/scafette/ProjetDev/internal/models"
)

type ExerciseRepository struct {
	db DBTX
}

func NewExerciseRepository(db DBTX) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) Create(ctx context.Context, exercise *models.Exercise) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO exercices (name, description, category)
		VALUES ($1, $2, $3)
		RETURNING id
	`, exercise.Name, exercise.Description, exercise.Category).Scan(&exercise.ID)
}

func (r *ExerciseRepository) ListAll(ctx context.Context) ([]models.Exercise, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, category FROM exercices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]models.Exercise, 0)
	for rows.Next() {
		var exercise models.Exercise
		if err := rows.Scan(&exercise.ID, &exercise.Name, &exercise.Description, &exercise.Category); err != nil {
			return nil, err
		}
		exercises = append(exercises, exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}
