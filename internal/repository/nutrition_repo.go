package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type NutritionRepository struct {
	db DBTX
}

func NewNutritionRepository(db DBTX) *NutritionRepository {
	return &NutritionRepository{db: db}
}

func (r *NutritionRepository) Create(ctx context.Context, entry *models.NutritionEntry) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO nutrition (name, ingredients, preparation_time, calories, category, goal_category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		entry.Name,
		entry.Ingredients,
		entry.PreparationTime,
		entry.Calories,
		entry.Category,
		entry.GoalCategory,
	).Scan(&entry.ID)
}

func (r *NutritionRepository) ListAll(ctx context.Context) ([]models.NutritionEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, ingredients, preparation_time, calories, category, goal_category
		FROM nutrition
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.NutritionEntry, 0)
	for rows.Next() {
		entry, err := scanNutritionEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *NutritionRepository) GetByID(ctx context.Context, id int64) (*models.NutritionEntry, error) {
	return scanNutritionEntry(r.db.QueryRow(ctx, `
		SELECT id, name, ingredients, preparation_time, calories, category, goal_category
		FROM nutrition
		WHERE id = $1
	`, id))
}

func (r *NutritionRepository) Update(ctx context.Context, entry *models.NutritionEntry) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE nutrition
		SET name = $1, ingredients = $2, preparation_time = $3, calories = $4, category = $5, goal_category = $6
		WHERE id = $7
	`,
		entry.Name,
		entry.Ingredients,
		entry.PreparationTime,
		entry.Calories,
		entry.Category,
		entry.GoalCategory,
		entry.ID,
	)
	return affectedOrNoRows(tag, err)
}

func (r *NutritionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM nutrition WHERE id = $1`, id)
	return affectedOrNoRows(tag, err)
}

func scanNutritionEntry(row pgx.Row) (*models.NutritionEntry, error) {
	var entry models.NutritionEntry
	if err := row.Scan(
		&entry.ID,
		&entry.Name,
		&entry.Ingredients,
		&entry.PreparationTime,
		&entry.Calories,
		&entry.Category,
		&entry.GoalCategory,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
