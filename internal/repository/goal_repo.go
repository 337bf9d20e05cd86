package repository

import (
	"context"

	"github.com/scafette/ProjetDev/internal/models"
)

type GoalRepository struct {
	db DBTX
}

func NewGoalRepository(db DBTX) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *models.Goal) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO goals (user_id, goal_type, target_date, current_progress)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, goal.UserID, goal.GoalType, goal.TargetDate, goal.CurrentProgress).Scan(&goal.ID)
}

// GetFirstByUserID returns the oldest goal of a user.
func (r *GoalRepository) GetFirstByUserID(ctx context.Context, userID int64) (*models.Goal, error) {
	var goal models.Goal
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, goal_type, target_date, current_progress
		FROM goals
		WHERE user_id = $1
		ORDER BY id
		LIMIT 1
	`, userID).Scan(&goal.ID, &goal.UserID, &goal.GoalType, &goal.TargetDate, &goal.CurrentProgress)
	if err != nil {
		return nil, err
	}
	return &goal, nil
}
