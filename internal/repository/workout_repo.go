package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type WorkoutRepository struct {
	db DBTX
}

func NewWorkoutRepository(db DBTX) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

type WorkoutInput struct {
	Date      string
	Type      string
	Duration  int
	Exercises string
}

func (r *WorkoutRepository) Create(ctx context.Context, userID int64, input WorkoutInput) (*models.Workout, error) {
	query := `
		INSERT INTO workouts (user_id, date, type, duration, exercises)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, date, type, duration, exercises, status
	`
	return scanWorkout(r.db.QueryRow(ctx, query, userID, input.Date, input.Type, input.Duration, input.Exercises))
}

func (r *WorkoutRepository) Update(ctx context.Context, workoutID int64, input WorkoutInput) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE workouts
		SET date = $1, type = $2, duration = $3, exercises = $4
		WHERE id = $5
	`, input.Date, input.Type, input.Duration, input.Exercises, workoutID)
	return affectedOrNoRows(tag, err)
}

func (r *WorkoutRepository) UpdateStatus(ctx context.Context, workoutID int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE workouts SET status = $1 WHERE id = $2`, status, workoutID)
	return affectedOrNoRows(tag, err)
}

func (r *WorkoutRepository) Delete(ctx context.Context, workoutID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, workoutID)
	return affectedOrNoRows(tag, err)
}

func (r *WorkoutRepository) ListByUserID(ctx context.Context, userID int64) ([]models.Workout, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, date, type, duration, exercises, status
		FROM workouts
		WHERE user_id = $1
		ORDER BY date, id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]models.Workout, 0)
	for rows.Next() {
		workout, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, *workout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// ListUpcoming returns workouts dated on or after fromDate, joined with their owner.
func (r *WorkoutRepository) ListUpcoming(ctx context.Context, fromDate string) ([]models.ScheduledWorkout, error) {
	rows, err := r.db.Query(ctx, `
		SELECT w.id, w.user_id, w.date, w.type, w.duration, w.exercises, w.status,
		       u.name, u.sport_goal, u.coach_id
		FROM workouts w
		JOIN users u ON w.user_id = u.id
		WHERE w.date >= $1
		ORDER BY w.date, w.id
	`, fromDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workouts := make([]models.ScheduledWorkout, 0)
	for rows.Next() {
		var workout models.ScheduledWorkout
		if err := rows.Scan(
			&workout.ID,
			&workout.UserID,
			&workout.Date,
			&workout.Type,
			&workout.Duration,
			&workout.Exercises,
			&workout.Status,
			&workout.UserName,
			&workout.SportGoal,
			&workout.CoachID,
		); err != nil {
			return nil, err
		}
		workouts = append(workouts, workout)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *WorkoutRepository) StatsByUserID(ctx context.Context, userID int64) (*models.WorkoutStats, error) {
	var stats models.WorkoutStats
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(duration), 0)
		FROM workouts
		WHERE user_id = $1
	`, userID).Scan(&stats.TotalWorkouts, &stats.TotalDuration)
	if err != nil {
		return nil, err
	}
	stats.CaloriesBurned = stats.TotalDuration * caloriesPerMinute
	return &stats, nil
}

// caloriesPerMinute is the flat burn rate used for workout statistics.
const caloriesPerMinute = 10

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var workout models.Workout
	if err := row.Scan(
		&workout.ID,
		&workout.UserID,
		&workout.Date,
		&workout.Type,
		&workout.Duration,
		&workout.Exercises,
		&workout.Status,
	); err != nil {
		return nil, err
	}
	return &workout, nil
}
