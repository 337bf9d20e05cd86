package models

const (
	WorkoutStatusPending  = "pending"
	WorkoutStatusApproved = "approved"
	WorkoutStatusRejected = "rejected"
)

// DateLayout is the format of every calendar date stored as text.
const DateLayout = "2006-01-02"

type Workout struct {
	ID        int64   `json:"id"`
	UserID    int64   `json:"user_id"`
	Date      string  `json:"date"`
	Type      string  `json:"type"`
	Duration  int     `json:"duration"`
	Exercises string  `json:"exercises"`
	Status    *string `json:"status"`
}

// ScheduledWorkout is a workout joined with its owner for the admin planning view.
type ScheduledWorkout struct {
	Workout
	UserName  *string `json:"user_name"`
	SportGoal *string `json:"sport_goal"`
	CoachID   *int64  `json:"coach_id"`
}

type WorkoutStats struct {
	TotalWorkouts  int `json:"total_workouts"`
	TotalDuration  int `json:"total_duration"`
	CaloriesBurned int `json:"calories_burned"`
}

type Goal struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	GoalType        string  `json:"goal_type"`
	TargetDate      string  `json:"target_date"`
	CurrentProgress float64 `json:"current_progress"`
}

type Exercise struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}
