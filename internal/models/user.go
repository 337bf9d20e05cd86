package models

import "time"

const (
	RoleUser  = "user"
	RoleCoach = "coach"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Name         *string   `json:"name"`
	Age          *int      `json:"age"`
	Weight       *float64  `json:"weight"`
	Height       *float64  `json:"height"`
	SportGoal    *string   `json:"sport_goal"`
	Role         string    `json:"role"`
	CoachID      *int64    `json:"coach_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleCoach, RoleAdmin:
		return true
	default:
		return false
	}
}

type BannedUser struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Name     *string   `json:"name"`
	Reason   string    `json:"reason"`
	BannedAt time.Time `json:"banned_at"`
}

type ClientRemoval struct {
	ID        int64     `json:"id"`
	CoachID   int64     `json:"coach_id"`
	ClientID  int64     `json:"client_id"`
	Reason    string    `json:"reason"`
	RemovedAt time.Time `json:"removed_at"`
}
