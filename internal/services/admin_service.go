package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type adminUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	ListAll(ctx context.Context) ([]models.User, error)
	UpdateRole(ctx context.Context, id int64, role string) error
	SetCoach(ctx context.Context, id int64, coachID *int64) error
	Delete(ctx context.Context, id int64) error
}

type banStore interface {
	Ban(ctx context.Context, userID int64, reason string) error
	Unban(ctx context.Context, userID int64) error
	ListAll(ctx context.Context) ([]models.BannedUser, error)
}

type upcomingWorkoutLister interface {
	ListUpcoming(ctx context.Context, fromDate string) ([]models.ScheduledWorkout, error)
}

type AdminService struct {
	userRepo    adminUserStore
	banRepo     banStore
	workoutRepo upcomingWorkoutLister
	now         func() time.Time
}

func NewAdminService(userRepo adminUserStore, banRepo banStore, workoutRepo upcomingWorkoutLister) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		banRepo:     banRepo,
		workoutRepo: workoutRepo,
		now:         time.Now,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListAll(ctx)
}

func (s *AdminService) ChangeRole(ctx context.Context, userID int64, role string) error {
	role = strings.TrimSpace(role)
	if userID <= 0 || !models.ValidRole(role) {
		return ErrInvalidInput
	}
	return notFoundAs(s.userRepo.UpdateRole(ctx, userID, role), ErrUserNotFound)
}

// AssignCoach links a client to a coach, or unlinks it when coachID is nil.
// The target must currently hold the coach role.
func (s *AdminService) AssignCoach(ctx context.Context, userID int64, coachID *int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	if _, err := lookupUser(ctx, s.userRepo, userID, ErrUserNotFound); err != nil {
		return err
	}

	if coachID != nil {
		if *coachID <= 0 || *coachID == userID {
			return ErrInvalidInput
		}
		coach, err := lookupUser(ctx, s.userRepo, *coachID, ErrCoachNotFound)
		if err != nil {
			return err
		}
		if coach.Role != models.RoleCoach {
			return ErrNotCoach
		}
	}

	return notFoundAs(s.userRepo.SetCoach(ctx, userID, coachID), ErrUserNotFound)
}

func (s *AdminService) ListUpcomingWorkouts(ctx context.Context) ([]models.ScheduledWorkout, error) {
	return s.workoutRepo.ListUpcoming(ctx, s.now().Format(models.DateLayout))
}

func (s *AdminService) BanUser(ctx context.Context, userID int64, reason string) error {
	reason = strings.TrimSpace(reason)
	if userID <= 0 || reason == "" {
		return ErrInvalidInput
	}
	if _, err := lookupUser(ctx, s.userRepo, userID, ErrUserNotFound); err != nil {
		return err
	}
	return s.banRepo.Ban(ctx, userID, reason)
}

func (s *AdminService) UnbanUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	return notFoundAs(s.banRepo.Unban(ctx, userID), ErrUserNotFound)
}

func (s *AdminService) ListBannedUsers(ctx context.Context) ([]models.BannedUser, error) {
	return s.banRepo.ListAll(ctx)
}

// DeleteUser removes an account. Owned rows cascade, soft references are nulled
// by the schema.
func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return ErrInvalidInput
	}
	return notFoundAs(s.userRepo.Delete(ctx, userID), ErrUserNotFound)
}

func notFoundAs(err error, target error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return target
	}
	return err
}
