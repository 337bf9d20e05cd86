package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrConflict             = errors.New("conflict")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUserBanned           = errors.New("user is banned")
	ErrUserNotFound         = errors.New("user not found")
	ErrCoachNotFound        = errors.New("coach not found")
	ErrNotCoach             = errors.New("user is not a coach")
	ErrNoCoachAssigned      = errors.New("no coach assigned")
	ErrClientNotFound       = errors.New("client not found for coach")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrStorageUnavailable   = errors.New("storage is not configured")
	ErrPresenceUnavailable  = errors.New("presence store is not configured")
)

type userReader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// lookupUser maps a missing row onto notFound and passes other failures through.
func lookupUser(ctx context.Context, users userReader, id int64, notFound error) (*models.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}
	return user, nil
}
