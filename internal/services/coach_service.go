package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
	"github.com/scafette/ProjetDev/internal/repository"
)

type clientLister interface {
	ListClients(ctx context.Context, coachID int64) ([]models.User, error)
}

type CoachService struct {
	db       txBeginner
	userRepo clientLister
}

func NewCoachService(db txBeginner, userRepo clientLister) *CoachService {
	return &CoachService{db: db, userRepo: userRepo}
}

func (s *CoachService) ListClients(ctx context.Context, coachID int64) ([]models.User, error) {
	if coachID <= 0 {
		return nil, ErrInvalidInput
	}
	return s.userRepo.ListClients(ctx, coachID)
}

// RemoveClient detaches a client from its coach and records why. Both writes
// share one transaction so the audit trail never diverges from coach_id.
func (s *CoachService) RemoveClient(
	ctx context.Context,
	coachID int64,
	clientID int64,
	reason string,
) (*models.ClientRemoval, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" || coachID <= 0 || clientID <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin remove client: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txUserRepo := repository.NewUserRepository(tx)
	txRemovalRepo := repository.NewClientRemovalRepository(tx)

	if err := txUserRepo.DetachFromCoach(ctx, clientID, coachID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	removal := &models.ClientRemoval{
		CoachID:  coachID,
		ClientID: clientID,
		Reason:   reason,
	}
	if err := txRemovalRepo.Create(ctx, removal); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit remove client: %w", err)
	}
	return removal, nil
}
