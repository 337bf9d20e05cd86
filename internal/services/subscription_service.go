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

type subscriptionCatalog interface {
	Create(ctx context.Context, subscription *models.Subscription) error
	ListAll(ctx context.Context) ([]models.Subscription, error)
}

type SubscriptionService struct {
	db               txBeginner
	subscriptionRepo subscriptionCatalog
	userRepo         userReader
}

func NewSubscriptionService(
	db txBeginner,
	subscriptionRepo subscriptionCatalog,
	userRepo userReader,
) *SubscriptionService {
	return &SubscriptionService{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
	}
}

func (s *SubscriptionService) ListPlans(ctx context.Context) ([]models.Subscription, error) {
	return s.subscriptionRepo.ListAll(ctx)
}

func (s *SubscriptionService) CreatePlan(ctx context.Context, plan *models.Subscription) error {
	plan.Name = strings.TrimSpace(plan.Name)
	plan.Price = strings.TrimSpace(plan.Price)
	plan.Color = strings.TrimSpace(plan.Color)
	if plan.Name == "" || plan.Price == "" || plan.Color == "" {
		return ErrInvalidInput
	}
	return s.subscriptionRepo.Create(ctx, plan)
}

// Claim makes userID the owner of the named plan. The previous owner, if any,
// is overwritten; the last claim wins.
func (s *SubscriptionService) Claim(ctx context.Context, userID int64, subscriptionName string) (*models.Subscription, error) {
	name := strings.TrimSpace(subscriptionName)
	if userID <= 0 || name == "" {
		return nil, ErrInvalidInput
	}

	if _, err := lookupUser(ctx, s.userRepo, userID, ErrUserNotFound); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin claim: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	txSubscriptionRepo := repository.NewSubscriptionRepository(tx)

	plan, err := txSubscriptionRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	if err := txSubscriptionRepo.AssignOwner(ctx, name, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}

	plan.UserID = &userID
	return plan, nil
}
