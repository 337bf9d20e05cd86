package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/scafette/ProjetDev/internal/models"
)

type SubscriptionRepository struct {
	db DBTX
}

func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, subscription *models.Subscription) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO subscriptions (name, price, color, features)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, subscription.Name, subscription.Price, subscription.Color, JoinFeatures(subscription.Features)).
		Scan(&subscription.ID)
}

func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]models.Subscription, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, price, color, features
		FROM subscriptions
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subscriptions := make([]models.Subscription, 0)
	for rows.Next() {
		subscription, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, *subscription)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *SubscriptionRepository) GetByName(ctx context.Context, name string) (*models.Subscription, error) {
	return scanSubscription(r.db.QueryRow(ctx, `
		SELECT id, user_id, name, price, color, features
		FROM subscriptions
		WHERE name = $1
	`, name))
}

// AssignOwner sets the owning user of a plan, overwriting any previous owner.
func (r *SubscriptionRepository) AssignOwner(ctx context.Context, name string, userID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE subscriptions SET user_id = $1 WHERE name = $2`, userID, name)
	return affectedOrNoRows(tag, err)
}

func scanSubscription(row pgx.Row) (*models.Subscription, error) {
	var subscription models.Subscription
	var features string
	if err := row.Scan(
		&subscription.ID,
		&subscription.UserID,
		&subscription.Name,
		&subscription.Price,
		&subscription.Color,
		&features,
	); err != nil {
		return nil, err
	}
	subscription.Features = SplitFeatures(features)
	return &subscription, nil
}

// SplitFeatures turns the stored comma separated list into its items.
func SplitFeatures(raw string) []string {
	features := make([]string, 0)
	for _, feature := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			features = append(features, trimmed)
		}
	}
	return features
}

func JoinFeatures(features []string) string {
	cleaned := make([]string, 0, len(features))
	for _, feature := range features {
		if trimmed := strings.TrimSpace(feature); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}
