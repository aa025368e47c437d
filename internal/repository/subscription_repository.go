package repository

import (
	"context"
	"database/sql"

	"services/ea-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SubscriptionRepository handles database operations for subscriptions
type SubscriptionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sqlx.DB, logger *zap.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUser retrieves a user's subscription row
func (r *SubscriptionRepository) GetByUser(ctx context.Context, userID int) (*model.Subscription, error) {
	query := `
		SELECT id, user_id, tier, started_at, model_count
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT 1
	`

	var sub model.Subscription
	err := r.db.GetContext(ctx, &sub, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get subscription", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}

	return &sub, nil
}

// CreateFree activates a free-tier subscription for a user
func (r *SubscriptionRepository) CreateFree(ctx context.Context, userID int) (*model.Subscription, error) {
	query := `
		INSERT INTO subscriptions (user_id, tier, started_at, model_count)
		VALUES ($1, 'free', NOW(), 0)
		RETURNING id, user_id, tier, started_at, model_count
	`

	var sub model.Subscription
	err := r.db.GetContext(ctx, &sub, query, userID)
	if err != nil {
		r.logger.Error("Failed to create free subscription", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}

	return &sub, nil
}

// Upgrade flips a user's subscription to premium and resets the model
// counter. Returns false when the user has no subscription row.
func (r *SubscriptionRepository) Upgrade(ctx context.Context, userID int) (bool, error) {
	query := `
		UPDATE subscriptions
		SET tier = 'premium', model_count = 0
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to upgrade subscription", zap.Error(err), zap.Int("user_id", userID))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// IncrementModelCount bumps the EA-model counter of a user's subscription,
// when one exists
func (r *SubscriptionRepository) IncrementModelCount(ctx context.Context, userID int) error {
	query := `
		UPDATE subscriptions
		SET model_count = model_count + 1
		WHERE user_id = $1
	`

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to increment model count", zap.Error(err), zap.Int("user_id", userID))
		return err
	}

	return nil
}
