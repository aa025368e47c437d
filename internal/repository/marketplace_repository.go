package repository

import (
	"context"
	"database/sql"

	"services/ea-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// MarketplaceRepository handles approval-state transitions and listing
// queries for marketplace models
type MarketplaceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMarketplaceRepository creates a new marketplace repository
func NewMarketplaceRepository(db *sqlx.DB, logger *zap.Logger) *MarketplaceRepository {
	return &MarketplaceRepository{
		db:     db,
		logger: logger,
	}
}

// Share moves a model into pending approval with the submitted price.
// Re-sharing while still pending updates the price. Returns false when the
// model is absent or past approval.
func (r *MarketplaceRepository) Share(ctx context.Context, modelID int, price float64) (bool, error) {
	query := `
		UPDATE ea_models
		SET approval_status = 'pending', price = $1, updated_at = NOW()
		WHERE id = $2 AND approval_status IN ('none', 'pending')
	`

	result, err := r.db.ExecContext(ctx, query, price, modelID)
	if err != nil {
		r.logger.Error("Failed to share model", zap.Error(err), zap.Int("model_id", modelID))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Approve moves a pending model to approved. Returns false when the model
// is absent or not pending.
func (r *MarketplaceRepository) Approve(ctx context.Context, modelID int) (bool, error) {
	query := `
		UPDATE ea_models
		SET approval_status = 'approved', updated_at = NOW()
		WHERE id = $1 AND approval_status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, modelID)
	if err != nil {
		r.logger.Error("Failed to approve model", zap.Error(err), zap.Int("model_id", modelID))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// ListApproved retrieves approved, priced models with pagination
func (r *MarketplaceRepository) ListApproved(ctx context.Context, limit, offset int) ([]model.EAModel, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM ea_models
		WHERE approval_status = 'approved' AND price IS NOT NULL
	`

	var totalCount int
	err := r.db.GetContext(ctx, &totalCount, countQuery)
	if err != nil {
		r.logger.Error("Failed to count marketplace listings", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, name, configuration, code, profit, drawdown, win_ratio,
			is_top, approval_status, price, created_at, updated_at
		FROM ea_models
		WHERE approval_status = 'approved' AND price IS NOT NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	models := []model.EAModel{}
	err = r.db.SelectContext(ctx, &models, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list marketplace models", zap.Error(err))
		return nil, 0, err
	}

	return models, totalCount, nil
}

// MarkSold performs the single conditional approved -> sold transition and
// returns the sold row. Returns nil when the model is absent, unapproved or
// already sold, which makes concurrent double-selling impossible.
func (r *MarketplaceRepository) MarkSold(ctx context.Context, modelID int) (*model.EAModel, error) {
	query := `
		UPDATE ea_models
		SET approval_status = 'sold', updated_at = NOW()
		WHERE id = $1 AND approval_status = 'approved' AND price IS NOT NULL
		RETURNING id, user_id, name, configuration, code, profit, drawdown, win_ratio,
			is_top, approval_status, price, created_at, updated_at
	`

	var m model.EAModel
	err := r.db.GetContext(ctx, &m, query, modelID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to mark model sold", zap.Error(err), zap.Int("model_id", modelID))
		return nil, err
	}

	return &m, nil
}
