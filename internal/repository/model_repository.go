package repository

import (
	"context"
	"database/sql"

	"services/ea-service/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ModelRepository handles database operations for EA models
type ModelRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewModelRepository creates a new EA model repository
func NewModelRepository(db *sqlx.DB, logger *zap.Logger) *ModelRepository {
	return &ModelRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new EA model and returns the stored row
func (r *ModelRepository) Create(ctx context.Context, create *model.EAModelCreate) (*model.EAModel, error) {
	query := `
		INSERT INTO ea_models (user_id, name, configuration, is_top, approval_status, created_at)
		VALUES ($1, $2, $3, FALSE, 'none', NOW())
		RETURNING id
	`

	var id int
	err := r.db.QueryRowContext(ctx, query, create.OwnerID, create.Name, create.Configuration).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to create EA model", zap.Error(err))
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves an EA model by ID
func (r *ModelRepository) GetByID(ctx context.Context, id int) (*model.EAModel, error) {
	query := `
		SELECT id, user_id, name, configuration, code, profit, drawdown, win_ratio,
			is_top, approval_status, price, created_at, updated_at
		FROM ea_models
		WHERE id = $1
	`

	var m model.EAModel
	err := r.db.GetContext(ctx, &m, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get EA model by ID", zap.Error(err), zap.Int("id", id))
		return nil, err
	}

	return &m, nil
}

// GetByOwner retrieves all EA models owned by a user in insertion order
func (r *ModelRepository) GetByOwner(ctx context.Context, ownerID int) ([]model.EAModel, error) {
	query := `
		SELECT id, user_id, name, configuration, code, profit, drawdown, win_ratio,
			is_top, approval_status, price, created_at, updated_at
		FROM ea_models
		WHERE user_id = $1
		ORDER BY id
	`

	models := []model.EAModel{}
	err := r.db.SelectContext(ctx, &models, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to get EA models by owner", zap.Error(err), zap.Int("owner_id", ownerID))
		return nil, err
	}

	return models, nil
}

// Update replaces the mutable fields of an EA model and bumps updated_at.
// Returns false when no row matched the id.
func (r *ModelRepository) Update(ctx context.Context, id int, update *model.EAModelUpdate) (bool, error) {
	query := `
		UPDATE ea_models
		SET name = $1, configuration = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, update.Name, update.Configuration, id)
	if err != nil {
		r.logger.Error("Failed to update EA model", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// Delete removes an EA model row. Returns false when no row matched.
func (r *ModelRepository) Delete(ctx context.Context, id int) (bool, error) {
	query := `DELETE FROM ea_models WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete EA model", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// AttachBacktest overwrites the backtest snapshot of a model
func (r *ModelRepository) AttachBacktest(ctx context.Context, id int, snapshot *model.BacktestSnapshot) (bool, error) {
	query := `
		UPDATE ea_models
		SET profit = $1, drawdown = $2, win_ratio = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, snapshot.Profit, snapshot.Drawdown, snapshot.WinRatio, id)
	if err != nil {
		r.logger.Error("Failed to attach backtest result", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// SetCode overwrites the current generated code of a model
func (r *ModelRepository) SetCode(ctx context.Context, id int, code string) (bool, error) {
	query := `
		UPDATE ea_models
		SET code = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, code, id)
	if err != nil {
		r.logger.Error("Failed to set EA model code", zap.Error(err), zap.Int("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// GetBacktested retrieves all models carrying a backtest snapshot in
// insertion order
func (r *ModelRepository) GetBacktested(ctx context.Context) ([]model.EAModel, error) {
	query := `
		SELECT id, user_id, name, configuration, code, profit, drawdown, win_ratio,
			is_top, approval_status, price, created_at, updated_at
		FROM ea_models
		WHERE profit IS NOT NULL OR drawdown IS NOT NULL OR win_ratio IS NOT NULL
		ORDER BY id
	`

	models := []model.EAModel{}
	err := r.db.SelectContext(ctx, &models, query)
	if err != nil {
		r.logger.Error("Failed to get backtested EA models", zap.Error(err))
		return nil, err
	}

	return models, nil
}

// ReplaceTopFlags sets is_top on exactly the given ids in a single
// conditional update, leaving no clear/set window
func (r *ModelRepository) ReplaceTopFlags(ctx context.Context, ids []int) error {
	query := `UPDATE ea_models SET is_top = (id = ANY($1))`

	_, err := r.db.ExecContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to replace top flags", zap.Error(err))
		return err
	}

	return nil
}

// GetTop retrieves the currently flagged top models ordered by score
// descending
func (r *ModelRepository) GetTop(ctx context.Context) ([]model.EAModel, error) {
	query := `
		SELECT id, user_id, name, configuration, code, profit, drawdown, win_ratio,
			is_top, approval_status, price, created_at, updated_at
		FROM ea_models
		WHERE is_top = TRUE
		ORDER BY COALESCE(profit, 0) - COALESCE(drawdown, 0) DESC, id
	`

	models := []model.EAModel{}
	err := r.db.SelectContext(ctx, &models, query)
	if err != nil {
		r.logger.Error("Failed to get top EA models", zap.Error(err))
		return nil, err
	}

	return models, nil
}

// GetAnalytics aggregates stored models for the analytics dashboard
func (r *ModelRepository) GetAnalytics(ctx context.Context) (*model.AnalyticsSummary, error) {
	query := `
		SELECT COUNT(*) AS total_models,
			AVG(profit) AS avg_profit,
			AVG(drawdown) AS avg_drawdown
		FROM ea_models
	`

	var row struct {
		TotalModels int      `db:"total_models"`
		AvgProfit   *float64 `db:"avg_profit"`
		AvgDrawdown *float64 `db:"avg_drawdown"`
	}

	err := r.db.GetContext(ctx, &row, query)
	if err != nil {
		r.logger.Error("Failed to aggregate analytics", zap.Error(err))
		return nil, err
	}

	return &model.AnalyticsSummary{
		TotalModels: row.TotalModels,
		AvgProfit:   row.AvgProfit,
		AvgDrawdown: row.AvgDrawdown,
	}, nil
}
