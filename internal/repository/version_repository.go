package repository

import (
	"context"
	"database/sql"

	"services/ea-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// VersionRepository handles database operations for EA model versions
type VersionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(db *sqlx.DB, logger *zap.Logger) *VersionRepository {
	return &VersionRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an immutable version row for a model
func (r *VersionRepository) Create(ctx context.Context, modelID int, code string) (*model.EAModelVersion, error) {
	query := `
		INSERT INTO ea_model_versions (model_id, code, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, model_id, code, created_at
	`

	var version model.EAModelVersion
	err := r.db.GetContext(ctx, &version, query, modelID, code)
	if err != nil {
		r.logger.Error("Failed to create model version", zap.Error(err), zap.Int("model_id", modelID))
		return nil, err
	}

	return &version, nil
}

// ListByModel retrieves all versions for a model, most recent first
func (r *VersionRepository) ListByModel(ctx context.Context, modelID int) ([]model.EAModelVersion, error) {
	query := `
		SELECT id, model_id, code, created_at
		FROM ea_model_versions
		WHERE model_id = $1
		ORDER BY created_at DESC, id DESC
	`

	versions := []model.EAModelVersion{}
	err := r.db.SelectContext(ctx, &versions, query, modelID)
	if err != nil {
		r.logger.Error("Failed to list model versions", zap.Error(err), zap.Int("model_id", modelID))
		return nil, err
	}

	return versions, nil
}

// GetByID retrieves a single version row
func (r *VersionRepository) GetByID(ctx context.Context, versionID int) (*model.EAModelVersion, error) {
	query := `
		SELECT id, model_id, code, created_at
		FROM ea_model_versions
		WHERE id = $1
	`

	var version model.EAModelVersion
	err := r.db.GetContext(ctx, &version, query, versionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get model version", zap.Error(err), zap.Int("version_id", versionID))
		return nil, err
	}

	return &version, nil
}

// DeleteByModel removes all version rows of a model
func (r *VersionRepository) DeleteByModel(ctx context.Context, modelID int) error {
	query := `DELETE FROM ea_model_versions WHERE model_id = $1`

	_, err := r.db.ExecContext(ctx, query, modelID)
	if err != nil {
		r.logger.Error("Failed to delete model versions", zap.Error(err), zap.Int("model_id", modelID))
		return err
	}

	return nil
}
