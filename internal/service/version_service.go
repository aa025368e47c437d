package service

import (
	"context"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/event"
	"services/ea-service/internal/model"

	"go.uber.org/zap"
)

// VersionStore defines the persistence operations for model versions
type VersionStore interface {
	Create(ctx context.Context, modelID int, code string) (*model.EAModelVersion, error)
	ListByModel(ctx context.Context, modelID int) ([]model.EAModelVersion, error)
	GetByID(ctx context.Context, versionID int) (*model.EAModelVersion, error)
	DeleteByModel(ctx context.Context, modelID int) error
}

// VersionService handles version snapshots and rollback
type VersionService struct {
	versionStore VersionStore
	modelStore   ModelStore
	listCache    ListCache
	publisher    EventPublisher
	logger       *zap.Logger
}

// NewVersionService creates a new version service
func NewVersionService(
	versionStore VersionStore,
	modelStore ModelStore,
	listCache ListCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *VersionService {
	return &VersionService{
		versionStore: versionStore,
		modelStore:   modelStore,
		listCache:    listCache,
		publisher:    publisher,
		logger:       logger,
	}
}

// Save appends an immutable code snapshot for a model
func (s *VersionService) Save(ctx context.Context, modelID int, code string) (*model.EAModelVersion, error) {
	existing, err := s.modelStore.GetByID(ctx, modelID)
	if err != nil {
		return nil, apperr.Store("get model", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("EA model")
	}

	version, err := s.versionStore.Create(ctx, modelID, code)
	if err != nil {
		return nil, apperr.Store("save version", err)
	}

	return version, nil
}

// List returns all versions of a model, most recent first. A model with no
// versions yields an empty list, not an error.
func (s *VersionService) List(ctx context.Context, modelID int) ([]model.EAModelVersion, error) {
	versions, err := s.versionStore.ListByModel(ctx, modelID)
	if err != nil {
		return nil, apperr.Store("list versions", err)
	}
	return versions, nil
}

// Rollback overwrites a model's current code with a stored version. The
// pre-rollback state is not snapshotted; the version list is the only audit
// trail.
func (s *VersionService) Rollback(ctx context.Context, modelID, versionID int) (*model.EAModel, error) {
	version, err := s.versionStore.GetByID(ctx, versionID)
	if err != nil {
		return nil, apperr.Store("get version", err)
	}
	if version == nil || version.ModelID != modelID {
		return nil, apperr.NotFound("version")
	}

	ok, err := s.modelStore.SetCode(ctx, modelID, version.Code)
	if err != nil {
		return nil, apperr.Store("set model code", err)
	}
	if !ok {
		return nil, apperr.NotFound("EA model")
	}

	updated, err := s.modelStore.GetByID(ctx, modelID)
	if err != nil {
		return nil, apperr.Store("get model", err)
	}
	if updated == nil {
		// Deleted between the update and the re-read
		return nil, apperr.NotFound("EA model")
	}

	s.listCache.Invalidate(ctx, updated.UserID)
	s.publisher.Publish(ctx, TopicModelEvents, itoa(modelID), event.TypeModelRolledBack, updated)

	return updated, nil
}
