package service

import (
	"context"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/event"
	"services/ea-service/internal/model"
	"services/ea-service/internal/validator"

	"go.uber.org/zap"
)

// Kafka topics for domain events
const (
	TopicModelEvents       = "model-events"
	TopicMarketplaceEvents = "marketplace-events"
)

// ModelStore defines the persistence operations for EA models
type ModelStore interface {
	Create(ctx context.Context, create *model.EAModelCreate) (*model.EAModel, error)
	GetByID(ctx context.Context, id int) (*model.EAModel, error)
	GetByOwner(ctx context.Context, ownerID int) ([]model.EAModel, error)
	Update(ctx context.Context, id int, update *model.EAModelUpdate) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	AttachBacktest(ctx context.Context, id int, snapshot *model.BacktestSnapshot) (bool, error)
	SetCode(ctx context.Context, id int, code string) (bool, error)
	GetBacktested(ctx context.Context) ([]model.EAModel, error)
	ReplaceTopFlags(ctx context.Context, ids []int) error
	GetTop(ctx context.Context) ([]model.EAModel, error)
	GetAnalytics(ctx context.Context) (*model.AnalyticsSummary, error)
}

// SubscriptionStore defines the persistence operations for subscriptions
type SubscriptionStore interface {
	GetByUser(ctx context.Context, userID int) (*model.Subscription, error)
	CreateFree(ctx context.Context, userID int) (*model.Subscription, error)
	Upgrade(ctx context.Context, userID int) (bool, error)
	IncrementModelCount(ctx context.Context, userID int) error
}

// ListCache caches per-owner model list snapshots. Every write path must
// invalidate the owner's entry.
type ListCache interface {
	Get(ctx context.Context, ownerID int) ([]model.EAModel, bool)
	Set(ctx context.Context, ownerID int, models []model.EAModel)
	Invalidate(ctx context.Context, ownerID int)
}

// EventPublisher publishes domain events. A nil *event.Publisher satisfies
// it and drops every event.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key, eventType string, payload interface{})
}

// ModelService handles EA model CRUD operations
type ModelService struct {
	modelStore   ModelStore
	versionStore VersionStore
	subStore     SubscriptionStore
	listCache    ListCache
	publisher    EventPublisher
	logger       *zap.Logger
}

// NewModelService creates a new EA model service
func NewModelService(
	modelStore ModelStore,
	versionStore VersionStore,
	subStore SubscriptionStore,
	listCache ListCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *ModelService {
	return &ModelService{
		modelStore:   modelStore,
		versionStore: versionStore,
		subStore:     subStore,
		listCache:    listCache,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create stores a new EA model with an empty backtest snapshot
func (s *ModelService) Create(ctx context.Context, create *model.EAModelCreate) (*model.EAModel, error) {
	if err := validator.ValidateModelCreate(create); err != nil {
		return nil, err
	}

	created, err := s.modelStore.Create(ctx, create)
	if err != nil {
		return nil, apperr.Store("create model", err)
	}

	// Counter tracking only; a missing subscription row is not an error
	if err := s.subStore.IncrementModelCount(ctx, create.OwnerID); err != nil {
		s.logger.Warn("Failed to bump subscription model count",
			zap.Int("user_id", create.OwnerID), zap.Error(err))
	}

	s.listCache.Invalidate(ctx, create.OwnerID)
	s.publisher.Publish(ctx, TopicModelEvents, itoa(created.ID), event.TypeModelCreated, created)

	return created, nil
}

// ListByOwner returns all models of an owner through the read-through cache
func (s *ModelService) ListByOwner(ctx context.Context, ownerID int) ([]model.EAModel, error) {
	if models, ok := s.listCache.Get(ctx, ownerID); ok {
		return models, nil
	}

	models, err := s.modelStore.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Store("list models", err)
	}

	s.listCache.Set(ctx, ownerID, models)
	return models, nil
}

// Update replaces the mutable fields of an existing model
func (s *ModelService) Update(ctx context.Context, id int, update *model.EAModelUpdate) (*model.EAModel, error) {
	if err := validator.ValidateModelUpdate(update); err != nil {
		return nil, err
	}

	existing, err := s.modelStore.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("get model", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("EA model")
	}

	if _, err := s.modelStore.Update(ctx, id, update); err != nil {
		return nil, apperr.Store("update model", err)
	}

	updated, err := s.modelStore.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("get model", err)
	}
	if updated == nil {
		// Deleted between the update and the re-read
		return nil, apperr.NotFound("EA model")
	}

	s.listCache.Invalidate(ctx, existing.UserID)
	s.publisher.Publish(ctx, TopicModelEvents, itoa(id), event.TypeModelUpdated, updated)

	return updated, nil
}

// Delete removes a model together with its version history
func (s *ModelService) Delete(ctx context.Context, id int) error {
	existing, err := s.modelStore.GetByID(ctx, id)
	if err != nil {
		return apperr.Store("get model", err)
	}
	if existing == nil {
		return apperr.NotFound("EA model")
	}

	// Versions go first so a failure between the two deletes leaves the
	// model intact rather than orphaning its history
	if err := s.versionStore.DeleteByModel(ctx, id); err != nil {
		return apperr.Store("delete model versions", err)
	}

	if _, err := s.modelStore.Delete(ctx, id); err != nil {
		return apperr.Store("delete model", err)
	}

	s.listCache.Invalidate(ctx, existing.UserID)
	s.publisher.Publish(ctx, TopicModelEvents, itoa(id), event.TypeModelDeleted, existing)

	return nil
}

// AttachBacktest overwrites the backtest snapshot of a model
func (s *ModelService) AttachBacktest(ctx context.Context, id int, snapshot *model.BacktestSnapshot) (*model.EAModel, error) {
	if err := validator.ValidateBacktestSnapshot(snapshot); err != nil {
		return nil, err
	}

	ok, err := s.modelStore.AttachBacktest(ctx, id, snapshot)
	if err != nil {
		return nil, apperr.Store("attach backtest", err)
	}
	if !ok {
		return nil, apperr.NotFound("EA model")
	}

	updated, err := s.modelStore.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("get model", err)
	}
	if updated == nil {
		// Deleted between the update and the re-read
		return nil, apperr.NotFound("EA model")
	}

	s.listCache.Invalidate(ctx, updated.UserID)
	s.publisher.Publish(ctx, TopicModelEvents, itoa(id), event.TypeModelBacktested, updated)

	return updated, nil
}

// GetAnalytics aggregates stored models for the analytics dashboard
func (s *ModelService) GetAnalytics(ctx context.Context) (*model.AnalyticsSummary, error) {
	summary, err := s.modelStore.GetAnalytics(ctx)
	if err != nil {
		return nil, apperr.Store("analytics", err)
	}
	return summary, nil
}
