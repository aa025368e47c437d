package service

import (
	"context"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/model"

	"go.uber.org/zap"
)

// SubscriptionService handles tier activation and upgrades
type SubscriptionService struct {
	subStore SubscriptionStore
	logger   *zap.Logger
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(subStore SubscriptionStore, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		subStore: subStore,
		logger:   logger,
	}
}

// ActivateFree activates the free tier for a user. Re-activation returns
// the existing row unchanged.
func (s *SubscriptionService) ActivateFree(ctx context.Context, userID int) (*model.Subscription, error) {
	existing, err := s.subStore.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Store("get subscription", err)
	}
	if existing != nil {
		return existing, nil
	}

	sub, err := s.subStore.CreateFree(ctx, userID)
	if err != nil {
		return nil, apperr.Store("create subscription", err)
	}

	return sub, nil
}

// Status returns a user's subscription row
func (s *SubscriptionService) Status(ctx context.Context, userID int) (*model.Subscription, error) {
	sub, err := s.subStore.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Store("get subscription", err)
	}
	if sub == nil {
		return nil, apperr.NotFound("subscription")
	}

	return sub, nil
}

// Upgrade flips a subscription to premium and resets the model counter
func (s *SubscriptionService) Upgrade(ctx context.Context, userID int) (*model.Subscription, error) {
	ok, err := s.subStore.Upgrade(ctx, userID)
	if err != nil {
		return nil, apperr.Store("upgrade subscription", err)
	}
	if !ok {
		return nil, apperr.NotFound("subscription")
	}

	sub, err := s.subStore.GetByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Store("get subscription", err)
	}

	return sub, nil
}
