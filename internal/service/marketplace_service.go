package service

import (
	"context"
	"fmt"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/event"
	"services/ea-service/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlatformAccount is the ledger account collecting marketplace commission
const PlatformAccount = 0

// MarketplaceStore defines the persistence operations for marketplace
// transitions and listings
type MarketplaceStore interface {
	Share(ctx context.Context, modelID int, price float64) (bool, error)
	Approve(ctx context.Context, modelID int) (bool, error)
	ListApproved(ctx context.Context, limit, offset int) ([]model.EAModel, int, error)
	MarkSold(ctx context.Context, modelID int) (*model.EAModel, error)
}

// MarketplaceService handles sharing, approval and purchase settlement
type MarketplaceService struct {
	marketStore    MarketplaceStore
	modelStore     ModelStore
	paymentStore   PaymentStore
	commissionRate float64
	listCache      ListCache
	publisher      EventPublisher
	logger         *zap.Logger
}

// NewMarketplaceService creates a new marketplace service
func NewMarketplaceService(
	marketStore MarketplaceStore,
	modelStore ModelStore,
	paymentStore PaymentStore,
	commissionRate float64,
	listCache ListCache,
	publisher EventPublisher,
	logger *zap.Logger,
) *MarketplaceService {
	return &MarketplaceService{
		marketStore:    marketStore,
		modelStore:     modelStore,
		paymentStore:   paymentStore,
		commissionRate: commissionRate,
		listCache:      listCache,
		publisher:      publisher,
		logger:         logger,
	}
}

// Share submits a model for marketplace approval at the given price
func (s *MarketplaceService) Share(ctx context.Context, modelID int, price float64) (*model.EAModel, error) {
	if price <= 0 {
		return nil, apperr.Validation("price", "must be positive")
	}

	ok, err := s.marketStore.Share(ctx, modelID, round2(price))
	if err != nil {
		return nil, apperr.Store("share model", err)
	}
	if !ok {
		return nil, apperr.NotFound("EA model")
	}

	shared, err := s.modelStore.GetByID(ctx, modelID)
	if err != nil {
		return nil, apperr.Store("get model", err)
	}
	if shared == nil {
		// Deleted between the update and the re-read
		return nil, apperr.NotFound("EA model")
	}

	s.listCache.Invalidate(ctx, shared.UserID)
	s.publisher.Publish(ctx, TopicMarketplaceEvents, itoa(modelID), event.TypeModelShared, shared)

	return shared, nil
}

// Approve moves a pending model to approved, making it purchasable
func (s *MarketplaceService) Approve(ctx context.Context, modelID int) (*model.EAModel, error) {
	ok, err := s.marketStore.Approve(ctx, modelID)
	if err != nil {
		return nil, apperr.Store("approve model", err)
	}
	if !ok {
		return nil, apperr.NotFound("pending EA model")
	}

	approved, err := s.modelStore.GetByID(ctx, modelID)
	if err != nil {
		return nil, apperr.Store("get model", err)
	}
	if approved == nil {
		// Deleted between the update and the re-read
		return nil, apperr.NotFound("EA model")
	}

	s.listCache.Invalidate(ctx, approved.UserID)
	s.publisher.Publish(ctx, TopicMarketplaceEvents, itoa(modelID), event.TypeModelApproved, approved)

	return approved, nil
}

// Listings returns approved, priced models with pagination
func (s *MarketplaceService) Listings(ctx context.Context, page, limit int) ([]model.EAModel, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	models, total, err := s.marketStore.ListApproved(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, apperr.Store("list marketplace", err)
	}

	return models, total, nil
}

// Purchase settles a marketplace purchase. The approved -> sold transition
// is a single compare-and-set, so exactly one buyer can win a model. The
// buyer is debited the full price; the developer share and platform
// commission are credited in the same settlement transaction.
func (s *MarketplaceService) Purchase(ctx context.Context, req *model.PurchaseRequest) (*model.PurchaseReceipt, error) {
	sold, err := s.marketStore.MarkSold(ctx, req.ModelID)
	if err != nil {
		return nil, apperr.Store("mark model sold", err)
	}
	if sold == nil {
		return nil, apperr.NotFound("approved EA model")
	}

	price := *sold.Price
	commission := round2(price * s.commissionRate)
	developerShare := round2(price - commission)

	entries := []model.LedgerEntry{
		{Account: req.BuyerID, Direction: model.LedgerDebit, Amount: price},
		{Account: sold.UserID, Direction: model.LedgerCredit, Amount: developerShare},
		{Account: PlatformAccount, Direction: model.LedgerCredit, Amount: commission},
	}

	order, err := s.paymentStore.SettleOrder(ctx, req.BuyerID, uuid.NewString(), price, entries)
	if err != nil {
		// The model is already sold at this point; surface the failure and
		// leave state as-is for a manual re-settlement (no compensation,
		// matching the rest of the API)
		return nil, apperr.Store("settle purchase", err)
	}

	s.listCache.Invalidate(ctx, sold.UserID)
	s.publisher.Publish(ctx, TopicMarketplaceEvents, itoa(req.ModelID), event.TypeModelPurchased, order)

	return &model.PurchaseReceipt{
		Model:          sold,
		Order:          order,
		Price:          price,
		Commission:     commission,
		DeveloperShare: developerShare,
		Message: fmt.Sprintf(
			"Purchase complete: commission %.2f, developer share %.2f",
			commission, developerShare,
		),
	}, nil
}
