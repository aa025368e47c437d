package service

import (
	"context"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentStore defines the persistence operations for payment orders and
// ledger entries
type PaymentStore interface {
	CreateOrder(ctx context.Context, userID int, orderRef string, amount float64, status string) (*model.PaymentOrder, error)
	SettleOrder(ctx context.Context, buyerID int, orderRef string, amount float64, entries []model.LedgerEntry) (*model.PaymentOrder, error)
	GetLedgerByOrder(ctx context.Context, orderID int) ([]model.LedgerEntry, error)
}

// PaymentService handles payment order initiation
type PaymentService struct {
	paymentStore PaymentStore
	logger       *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentStore PaymentStore, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		paymentStore: paymentStore,
		logger:       logger,
	}
}

// CreateOrder opens a pending payment order with a generated order
// reference. No gateway settles it; completion only happens through a
// marketplace purchase.
func (s *PaymentService) CreateOrder(ctx context.Context, create *model.PaymentOrderCreate) (*model.PaymentOrder, error) {
	if create.Amount <= 0 {
		return nil, apperr.Validation("amount", "must be positive")
	}

	order, err := s.paymentStore.CreateOrder(ctx, create.UserID, uuid.NewString(), round2(create.Amount), model.OrderPending)
	if err != nil {
		return nil, apperr.Store("create payment order", err)
	}

	return order, nil
}
