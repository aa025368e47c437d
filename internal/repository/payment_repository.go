package repository

import (
	"context"

	"services/ea-service/internal/model"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// PaymentRepository handles database operations for payment orders and
// ledger entries
type PaymentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *sqlx.DB, logger *zap.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateOrder inserts a payment order row and returns it
func (r *PaymentRepository) CreateOrder(ctx context.Context, userID int, orderRef string, amount float64, status string) (*model.PaymentOrder, error) {
	query := `
		INSERT INTO payment_orders (user_id, order_ref, amount, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, order_ref, amount, status, created_at
	`

	var order model.PaymentOrder
	err := r.db.GetContext(ctx, &order, query, userID, orderRef, amount, status)
	if err != nil {
		r.logger.Error("Failed to create payment order", zap.Error(err), zap.Int("user_id", userID))
		return nil, err
	}

	return &order, nil
}

// SettleOrder writes a completed order together with its ledger entries in
// one transaction, so a settled purchase always carries its full split
func (r *PaymentRepository) SettleOrder(ctx context.Context, buyerID int, orderRef string, amount float64, entries []model.LedgerEntry) (*model.PaymentOrder, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin settlement transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO payment_orders (user_id, order_ref, amount, status, created_at)
		VALUES ($1, $2, $3, 'completed', NOW())
		RETURNING id, user_id, order_ref, amount, status, created_at
	`

	var order model.PaymentOrder
	err = tx.GetContext(ctx, &order, orderQuery, buyerID, orderRef, amount)
	if err != nil {
		r.logger.Error("Failed to insert settlement order", zap.Error(err))
		return nil, err
	}

	entryQuery := `
		INSERT INTO ledger_entries (order_id, account, direction, amount, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`

	for _, entry := range entries {
		_, err = tx.ExecContext(ctx, entryQuery, order.ID, entry.Account, entry.Direction, entry.Amount)
		if err != nil {
			r.logger.Error("Failed to insert ledger entry", zap.Error(err), zap.Int("order_id", order.ID))
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		r.logger.Error("Failed to commit settlement", zap.Error(err))
		return nil, err
	}

	return &order, nil
}

// GetLedgerByOrder retrieves the ledger rows of an order
func (r *PaymentRepository) GetLedgerByOrder(ctx context.Context, orderID int) ([]model.LedgerEntry, error) {
	query := `
		SELECT id, order_id, account, direction, amount, created_at
		FROM ledger_entries
		WHERE order_id = $1
		ORDER BY id
	`

	entries := []model.LedgerEntry{}
	err := r.db.SelectContext(ctx, &entries, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get ledger entries", zap.Error(err), zap.Int("order_id", orderID))
		return nil, err
	}

	return entries, nil
}
