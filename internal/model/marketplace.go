package model

import (
	"time"
)

// Ledger entry directions
const (
	LedgerDebit  = "debit"
	LedgerCredit = "credit"
)

// Payment order statuses
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
)

// ShareRequest represents a request to list a model on the marketplace
type ShareRequest struct {
	Price float64 `json:"price"`
}

// PurchaseRequest represents a marketplace purchase submission
type PurchaseRequest struct {
	ModelID int `json:"modelId" binding:"required"`
	BuyerID int `json:"buyerId" binding:"required"`
}

// PurchaseReceipt reports the outcome of a settled purchase
type PurchaseReceipt struct {
	Model          *EAModel      `json:"model"`
	Order          *PaymentOrder `json:"order"`
	Price          float64       `json:"price"`
	Commission     float64       `json:"commission"`
	DeveloperShare float64       `json:"developer_share"`
	Message        string        `json:"message"`
}

// PaymentOrder represents a payment order row
type PaymentOrder struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	OrderRef  string    `json:"order_ref" db:"order_ref"`
	Amount    float64   `json:"amount" db:"amount"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PaymentOrderCreate represents a payment initiation request
type PaymentOrderCreate struct {
	UserID int     `json:"userId" binding:"required"`
	Amount float64 `json:"amount"`
}

// LedgerEntry represents a single debit or credit row of a settled order
type LedgerEntry struct {
	ID        int       `json:"id" db:"id"`
	OrderID   int       `json:"order_id" db:"order_id"`
	Account   int       `json:"account" db:"account"`
	Direction string    `json:"direction" db:"direction"`
	Amount    float64   `json:"amount" db:"amount"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
