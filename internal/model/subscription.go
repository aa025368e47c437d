package model

import (
	"time"
)

// Subscription tiers
const (
	TierFree    = "free"
	TierPremium = "premium"
)

// Subscription represents a user's subscription row
type Subscription struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"user_id" db:"user_id"`
	Tier       string    `json:"tier" db:"tier"`
	StartedAt  time.Time `json:"started_at" db:"started_at"`
	ModelCount int       `json:"model_count" db:"model_count"`
}

// SubscriptionRequest identifies the user for activation or upgrade
type SubscriptionRequest struct {
	UserID int `json:"userId" binding:"required"`
}
