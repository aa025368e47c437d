package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Approval status values for marketplace gating
const (
	ApprovalNone     = "none"
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalSold     = "sold"
)

// EAModel represents an Expert Advisor configuration record
type EAModel struct {
	ID             int           `json:"id" db:"id"`
	UserID         int           `json:"user_id" db:"user_id"`
	Name           string        `json:"name" db:"name"`
	Configuration  Configuration `json:"configuration" db:"configuration"`
	Code           *string       `json:"code,omitempty" db:"code"`
	Profit         *float64      `json:"profit,omitempty" db:"profit"`
	Drawdown       *float64      `json:"drawdown,omitempty" db:"drawdown"`
	WinRatio       *float64      `json:"win_ratio,omitempty" db:"win_ratio"`
	IsTop          bool          `json:"is_top" db:"is_top"`
	ApprovalStatus string        `json:"approval_status" db:"approval_status"`
	Price          *float64      `json:"price,omitempty" db:"price"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      *time.Time    `json:"updated_at,omitempty" db:"updated_at"`
}

// HasBacktest reports whether a backtest snapshot has been recorded
func (m *EAModel) HasBacktest() bool {
	return m.Profit != nil || m.Drawdown != nil || m.WinRatio != nil
}

// Score computes the ranking score; missing metrics count as zero
func (m *EAModel) Score() float64 {
	var profit, drawdown float64
	if m.Profit != nil {
		profit = *m.Profit
	}
	if m.Drawdown != nil {
		drawdown = *m.Drawdown
	}
	return profit - drawdown
}

// Configuration represents the builder document of an EA model: indicator
// choices, parameters and risk settings
type Configuration map[string]interface{}

// Value implements the driver.Valuer interface for Configuration
func (c Configuration) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface for Configuration
func (c *Configuration) Scan(value interface{}) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, c)
}

// Float returns a numeric configuration entry, falling back to def when the
// key is absent or not a number
func (c Configuration) Float(key string, def float64) float64 {
	v, ok := c[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// String returns a string configuration entry or def when absent
func (c Configuration) String(key string, def string) string {
	if s, ok := c[key].(string); ok && s != "" {
		return s
	}
	return def
}

// EAModelCreate represents data for creating a new EA model
type EAModelCreate struct {
	OwnerID       int           `json:"ownerId" binding:"required"`
	Name          string        `json:"name"`
	Configuration Configuration `json:"configuration"`
}

// EAModelUpdate represents data for updating an existing EA model
type EAModelUpdate struct {
	Name          string        `json:"name"`
	Configuration Configuration `json:"configuration"`
}

// BacktestSnapshot represents recorded backtest metrics for a model
type BacktestSnapshot struct {
	Profit   *float64 `json:"profit"`
	Drawdown *float64 `json:"drawdown"`
	WinRatio *float64 `json:"winRatio"`
}
