package validator

import (
	"strings"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/model"
)

// Numeric configuration keys that must not be negative when present
var nonNegativeKeys = []string{"spread", "slippage", "commission"}

// ValidateConfiguration checks that a configuration is a structured builder
// document
func ValidateConfiguration(cfg model.Configuration) error {
	if cfg == nil {
		return apperr.Validation("configuration", "must be a structured document")
	}

	for _, key := range nonNegativeKeys {
		if cfg.Float(key, 0) < 0 {
			return apperr.Validation("configuration."+key, "must not be negative")
		}
	}

	if raw, ok := cfg["riskSettings"]; ok {
		if _, isDoc := raw.(map[string]interface{}); !isDoc {
			return apperr.Validation("configuration.riskSettings", "must be an object")
		}
	}

	return nil
}

// ValidateModelCreate checks the required fields of a model creation request
func ValidateModelCreate(create *model.EAModelCreate) error {
	if strings.TrimSpace(create.Name) == "" {
		return apperr.Validation("name", "must not be empty")
	}
	return ValidateConfiguration(create.Configuration)
}

// ValidateModelUpdate checks the required fields of a model update request
func ValidateModelUpdate(update *model.EAModelUpdate) error {
	if strings.TrimSpace(update.Name) == "" {
		return apperr.Validation("name", "must not be empty")
	}
	return ValidateConfiguration(update.Configuration)
}

// ValidateBacktestSnapshot requires all three metrics of a backtest snapshot
func ValidateBacktestSnapshot(snapshot *model.BacktestSnapshot) error {
	if snapshot.Profit == nil {
		return apperr.Validation("profit", "is required")
	}
	if snapshot.Drawdown == nil {
		return apperr.Validation("drawdown", "is required")
	}
	if snapshot.WinRatio == nil {
		return apperr.Validation("winRatio", "is required")
	}
	return nil
}
