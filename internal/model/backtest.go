package model

import (
	"time"
)

// BacktestRequest represents a request to simulate a configuration
type BacktestRequest struct {
	Configuration Configuration `json:"configuration"`
}

// BacktestResult represents simulated performance metrics for a
// configuration. The simulation is a placeholder, not a historical run.
type BacktestResult struct {
	Profit        float64       `json:"profit"`
	Drawdown      float64       `json:"drawdown"`
	WinRatio      float64       `json:"winRatio"`
	SharpeRatio   float64       `json:"sharpeRatio"`
	Configuration Configuration `json:"configuration"`
	BacktestDate  time.Time     `json:"backtestDate"`
}

// CodeRequest represents a code generation request
type CodeRequest struct {
	Configuration Configuration `json:"configuration"`
}

// CodeResult carries generated EA source code
type CodeResult struct {
	Code string `json:"code"`
}

// AnalyticsSummary aggregates stored models for the analytics dashboard
type AnalyticsSummary struct {
	TotalModels int      `json:"totalModels"`
	AvgProfit   *float64 `json:"avgProfit"`
	AvgDrawdown *float64 `json:"avgDrawdown"`
}
