package service

import (
	"math/rand"
	"time"

	"services/ea-service/internal/model"
	"services/ea-service/internal/validator"

	"go.uber.org/zap"
)

// BacktestService produces simulated performance metrics for a
// configuration. This is the placeholder simulator of the original EA
// Builder, not a historical run: metrics are random draws shifted by the
// configuration's spread, slippage and commission.
type BacktestService struct {
	rnd    *rand.Rand
	logger *zap.Logger
}

// NewBacktestService creates a new backtest simulator
func NewBacktestService(logger *zap.Logger) *BacktestService {
	return &BacktestService{
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: logger,
	}
}

// Run simulates a backtest for the given configuration
func (s *BacktestService) Run(cfg model.Configuration) (*model.BacktestResult, error) {
	if err := validator.ValidateConfiguration(cfg); err != nil {
		return nil, err
	}

	spread := cfg.Float("spread", 0.5)
	slippage := cfg.Float("slippage", 0.2)
	commission := cfg.Float("commission", 0.1)

	baseProfit := s.rnd.Float64() * 1000
	profit := round2(baseProfit - spread*10 - commission*5)
	drawdown := round2(s.rnd.Float64()*200 + slippage*10)
	winRatio := round2(s.rnd.Float64() * 100)
	sharpeRatio := round2((profit - drawdown) / (s.rnd.Float64()*50 + 1))

	return &model.BacktestResult{
		Profit:        profit,
		Drawdown:      drawdown,
		WinRatio:      winRatio,
		SharpeRatio:   sharpeRatio,
		Configuration: cfg,
		BacktestDate:  time.Now().UTC(),
	}, nil
}
