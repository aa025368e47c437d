package service

import (
	"context"
	"sort"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/event"
	"services/ea-service/internal/model"

	"go.uber.org/zap"
)

// RankingService recomputes the top-N flag across backtested models
type RankingService struct {
	modelStore ModelStore
	topSize    int
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewRankingService creates a new ranking service
func NewRankingService(modelStore ModelStore, topSize int, publisher EventPublisher, logger *zap.Logger) *RankingService {
	return &RankingService{
		modelStore: modelStore,
		topSize:    topSize,
		publisher:  publisher,
		logger:     logger,
	}
}

// Recompute re-scores every backtested model, replaces the top flags in a
// single conditional update and returns the new top set ordered by score
// descending. Safe to re-run at any time.
func (s *RankingService) Recompute(ctx context.Context) ([]model.EAModel, error) {
	models, err := s.modelStore.GetBacktested(ctx)
	if err != nil {
		return nil, apperr.Store("load backtested models", err)
	}

	ids := selectTop(models, s.topSize)

	if err := s.modelStore.ReplaceTopFlags(ctx, ids); err != nil {
		return nil, apperr.Store("replace top flags", err)
	}

	top, err := s.modelStore.GetTop(ctx)
	if err != nil {
		return nil, apperr.Store("load top models", err)
	}

	s.logger.Info("Rank recomputation complete",
		zap.Int("candidates", len(models)),
		zap.Int("flagged", len(ids)))
	s.publisher.Publish(ctx, TopicModelEvents, "rank", event.TypeRankRecomputed, ids)

	return top, nil
}

// TopModels returns the currently flagged top set ordered by score
// descending
func (s *RankingService) TopModels(ctx context.Context) ([]model.EAModel, error) {
	top, err := s.modelStore.GetTop(ctx)
	if err != nil {
		return nil, apperr.Store("load top models", err)
	}
	return top, nil
}

// selectTop returns the ids of the first min(n, len(models)) models by
// score descending. The sort is stable, so ties keep input order.
func selectTop(models []model.EAModel, n int) []int {
	ranked := make([]model.EAModel, len(models))
	copy(ranked, models)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score() > ranked[j].Score()
	})

	if n > len(ranked) {
		n = len(ranked)
	}

	ids := make([]int, 0, n)
	for _, m := range ranked[:n] {
		ids = append(ids, m.ID)
	}
	return ids
}
