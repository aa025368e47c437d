package service

import (
	"context"
	"sort"
	"time"

	"services/ea-service/internal/model"
)

// memStore is an in-memory stand-in for the repositories, implementing
// every store interface used by the services.
type memStore struct {
	models        map[int]*model.EAModel
	nextModelID   int
	versions      map[int]*model.EAModelVersion
	nextVersionID int
	subs          map[int]*model.Subscription
	nextSubID     int
	orders        []*model.PaymentOrder
	nextOrderID   int
	ledger        []model.LedgerEntry
	err           error
}

func newMemStore() *memStore {
	return &memStore{
		models:        make(map[int]*model.EAModel),
		nextModelID:   1,
		versions:      make(map[int]*model.EAModelVersion),
		nextVersionID: 1,
		subs:          make(map[int]*model.Subscription),
		nextSubID:     1,
		nextOrderID:   1,
	}
}

func cloneModel(m *model.EAModel) *model.EAModel {
	clone := *m
	return &clone
}

// memListCache is an in-memory ListCache for service tests.
type memListCache struct {
	entries map[int][]model.EAModel
}

func newMemListCache() *memListCache {
	return &memListCache{entries: make(map[int][]model.EAModel)}
}

func (c *memListCache) Get(_ context.Context, ownerID int) ([]model.EAModel, bool) {
	models, ok := c.entries[ownerID]
	return models, ok
}

func (c *memListCache) Set(_ context.Context, ownerID int, models []model.EAModel) {
	c.entries[ownerID] = models
}

func (c *memListCache) Invalidate(_ context.Context, ownerID int) {
	delete(c.entries, ownerID)
}

// memPublisher records published events for assertions.
type publishedEvent struct {
	Topic string
	Key   string
	Type  string
}

type memPublisher struct {
	events []publishedEvent
}

func (p *memPublisher) Publish(_ context.Context, topic, key, eventType string, _ interface{}) {
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Type: eventType})
}

// staleReadStore simulates a row deleted between a successful conditional
// write and the follow-up read.
type staleReadStore struct {
	*memStore
}

func (s staleReadStore) GetByID(_ context.Context, _ int) (*model.EAModel, error) {
	return nil, nil
}

func floatPtr(v float64) *float64 {
	return &v
}

// ModelStore

func (s *memStore) Create(_ context.Context, create *model.EAModelCreate) (*model.EAModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	m := &model.EAModel{
		ID:             s.nextModelID,
		UserID:         create.OwnerID,
		Name:           create.Name,
		Configuration:  create.Configuration,
		ApprovalStatus: model.ApprovalNone,
		CreatedAt:      time.Now(),
	}
	s.nextModelID++
	s.models[m.ID] = m
	return cloneModel(m), nil
}

func (s *memStore) GetByID(_ context.Context, id int) (*model.EAModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.models[id]
	if !ok {
		return nil, nil
	}
	return cloneModel(m), nil
}

func (s *memStore) GetByOwner(_ context.Context, ownerID int) ([]model.EAModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.EAModel
	for _, m := range s.sortedModels() {
		if m.UserID == ownerID {
			out = append(out, *cloneModel(m))
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, id int, update *model.EAModelUpdate) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	m, ok := s.models[id]
	if !ok {
		return false, nil
	}
	now := time.Now()
	m.Name = update.Name
	m.Configuration = update.Configuration
	m.UpdatedAt = &now
	return true, nil
}

func (s *memStore) Delete(_ context.Context, id int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.models[id]; !ok {
		return false, nil
	}
	delete(s.models, id)
	return true, nil
}

func (s *memStore) AttachBacktest(_ context.Context, id int, snapshot *model.BacktestSnapshot) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	m, ok := s.models[id]
	if !ok {
		return false, nil
	}
	now := time.Now()
	m.Profit = snapshot.Profit
	m.Drawdown = snapshot.Drawdown
	m.WinRatio = snapshot.WinRatio
	m.UpdatedAt = &now
	return true, nil
}

func (s *memStore) SetCode(_ context.Context, id int, code string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	m, ok := s.models[id]
	if !ok {
		return false, nil
	}
	now := time.Now()
	m.Code = &code
	m.UpdatedAt = &now
	return true, nil
}

func (s *memStore) GetBacktested(_ context.Context) ([]model.EAModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.EAModel
	for _, m := range s.sortedModels() {
		if m.HasBacktest() {
			out = append(out, *cloneModel(m))
		}
	}
	return out, nil
}

func (s *memStore) ReplaceTopFlags(_ context.Context, ids []int) error {
	if s.err != nil {
		return s.err
	}
	selected := make(map[int]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	for _, m := range s.models {
		m.IsTop = selected[m.ID]
	}
	return nil
}

func (s *memStore) GetTop(_ context.Context) ([]model.EAModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []model.EAModel
	for _, m := range s.sortedModels() {
		if m.IsTop {
			out = append(out, *cloneModel(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score() > out[j].Score()
	})
	return out, nil
}

func (s *memStore) GetAnalytics(_ context.Context) (*model.AnalyticsSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	summary := &model.AnalyticsSummary{TotalModels: len(s.models)}
	var profitSum, drawdownSum float64
	var profitCount, drawdownCount int
	for _, m := range s.models {
		if m.Profit != nil {
			profitSum += *m.Profit
			profitCount++
		}
		if m.Drawdown != nil {
			drawdownSum += *m.Drawdown
			drawdownCount++
		}
	}
	if profitCount > 0 {
		summary.AvgProfit = floatPtr(profitSum / float64(profitCount))
	}
	if drawdownCount > 0 {
		summary.AvgDrawdown = floatPtr(drawdownSum / float64(drawdownCount))
	}
	return summary, nil
}

func (s *memStore) sortedModels() []*model.EAModel {
	out := make([]*model.EAModel, 0, len(s.models))
	for _, m := range s.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// memVersionStore adapts memStore to the VersionStore interface, whose
// Create and GetByID signatures differ from ModelStore's.
type memVersionStore struct {
	s *memStore
}

func (v memVersionStore) Create(ctx context.Context, modelID int, code string) (*model.EAModelVersion, error) {
	return v.s.CreateVersion(ctx, modelID, code)
}

func (v memVersionStore) ListByModel(ctx context.Context, modelID int) ([]model.EAModelVersion, error) {
	return v.s.listVersionsByModel(ctx, modelID)
}

func (v memVersionStore) GetByID(ctx context.Context, versionID int) (*model.EAModelVersion, error) {
	return v.s.getVersionByID(ctx, versionID)
}

func (v memVersionStore) DeleteByModel(ctx context.Context, modelID int) error {
	return v.s.deleteVersionsByModel(ctx, modelID)
}

func (s *memStore) CreateVersion(_ context.Context, modelID int, code string) (*model.EAModelVersion, error) {
	if s.err != nil {
		return nil, s.err
	}
	v := &model.EAModelVersion{
		ID:        s.nextVersionID,
		ModelID:   modelID,
		Code:      code,
		CreatedAt: time.Now(),
	}
	s.nextVersionID++
	s.versions[v.ID] = v
	return v, nil
}

func (s *memStore) listVersionsByModel(_ context.Context, modelID int) ([]model.EAModelVersion, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []model.EAModelVersion{}
	for _, v := range s.versions {
		if v.ModelID == modelID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *memStore) getVersionByID(_ context.Context, versionID int) (*model.EAModelVersion, error) {
	if s.err != nil {
		return nil, s.err
	}
	v, ok := s.versions[versionID]
	if !ok {
		return nil, nil
	}
	clone := *v
	return &clone, nil
}

func (s *memStore) deleteVersionsByModel(_ context.Context, modelID int) error {
	if s.err != nil {
		return s.err
	}
	for id, v := range s.versions {
		if v.ModelID == modelID {
			delete(s.versions, id)
		}
	}
	return nil
}

// SubscriptionStore

func (s *memStore) GetByUser(_ context.Context, userID int) (*model.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	sub, ok := s.subs[userID]
	if !ok {
		return nil, nil
	}
	clone := *sub
	return &clone, nil
}

func (s *memStore) CreateFree(_ context.Context, userID int) (*model.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	sub := &model.Subscription{
		ID:        s.nextSubID,
		UserID:    userID,
		Tier:      model.TierFree,
		StartedAt: time.Now(),
	}
	s.nextSubID++
	s.subs[userID] = sub
	clone := *sub
	return &clone, nil
}

func (s *memStore) Upgrade(_ context.Context, userID int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	sub, ok := s.subs[userID]
	if !ok {
		return false, nil
	}
	sub.Tier = model.TierPremium
	sub.ModelCount = 0
	return true, nil
}

func (s *memStore) IncrementModelCount(_ context.Context, userID int) error {
	if s.err != nil {
		return s.err
	}
	if sub, ok := s.subs[userID]; ok {
		sub.ModelCount++
	}
	return nil
}

// MarketplaceStore

func (s *memStore) Share(_ context.Context, modelID int, price float64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	m, ok := s.models[modelID]
	if !ok || (m.ApprovalStatus != model.ApprovalNone && m.ApprovalStatus != model.ApprovalPending) {
		return false, nil
	}
	now := time.Now()
	m.ApprovalStatus = model.ApprovalPending
	m.Price = &price
	m.UpdatedAt = &now
	return true, nil
}

func (s *memStore) Approve(_ context.Context, modelID int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	m, ok := s.models[modelID]
	if !ok || m.ApprovalStatus != model.ApprovalPending {
		return false, nil
	}
	now := time.Now()
	m.ApprovalStatus = model.ApprovalApproved
	m.UpdatedAt = &now
	return true, nil
}

func (s *memStore) ListApproved(_ context.Context, limit, offset int) ([]model.EAModel, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	var all []model.EAModel
	for _, m := range s.sortedModels() {
		if m.ApprovalStatus == model.ApprovalApproved && m.Price != nil {
			all = append(all, *cloneModel(m))
		}
	}
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *memStore) MarkSold(_ context.Context, modelID int) (*model.EAModel, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.models[modelID]
	if !ok || m.ApprovalStatus != model.ApprovalApproved || m.Price == nil {
		return nil, nil
	}
	now := time.Now()
	m.ApprovalStatus = model.ApprovalSold
	m.UpdatedAt = &now
	return cloneModel(m), nil
}

// PaymentStore

func (s *memStore) CreateOrder(_ context.Context, userID int, orderRef string, amount float64, status string) (*model.PaymentOrder, error) {
	if s.err != nil {
		return nil, s.err
	}
	order := &model.PaymentOrder{
		ID:        s.nextOrderID,
		UserID:    userID,
		OrderRef:  orderRef,
		Amount:    amount,
		Status:    status,
		CreatedAt: time.Now(),
	}
	s.nextOrderID++
	s.orders = append(s.orders, order)
	clone := *order
	return &clone, nil
}

func (s *memStore) SettleOrder(ctx context.Context, buyerID int, orderRef string, amount float64, entries []model.LedgerEntry) (*model.PaymentOrder, error) {
	order, err := s.CreateOrder(ctx, buyerID, orderRef, amount, model.OrderCompleted)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		entry.OrderID = order.ID
		s.ledger = append(s.ledger, entry)
	}
	return order, nil
}

func (s *memStore) GetLedgerByOrder(_ context.Context, orderID int) ([]model.LedgerEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := []model.LedgerEntry{}
	for _, entry := range s.ledger {
		if entry.OrderID == orderID {
			out = append(out, entry)
		}
	}
	return out, nil
}
