package service

import (
	"context"
	"testing"

	"services/ea-service/internal/apperr"
	"services/ea-service/internal/event"
	"services/ea-service/internal/model"

	"go.uber.org/zap"
)

func newModelService(store *memStore) *ModelService {
	svc, _ := newModelServiceWithPublisher(store)
	return svc
}

func newModelServiceWithPublisher(store *memStore) (*ModelService, *memPublisher) {
	publisher := &memPublisher{}
	svc := NewModelService(
		store,
		memVersionStore{store},
		store,
		newMemListCache(),
		publisher,
		zap.NewNop(),
	)
	return svc, publisher
}

func validCreate(ownerID int) *model.EAModelCreate {
	return &model.EAModelCreate{
		OwnerID: ownerID,
		Name:    "Scalper",
		Configuration: model.Configuration{
			"indicator": "RSI",
			"spread":    0.5,
		},
	}
}

func TestCreateModel(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)

	created, err := svc.Create(context.Background(), validCreate(7))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if created.UserID != 7 {
		t.Fatalf("expected owner 7, got %d", created.UserID)
	}
	if created.ApprovalStatus != model.ApprovalNone {
		t.Fatalf("expected approval status %q, got %q", model.ApprovalNone, created.ApprovalStatus)
	}
	if created.HasBacktest() {
		t.Fatal("new model must not carry backtest metrics")
	}
}

func TestCreateModelEmptyName(t *testing.T) {
	svc := newModelService(newMemStore())

	create := validCreate(1)
	create.Name = "   "

	if _, err := svc.Create(context.Background(), create); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateModelNilConfiguration(t *testing.T) {
	svc := newModelService(newMemStore())

	create := validCreate(1)
	create.Configuration = nil

	if _, err := svc.Create(context.Background(), create); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateModelBumpsSubscriptionCount(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)
	ctx := context.Background()

	if _, err := store.CreateFree(ctx, 3); err != nil {
		t.Fatalf("CreateFree failed: %v", err)
	}
	if _, err := svc.Create(ctx, validCreate(3)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	sub, err := store.GetByUser(ctx, 3)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if sub.ModelCount != 1 {
		t.Fatalf("expected model count 1, got %d", sub.ModelCount)
	}
}

func TestListByOwnerServesCachedSnapshot(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, validCreate(5)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.ListByOwner(ctx, 5); err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}

	// Mutate behind the cache; the snapshot must still be served
	store.models[1].Name = "changed directly"

	models, err := svc.ListByOwner(ctx, 5)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(models) != 1 || models[0].Name != "Scalper" {
		t.Fatalf("expected cached snapshot, got %+v", models)
	}
}

func TestUpdateInvalidatesOwnerCache(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate(5))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := svc.ListByOwner(ctx, 5); err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}

	update := &model.EAModelUpdate{
		Name:          "Swing",
		Configuration: model.Configuration{"indicator": "MACD"},
	}
	if _, err := svc.Update(ctx, created.ID, update); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	models, err := svc.ListByOwner(ctx, 5)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(models) != 1 || models[0].Name != "Swing" {
		t.Fatalf("expected fresh list after update, got %+v", models)
	}
}

func TestUpdateMissingModel(t *testing.T) {
	svc := newModelService(newMemStore())

	update := &model.EAModelUpdate{
		Name:          "Swing",
		Configuration: model.Configuration{},
	}
	if _, err := svc.Update(context.Background(), 42, update); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteCascadesVersions(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)
	versions := NewVersionService(memVersionStore{store}, store, newMemListCache(), &memPublisher{}, zap.NewNop())
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate(2))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := versions.Save(ctx, created.ID, "// v1"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := versions.Save(ctx, created.ID, "// v2"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if len(store.models) != 0 {
		t.Fatalf("expected no models left, got %d", len(store.models))
	}
	if len(store.versions) != 0 {
		t.Fatalf("expected versions removed with model, got %d", len(store.versions))
	}
}

func TestDeleteMissingModel(t *testing.T) {
	svc := newModelService(newMemStore())

	if err := svc.Delete(context.Background(), 9); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAttachBacktest(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate(1))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	snapshot := &model.BacktestSnapshot{
		Profit:   floatPtr(120.5),
		Drawdown: floatPtr(30.25),
		WinRatio: floatPtr(61.1),
	}
	updated, err := svc.AttachBacktest(ctx, created.ID, snapshot)
	if err != nil {
		t.Fatalf("AttachBacktest failed: %v", err)
	}
	if !updated.HasBacktest() {
		t.Fatal("expected backtest metrics on updated model")
	}
	if *updated.Profit != 120.5 || *updated.Drawdown != 30.25 || *updated.WinRatio != 61.1 {
		t.Fatalf("unexpected metrics: %+v", updated)
	}
}

func TestAttachBacktestPublishesEvent(t *testing.T) {
	store := newMemStore()
	svc, publisher := newModelServiceWithPublisher(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate(1))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	publisher.events = nil

	snapshot := &model.BacktestSnapshot{
		Profit:   floatPtr(120.5),
		Drawdown: floatPtr(30.25),
		WinRatio: floatPtr(61.1),
	}
	if _, err := svc.AttachBacktest(ctx, created.ID, snapshot); err != nil {
		t.Fatalf("AttachBacktest failed: %v", err)
	}

	if len(publisher.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.events))
	}
	if publisher.events[0].Type != event.TypeModelBacktested {
		t.Fatalf("expected event type %q, got %q", event.TypeModelBacktested, publisher.events[0].Type)
	}
}

func TestAttachBacktestModelDeletedDuringUpdate(t *testing.T) {
	store := newMemStore()
	svc := NewModelService(
		staleReadStore{store},
		memVersionStore{store},
		store,
		newMemListCache(),
		&memPublisher{},
		zap.NewNop(),
	)
	ctx := context.Background()

	created, err := store.Create(ctx, validCreate(1))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	snapshot := &model.BacktestSnapshot{
		Profit:   floatPtr(10),
		Drawdown: floatPtr(5),
		WinRatio: floatPtr(50),
	}
	if _, err := svc.AttachBacktest(ctx, created.ID, snapshot); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAttachBacktestRejectsPartialSnapshot(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreate(1))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	snapshot := &model.BacktestSnapshot{Profit: floatPtr(10)}
	if _, err := svc.AttachBacktest(ctx, created.ID, snapshot); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetAnalytics(t *testing.T) {
	store := newMemStore()
	svc := newModelService(store)
	ctx := context.Background()

	first, _ := svc.Create(ctx, validCreate(1))
	second, _ := svc.Create(ctx, validCreate(1))
	if _, err := svc.Create(ctx, validCreate(2)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	attach := func(id int, profit, drawdown float64) {
		snapshot := &model.BacktestSnapshot{
			Profit:   floatPtr(profit),
			Drawdown: floatPtr(drawdown),
			WinRatio: floatPtr(50),
		}
		if _, err := svc.AttachBacktest(ctx, id, snapshot); err != nil {
			t.Fatalf("AttachBacktest failed: %v", err)
		}
	}
	attach(first.ID, 100, 20)
	attach(second.ID, 200, 40)

	summary, err := svc.GetAnalytics(ctx)
	if err != nil {
		t.Fatalf("GetAnalytics failed: %v", err)
	}
	if summary.TotalModels != 3 {
		t.Fatalf("expected 3 models, got %d", summary.TotalModels)
	}
	if summary.AvgProfit == nil || *summary.AvgProfit != 150 {
		t.Fatalf("expected average profit 150, got %v", summary.AvgProfit)
	}
	if summary.AvgDrawdown == nil || *summary.AvgDrawdown != 30 {
		t.Fatalf("expected average drawdown 30, got %v", summary.AvgDrawdown)
	}
}
