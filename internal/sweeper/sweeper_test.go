package sweeper_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/sweeper"
)

type fakeOrderStore struct {
	cancelStale func(ctx context.Context, cutoff time.Time) ([]*domain.Order, error)
}

func (f *fakeOrderStore) CancelStale(ctx context.Context, cutoff time.Time) ([]*domain.Order, error) {
	return f.cancelStale(ctx, cutoff)
}

type fakeStockRestorer struct {
	restored map[string]int
	err      error
}

func (f *fakeStockRestorer) RestoreStock(_ context.Context, productID string, qty int) error {
	if f.err != nil {
		return f.err
	}
	if f.restored == nil {
		f.restored = map[string]int{}
	}
	f.restored[productID] += qty
	return nil
}

func newSweeper(t *testing.T, orders *fakeOrderStore, products *fakeStockRestorer) *sweeper.Sweeper {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := sweeper.New(orders, products, logger, "*/15 * * * *", time.Hour)
	if err != nil {
		t.Fatalf("new sweeper: %v", err)
	}
	return s
}

func TestNew_InvalidCronExpr_Fails(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if _, err := sweeper.New(&fakeOrderStore{}, &fakeStockRestorer{}, logger, "not a cron expr", time.Hour); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestRunOnce_RestoresStockForCancelledOrders(t *testing.T) {
	orders := &fakeOrderStore{
		cancelStale: func(_ context.Context, cutoff time.Time) ([]*domain.Order, error) {
			if !cutoff.Before(time.Now()) {
				t.Errorf("cutoff %v is not in the past", cutoff)
			}
			return []*domain.Order{
				{ID: "o1", ProductID: "p1", Quantity: 2},
				{ID: "o2", ProductID: "p1", Quantity: 1},
				{ID: "o3", ProductID: "p2", Quantity: 4},
			}, nil
		},
	}
	products := &fakeStockRestorer{}

	newSweeper(t, orders, products).RunOnce(context.Background())

	if products.restored["p1"] != 3 {
		t.Errorf("p1 restored = %d, want 3", products.restored["p1"])
	}
	if products.restored["p2"] != 4 {
		t.Errorf("p2 restored = %d, want 4", products.restored["p2"])
	}
}

func TestRunOnce_CancelError_LeavesStockAlone(t *testing.T) {
	orders := &fakeOrderStore{
		cancelStale: func(_ context.Context, _ time.Time) ([]*domain.Order, error) {
			return nil, errors.New("db down")
		},
	}
	products := &fakeStockRestorer{}

	newSweeper(t, orders, products).RunOnce(context.Background())

	if len(products.restored) != 0 {
		t.Errorf("stock restored despite cancel failure: %v", products.restored)
	}
}
