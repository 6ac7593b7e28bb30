package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/metrics"
)

// OrderStore is the slice of the order repository the sweeper needs.
type OrderStore interface {
	CancelStale(ctx context.Context, cutoff time.Time) ([]*domain.Order, error)
}

// StockRestorer puts cancelled quantities back into the catalog.
type StockRestorer interface {
	RestoreStock(ctx context.Context, productID string, qty int) error
}

// Sweeper cancels pending orders that never got a payment intent, on a cron
// schedule, and returns their stock to the catalog.
type Sweeper struct {
	orders   OrderStore
	products StockRestorer
	logger   *slog.Logger
	schedule cron.Schedule
	staleAge time.Duration
}

func New(orders OrderStore, products StockRestorer, logger *slog.Logger, cronExpr string, staleAge time.Duration) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, err
	}
	return &Sweeper{
		orders:   orders,
		products: products,
		logger:   logger.With("component", "sweeper"),
		schedule: schedule,
		staleAge: staleAge,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	next := s.schedule.Next(time.Now())
	timer := time.NewTimer(time.Until(next))
	defer timer.Stop()

	s.logger.Info("sweeper started", "next_run", next, "stale_age", s.staleAge)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper shut down")
			return
		case <-timer.C:
			s.RunOnce(ctx)
			next = s.schedule.Next(time.Now())
			timer.Reset(time.Until(next))
		}
	}
}

// RunOnce performs a single sweep cycle.
func (s *Sweeper) RunOnce(ctx context.Context) {
	start := time.Now()
	cutoff := start.Add(-s.staleAge)

	cancelled, err := s.orders.CancelStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("sweep cancel stale orders", "error", err)
		return
	}

	for _, order := range cancelled {
		if err := s.products.RestoreStock(ctx, order.ProductID, order.Quantity); err != nil {
			s.logger.Error("sweep restore stock",
				"order_id", order.ID, "product_id", order.ProductID, "error", err)
		}
	}

	metrics.OrdersSweptTotal.Add(float64(len(cancelled)))
	metrics.SweeperCycleDuration.Observe(time.Since(start).Seconds())

	if len(cancelled) > 0 {
		s.logger.Info("swept stale orders", "count", len(cancelled))
	}
}
