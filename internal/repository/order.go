package repository

import (
	"context"
	"time"

	"github.com/rollabike/storefront/internal/domain"
)

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	SetPaymentIntent(ctx context.Context, id, intentID string) error
	// CancelStale cancels pending orders without a payment intent created
	// before cutoff, returning the cancelled orders so stock can be restored.
	CancelStale(ctx context.Context, cutoff time.Time) ([]*domain.Order, error)
}
