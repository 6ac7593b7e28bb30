package repository

import (
	"context"

	"github.com/rollabike/storefront/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Delete(ctx context.Context, id string) error
	SetAvailable(ctx context.Context, id string, available int) error
	// ReserveStock atomically decrements availability by qty, failing with
	// ErrInsufficientStock when fewer than qty units remain.
	ReserveStock(ctx context.Context, id string, qty int) error
	RestoreStock(ctx context.Context, id string, qty int) error
}
