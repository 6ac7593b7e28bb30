package repository

import (
	"context"

	"github.com/rollabike/storefront/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Review, error)
}
