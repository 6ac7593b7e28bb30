package usecase

import (
	"context"
	"fmt"

	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/repository"
)

const defaultRecentReviews = 20

type ReviewUsecase struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
}

func NewReviewUsecase(reviews repository.ReviewRepository, products repository.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{reviews: reviews, products: products}
}

type AddReviewInput struct {
	ProductID string
	Email     string
	Rating    int
	Comment   string
}

func (u *ReviewUsecase) Add(ctx context.Context, input AddReviewInput) (*domain.Review, error) {
	// Reviews must point at a real product.
	if _, err := u.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID: input.ProductID,
		Email:     input.Email,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	created, err := u.reviews.Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return created, nil
}

func (u *ReviewUsecase) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	return u.reviews.ListByProduct(ctx, productID)
}

func (u *ReviewUsecase) ListRecent(ctx context.Context, limit int) ([]*domain.Review, error) {
	if limit <= 0 {
		limit = defaultRecentReviews
	}
	return u.reviews.ListRecent(ctx, limit)
}
