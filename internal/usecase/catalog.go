package usecase

import (
	"context"
	"fmt"

	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/repository"
)

type CatalogUsecase struct {
	products repository.ProductRepository
}

func NewCatalogUsecase(products repository.ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{products: products}
}

type CreateProductInput struct {
	Name        string
	Description string
	ImageURL    string
	PriceCents  int64
	MinOrderQty int
	Available   int
	Attributes  map[string]any
}

func (u *CatalogUsecase) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.MinOrderQty == 0 {
		input.MinOrderQty = 1
	}

	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		PriceCents:  input.PriceCents,
		MinOrderQty: input.MinOrderQty,
		Available:   input.Available,
		Attributes:  input.Attributes,
	}

	created, err := u.products.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (u *CatalogUsecase) List(ctx context.Context) ([]*domain.Product, error) {
	return u.products.List(ctx)
}

func (u *CatalogUsecase) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return u.products.GetByID(ctx, id)
}

func (u *CatalogUsecase) Delete(ctx context.Context, id string) error {
	return u.products.Delete(ctx, id)
}

func (u *CatalogUsecase) SetAvailable(ctx context.Context, id string, available int) error {
	return u.products.SetAvailable(ctx, id, available)
}
