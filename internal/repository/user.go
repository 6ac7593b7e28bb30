package repository

import (
	"context"

	"github.com/rollabike/storefront/internal/domain"
)

type UserRepository interface {
	// Upsert writes the profile document for email, creating the record on
	// first write. The stored role is never overwritten by a profile upsert.
	Upsert(ctx context.Context, email string, profile map[string]any) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	SetRole(ctx context.Context, email string, role domain.Role) error
	List(ctx context.Context) ([]*domain.User, error)
}
