package usecase

import (
	"context"
	"fmt"

	"github.com/rollabike/storefront/internal/auth"
	"github.com/rollabike/storefront/internal/domain"
	"github.com/rollabike/storefront/internal/metrics"
	"github.com/rollabike/storefront/internal/repository"
)

type AccountUsecase struct {
	users repository.UserRepository
	codec *auth.Codec
}

func NewAccountUsecase(users repository.UserRepository, codec *auth.Codec) *AccountUsecase {
	return &AccountUsecase{users: users, codec: codec}
}

type UpsertResult struct {
	User  *domain.User
	Token string
}

// UpsertProfile writes the profile document and issues a fresh credential,
// so clients refresh their token on every profile write. The role key is
// never signed into the token; authorization always goes through the store.
func (u *AccountUsecase) UpsertProfile(ctx context.Context, email string, profile map[string]any) (*UpsertResult, error) {
	user, err := u.users.Upsert(ctx, email, profile)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	claims := auth.Claims{}
	for k, v := range profile {
		claims[k] = v
	}
	delete(claims, "role")
	claims["email"] = email

	token, err := u.codec.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	metrics.TokensIssuedTotal.Inc()

	return &UpsertResult{User: user, Token: token}, nil
}

func (u *AccountUsecase) GrantAdmin(ctx context.Context, email string) error {
	return u.users.SetRole(ctx, email, domain.RoleAdmin)
}

func (u *AccountUsecase) RevokeAdmin(ctx context.Context, email string) error {
	return u.users.SetRole(ctx, email, domain.RoleUser)
}

// IsAdmin reports whether the identity's stored role is admin. An absent
// role field counts as a plain user.
func (u *AccountUsecase) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user.Role == domain.RoleAdmin, nil
}

func (u *AccountUsecase) List(ctx context.Context) ([]*domain.User, error) {
	users, err := u.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
