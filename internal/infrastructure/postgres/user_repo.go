package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rollabike/storefront/internal/domain"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Upsert writes the profile document, creating the record on first write.
// The role key is stripped from the incoming document and the stored role is
// carried over, so a profile write can never escalate privileges.
func (r *UserRepository) Upsert(ctx context.Context, email string, profile map[string]any) (*domain.User, error) {
	if profile == nil {
		profile = map[string]any{}
	}

	query := `
		INSERT INTO users (email, profile)
		VALUES ($1, $2::jsonb - 'role')
		ON CONFLICT (email) DO UPDATE
		SET profile = ($2::jsonb - 'role') ||
		              CASE WHEN users.profile ? 'role'
		                   THEN jsonb_build_object('role', users.profile->'role')
		                   ELSE '{}'::jsonb END,
		    updated_at = NOW()
		RETURNING email, COALESCE(profile->>'role', ''), profile, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, email, profile)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT email, COALESCE(profile->>'role', ''), profile, created_at, updated_at
		FROM users
		WHERE email = $1`

	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) SetRole(ctx context.Context, email string, role domain.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET profile = jsonb_set(profile, '{role}', to_jsonb($2::text)),
		     updated_at = NOW()
		 WHERE email = $1`,
		email, string(role),
	)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT email, COALESCE(profile->>'role', ''), profile, created_at, updated_at
		FROM users
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var role string
	err := row.Scan(&u.Email, &role, &u.Profile, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = domain.Role(role)
	return &u, nil
}
