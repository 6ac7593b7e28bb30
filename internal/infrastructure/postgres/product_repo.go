package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rollabike/storefront/internal/domain"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, name, description, image_url, price_cents,
	min_order_qty, available, attributes, created_at, updated_at`

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.Attributes == nil {
		p.Attributes = map[string]any{}
	}

	query := `
		INSERT INTO products (name, description, image_url, price_cents,
		                      min_order_qty, available, attributes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.ImageURL, p.PriceCents,
		p.MinOrderQty, p.Available, p.Attributes,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return created, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SetAvailable(ctx context.Context, id string, available int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET available = $2, updated_at = NOW() WHERE id = $1`,
		id, available,
	)
	if err != nil {
		return fmt.Errorf("set available: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ReserveStock decrements availability in a single guarded UPDATE so
// concurrent orders cannot oversell.
func (r *ProductRepository) ReserveStock(ctx context.Context, id string, qty int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products
		 SET available = available - $2, updated_at = NOW()
		 WHERE id = $1 AND available >= $2`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ProductRepository) RestoreStock(ctx context.Context, id string, qty int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE products SET available = available + $2, updated_at = NOW() WHERE id = $1`,
		id, qty,
	)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &p.PriceCents,
		&p.MinOrderQty, &p.Available, &p.Attributes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}
