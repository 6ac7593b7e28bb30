package domain

import (
	"errors"
	"time"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	PriceCents  int64
	MinOrderQty int
	Available   int
	Attributes  map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}
