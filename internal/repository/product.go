package repository

import (
	"context"

	"toystore/internal/domain"
)

// ProductRepository defines persistence operations for the toy catalog.
type ProductRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, product *domain.Product) (int64, error)
	// Search returns products whose name or description matches query
	// (empty query matches everything), plus the total match count for
	// pagination. Results are windowed by limit and offset.
	Search(ctx context.Context, query string, limit, offset int64) ([]domain.Product, int64, error)
}
