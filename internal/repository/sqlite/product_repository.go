package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"toystore/internal/domain"
	"toystore/internal/repository"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProductsTable); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	return nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (int64, error) {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO products (name, description, price, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		product.Name,
		product.Description,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("product last insert id: %w", err)
	}
	product.ID = id
	return id, nil
}

// Search runs the same WHERE clause twice: once for the match count and once
// for the requested window, so totals stay consistent with the page.
func (r *ProductRepository) Search(ctx context.Context, query string, limit, offset int64) ([]domain.Product, int64, error) {
	where := "1=1"
	args := []any{}
	if query != "" {
		where = "name LIKE ? OR description LIKE ?"
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern)
	}

	var total int64
	countRow := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", where), args...)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`
SELECT id, name, description, price, created_at, updated_at
FROM products
WHERE %s
ORDER BY id
LIMIT ? OFFSET ?`, where),
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Price,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	return products, total, nil
}
