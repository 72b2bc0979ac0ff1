package products

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/stockroom/internal/platform/db"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

type Repository interface {
	List(ctx context.Context, filters ListFilters) ([]Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id int64, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{db: pool}
}

const productColumns = `id, code, name, description, quantity, price, created_at, updated_at`

func (r *PGRepository) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := []any{}
	if filters.Name != "" {
		query += ` WHERE name ILIKE $1 ESCAPE '\'`
		args = append(args, containsPattern(filters.Name))
	}
	query += ` ORDER BY id ASC`

	products := []Product{}
	if err := pgxscan.Select(ctx, r.db, &products, query, args...); err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	return products, nil
}

func (r *PGRepository) Create(ctx context.Context, p Product) (Product, error) {
	var out Product
	err := pgxscan.Get(ctx, r.db, &out,
		`INSERT INTO products (code, name, description, quantity, price)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+productColumns,
		p.Code, p.Name, p.Description, p.Quantity, p.Price)
	if err != nil {
		return Product{}, fmt.Errorf("products: create: %w", db.MapError(err))
	}
	return out, nil
}

func (r *PGRepository) Update(ctx context.Context, id int64, p Product) (Product, error) {
	var out Product
	err := pgxscan.Get(ctx, r.db, &out,
		`UPDATE products
		 SET name = $1, description = $2, quantity = $3, price = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING `+productColumns,
		p.Name, p.Description, p.Quantity, p.Price, id)
	if err != nil {
		return Product{}, fmt.Errorf("products: update: %w", db.MapError(err))
	}
	return out, nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("products: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("products: delete: %w", shared.ErrNotFound)
	}
	return nil
}

// Count returns the number of products.
func (r *PGRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("products: count: %w", err)
	}
	return n, nil
}

var _ Repository = (*PGRepository)(nil)
