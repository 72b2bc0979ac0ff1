package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/stockroom/internal/platform/db"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

// AccountFinder resolves accounts by id.
type AccountFinder interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
}

// Repository defines persistence operations for auth module.
type Repository interface {
	AccountFinder
	FindByUsername(ctx context.Context, username string) (*Account, error)
	RecordLastLogin(ctx context.Context, id int64, at time.Time) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, username, password, role_id, last_login`

// FindByUsername fetches an account by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*Account, error) {
	var account Account
	err := pgxscan.Get(ctx, r.pool, &account, `SELECT `+accountColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return nil, fmt.Errorf("auth: find by username: %w", db.MapError(err))
	}
	return &account, nil
}

// FindByID fetches an account by id.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	var account Account
	err := pgxscan.Get(ctx, r.pool, &account, `SELECT `+accountColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("auth: find by id: %w", db.MapError(err))
	}
	return &account, nil
}

// RecordLastLogin stamps the account's last successful authentication.
func (r *PGRepository) RecordLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return fmt.Errorf("auth: record last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("auth: record last login: %w", shared.ErrNotFound)
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
