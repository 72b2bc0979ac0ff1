package users

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/stockroom/internal/platform/db"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, role_id, to_char(last_login, 'YYYY-MM-DD HH24:MI:SS') AS last_login`

// ListUsers returns all users, most recently active first.
func (r *Repository) ListUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	err := pgxscan.Select(ctx, r.pool, &users,
		`SELECT `+userColumns+` FROM users ORDER BY users.last_login DESC NULLS LAST, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("users: list: %w", err)
	}
	return users, nil
}

// CreateUser inserts an account with an already hashed password.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string, roleID int64) (User, error) {
	var user User
	err := pgxscan.Get(ctx, r.pool, &user,
		`INSERT INTO users (username, password, role_id) VALUES ($1, $2, $3) RETURNING `+userColumns,
		username, passwordHash, roleID)
	if err != nil {
		return User{}, fmt.Errorf("users: create: %w", db.MapError(err))
	}
	return user, nil
}

// UpdateUser changes username and role of account id.
func (r *Repository) UpdateUser(ctx context.Context, id int64, in UpdateInput) (User, error) {
	var user User
	err := pgxscan.Get(ctx, r.pool, &user,
		`UPDATE users SET username = $1, role_id = $2 WHERE id = $3 RETURNING `+userColumns,
		in.Username, in.RoleID, id)
	if err != nil {
		return User{}, fmt.Errorf("users: update: %w", db.MapError(err))
	}
	return user, nil
}

// DeleteUser removes account id.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("users: delete: %w", shared.ErrNotFound)
	}
	return nil
}

// CountUsers returns the number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("users: count: %w", err)
	}
	return n, nil
}

var _ RepositoryPort = (*Repository)(nil)
