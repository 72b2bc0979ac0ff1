package roles

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

// ListRoles returns all roles ordered by id.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	roles := []Role{}
	if err := pgxscan.Select(ctx, r.pool, &roles, `SELECT id, name, permissions FROM roles ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("roles: list: %w", err)
	}
	return roles, nil
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, in Input) (Role, error) {
	var role Role
	err := pgxscan.Get(ctx, r.pool, &role,
		`INSERT INTO roles (name, permissions) VALUES ($1, $2) RETURNING id, name, permissions`,
		in.Name, in.Permissions)
	if err != nil {
		return Role{}, fmt.Errorf("roles: create: %w", db.MapError(err))
	}
	return role, nil
}

// UpdateRole replaces name and permissions of role id.
func (r *Repository) UpdateRole(ctx context.Context, id int64, in Input) (Role, error) {
	var role Role
	err := pgxscan.Get(ctx, r.pool, &role,
		`UPDATE roles SET name = $1, permissions = $2 WHERE id = $3 RETURNING id, name, permissions`,
		in.Name, in.Permissions, id)
	if err != nil {
		return Role{}, fmt.Errorf("roles: update: %w", db.MapError(err))
	}
	return role, nil
}

// DeleteRole removes role id. Roles still assigned to accounts cannot be
// removed and yield shared.ErrValidation.
func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("roles: delete: %w", db.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("roles: delete: %w", shared.ErrNotFound)
	}
	return nil
}

// CountRoles returns the number of roles.
func (r *Repository) CountRoles(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("roles: count: %w", err)
	}
	return n, nil
}

var _ RepositoryPort = (*Repository)(nil)
