package rbac

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/stockroom/internal/platform/db"
)

// RoleLookup resolves the role currently held by an account.
type RoleLookup interface {
	RoleIDForAccount(ctx context.Context, accountID int64) (int64, error)
}

// Service reads role assignments from PostgreSQL.
type Service struct {
	pool *pgxpool.Pool
}

// NewService constructs a Service backed by the provided pool.
func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

// RoleIDForAccount returns the account's role id. A missing account yields
// shared.ErrNotFound.
func (s *Service) RoleIDForAccount(ctx context.Context, accountID int64) (int64, error) {
	var roleID int64
	err := s.pool.QueryRow(ctx, `SELECT role_id FROM users WHERE id = $1`, accountID).Scan(&roleID)
	if err != nil {
		return 0, fmt.Errorf("rbac: role for account: %w", db.MapError(err))
	}
	return roleID, nil
}

var _ RoleLookup = (*Service)(nil)
