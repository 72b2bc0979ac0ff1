package auth

import (
	"time"

	"github.com/odyssey-erp/stockroom/internal/shared"
)

// Account represents a user account as seen by authentication.
type Account struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	PasswordHash string     `db:"password"`
	RoleID       int64      `db:"role_id"`
	LastLogin    *time.Time `db:"last_login"`
}

// Identity returns the request identity for the account.
func (a *Account) Identity() shared.Identity {
	return shared.Identity{AccountID: a.ID, Username: a.Username, RoleID: a.RoleID}
}
