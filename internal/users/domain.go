package users

// User is an account as presented to administrators. The password hash is
// never part of it.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	RoleID   int64  `json:"role_id" db:"role_id"`
	// LastLogin is formatted "YYYY-MM-DD HH24:MI:SS" and nil before the
	// first login.
	LastLogin *string `json:"last_login" db:"last_login"`
}

// CreateInput carries the fields required to create an account.
type CreateInput struct {
	Username string
	Password string
	RoleID   int64
}

// UpdateInput carries the editable fields of an account.
type UpdateInput struct {
	Username string
	RoleID   int64
}
