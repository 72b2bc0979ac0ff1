package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated indicates the request carries no acceptable identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden indicates the identity may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates malformed client input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a unique constraint violation.
	ErrDuplicate = errors.New("duplicate entry")
)
