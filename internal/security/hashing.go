package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/stockroom/internal/shared"
)

const (
	// DefaultCost is the bcrypt work factor used for account passwords.
	DefaultCost = 10
	// MaxPasswordBytes is the longest password bcrypt accepts.
	MaxPasswordBytes = 72
)

// ErrPasswordTooLong is returned by Hash for passwords over MaxPasswordBytes.
var ErrPasswordTooLong = fmt.Errorf("%w: password must be at most %d bytes", shared.ErrValidation, MaxPasswordBytes)

// Hasher hashes and verifies account passwords with bcrypt. Plaintext
// passwords must never be logged or persisted by callers.
type Hasher struct {
	Cost int
}

// NewHasher returns a Hasher clamped to the bcrypt cost range. A
// non-positive cost selects DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{Cost: cost}
}

// Hash produces a bcrypt hash suitable for storage.
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches storedHash. A mismatch is not an
// error; only a broken hash or a bcrypt failure is. Passwords longer than
// MaxPasswordBytes never match, since no stored hash can come from one.
func (h *Hasher) Verify(password, storedHash string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
