package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/odyssey-erp/stockroom/internal/security"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Account *Account
	Token   security.Token
	// PreviousLogin is the last-login stamp as it was before this login.
	PreviousLogin *time.Time
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	hasher   *security.Hasher
	codec    *security.Codec
	denylist *security.Denylist
	now      func() time.Time
}

// NewService constructs a new Service. denylist may be nil.
func NewService(repo Repository, hasher *security.Hasher, codec *security.Codec, denylist *security.Denylist) *Service {
	return &Service{repo: repo, hasher: hasher, codec: codec, denylist: denylist, now: time.Now}
}

// TokenTTL returns the lifetime of issued tokens.
func (s *Service) TokenTTL() time.Duration {
	return s.codec.TTL()
}

// Login checks username/password and issues a session token. An unknown
// username yields shared.ErrNotFound, a wrong password
// shared.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (LoginResult, error) {
	account, err := s.repo.FindByUsername(ctx, shared.NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return LoginResult{}, shared.ErrNotFound
		}
		return LoginResult{}, err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: verify password: %w", err)
	}
	if !ok {
		return LoginResult{}, shared.ErrInvalidCredentials
	}

	previous := account.LastLogin
	if err := s.repo.RecordLastLogin(ctx, account.ID, s.now()); err != nil {
		return LoginResult{}, err
	}

	token, err := s.codec.Issue(account.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: issue token: %w", err)
	}
	return LoginResult{Account: account, Token: token, PreviousLogin: previous}, nil
}

// Logout revokes token when a denylist is configured. Without one, logout
// is purely client side and this is a no-op. Unverifiable tokens are
// ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if s.denylist == nil || token == "" {
		return nil
	}
	claims, err := s.codec.Verify(token)
	if err != nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt)
}
