package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockroom/internal/auth"
	"github.com/odyssey-erp/stockroom/internal/security"
	"github.com/odyssey-erp/stockroom/internal/shared"
	_ "github.com/odyssey-erp/stockroom/testing"
)

const testSecret = "test-signing-secret"

type stubRepo struct {
	mu       sync.Mutex
	accounts map[int64]*auth.Account
	findErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{accounts: make(map[int64]*auth.Account)}
}

func (s *stubRepo) add(t *testing.T, hasher *security.Hasher, id int64, username, password string, roleID int64) *auth.Account {
	t.Helper()
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	account := &auth.Account{ID: id, Username: username, PasswordHash: hash, RoleID: roleID}
	s.mu.Lock()
	s.accounts[id] = account
	s.mu.Unlock()
	return account
}

func (s *stubRepo) remove(id int64) {
	s.mu.Lock()
	delete(s.accounts, id)
	s.mu.Unlock()
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	account, ok := s.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *account
	return &cp, nil
}

func (s *stubRepo) FindByUsername(ctx context.Context, username string) (*auth.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, account := range s.accounts {
		if account.Username == username {
			cp := *account
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *stubRepo) RecordLastLogin(ctx context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	stamp := at
	account.LastLogin = &stamp
	return nil
}

var errStoreDown = errors.New("store unavailable")

func newCodec(t *testing.T) *security.Codec {
	t.Helper()
	codec, err := security.NewCodec([]byte(testSecret))
	require.NoError(t, err)
	return codec
}
