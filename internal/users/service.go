package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/odyssey-erp/stockroom/internal/security"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

var (
	// ErrUnknownRole indicates a role id that does not exist.
	ErrUnknownRole = fmt.Errorf("%w: unknown role", shared.ErrValidation)
	// ErrUsernameTaken indicates a username already in use.
	ErrUsernameTaken = fmt.Errorf("%w: username already exists", shared.ErrDuplicate)
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, username, passwordHash string, roleID int64) (User, error)
	UpdateUser(ctx context.Context, id int64, in UpdateInput) (User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Service handles user business logic.
type Service struct {
	repo   RepositoryPort
	hasher *security.Hasher
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, hasher *security.Hasher) *Service {
	if hasher == nil {
		hasher = security.NewHasher(security.DefaultCost)
	}
	return &Service{repo: repo, hasher: hasher}
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// CreateUser hashes the password and stores a new account.
func (s *Service) CreateUser(ctx context.Context, in CreateInput) (User, error) {
	username := shared.NormalizeUsername(in.Username)
	if username == "" || in.Password == "" || in.RoleID <= 0 {
		return User{}, fmt.Errorf("%w: username, password and role_id are required", shared.ErrValidation)
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooLong) {
			return User{}, err
		}
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, username, hash, in.RoleID)
	return user, translate(err)
}

// UpdateUser changes username and role of account id.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UpdateInput) (User, error) {
	in.Username = shared.NormalizeUsername(in.Username)
	if in.Username == "" || in.RoleID <= 0 {
		return User{}, fmt.Errorf("%w: username and role_id are required", shared.ErrValidation)
	}
	user, err := s.repo.UpdateUser(ctx, id, in)
	return user, translate(err)
}

// DeleteUser removes account id.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.DeleteUser(ctx, id)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrDuplicate):
		return ErrUsernameTaken
	case errors.Is(err, shared.ErrValidation):
		return ErrUnknownRole
	}
	return err
}
