package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/odyssey-erp/stockroom/internal/shared"
)

// ErrRoleInUse indicates a role that is still assigned to accounts.
var ErrRoleInUse = fmt.Errorf("%w: role is assigned to users", shared.ErrValidation)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	CreateRole(ctx context.Context, in Input) (Role, error)
	UpdateRole(ctx context.Context, id int64, in Input) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
}

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateRole validates and stores a new role.
func (s *Service) CreateRole(ctx context.Context, in Input) (Role, error) {
	in, err := normalize(in)
	if err != nil {
		return Role{}, err
	}
	return s.repo.CreateRole(ctx, in)
}

// UpdateRole validates and replaces role id.
func (s *Service) UpdateRole(ctx context.Context, id int64, in Input) (Role, error) {
	in, err := normalize(in)
	if err != nil {
		return Role{}, err
	}
	return s.repo.UpdateRole(ctx, id, in)
}

// DeleteRole removes role id.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	err := s.repo.DeleteRole(ctx, id)
	if err != nil && errors.Is(err, shared.ErrValidation) {
		return ErrRoleInUse
	}
	return err
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	perms := make([]string, 0, len(in.Permissions))
	for _, p := range in.Permissions {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	if in.Name == "" || len(perms) == 0 {
		return Input{}, fmt.Errorf("%w: name and permissions are required", shared.ErrValidation)
	}
	in.Permissions = perms
	return in, nil
}
