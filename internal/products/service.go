package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/odyssey-erp/stockroom/internal/shared"
)

// ErrCodeTaken indicates a product code already in use.
var ErrCodeTaken = fmt.Errorf("%w: product code already exists", shared.ErrDuplicate)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns products matching filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, error) {
	filters.Name = strings.TrimSpace(filters.Name)
	if filters.Name != "" && !ValidSearchTerm(filters.Name) {
		return nil, fmt.Errorf("%w: invalid search parameter", shared.ErrValidation)
	}
	return s.repo.List(ctx, filters)
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	p = trim(p)
	if err := validate(p, true); err != nil {
		return Product{}, err
	}
	out, err := s.repo.Create(ctx, p)
	if err != nil && errors.Is(err, shared.ErrDuplicate) {
		return Product{}, ErrCodeTaken
	}
	return out, err
}

// Update replaces the mutable fields of product id. The code is fixed at
// creation.
func (s *Service) Update(ctx context.Context, id int64, p Product) (Product, error) {
	p = trim(p)
	if err := validate(p, false); err != nil {
		return Product{}, err
	}
	return s.repo.Update(ctx, id, p)
}

// Delete removes product id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func trim(p Product) Product {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	return p
}
