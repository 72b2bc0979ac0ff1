// Package dashboard aggregates headline counts for administrators.
package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/stockroom/internal/platform/cache"
)

const summaryCacheKey = "dashboard:summary"

// CountFunc returns the size of one collection.
type CountFunc func(ctx context.Context) (int64, error)

// Sources names the collections counted by the summary.
type Sources struct {
	Users    CountFunc
	Products CountFunc
	Roles    CountFunc
}

// Summary is the dashboard payload.
type Summary struct {
	Users    int64 `json:"users"`
	Products int64 `json:"products"`
	Roles    int64 `json:"roles"`
}

// Service computes the summary, optionally through a short-lived cache.
type Service struct {
	sources Sources
	cache   *cache.JSONCache
}

// NewService wires count sources with an optional cache.
func NewService(sources Sources, c *cache.JSONCache) *Service {
	return &Service{sources: sources, cache: c}
}

// Summary returns collection counts. Counts may be stale by up to the cache
// TTL unless a write evicts them first.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	if err := s.cache.FetchJSON(ctx, summaryCacheKey, &out, func(ctx context.Context) (any, error) {
		return s.count(ctx)
	}); err != nil {
		return Summary{}, err
	}
	return out, nil
}

// Invalidate drops the cached summary so the next read recounts.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, summaryCacheKey)
}

func (s *Service) count(ctx context.Context) (Summary, error) {
	var out Summary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Users, err = s.sources.Users(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Products, err = s.sources.Products(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Roles, err = s.sources.Roles(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Summary{}, fmt.Errorf("dashboard: summary: %w", err)
	}
	return out, nil
}
