package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/stockroom/internal/observability"
	"github.com/odyssey-erp/stockroom/internal/platform/httpx"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

const gateName = "authorization"

// Gate enforces role allow-lists on requests that already carry an
// authenticated identity.
type Gate struct {
	lookup  RoleLookup
	policy  Policy
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewGate constructs a Gate. A nil policy selects DefaultPolicy.
func NewGate(logger *slog.Logger, lookup RoleLookup, policy Policy, metrics *observability.Metrics) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == nil {
		policy = DefaultPolicy
	}
	return &Gate{lookup: lookup, policy: policy, logger: logger, metrics: metrics}
}

// Authorize reports whether the account's current role is in allowed. The
// role is read from the store on every call so role changes apply to
// already-issued tokens. An unknown account is denied; any other lookup
// failure is returned.
func (g *Gate) Authorize(ctx context.Context, accountID int64, allowed RoleSet) (bool, error) {
	roleID, err := g.lookup.RoleIDForAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("rbac: authorize: %w", err)
	}
	return allowed.Contains(roleID), nil
}

// RequireRoles admits authenticated requests whose role is one of ids.
func (g *Gate) RequireRoles(ids ...int64) func(http.Handler) http.Handler {
	return g.require(Roles(ids...))
}

// RequireRoute applies the policy rule registered for route.
func (g *Gate) RequireRoute(route Route) func(http.Handler) http.Handler {
	rule, ok := g.policy.Lookup(route)
	if !ok {
		return func(http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				g.logger.Error("route missing from policy", slog.String("route", string(route)))
				g.metrics.GateRejected(gateName, "policy_missing")
				httpx.Error(w, http.StatusForbidden, "Forbidden")
			})
		}
	}
	switch rule.Access {
	case AccessPublic:
		return func(next http.Handler) http.Handler { return next }
	case AccessAuthenticated:
		return requireIdentity
	default:
		return g.require(rule.Roles)
	}
}

func (g *Gate) require(allowed RoleSet) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			granted, err := g.Authorize(r.Context(), identity.AccountID, allowed)
			if err != nil {
				g.logger.Error("rbac authorize", slog.Any("error", err), slog.Int64("user_id", identity.AccountID))
				httpx.Error(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if !granted {
				g.metrics.GateRejected(gateName, "role_denied")
				g.logger.Debug("request forbidden",
					slog.Int64("user_id", identity.AccountID),
					slog.String("allowed", allowed.String()),
					slog.String("path", r.URL.Path))
				httpx.Error(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := shared.IdentityFromContext(r.Context()); !ok {
			httpx.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
