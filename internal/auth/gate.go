package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/stockroom/internal/observability"
	"github.com/odyssey-erp/stockroom/internal/platform/httpx"
	"github.com/odyssey-erp/stockroom/internal/security"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

const gateName = "authentication"

// Gate verifies session tokens and resolves them to live accounts.
type Gate struct {
	codec    *security.Codec
	accounts AccountFinder
	denylist *security.Denylist
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// GateOption customises a Gate.
type GateOption func(*Gate)

// WithDenylist rejects tokens whose id was revoked.
func WithDenylist(d *security.Denylist) GateOption {
	return func(g *Gate) { g.denylist = d }
}

// WithMetrics counts rejections by reason.
func WithMetrics(m *observability.Metrics) GateOption {
	return func(g *Gate) { g.metrics = m }
}

// NewGate constructs a Gate.
func NewGate(logger *slog.Logger, codec *security.Codec, accounts AccountFinder, opts ...GateOption) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gate{codec: codec, accounts: accounts, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate resolves the account behind the token presented by r. Every
// rejection wraps shared.ErrUnauthenticated; any other error is an
// infrastructure failure. The store is only read.
func (g *Gate) Authenticate(ctx context.Context, r *http.Request) (*Account, error) {
	token, ok := ExtractToken(r)
	if !ok {
		return nil, g.reject("missing_token")
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return nil, g.reject(security.FailureReason(err))
	}

	revoked, err := g.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("auth: denylist lookup: %w", err)
	}
	if revoked {
		return nil, g.reject("revoked")
	}

	account, err := g.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, g.reject("account_missing")
		}
		return nil, fmt.Errorf("auth: account lookup: %w", err)
	}
	return account, nil
}

// Require is middleware that only lets authenticated requests through and
// attaches their identity to the request context.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := g.Authenticate(r.Context(), r)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthenticated) {
				httpx.Error(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			g.logger.Error("authenticate request", slog.Any("error", err), slog.String("path", r.URL.Path))
			httpx.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		ctx := shared.ContextWithIdentity(r.Context(), account.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *Gate) reject(reason string) error {
	g.metrics.GateRejected(gateName, reason)
	g.logger.Debug("request unauthenticated", slog.String("reason", reason))
	return fmt.Errorf("%w: %s", shared.ErrUnauthenticated, reason)
}
