package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/stockroom/internal/observability"
	"github.com/odyssey-erp/stockroom/internal/platform/httpx"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	gate          *Gate
	metrics       *observability.Metrics
	validator     *validator.Validate
	secureCookies bool
}

// NewHandler constructs a Handler instance. secureCookies marks the session
// cookie Secure and is set in production.
func NewHandler(logger *slog.Logger, service *Service, gate *Gate, metrics *observability.Metrics, secureCookies bool) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:        logger,
		service:       service,
		gate:          gate,
		metrics:       metrics,
		validator:     validator.New(),
		secureCookies: secureCookies,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.With(h.gate.Require).Get("/check", h.handleCheck)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Message   string     `json:"message"`
	Role      int64      `json:"role"`
	Token     string     `json:"token"`
	LastLogin *time.Time `json:"lastLogin"`
}

type checkResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     int64  `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		h.metrics.LoginAttempt("unknown_user")
		httpx.Error(w, http.StatusNotFound, "User not found")
		return
	case errors.Is(err, shared.ErrInvalidCredentials):
		h.metrics.LoginAttempt("bad_password")
		httpx.Error(w, http.StatusUnauthorized, "Incorrect password")
		return
	default:
		h.metrics.LoginAttempt("error")
		h.logger.Error("login", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.metrics.LoginAttempt("success")
	h.logger.Info("login succeeded", slog.Int64("user_id", result.Account.ID))
	http.SetCookie(w, h.sessionCookie(result.Token.Value, int(h.service.TokenTTL().Seconds())))
	httpx.JSON(w, http.StatusOK, loginResponse{
		Message:   "Login successful",
		Role:      result.Account.RoleID,
		Token:     result.Token.Value,
		LastLogin: result.PreviousLogin,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := ExtractToken(r); ok {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.logger.Warn("revoke token", slog.Any("error", err))
		}
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	httpx.Message(w, "Logout successful")
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	httpx.JSON(w, http.StatusOK, checkResponse{
		ID:       identity.AccountID,
		Username: identity.Username,
		Role:     identity.RoleID,
	})
}

func (h *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
