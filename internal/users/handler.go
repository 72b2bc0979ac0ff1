package users

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/stockroom/internal/platform/httpx"
	"github.com/odyssey-erp/stockroom/internal/rbac"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      *rbac.Gate
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: gate, validator: validator.New()}
}

// MountRoutes registers user routes. Callers must mount them behind the
// authentication gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequireRoute(rbac.UsersList)).Get("/", h.listUsers)
	r.With(h.rbac.RequireRoute(rbac.UsersCreate)).Post("/", h.createUser)
	r.With(h.rbac.RequireRoute(rbac.UsersUpdate)).Put("/{id}", h.updateUser)
	r.With(h.rbac.RequireRoute(rbac.UsersDelete)).Delete("/{id}", h.deleteUser)
}

type createRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,max=72"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
}

type updateRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	RoleID   int64  `json:"role_id" validate:"required,gt=0"`
}

type userResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.fail(w, "list users", err)
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	user, err := h.service.CreateUser(r.Context(), CreateInput{Username: req.Username, Password: req.Password, RoleID: req.RoleID})
	if err != nil {
		h.fail(w, "create user", err)
		return
	}
	h.logger.Info("user created", slog.Int64("user_id", user.ID), slog.Int64("role_id", user.RoleID))
	httpx.JSON(w, http.StatusCreated, userResponse{Message: "User created", User: user})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req updateRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	user, err := h.service.UpdateUser(r.Context(), id, UpdateInput{Username: req.Username, RoleID: req.RoleID})
	if err != nil {
		h.fail(w, "update user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, userResponse{Message: "User updated", User: user})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		h.fail(w, "delete user", err)
		return
	}
	httpx.Message(w, "User deleted")
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "User not found")
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrDuplicate):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}
