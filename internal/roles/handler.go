package roles

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/stockroom/internal/platform/httpx"
	"github.com/odyssey-erp/stockroom/internal/rbac"
	"github.com/odyssey-erp/stockroom/internal/shared"
)

// Handler manages role management endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	rbac    *rbac.Gate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *rbac.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, rbac: gate}
}

// MountRoutes registers role routes. Callers must mount them behind the
// authentication gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.rbac.RequireRoute(rbac.RolesList)).Get("/", h.listRoles)
	r.With(h.rbac.RequireRoute(rbac.RolesCreate)).Post("/", h.createRole)
	r.With(h.rbac.RequireRoute(rbac.RolesUpdate)).Put("/{id}", h.updateRole)
	r.With(h.rbac.RequireRoute(rbac.RolesDelete)).Delete("/{id}", h.deleteRole)
}

type roleRequest struct {
	Name        string         `json:"name"`
	Permissions PermissionList `json:"permissions"`
}

type roleResponse struct {
	Message string `json:"message"`
	Role    Role   `json:"role"`
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.fail(w, "list roles", err)
		return
	}
	httpx.JSON(w, http.StatusOK, roles)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	role, err := h.service.CreateRole(r.Context(), Input{Name: req.Name, Permissions: req.Permissions})
	if err != nil {
		h.fail(w, "create role", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, roleResponse{Message: "Role created", Role: role})
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	role, err := h.service.UpdateRole(r.Context(), id, Input{Name: req.Name, Permissions: req.Permissions})
	if err != nil {
		h.fail(w, "update role", err)
		return
	}
	httpx.JSON(w, http.StatusOK, roleResponse{Message: "Role updated", Role: role})
}

func (h *Handler) deleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		h.fail(w, "delete role", err)
		return
	}
	httpx.Message(w, "Role deleted")
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "Role not found")
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
