package products

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

type Handler struct {
	logger    *slog.Logger
	service   *Service
	authn     func(http.Handler) http.Handler
	rbac      *rbac.Gate
	validator *validator.Validate
}

// NewHandler builds the catalogue handler. authn is the authentication
// middleware guarding mutations; listing stays public.
func NewHandler(logger *slog.Logger, service *Service, authn func(http.Handler) http.Handler, gate *rbac.Gate) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, authn: authn, rbac: gate, validator: validator.New()}
}

// MountRoutes registers product routes. The search screen runs before any
// gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Use(ScreenSearch)
	r.With(h.rbac.RequireRoute(rbac.ProductsList)).Get("/", h.List)
	r.Group(func(r chi.Router) {
		r.Use(h.authn)
		r.With(h.rbac.RequireRoute(rbac.ProductsCreate)).Post("/", h.Create)
		r.With(h.rbac.RequireRoute(rbac.ProductsUpdate)).Put("/{id}", h.Update)
		r.With(h.rbac.RequireRoute(rbac.ProductsDelete)).Delete("/{id}", h.Delete)
	})
}

// ScreenSearch rejects requests whose name query parameter looks like an
// SQL fragment.
func ScreenSearch(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if name := r.URL.Query().Get("name"); name != "" && !ValidSearchTerm(name) {
			httpx.Error(w, http.StatusBadRequest, "Invalid search parameter")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type productRequest struct {
	Code        string  `json:"code" validate:"omitempty,max=64"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

func (p productRequest) product() Product {
	return Product{Code: p.Code, Name: p.Name, Description: p.Description, Quantity: p.Quantity, Price: p.Price}
}

type productResponse struct {
	Message string  `json:"message"`
	Product Product `json:"product"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), ListFilters{Name: r.URL.Query().Get("name")})
	if err != nil {
		h.fail(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	product, err := h.service.Create(r.Context(), req.product())
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	product, err := h.service.Update(r.Context(), id, req.product())
	if err != nil {
		h.fail(w, "update product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, productResponse{Message: "Product updated", Product: product})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete product", err)
		return
	}
	httpx.Message(w, "Product deleted")
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (productRequest, bool) {
	var req productRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	if err := h.validator.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			httpx.Error(w, http.StatusBadRequest, "Invalid field: "+verrs[0].Field())
			return req, false
		}
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	return req, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrDuplicate):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
