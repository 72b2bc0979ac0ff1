package httpx

import (
	"errors"
	"net/http"

	"github.com/odyssey-erp/stockroom/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Messages are generic;
// details belong in logs.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusConflict, "Duplicate entry")
	case errors.Is(err, shared.ErrValidation):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, shared.ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "Authentication required")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
