package db

import (
	"errors"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/odyssey-erp/stockroom/internal/shared"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// MapError translates driver errors into shared sentinel errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || pgxscan.NotFound(err) {
		return shared.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return shared.ErrDuplicate
		case foreignKeyViolation:
			return shared.ErrValidation
		}
	}
	return err
}
