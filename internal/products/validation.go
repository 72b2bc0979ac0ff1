package products

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/odyssey-erp/stockroom/internal/shared"
)

// suspiciousSearch matches search terms carrying SQL metacharacters or
// keywords. Queries are parameterised regardless; matching terms are
// refused outright.
var suspiciousSearch = regexp.MustCompile(`(?i)('|;|--|\bOR\b|\bAND\b|\bUNION\b|\bSELECT\b|\bDROP\b)`)

// ValidSearchTerm reports whether term may be used as a name filter.
func ValidSearchTerm(term string) bool {
	return !suspiciousSearch.MatchString(term)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally anywhere
// in the column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func validate(p Product, requireCode bool) error {
	if requireCode && strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("%w: product code is required", shared.ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", shared.ErrValidation)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", shared.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", shared.ErrValidation)
	}
	return nil
}
