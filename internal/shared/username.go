package shared

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeUsername folds compatibility characters with NFKC and trims
// surrounding space, so visually identical names resolve to one account.
func NormalizeUsername(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}
