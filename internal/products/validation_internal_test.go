package products

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"widget": `%widget%`,
		"_":      `%\_%`,
		"50%":    `%50\%%`,
		`a\b`:    `%a\\b%`,
	}
	for term, want := range cases {
		require.Equal(t, want, containsPattern(term), term)
	}
}
