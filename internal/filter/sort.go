package filter

import (
	"strings"

	"github.com/lnascimentosilva/library/internal/domain"
)

// ParseSort reads a sort token such as "-name", "+id" or "id".
// A nil or blank token yields the defaults. The field is not checked here.
func ParseSort(token *string, defaultField string, defaultMode domain.OrderMode) (string, domain.OrderMode) {
	if token == nil || strings.TrimSpace(*token) == "" {
		return defaultField, defaultMode
	}
	t := strings.TrimSpace(*token)
	switch t[0] {
	case '-':
		return t[1:], domain.Descending
	case '+':
		return t[1:], domain.Ascending
	default:
		return t, domain.Ascending
	}
}
