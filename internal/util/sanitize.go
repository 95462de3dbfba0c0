package util

import (
	"html"
	"strings"
)

// Sanitize normaliza texto livre vindo do cliente: remove espaços nas pontas,
// desfaz escapes com barra invertida e escapa HTML.
func Sanitize(value string) string {
	return html.EscapeString(StripSlashes(strings.TrimSpace(value)))
}

// StripSlashes remove uma barra invertida antes de cada caractere; "\\" vira "\".
func StripSlashes(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}

	var b strings.Builder
	b.Grow(len(value))
	escaped := false
	for _, r := range value {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
