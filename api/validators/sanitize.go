package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"

	pkgerrors "github.com/aisynapse/synapse-backend/pkg/errors"
)

// SanitizeString trims s, drops control characters and caps it at maxRunes
// runes. maxRunes <= 0 disables the cap.
func SanitizeString(s string, maxRunes int) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if maxRunes <= 0 {
		return cleaned
	}
	runes := []rune(cleaned)
	if len(runes) <= maxRunes {
		return cleaned
	}
	return strings.TrimSpace(string(runes[:maxRunes]))
}

// Identifier sanitizes value without truncating it. Values longer than
// maxRunes are rejected so a stored id always matches what the client sent.
func Identifier(field, value string, maxRunes int) (string, error) {
	cleaned := SanitizeString(value, 0)
	if maxRunes > 0 && utf8.RuneCountInString(cleaned) > maxRunes {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be at most %d characters", field, maxRunes).
			WithDetails(map[string]any{"field": field, "max": maxRunes})
	}
	return cleaned, nil
}
