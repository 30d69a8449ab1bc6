// Package slug derives stable machine identifiers from human titles.
// Custom notification rule kinds are slugs of their titles, so the
// normalization here must be deterministic and collision-checkable.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify lowercases the title, strips diacritics, collapses whitespace runs
// into single underscores and drops everything outside [a-z0-9_].
// "Calibración Próxima" becomes "calibracion_proxima".
func Slugify(title string) string {
	lowered := strings.ToLower(title)

	stripped, _, err := transform.String(stripDiacritics, lowered)
	if err != nil {
		stripped = lowered
	}

	var b strings.Builder
	b.Grow(len(stripped))

	lastWasSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace && b.Len() > 0 {
				b.WriteByte('_')
			}
			lastWasSpace = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_':
			b.WriteRune(r)
			lastWasSpace = false
		default:
			// dropped
		}
	}

	return strings.TrimRight(b.String(), "_")
}
