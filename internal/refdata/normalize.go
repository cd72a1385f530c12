package refdata

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents decomposes to NFD, drops combining marks and recomposes, so
// "José" and "Jose" collapse to the same bytes.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName folds an instructor display name (or a column header) into the
// canonical matching key: trimmed, diacritic-free, upper-cased. The function is
// idempotent.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)
	stripped, _, err := transform.String(stripAccents, trimmed)
	if err != nil {
		stripped = trimmed
	}
	return strings.ToUpper(stripped)
}
