package retrieval

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks removes diacritics: NFKD decomposition followed by dropping the
// combining marks, then recomposition.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeQuery canonicalizes a user question for cache keys and full-text
// matching: lowercase, diacritics stripped, whitespace collapsed.
func NormalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	if out, _, err := transform.String(stripMarks, q); err == nil {
		q = out
	}
	return strings.Join(strings.Fields(q), " ")
}
