// Package validate checks model output against the document it was drawn from.
package validate

import (
	"strings"
	"unicode"
)

// EvidenceInDocument reports whether evidence occurs verbatim in document,
// ignoring differences in whitespace and typographic quotes. Empty
// evidence is never grounded.
func EvidenceInDocument(evidence, document string) bool {
	needle := normalize(evidence)
	if needle == "" {
		return false
	}
	return strings.Contains(normalize(document), needle)
}

var quoteReplacer = strings.NewReplacer(
	"‘", "'", "’", "'",
	"“", `"`, "”", `"`,
)

func normalize(s string) string {
	s = quoteReplacer.Replace(s)
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
