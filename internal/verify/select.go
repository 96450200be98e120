package verify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var yearPattern = regexp.MustCompile(`\b\d{4}\b`)

// KeyTerms returns the lowercased terms used to rank paragraphs: four-digit
// numbers and capitalized words longer than three characters.
func KeyTerms(claim string) []string {
	terms := yearPattern.FindAllString(claim, -1)
	for _, word := range strings.Fields(claim) {
		first, _ := utf8.DecodeRuneInString(word)
		if utf8.RuneCountInString(word) > 3 && unicode.IsUpper(first) {
			terms = append(terms, strings.ToLower(word))
		}
	}
	return terms
}

// SelectRelevant shrinks document to at most maxChars bytes. Paragraphs
// mentioning the claim's key terms are kept best-first, and whatever room
// remains is filled with the start of the document, placed in front.
func SelectRelevant(claim, document string, maxChars int) string {
	if maxChars <= 0 || len(document) <= maxChars {
		return document
	}

	terms := KeyTerms(claim)

	type scored struct {
		score int
		text  string
	}
	var ranked []scored
	for _, paragraph := range strings.Split(document, "\n\n") {
		lower := strings.ToLower(paragraph)
		score := 0
		for _, term := range terms {
			if strings.Contains(lower, term) {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{score, paragraph})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	var selected strings.Builder
	for _, p := range ranked {
		if selected.Len()+len(p.text) > maxChars {
			break
		}
		selected.WriteString(p.text)
		selected.WriteString("\n\n")
	}

	out := selected.String()
	if len(out) < maxChars {
		head := truncate(document, maxChars-len(out))
		out = head + "\n\n" + out
	}
	return truncate(out, maxChars)
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
