// Package normalize prepares raw user text for trigger matching.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Stopwords are dropped as whole words.
var Stopwords = map[string]struct{}{
	"ve": {}, "ile": {}, "da": {}, "de": {}, "mi": {}, "mı": {}, "mu": {}, "mü": {},
	"bir": {}, "ya": {}, "ki": {}, "the": {}, "a": {}, "an": {},
}

// keep lists the punctuation that survives stripping. Arithmetic symbols are kept so
// "hesapla 2+2*3" still carries its expression after normalization.
const keep = ".-+*/%^()_"

// Text lower-cases s, strips punctuation outside keep, removes stopwords and
// collapses whitespace.
func Text(s string) string {
	s = cases.Lower(language.Und).String(strings.TrimSpace(s))

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), unicode.IsSpace(r):
			return r
		case strings.ContainsRune(keep, r):
			return r
		default:
			return -1
		}
	}, s)

	words := strings.Fields(s)
	out := words[:0]
	for _, w := range words {
		if _, stop := Stopwords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}
