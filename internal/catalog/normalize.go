package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// normalizeName reduces a spoken or written show name to a comparison key:
// accents stripped, case folded, punctuation dropped and whitespace removed,
// so "Reply-All", "reply all" and "replyall" compare equal.
func normalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	stripped = folder.String(stripped)

	var b strings.Builder
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// trimFiller drops words listeners commonly wrap around a show name.
func trimFiller(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, prefix := range []string{"the podcast ", "the show ", "podcast ", "show "} {
		s = strings.TrimPrefix(s, prefix)
	}
	for _, suffix := range []string{" podcast", " show"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}
