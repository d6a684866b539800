// Package slug turns titles into URL- and filename-safe slugs.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// quotes are removed outright so "Don't Panic" becomes "dont-panic".
const quotes = "'\"‘’“”`"

// Make returns the slug for title: lower case letters and digits separated by
// single dashes, with diacritics stripped. Non-latin letters are kept as is. It returns "" when nothing usable
// remains.
func Make(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case strings.ContainsRune(quotes, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}
