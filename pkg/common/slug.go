package common

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticsFolder decomposes characters, drops combining marks and case
// folds the rest, so "Tornillería" yields "tornilleria" and "Maße" yields
// "masse" rather than losing letters.
var diacriticsFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)

// Slugify turns a display name into a URL-safe identifier: lower-case,
// diacritics stripped, symbol runs collapsed to single hyphens, no leading or
// trailing hyphen. Applying it to an existing slug returns the slug unchanged.
func Slugify(name string) string {
	folded, _, err := transform.String(diacriticsFolder, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
