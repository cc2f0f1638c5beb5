// Package titlekey builds canonical matching keys from film titles.
//
// A canonical key lowercases the title, drops a trailing subtitle introduced
// by a colon, and keeps only ASCII letters and digits. Titles differing only
// by case, punctuation, spacing, or subtitle map to the same key.
package titlekey

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical returns the matching key for a title. Accented characters are
// dropped, not transliterated: "Amélie" becomes "amlie". Use Fold first when
// accent-insensitive matching is wanted.
func Canonical(title string) string {
	lowered := strings.ToLower(title)
	if idx := strings.Index(lowered, ":"); idx >= 0 {
		lowered = lowered[:idx]
	}
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// foldTransformer strips combining marks after canonical decomposition.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold removes accents and diacritics from a title, so "Amélie" becomes
// "Amelie". Input is returned unchanged if the transform fails.
func Fold(title string) string {
	folded, _, err := transform.String(foldTransformer, title)
	if err != nil {
		return title
	}
	return folded
}

// Keyer builds canonical keys with optional accent folding.
type Keyer struct {
	FoldAccents bool
}

// Key returns the canonical key for title, folding accents first when enabled.
func (k Keyer) Key(title string) string {
	if k.FoldAccents {
		title = Fold(title)
	}
	return Canonical(title)
}
