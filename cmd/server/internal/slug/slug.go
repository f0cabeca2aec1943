// Package slug turns titles into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidChars = regexp.MustCompile(`[^\w\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// fold strips diacritics so "Gráficos" slugs the same as "Graficos".
var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make converts a title to a lowercase hyphenated slug: diacritics folded,
// special characters removed, whitespace collapsed to single hyphens.
func Make(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}
	s = invalidChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
