package movie

import (
	"strings"
	"unicode"
)

// NormalizeTitle lower-cases title and strips every whitespace rune. The result is
// the lookup and uniqueness key of a movie.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
