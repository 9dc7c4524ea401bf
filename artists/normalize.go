package artists

import (
	"strings"
	"unicode"
)

var leadingArticles = []string{"the", "a", "an"}

// NormalizeName returns the comparison key for an artist's display name:
// surrounding whitespace trimmed and one leading "the", "a" or "an" removed.
// A name that is only an article is returned trimmed.
func NormalizeName(name string) string {
	trimmed := strings.TrimSpace(name)

	end := strings.IndexFunc(trimmed, unicode.IsSpace)
	if end < 0 {
		return trimmed
	}

	token := trimmed[:end]
	for _, article := range leadingArticles {
		if !strings.EqualFold(token, article) {
			continue
		}
		rest := strings.TrimLeftFunc(trimmed[end:], unicode.IsSpace)
		if rest == "" {
			return trimmed
		}
		return rest
	}
	return trimmed
}
