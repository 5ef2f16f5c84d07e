package lottery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// rewrites maps folded spellings onto the palette keys. Order matters:
// "duplasena" must be split before whitespace is collapsed a second time.
var rewrites = []struct{ from, to string }{
	{"mega sena", "mega-sena"},
	{"duplasena", "dupla sena"},
}

// NormalizeKey canonicalizes a raw lottery name into a palette key. The
// result contains only [a-z0-9 -], has no leading or trailing space, and is
// stable under repeated application.
func NormalizeKey(raw string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(raw),
	)
	if err != nil {
		folded = raw
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	key := collapseSpaces(b.String())
	for _, rw := range rewrites {
		key = strings.ReplaceAll(key, rw.from, rw.to)
	}
	return collapseSpaces(key)
}

func collapseSpaces(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
