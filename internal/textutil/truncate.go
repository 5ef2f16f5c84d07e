package textutil

import (
	"strings"
	"unicode/utf8"
)

// Truncate returns at most max runes of s. Multi-byte characters are never split.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}

// TruncateTail returns at most the last max runes of s.
func TruncateTail(s string, max int) string {
	if max <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(s)
	if n <= max {
		return s
	}
	skip := n - max
	for i := range s {
		if skip == 0 {
			return s[i:]
		}
		skip--
	}
	return ""
}

// SplitList splits on commas and semicolons, trims entries, drops empty ones,
// and keeps at most limit entries (limit <= 0 means no cap).
func SplitList(raw string, limit int) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
