package lottery

import (
	"strings"
)

// DefaultName stands in for an empty lottery name in titles and overlays.
const DefaultName = "Loteria"

// Draw is one queue row projected onto the fields the publisher needs.
// Title and Description override the derived metadata when non-empty.
type Draw struct {
	Row         int
	Lottery     string
	Contest     string
	Date        string
	Numbers     string
	URL         string
	Title       string
	Description string
}

// Name returns the trimmed lottery name or DefaultName.
func (d Draw) Name() string {
	if name := strings.TrimSpace(d.Lottery); name != "" {
		return name
	}
	return DefaultName
}

// Key returns the normalized palette key.
func (d Draw) Key() string {
	return NormalizeKey(d.Lottery)
}

// ParseNumbers splits a drawn-numbers cell on spaces, commas, and semicolons.
// An empty cell yields expected placeholders so layouts keep their shape.
func ParseNumbers(raw string, expected int) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) > 0 {
		return fields
	}
	if expected <= 0 {
		expected = 6
	}
	out := make([]string, expected)
	for i := range out {
		out[i] = "?"
	}
	return out
}
