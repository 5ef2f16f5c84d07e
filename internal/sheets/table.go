package sheets

import "strings"

// Table is a snapshot of a tab: the header row and the data rows beneath it.
// Rows may be shorter than Headers; Cell pads them with empty strings.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Cell returns the value at data row i (0-based) and column col, or "".
func (t Table) Cell(i, col int) string {
	if i < 0 || i >= len(t.Rows) || col < 0 {
		return ""
	}
	row := t.Rows[i]
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// SheetRow converts a data row index into its 1-based spreadsheet row.
func SheetRow(i int) int { return i + 2 }

// Index returns the column whose trimmed header equals name, or -1.
func (t Table) Index(name string) int {
	return indexOf(t.Headers, name)
}

// IndexFold returns the first column whose trimmed header matches any of
// names case-insensitively, or fallback.
func (t Table) IndexFold(fallback int, names ...string) int {
	for _, name := range names {
		want := strings.ToLower(strings.TrimSpace(name))
		for i, h := range t.Headers {
			if strings.ToLower(strings.TrimSpace(h)) == want {
				return i
			}
		}
	}
	return fallback
}

func indexOf(headers []string, name string) int {
	want := strings.TrimSpace(name)
	for i, h := range headers {
		if strings.TrimSpace(h) == want {
			return i
		}
	}
	return -1
}
