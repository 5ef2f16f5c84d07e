package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnLetter converts a zero-based column index to its A1 letters
// (0 → A, 25 → Z, 26 → AA).
func ColumnLetter(col int) string {
	if col < 0 {
		return ""
	}
	var buf [8]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// CellA1 returns the A1 address of a 1-based row and zero-based column.
func CellA1(row, col int) string {
	return ColumnLetter(col) + strconv.Itoa(row)
}

// QuoteTab quotes a tab title for use in a range, doubling embedded quotes.
func QuoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// TabRange qualifies an A1 reference with its tab. An empty ref selects the
// whole tab.
func TabRange(tab, ref string) string {
	if ref == "" {
		return QuoteTab(tab)
	}
	return QuoteTab(tab) + "!" + ref
}

// ParseA1 converts a single-cell reference such as "AB12" into a 1-based row
// and zero-based column.
func ParseA1(ref string) (row, col int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	col = 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return row, col - 1, nil
}
