package runner

import (
	"lotoqueue/internal/lottery"
	"lotoqueue/internal/sheets"
)

// Layout holds zero-based column indices resolved once per run.
type Layout struct {
	Lottery   int
	Contest   int
	Date      int
	Numbers   int
	URL       int
	Queued    int
	Published int
}

// ResolveLayout finds the base columns by header name, falling back to the
// positional A..E layout, and the control columns by exact trimmed name.
func ResolveLayout(table sheets.Table, queuedColumn, publishedColumn string) Layout {
	return Layout{
		Lottery:   table.IndexFold(0, "Loteria", "Lottery"),
		Contest:   table.IndexFold(1, "Concurso", "Contest"),
		Date:      table.IndexFold(2, "Data", "Date"),
		Numbers:   table.IndexFold(3, "Números", "Numeros", "Numbers"),
		URL:       table.IndexFold(4, "URL", "Url"),
		Queued:    table.Index(queuedColumn),
		Published: table.Index(publishedColumn),
	}
}

// Draw projects data row i onto a lottery.Draw.
func (l Layout) Draw(table sheets.Table, i int) lottery.Draw {
	cell := func(col int) string { return trim(table.Cell(i, col)) }
	return lottery.Draw{
		Row:     sheets.SheetRow(i),
		Lottery: cell(l.Lottery),
		Contest: cell(l.Contest),
		Date:    cell(l.Date),
		Numbers: cell(l.Numbers),
		URL:     cell(l.URL),
	}
}
