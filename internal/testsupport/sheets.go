package testsupport

import (
	"context"
	"sync"

	"lotoqueue/internal/sheets"
)

// MemoryTab is an in-memory sheets.Tab. Error fields inject failures.
type MemoryTab struct {
	mu    sync.Mutex
	title string
	grid  [][]string

	ReadErr  error
	BatchErr error
	// CellErrs fails UpdateRange for specific single-cell references.
	CellErrs map[string]error

	Reads        int
	BatchCalls   int
	RangeWrites  []sheets.CellUpdate
	BatchUpdates [][]sheets.CellUpdate
}

// NewMemoryTab builds a tab whose first row is the header row.
func NewMemoryTab(title string, rows ...[]string) *MemoryTab {
	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = append([]string(nil), row...)
	}
	return &MemoryTab{title: title, grid: grid}
}

func (m *MemoryTab) Title() string { return m.title }

func (m *MemoryTab) Values(context.Context) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	out := make([][]string, len(m.grid))
	for i, row := range m.grid {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (m *MemoryTab) UpdateRange(_ context.Context, ref string, values [][]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.CellErrs[ref]; ok {
		return err
	}
	row, col, err := sheets.ParseA1(ref)
	if err != nil {
		return err
	}
	for i, line := range values {
		for j, value := range line {
			m.set(row+i, col+j, value)
		}
	}
	if len(values) == 1 && len(values[0]) == 1 {
		m.RangeWrites = append(m.RangeWrites, sheets.CellUpdate{Cell: ref, Value: values[0][0]})
	} else {
		m.RangeWrites = append(m.RangeWrites, sheets.CellUpdate{Cell: ref})
	}
	return nil
}

func (m *MemoryTab) BatchUpdate(_ context.Context, updates []sheets.CellUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BatchCalls++
	if m.BatchErr != nil {
		return m.BatchErr
	}
	for _, u := range updates {
		row, col, err := sheets.ParseA1(u.Cell)
		if err != nil {
			return err
		}
		m.set(row, col, u.Value)
	}
	m.BatchUpdates = append(m.BatchUpdates, append([]sheets.CellUpdate(nil), updates...))
	return nil
}

// Cell returns the value at an A1 reference, or "".
func (m *MemoryTab) Cell(ref string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, col, err := sheets.ParseA1(ref)
	if err != nil || row-1 >= len(m.grid) {
		return ""
	}
	line := m.grid[row-1]
	if col >= len(line) {
		return ""
	}
	return line[col]
}

// Row returns a copy of the 1-based spreadsheet row.
func (m *MemoryTab) Row(row int) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 1 || row > len(m.grid) {
		return nil
	}
	return append([]string(nil), m.grid[row-1]...)
}

// HeaderWrites counts range writes that targeted the header row.
func (m *MemoryTab) HeaderWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.RangeWrites {
		if w.Cell == "A1" {
			n++
		}
	}
	return n
}

func (m *MemoryTab) set(row, col int, value string) {
	for len(m.grid) < row {
		m.grid = append(m.grid, nil)
	}
	line := m.grid[row-1]
	for len(line) <= col {
		line = append(line, "")
	}
	line[col] = value
	m.grid[row-1] = line
}
