package sheets

import "context"

// CellUpdate is one value destined for an A1 cell of the adapter's tab.
type CellUpdate struct {
	Cell  string
	Value string
}

// Tab is the transport surface the adapter needs from one worksheet. Cell
// references are unqualified A1 strings; implementations add the tab name.
type Tab interface {
	Title() string
	Values(ctx context.Context) ([][]string, error)
	UpdateRange(ctx context.Context, ref string, values [][]string) error
	BatchUpdate(ctx context.Context, updates []CellUpdate) error
}
