package sheets

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"lotoqueue/internal/logging"
	"lotoqueue/internal/services"
)

// ErrHeadersWritten is returned when SetHeaders is called a second time.
var ErrHeadersWritten = errors.New("header row already written this run")

// Adapter reads a tab, appends control columns, and applies buffered writes.
type Adapter struct {
	tab            Tab
	logger         *slog.Logger
	headers        []string
	headersWritten bool
}

// CellFailure records a single cell that could not be written.
type CellFailure struct {
	Cell string
	Err  error
}

// ApplyResult summarizes a BatchApply call.
type ApplyResult struct {
	Requested int
	Written   int
	Batched   bool
	Failures  []CellFailure
}

// NewAdapter wraps tab. A nil logger discards output.
func NewAdapter(tab Tab, logger *slog.Logger) *Adapter {
	return &Adapter{tab: tab, logger: logging.NewComponentLogger(logger, "sheets")}
}

// Title returns the underlying tab name.
func (a *Adapter) Title() string { return a.tab.Title() }

// ReadAll fetches every row. The first row becomes the header row tracked by
// EnsureColumn; an empty tab yields an empty table.
func (a *Adapter) ReadAll(ctx context.Context) (Table, error) {
	values, err := a.tab.Values(ctx)
	if err != nil {
		return Table{}, err
	}
	if len(values) == 0 {
		a.headers = nil
		return Table{}, nil
	}
	a.headers = append([]string(nil), values[0]...)
	return Table{Headers: append([]string(nil), values[0]...), Rows: values[1:]}, nil
}

// Headers returns a copy of the adapter's current header row, including any
// columns appended by EnsureColumn.
func (a *Adapter) Headers() []string {
	return append([]string(nil), a.headers...)
}

// EnsureColumn returns the zero-based index of the column whose trimmed
// header equals name, appending it at the right edge when absent.
func (a *Adapter) EnsureColumn(name string) (int, bool) {
	name = strings.TrimSpace(name)
	if idx := indexOf(a.headers, name); idx >= 0 {
		return idx, false
	}
	a.headers = append(a.headers, name)
	return len(a.headers) - 1, true
}

// SetHeaders overwrites row 1. It may be called once per adapter.
func (a *Adapter) SetHeaders(ctx context.Context, headers []string) error {
	if a.headersWritten {
		return services.Wrap(services.ErrValidation, "sheets", "set_headers", a.tab.Title(), ErrHeadersWritten)
	}
	if err := a.tab.UpdateRange(ctx, "A1", [][]string{headers}); err != nil {
		return err
	}
	a.headersWritten = true
	a.headers = append([]string(nil), headers...)
	a.logger.Info("header row updated",
		logging.String("tab", a.tab.Title()),
		logging.Int("columns", len(headers)),
		logging.String(logging.FieldEventType, "headers_written"),
	)
	return nil
}

// BatchApply writes all updates in one request. When the batch request fails
// it falls back to one write per cell, logging and skipping cells that fail.
func (a *Adapter) BatchApply(ctx context.Context, updates []CellUpdate) ApplyResult {
	result := ApplyResult{Requested: len(updates)}
	if len(updates) == 0 {
		return result
	}

	err := a.tab.BatchUpdate(ctx, updates)
	if err == nil {
		result.Batched = true
		result.Written = len(updates)
		a.logger.Info("batch applied",
			logging.String("tab", a.tab.Title()),
			logging.Int("cells", len(updates)),
			logging.String(logging.FieldEventType, "batch_applied"),
		)
		return result
	}

	logging.WarnWithContext(a.logger, "batch update failed; writing cells individually", "batch_update_failed",
		logging.String("tab", a.tab.Title()),
		logging.Int("cells", len(updates)),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check sheet quotas and permissions"),
		logging.String(logging.FieldImpact, "cells are written one request at a time"),
	)

	for _, u := range updates {
		if err := a.tab.UpdateRange(ctx, u.Cell, [][]string{{u.Value}}); err != nil {
			result.Failures = append(result.Failures, CellFailure{Cell: u.Cell, Err: err})
			logging.WarnWithContext(a.logger, "cell write failed", "cell_write_failed",
				logging.String("cell", u.Cell),
				logging.Error(err),
				logging.String(logging.FieldImpact, "row status not recorded; it may be processed again"),
			)
			continue
		}
		result.Written++
	}
	return result
}
