// Package logging assembles structured slog loggers for lotoqueue.
//
// It owns the console and JSON handlers, per-run log files, and context-aware
// helpers that tag lines with the run id, spreadsheet row, network, and
// account being processed. A no-op logger is provided for tests.
package logging
