// Package services defines shared utilities consumed by the queue runner and
// its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, spreadsheet rows, networks, and
//     channel accounts for logging.
//   - Structured error markers plus the Wrap helper that separate startup
//     failures (configuration, unreachable tabs) from per-row and per-channel
//     failures that must never escape a run.
//
// Use these helpers when wiring new integrations so error handling and
// observability stay uniform across the pipeline.
package services
