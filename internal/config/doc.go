// Package config loads, normalizes, and validates lotoqueue configuration.
//
// Values come from Default(), then an optional TOML file, then the
// environment variables the upstream spreadsheet tooling already uses
// (GOOGLE_SHEET_ID, COFRE_SHEET_ID, MAX_VIDEOS_RODADA and friends). The
// resulting Config is passed explicitly to every component; nothing reads the
// process environment after Load returns.
package config
