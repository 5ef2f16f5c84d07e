// Package sheets adapts a Google Sheets tab into the read-all / ensure-column /
// batch-apply surface the queue runner and the vault loader use.
//
// The Tab interface isolates the Sheets API so tests can substitute an
// in-memory tab. Writes use the USER_ENTERED input mode. A failed batch
// degrades to per-cell writes that log and continue.
package sheets
