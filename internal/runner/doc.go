// Package runner drives the spreadsheet publication queue.
//
// A row is pending when its Queued cell is set, its Published cell is empty,
// and Queued does not already start with an outcome ("OK ", "ERRO ",
// "FALHA "). Each run processes at most MaxPerRun pending rows in sheet
// order, publishes each through the fan-out publisher, and writes both
// control cells of every processed row in one batch at the end. Rows that
// were not pending are never written.
package runner
