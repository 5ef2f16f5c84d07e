// Command lotoqueue publishes lottery result videos queued in a spreadsheet.
//
// `lotoqueue run` reads the queue tab, renders one video per pending row,
// uploads it to every YouTube channel found in the credentials vault, and
// writes the outcome back to the row. The remaining subcommands inspect the
// queue, the vault and the local ledger, render a draw locally, and tidy
// the output directory.
package main
