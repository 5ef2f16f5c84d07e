// Package publisher fans one rendered video out to every YouTube account in
// the vault. Each account yields a ChannelResult (published, skipped, or
// failed); a failing account never stops the others. The aggregate Result
// carries the summary written to the row's Published cell.
package publisher
