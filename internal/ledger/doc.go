// Package ledger keeps a local SQLite audit trail of queue runs and of each
// channel attempt made for a sheet row. The sheet remains the source of
// truth; the ledger only answers "what happened and when".
package ledger
