// Package notifications pushes run summaries and startup failures to ntfy.
//
// The topic may be a bare ntfy.sh topic name or a full URL. With no topic
// configured every call is a no-op, so callers never need to check.
package notifications
