package runner

import "strings"

// IsPending reports whether a row should be processed: Queued holds
// something other than a previous outcome and Published is empty.
func IsPending(queued, published string) bool {
	return Classify(queued, published) == StateEnqueued
}

// State names the row states of the queue.
type State string

const (
	StateIdle       State = "idle"
	StateEnqueued   State = "enqueued"
	StateSettledOK  State = "settled_ok"
	StateSettledErr State = "settled_err"
	StateReEnqueued State = "re_enqueued"
)

// Classify maps a row's control cells to its State. Outcome prefixes are
// matched case-insensitively after trimming.
func Classify(queued, published string) State {
	q := strings.ToLower(strings.TrimSpace(queued))
	switch {
	case q == "":
		return StateIdle
	case strings.HasPrefix(q, "ok "):
		return StateSettledOK
	case strings.HasPrefix(q, "erro "), strings.HasPrefix(q, "falha "):
		return StateSettledErr
	case strings.TrimSpace(published) != "":
		return StateReEnqueued
	default:
		return StateEnqueued
	}
}
