package publisher

import (
	"strings"
)

// StatusOK is the per-channel status of a successful upload.
const StatusOK = "OK"

// StatusIncomplete is the per-channel status of an account missing a
// required credential.
const StatusIncomplete = "credenciais incompletas"

// Outcome classifies one channel attempt.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// ChannelResult is the outcome of publishing to one account.
type ChannelResult struct {
	Account string
	Outcome Outcome
	VideoID string
	URL     string
	// Detail carries the skip reason or the error text.
	Detail string
}

// Status renders the result as "OK", the skip reason, or "ERRO: detail".
func (r ChannelResult) Status() string {
	switch r.Outcome {
	case OutcomeOK:
		return StatusOK
	case OutcomeSkipped:
		return r.Detail
	default:
		return "ERRO: " + r.Detail
	}
}

// Result aggregates one row's fan-out.
type Result struct {
	OkAny     bool
	MarkValue string
	VideoPath string
	Channels  []ChannelResult
}

const (
	maxMarkLinks  = 3
	maxMarkErrors = 2
)

// markValue summarizes channel results for the Published cell: up to three
// links when any upload succeeded, otherwise up to two failure reasons.
func markValue(network, now string, results []ChannelResult) string {
	var links, failures []string
	for _, r := range results {
		switch r.Outcome {
		case OutcomeOK:
			if r.URL != "" && len(links) < maxMarkLinks {
				links = append(links, r.Account+": "+r.URL)
			}
		default:
			if len(failures) < maxMarkErrors {
				failures = append(failures, r.Account+": "+r.Detail)
			}
		}
	}
	if len(links) > 0 {
		return "Publicado " + network + " em " + now + " | " + strings.Join(links, " | ")
	}
	return "Falha " + network + " em " + now + " | " + strings.Join(failures, " | ")
}
