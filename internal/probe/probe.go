package probe

import (
	"context"
	"time"
)

// DefaultTimeout bounds every probe regardless of the sweep interval.
const DefaultTimeout = 10 * time.Second

type Result uint8

const (
	Unreachable Result = iota
	Reachable
)

func (r Result) String() string {
	if r == Reachable {
		return "reachable"
	}
	return "unreachable"
}

// Outcome is the unified result of a single probe.
//
// StatusCode is only set by the HTTP prober and is informational; it never
// decides Result. Reason carries the transport error text on failure.
type Outcome struct {
	Result     Result
	StatusCode int
	Latency    time.Duration
	Reason     string
}

func (o Outcome) Up() bool { return o.Result == Reachable }

// Prober checks one target identity. Failures are folded into the Outcome.
type Prober interface {
	Probe(ctx context.Context, target string) Outcome
}
