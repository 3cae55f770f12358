package repo

import (
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Registry is the port the scheduler sweeps. Identities are unique per kind.
type Registry interface {
	// Register inserts identity as UP. Empty and duplicate identities are ignored.
	Register(identity string, kind domain.Kind) bool
	State(kind domain.Kind, identity string) (domain.State, bool)
	// SetState records s; at is stamped as the last change when the state flips.
	SetState(kind domain.Kind, identity string, s domain.State, at time.Time)
	// All returns identities of a kind in registration order.
	All(kind domain.Kind) []string
	Len(kind domain.Kind) int
}

// StatusReader is what the status API needs from the registry.
type StatusReader interface {
	Snapshot() []domain.TargetStatus
}

// CheckRecorder is optionally implemented by registries that track probe times.
type CheckRecorder interface {
	MarkChecked(kind domain.Kind, identity string, at time.Time)
}
