// Package transition decides how a probe result moves a target between UP and DOWN.
package transition

import (
	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

// Apply returns the next state and, when the state flips, the direction of
// the flip. Repeating the current state never fires.
func Apply(current domain.State, r probe.Result) (next domain.State, dir domain.Direction, fired bool) {
	switch {
	case current == domain.StateUp && r == probe.Unreachable:
		return domain.StateDown, domain.DirectionDown, true
	case current == domain.StateDown && r == probe.Reachable:
		return domain.StateUp, domain.DirectionUp, true
	case r == probe.Reachable:
		return domain.StateUp, "", false
	default:
		return domain.StateDown, "", false
	}
}
