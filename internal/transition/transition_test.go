package transition

import (
	"testing"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/probe"
)

func TestApply_Table(t *testing.T) {
	cases := []struct {
		cur   domain.State
		res   probe.Result
		next  domain.State
		dir   domain.Direction
		fired bool
	}{
		{domain.StateUp, probe.Reachable, domain.StateUp, "", false},
		{domain.StateUp, probe.Unreachable, domain.StateDown, domain.DirectionDown, true},
		{domain.StateDown, probe.Unreachable, domain.StateDown, "", false},
		{domain.StateDown, probe.Reachable, domain.StateUp, domain.DirectionUp, true},
	}
	for _, c := range cases {
		next, dir, fired := Apply(c.cur, c.res)
		if next != c.next || dir != c.dir || fired != c.fired {
			t.Fatalf("Apply(%s,%s)=(%s,%q,%v) want (%s,%q,%v)",
				c.cur, c.res, next, dir, fired, c.next, c.dir, c.fired)
		}
	}
}

func TestApply_RepeatedFailuresFireOnce(t *testing.T) {
	state := domain.StateUp
	fires := 0
	for i := 0; i < 3; i++ {
		var fired bool
		state, _, fired = Apply(state, probe.Unreachable)
		if fired {
			fires++
		}
	}
	if state != domain.StateDown || fires != 1 {
		t.Fatalf("want DOWN with one fire, got %s with %d", state, fires)
	}

	state, dir, fired := Apply(state, probe.Reachable)
	if state != domain.StateUp || dir != domain.DirectionUp || !fired {
		t.Fatalf("recovery not reported: %s %q %v", state, dir, fired)
	}
}
