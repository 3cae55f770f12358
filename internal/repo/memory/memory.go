package memory

import (
	"sync"
	"time"

	"github.com/hamed0406/sitecheck/internal/domain"
)

type entry struct {
	target      domain.Target
	lastChecked time.Time
	lastChange  time.Time
}

// collection holds the targets of one kind in registration order.
type collection struct {
	order []string
	byID  map[string]*entry
}

func newCollection() *collection {
	return &collection{byID: make(map[string]*entry)}
}

// Store keeps HTTP and TCP targets in two separate collections.
type Store struct {
	mu   sync.RWMutex
	http *collection
	tcp  *collection
}

func New() *Store {
	return &Store{
		http: newCollection(),
		tcp:  newCollection(),
	}
}

func (m *Store) coll(kind domain.Kind) *collection {
	switch kind {
	case domain.KindHTTP:
		return m.http
	case domain.KindTCP:
		return m.tcp
	}
	return nil
}

func (m *Store) Register(identity string, kind domain.Kind) bool {
	if identity == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(kind)
	if c == nil {
		return false
	}
	if _, ok := c.byID[identity]; ok {
		return false
	}
	c.byID[identity] = &entry{target: domain.Target{Identity: identity, Kind: kind, State: domain.StateUp}}
	c.order = append(c.order, identity)
	return true
}

func (m *Store) State(kind domain.Kind, identity string) (domain.State, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.coll(kind)
	if c == nil {
		return "", false
	}
	e, ok := c.byID[identity]
	if !ok {
		return "", false
	}
	return e.target.State, true
}

// SetState updates a registered target; unknown identities are ignored.
func (m *Store) SetState(kind domain.Kind, identity string, s domain.State, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(kind)
	if c == nil {
		return
	}
	e, ok := c.byID[identity]
	if !ok {
		return
	}
	if e.target.State != s {
		e.lastChange = at
	}
	e.target.State = s
}

func (m *Store) MarkChecked(kind domain.Kind, identity string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.coll(kind)
	if c == nil {
		return
	}
	if e, ok := c.byID[identity]; ok {
		e.lastChecked = at
	}
}

func (m *Store) All(kind domain.Kind) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.coll(kind)
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

func (m *Store) Len(kind domain.Kind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.coll(kind)
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Snapshot lists HTTP targets first, then TCP, each in registration order.
func (m *Store) Snapshot() []domain.TargetStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.TargetStatus, 0, len(m.http.order)+len(m.tcp.order))
	for _, c := range []*collection{m.http, m.tcp} {
		for _, id := range c.order {
			e := c.byID[id]
			st := domain.TargetStatus{
				Identity: e.target.Identity,
				Kind:     e.target.Kind,
				State:    e.target.State,
			}
			if !e.lastChecked.IsZero() {
				v := e.lastChecked
				st.LastCheckedAt = &v
			}
			if !e.lastChange.IsZero() {
				v := e.lastChange
				st.LastChangeAt = &v
			}
			out = append(out, st)
		}
	}
	return out
}
