package domain

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is how transition times are rendered to operators and in notifications.
const TimestampLayout = "2006-01-02 15:04:05"

type Kind string

const (
	KindHTTP Kind = "http"
	KindTCP  Kind = "tcp"
)

type State string

const (
	StateUp   State = "UP"
	StateDown State = "DOWN"
)

type Direction string

const (
	DirectionDown Direction = "down"
	DirectionUp   Direction = "up"
)

// Target is one monitored URL or host:port. A registered target always starts UP.
type Target struct {
	Identity string `json:"identity"`
	Kind     Kind   `json:"kind"`
	State    State  `json:"state"`
}

// Event is emitted on every UP->DOWN or DOWN->UP flip.
type Event struct {
	ID        string    `json:"id"`
	Identity  string    `json:"identity"`
	Kind      Kind      `json:"kind"`
	Direction Direction `json:"direction"`
	At        time.Time `json:"at"`
}

func NewEvent(identity string, kind Kind, dir Direction, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Identity:  identity,
		Kind:      kind,
		Direction: dir,
		At:        at.Truncate(time.Second),
	}
}

// Timestamp renders At in local time with second precision.
func (e Event) Timestamp() string {
	return e.At.Local().Format(TimestampLayout)
}

// TargetStatus is a read-only view of a target for the status API.
type TargetStatus struct {
	Identity      string     `json:"identity"`
	Kind          Kind       `json:"kind"`
	State         State      `json:"state"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
	LastChangeAt  *time.Time `json:"last_change_at,omitempty"`
}
