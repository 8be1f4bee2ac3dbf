// Package domain contains entities without logic, just meta-data
package domain

type SessionID string

// State is the lifecycle position of a mirror session.
type State int32

const (
	StateIdle State = iota
	StateNegotiating
	StateActive
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNegotiating:
		return "negotiating"
	case StateActive:
		return "active"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}
