package core

import "errors"

var (
	// ErrResourceExhausted is returned when the media server cannot allocate a client.
	ErrResourceExhausted = errors.New("not enough resources")
	// ErrNotNegotiated is returned for operations that need a negotiated endpoint.
	ErrNotNegotiated   = errors.New("session not negotiated")
	ErrSessionReleased = errors.New("session released")
	ErrBackpressure    = errors.New("backpressure")
	ErrConnClosed      = errors.New("connection closed")
	ErrUnknownConn     = errors.New("unknown connection")
)
