package core

import "github.com/dkeye/mirror/internal/domain"

// Frame is a raw outbound text payload.
type Frame []byte

// Outbox delivers frames to the transport connection identified by sid.
// Frames sent for one sid reach the wire in the order Send was called.
type Outbox interface {
	Send(sid domain.SessionID, f Frame) error
}
