// Package capture records the raw frames crossing the bus transport.
//
// A capture is an append-only stream of CBOR-encoded Events with integer
// keys. It is separate from the operational log: the log says what the
// simulator decided, the capture keeps the exact bytes for later replay.
package capture

import (
	"time"

	"github.com/google/uuid"
)

// Event is one frame seen by the transport.
type Event struct {
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one server run (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Seq pairs a request with its reply: both carry the same value.
	Seq uint64 `cbor:"3,keyasint"`

	Direction Direction `cbor:"4,keyasint"`

	Frame []byte `cbor:"5,keyasint"`
}

// Direction is the frame flow as seen by the simulator.
type Direction uint8

const (
	DirectionIn  Direction = 0 // request
	DirectionOut Direction = 1 // reply
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// NewSessionID returns a fresh capture session identifier.
func NewSessionID() string {
	return uuid.New().String()
}
