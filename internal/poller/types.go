// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/satbus-sim/internal/codec"
)

// ReadBlock describes one bus read: the request frame and the reply layout.
// Address is where the decoded words land on the mirror target.
type ReadBlock struct {
	Device   uint8
	Register uint8
	Args     []uint8
	Address  uint16
	Layout   codec.Layout
}

// Request builds the wire frame for this read.
func (rb ReadBlock) Request() []byte {
	req := make([]byte, 0, 2+len(rb.Args))
	req = append(req, rb.Device, rb.Register)
	return append(req, rb.Args...)
}

// BlockResult is the decoded result of a single read.
type BlockResult struct {
	Device   uint8
	Register uint8
	Address  uint16
	Values   []codec.Value
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At     time.Time
	Blocks []BlockResult
	Err    error // non-nil means the poll cycle failed
}
