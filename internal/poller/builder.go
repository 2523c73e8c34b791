// internal/poller/builder.go
package poller

import (
	"time"

	"github.com/juju/errors"

	"github.com/tamzrod/satbus-sim/internal/bus"
	cfg "github.com/tamzrod/satbus-sim/internal/config"
	"github.com/tamzrod/satbus-sim/internal/transport"
)

// Local reads the in-process bus without a socket.
type Local struct {
	Bus *bus.Bus
}

// Transact dispatches req on the bus. It never fails.
func (l Local) Transact(req []byte) ([]byte, error) {
	return l.Bus.Dispatch(req), nil
}

// Build constructs a Poller for the mirror section.
// With no source endpoint the poller reads b directly.
// Otherwise it dials the source and reconnects through a factory.
// No retries, no loops, no semantics.
func Build(m cfg.MirrorConfig, b *bus.Bus) (*Poller, func() error, error) {
	reads := make([]ReadBlock, 0, len(m.Reads))
	for i, r := range m.Reads {
		layout, ok := b.Layout(r.Device, r.Register)
		if !ok {
			return nil, nil, errors.Errorf("poller: read %d: dev=0x%02x reg=0x%02x not readable", i, r.Device, r.Register)
		}
		reads = append(reads, ReadBlock{
			Device:   r.Device,
			Register: r.Register,
			Args:     r.Args,
			Address:  r.Address,
			Layout:   layout,
		})
	}

	pc := Config{
		Interval: time.Duration(m.IntervalMs) * time.Millisecond,
		Reads:    reads,
	}

	if m.Source == "" {
		p, err := New(pc, Local{Bus: b}, nil)
		if err != nil {
			return nil, nil, err
		}
		return p, func() error { return nil }, nil
	}

	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		return transport.Dial(transport.ClientConfig{
			Endpoint: m.Source,
			Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
		})
	}

	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, nil, err
	}

	p, err := New(pc, client, factory)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
