// internal/poller/poller.go
package poller

import (
	"io"
	"time"

	"github.com/juju/errors"

	"github.com/tamzrod/satbus-sim/internal/codec"
	"github.com/tamzrod/satbus-sim/internal/transport"
)

// Client is one request/reply exchange with the bus.
// transport.Client satisfies it, and so does Local.
type Client interface {
	Transact(req []byte) ([]byte, error)
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
	Reads    []ReadBlock
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg     Config
	client  Client
	factory func() (Client, error)
}

// New creates a poller with immutable config.
// factory may be nil; when set, a client that fails a transaction is
// discarded and factory is called once on the next cycle.
func New(cfg Config, client Client, factory func() (Client, error)) (*Poller, error) {
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Reads) == 0 {
		return nil, errors.New("poller: at least one read block required")
	}
	for i, rb := range cfg.Reads {
		if len(rb.Layout) == 0 {
			return nil, errors.Errorf("poller: read %d has no layout", i)
		}
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	return &Poller{cfg: cfg, client: client, factory: factory}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{At: time.Now()}

	if p.client == nil {
		c, err := p.factory()
		if err != nil {
			res.Err = errors.Annotate(err, "poller: reconnect")
			return res
		}
		p.client = c
	}

	blocks := make([]BlockResult, 0, len(p.cfg.Reads))

	for _, rb := range p.cfg.Reads {
		reply, err := p.client.Transact(rb.Request())
		if err != nil {
			p.discard()
			res.Err = errors.Annotatef(err, "poller: dev=0x%02x reg=0x%02x", rb.Device, rb.Register)
			return res
		}

		// an echoed request is the only way the bus reports a bad read
		if len(reply) != rb.Layout.Size() {
			res.Err = errors.Annotatef(transport.ErrReplyLength,
				"poller: dev=0x%02x reg=0x%02x got=%d want=%d",
				rb.Device, rb.Register, len(reply), rb.Layout.Size())
			return res
		}

		values, err := codec.Decode(rb.Layout, reply)
		if err != nil {
			res.Err = errors.Trace(err)
			return res
		}

		blocks = append(blocks, BlockResult{
			Device:   rb.Device,
			Register: rb.Register,
			Address:  rb.Address,
			Values:   values,
		})
	}

	// Commit only if all reads succeeded
	res.Blocks = blocks
	return res
}

// discard drops a client after a transport failure.
// Without a factory the client is kept and retried as is.
func (p *Poller) discard() {
	if p.factory == nil {
		return
	}
	if c, ok := p.client.(io.Closer); ok {
		_ = c.Close()
	}
	p.client = nil
}

// Close releases the current client, if it holds resources.
func (p *Poller) Close() error {
	if c, ok := p.client.(io.Closer); ok {
		p.client = nil
		return c.Close()
	}
	return nil
}
