// internal/transport/client.go
package transport

import (
	"context"
	"sync"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/juju/errors"
)

var (
	ErrTimeout     = errors.New("transport: reply timeout")
	ErrReplyLength = errors.New("transport: unexpected reply length")
	ErrClosed      = errors.New("transport: client closed")
)

// DefaultTimeout matches the flight software driver's send/receive timeout.
const DefaultTimeout = 2000 * time.Millisecond

// ClientConfig is the flight-software side of the bus link.
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// Client issues one request and waits for one reply over a ZeroMQ REQ socket.
// Transactions are serialized. After a timeout the socket is discarded
// and a fresh one is dialled on the next call.
type Client struct {
	cfg ClientConfig

	mu     sync.Mutex
	sock   zmq4.Socket
	cancel context.CancelFunc
	closed bool
}

// Dial connects a client. The first connection is made eagerly
// so a bad endpoint fails at startup.
func Dial(cfg ClientConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("transport client: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	c := &Client{cfg: cfg}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) connect() error {
	ctx, cancel := context.WithCancel(context.Background())
	sock := zmq4.NewReq(ctx, zmq4.WithDialerTimeout(c.cfg.Timeout))
	if err := sock.Dial(c.cfg.Endpoint); err != nil {
		cancel()
		_ = sock.Close()
		return errors.Annotatef(err, "transport client: dial %s", c.cfg.Endpoint)
	}
	c.sock = sock
	c.cancel = cancel
	return nil
}

func (c *Client) reset() {
	if c.sock != nil {
		c.cancel()
		_ = c.sock.Close()
		c.sock = nil
		c.cancel = nil
	}
}

// Transact sends req and returns the reply.
func (c *Client) Transact(req []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	if c.sock == nil {
		if err := c.connect(); err != nil {
			return nil, err
		}
	}

	type result struct {
		reply []byte
		err   error
	}
	done := make(chan result, 1)
	sock := c.sock
	go func() {
		if err := sock.Send(zmq4.NewMsg(req)); err != nil {
			done <- result{err: errors.Annotate(err, "transport client: send")}
			return
		}
		msg, err := sock.Recv()
		if err != nil {
			done <- result{err: errors.Annotate(err, "transport client: receive")}
			return
		}
		done <- result{reply: msg.Bytes()}
	}()

	timer := time.NewTimer(c.cfg.Timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			c.reset()
		}
		return r.reply, r.err
	case <-timer.C:
		// REQ state is now undefined: drop the socket
		c.reset()
		return nil, errors.Annotatef(ErrTimeout, "after %s", c.cfg.Timeout)
	}
}

// TransactLen is Transact for fixed-layout replies: a reply of any other
// length is an error.
func (c *Client) TransactLen(req []byte, n int) ([]byte, error) {
	reply, err := c.Transact(req)
	if err != nil {
		return nil, err
	}
	if len(reply) != n {
		return reply, errors.Annotatef(ErrReplyLength, "got=%d want=%d", len(reply), n)
	}
	return reply, nil
}

// Close releases the socket. It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.reset()
	return nil
}
