// internal/transport/server.go
package transport

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-zeromq/zmq4"
	"github.com/juju/errors"

	"github.com/tamzrod/satbus-sim/internal/capture"
)

// Handler answers one request frame. It must always return a reply.
type Handler interface {
	Dispatch(req []byte) []byte
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req []byte) []byte

func (f HandlerFunc) Dispatch(req []byte) []byte { return f(req) }

// Conn is the request/reply rendezvous the server loop runs on.
// No request is received while a reply is pending.
type Conn interface {
	Recv() ([]byte, error)
	Send(reply []byte) error
	Close() error
}

// maxRecvErrors ends Serve after this many consecutive receive failures.
const maxRecvErrors = 10

// Config is the server side transport config.
type Config struct {
	Endpoint  string
	LogFrames bool
}

// Server serves bus requests on a ZeroMQ REP socket.
type Server struct {
	cfg     Config
	h       Handler
	capture capture.Logger
	log     *log.Logger
	session string
	seq     uint64
	ready   chan struct{}
	once    sync.Once
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithCapture records every frame into l.
func WithCapture(l capture.Logger) ServerOption {
	return func(s *Server) { s.capture = l }
}

// WithServerLogger replaces log.Default().
func WithServerLogger(l *log.Logger) ServerOption {
	return func(s *Server) { s.log = l }
}

func NewServer(cfg Config, h Handler, opts ...ServerOption) *Server {
	s := &Server{
		cfg:     cfg,
		h:       h,
		capture: capture.NoopLogger{},
		log:     log.Default(),
		session: capture.NewSessionID(),
		ready:   make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Session is the capture session id of this server.
func (s *Server) Session() string { return s.session }

// Ready is closed once the socket is bound.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Serve binds the endpoint and answers requests until ctx is done.
// The socket is released on every exit path.
func (s *Server) Serve(ctx context.Context) error {
	conn, err := Bind(ctx, s.cfg.Endpoint)
	if err != nil {
		return errors.Trace(err)
	}
	defer conn.Close()

	s.log.Printf("transport: listening on %s", s.cfg.Endpoint)
	return s.ServeConn(ctx, conn)
}

// ServeConn runs the receive -> dispatch -> reply loop on an acquired conn.
// The caller keeps ownership of conn.
func (s *Server) ServeConn(ctx context.Context, conn Conn) error {
	s.once.Do(func() { close(s.ready) })

	failures := 0
	for {
		req, err := conn.Recv()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			failures++
			if failures >= maxRecvErrors {
				return errors.Annotatef(err, "transport: %d consecutive receive errors", failures)
			}
			s.log.Printf("transport: receive failed: %v", err)
			continue
		}
		failures = 0

		seq := atomic.AddUint64(&s.seq, 1)
		s.record(seq, capture.DirectionIn, req)
		if s.cfg.LogFrames {
			s.log.Printf("Received request: %s", FormatFrame(req))
		}

		reply := s.h.Dispatch(req)

		if err := conn.Send(reply); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Printf("transport: reply seq=%d failed: %v", seq, err)
			continue
		}
		s.record(seq, capture.DirectionOut, reply)
		if s.cfg.LogFrames {
			s.log.Printf("Sent reply: %s", FormatFrame(reply))
		}
	}
}

func (s *Server) record(seq uint64, dir capture.Direction, frame []byte) {
	s.capture.Log(capture.Event{
		Timestamp: time.Now(),
		SessionID: s.session,
		Seq:       seq,
		Direction: dir,
		Frame:     append([]byte(nil), frame...),
	})
}

// repConn is a bound ZeroMQ REP socket.
type repConn struct {
	sock zmq4.Socket
}

// Bind acquires a REP socket listening on endpoint. The socket is
// closed when ctx is done or Close is called, whichever comes first.
func Bind(ctx context.Context, endpoint string) (Conn, error) {
	sock := zmq4.NewRep(ctx)
	if err := sock.Listen(endpoint); err != nil {
		_ = sock.Close()
		return nil, errors.Annotatef(err, "transport: listen %s", endpoint)
	}
	return &repConn{sock: sock}, nil
}

func (c *repConn) Recv() ([]byte, error) {
	msg, err := c.sock.Recv()
	if err != nil {
		return nil, err
	}
	return msg.Bytes(), nil
}

func (c *repConn) Send(reply []byte) error {
	return c.sock.Send(zmq4.NewMsg(reply))
}

func (c *repConn) Close() error {
	return c.sock.Close()
}
