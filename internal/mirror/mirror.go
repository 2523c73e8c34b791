// internal/mirror/mirror.go
package mirror

import (
	"context"
	"log"
	"time"

	"github.com/juju/errors"

	"github.com/tamzrod/satbus-sim/internal/bus"
	"github.com/tamzrod/satbus-sim/internal/config"
	"github.com/tamzrod/satbus-sim/internal/poller"
	"github.com/tamzrod/satbus-sim/internal/status"
	"github.com/tamzrod/satbus-sim/internal/transport"
	"github.com/tamzrod/satbus-sim/internal/writer"
)

// Source produces poll results until ctx is done.
type Source interface {
	Run(ctx context.Context, out chan<- poller.PollResult)
}

// Mirror copies bus telemetry into Modbus holding registers.
// It owns the status snapshot; writers only deliver it.
type Mirror struct {
	src    Source
	data   writer.Writer
	status writer.StatusWriter // nil = disabled
	log    *log.Logger

	snap status.Snapshot
}

// New wires a mirror. sw may be nil.
func New(src Source, data writer.Writer, sw writer.StatusWriter, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.Default()
	}
	return &Mirror{src: src, data: data, status: sw, log: logger}
}

// Build constructs the poller and writers from config.
// The returned closer releases both ends.
func Build(m config.MirrorConfig, b *bus.Bus, logger *log.Logger) (*Mirror, func() error, error) {
	p, closePoller, err := poller.Build(m, b)
	if err != nil {
		return nil, nil, errors.Annotate(err, "mirror: poller")
	}

	data, sw, closeWriter, err := writer.Build(m)
	if err != nil {
		_ = closePoller()
		return nil, nil, errors.Annotate(err, "mirror: writer")
	}

	closeAll := func() error {
		err1 := closePoller()
		err2 := closeWriter()
		if err1 != nil {
			return err1
		}
		return err2
	}

	return New(p, data, sw, logger), closeAll, nil
}

// Snapshot returns the current status snapshot.
// Not safe for use while Run is active.
func (m *Mirror) Snapshot() status.Snapshot { return m.snap }

// Run drives the poller and the 1 Hz seconds ticker until ctx is done.
// It returns only after the source has stopped.
func (m *Mirror) Run(ctx context.Context) error {
	out := make(chan poller.PollResult)
	srcDone := make(chan struct{})
	go func() {
		defer close(srcDone)
		m.src.Run(ctx, out)
	}()

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert) if enabled.
	m.writeStatus("start")

	for {
		select {
		case <-ctx.Done():
			// the source owns its client until it returns
			<-srcDone
			return nil
		case res := <-out:
			m.Handle(res)
		case <-secTicker.C:
			m.Tick()
		}
	}
}

// Handle delivers one poll result and folds it into the status block.
func (m *Mirror) Handle(res poller.PollResult) {
	if res.Err != nil {
		m.log.Printf("mirror: poll failed: %v", res.Err)
	}
	if err := m.data.Write(res); err != nil {
		m.log.Printf("mirror: writer error: %v", err)
	}

	if m.snap.Observe(ErrorCode(res.Err)) {
		m.writeStatus("update")
	}
}

// Tick advances seconds_in_error. Called at 1 Hz.
func (m *Mirror) Tick() {
	if m.snap.Tick() {
		m.writeStatus("seconds tick")
	}
}

func (m *Mirror) writeStatus(what string) {
	if m.status == nil {
		return
	}
	if err := m.status.WriteStatus(m.snap); err != nil {
		m.log.Printf("mirror: status write failed (%s): %v", what, err)
	}
}

// ErrorCode maps a cycle error to a status error code.
func ErrorCode(err error) uint16 {
	if err == nil {
		return status.ErrNone
	}
	switch errors.Cause(err) {
	case transport.ErrTimeout:
		return status.ErrTimeout
	case transport.ErrReplyLength:
		return status.ErrReplyLength
	}
	return status.ErrGeneric
}
