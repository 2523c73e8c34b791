// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	jerrors "github.com/juju/errors"

	"github.com/tamzrod/satbus-sim/internal/bus"
	"github.com/tamzrod/satbus-sim/internal/codec"
	"github.com/tamzrod/satbus-sim/internal/config"
	"github.com/tamzrod/satbus-sim/internal/telemetry"
	"github.com/tamzrod/satbus-sim/internal/transport"
)

type fakeClient struct {
	failAt int // 1-based transaction to fail, 0 = never
	calls  int
	reply  func(req []byte) []byte
	closed bool
}

func (f *fakeClient) Transact(req []byte) ([]byte, error) {
	f.calls++
	if f.failAt != 0 && f.calls == f.failAt {
		return nil, errors.New("fail transact")
	}
	if f.reply != nil {
		return f.reply(req), nil
	}
	return req, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

// zeros answers every request with a zeroed reply of the right size.
func zeros(size int) func([]byte) []byte {
	return func([]byte) []byte { return make([]byte, size) }
}

func obcRead() ReadBlock {
	return ReadBlock{Device: bus.DeviceOBC, Register: bus.OBCRegTemp, Address: 0, Layout: codec.Repeat(codec.Int32, 1)}
}

func testConfig(reads ...ReadBlock) Config {
	return Config{Interval: time.Second, Reads: reads}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Reads: []ReadBlock{obcRead()}}, &fakeClient{}, nil); err == nil {
		t.Fatalf("expected interval error")
	}
	if _, err := New(testConfig(), &fakeClient{}, nil); err == nil {
		t.Fatalf("expected reads error")
	}
	if _, err := New(testConfig(ReadBlock{Device: 1}), &fakeClient{}, nil); err == nil {
		t.Fatalf("expected layout error")
	}
	if _, err := New(testConfig(obcRead()), nil, nil); err == nil {
		t.Fatalf("expected client error")
	}
}

func TestReadBlock_Request(t *testing.T) {
	rb := ReadBlock{Device: bus.DeviceADCS, Register: bus.ADCSRegSun, Args: []uint8{5}}
	got := rb.Request()
	want := []byte{0x03, 0x02, 0x05}
	if string(got) != string(want) {
		t.Fatalf("request=% x want=% x", got, want)
	}
}

func TestPollOnce_Success(t *testing.T) {
	p, err := New(testConfig(obcRead()), Local{Bus: bus.New()}, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(res.Blocks) != 1 || len(res.Blocks[0].Values) != 1 {
		t.Fatalf("unexpected blocks: %+v", res.Blocks)
	}
	v := res.Blocks[0].Values[0].Int
	if v < telemetry.OBCTempMin || v > telemetry.OBCTempMax {
		t.Fatalf("obc temp out of range: %d", v)
	}
}

func TestPollOnce_AllReads(t *testing.T) {
	b := bus.New()
	var reads []ReadBlock
	addr := uint16(0)
	for _, s := range b.Subsystems() {
		for _, r := range s.Registers() {
			if r.Echoes() {
				continue
			}
			reads = append(reads, ReadBlock{Device: s.ID, Register: r.Addr, Address: addr, Layout: r.Layout})
			addr += uint16(r.Layout.Words())
		}
	}

	p, err := New(testConfig(reads...), Local{Bus: b}, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(res.Blocks) != len(reads) {
		t.Fatalf("expected %d blocks, got %d", len(reads), len(res.Blocks))
	}
}

func TestPollOnce_Failure(t *testing.T) {
	fc := &fakeClient{failAt: 2, reply: zeros(4)}
	p, err := New(testConfig(obcRead(), obcRead()), fc, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err == nil {
		t.Fatalf("expected error, got nil")
	}
	if res.Blocks != nil {
		t.Fatalf("partial cycle committed: %+v", res.Blocks)
	}
	// no factory: client kept
	if fc.closed {
		t.Fatalf("client closed without factory")
	}
}

func TestPollOnce_EchoIsReplyLengthError(t *testing.T) {
	// fake echoes by default: 2-byte reply for a 4-byte layout
	p, err := New(testConfig(obcRead()), &fakeClient{}, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if jerrors.Cause(res.Err) != transport.ErrReplyLength {
		t.Fatalf("expected reply length error, got %v", res.Err)
	}
}

func TestPollOnce_FactoryReconnect(t *testing.T) {
	first := &fakeClient{failAt: 1, reply: zeros(4)}
	made := 0
	factory := func() (Client, error) {
		made++
		return &fakeClient{reply: zeros(4)}, nil
	}

	p, err := New(testConfig(obcRead()), first, factory)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	if res := p.PollOnce(); res.Err == nil {
		t.Fatalf("expected first cycle to fail")
	}
	if !first.closed {
		t.Fatalf("failed client not closed")
	}
	if res := p.PollOnce(); res.Err != nil {
		t.Fatalf("second cycle err=%v", res.Err)
	}
	if made != 1 {
		t.Fatalf("factory calls=%d want 1", made)
	}
}

func TestPollOnce_FactoryFailure(t *testing.T) {
	factory := func() (Client, error) { return nil, errors.New("down") }

	p, err := New(testConfig(obcRead()), nil, factory)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if res := p.PollOnce(); res.Err == nil {
		t.Fatalf("expected reconnect error")
	}
}

func TestRun_EmitsAndStops(t *testing.T) {
	p, err := New(Config{Interval: 5 * time.Millisecond, Reads: []ReadBlock{obcRead()}}, Local{Bus: bus.New()}, nil)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	select {
	case res := <-out:
		if res.Err != nil {
			t.Fatalf("poll err=%v", res.Err)
		}
	case <-time.After(time.Second):
		t.Fatalf("no poll result")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestBuild_Local(t *testing.T) {
	m := config.Default().Mirror
	m.Reads = []config.ReadConfig{
		{Device: bus.DeviceEPS, Register: bus.EPSRegHousekeeping, Address: 0},
		{Device: bus.DeviceADCS, Register: bus.ADCSRegSun, Args: []uint8{2}, Address: 8},
	}

	p, closeFn, err := Build(m, bus.New())
	if err != nil {
		t.Fatalf("Build() err=%v", err)
	}
	defer closeFn()

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if len(res.Blocks[0].Values) != 4 || len(res.Blocks[1].Values) != 1 {
		t.Fatalf("unexpected values: %+v", res.Blocks)
	}
	if res.Blocks[1].Address != 8 {
		t.Fatalf("address=%d want 8", res.Blocks[1].Address)
	}
}

func TestBuild_RejectsEchoRegister(t *testing.T) {
	m := config.Default().Mirror
	m.Reads = []config.ReadConfig{{Device: bus.DeviceADCS, Register: bus.ADCSRegTorque}}

	if _, _, err := Build(m, bus.New()); err == nil {
		t.Fatalf("expected error for echo register")
	}
}
