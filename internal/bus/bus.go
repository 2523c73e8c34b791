// internal/bus/bus.go
package bus

import (
	"fmt"
	"log"
	"strings"

	"github.com/tamzrod/satbus-sim/internal/codec"
	"github.com/tamzrod/satbus-sim/internal/telemetry"
)

// Bus routes raw request frames to subsystem emulators.
// The device table is fixed at construction and never mutated,
// so Dispatch is safe for concurrent use.
type Bus struct {
	devices map[uint8]*Subsystem
	src     telemetry.Source
	log     *log.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithSource replaces the default randomness source.
func WithSource(src telemetry.Source) Option {
	return func(b *Bus) { b.src = src }
}

// WithLogger enables per-request routing diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(b *Bus) { b.log = l }
}

// New builds the standard OBC/EPS/ADCS bus.
func New(opts ...Option) *Bus {
	b := &Bus{src: telemetry.Default}
	for _, o := range opts {
		o(b)
	}
	b.devices = make(map[uint8]*Subsystem, 3)
	for _, s := range []*Subsystem{obcSubsystem(), epsSubsystem(), adcsSubsystem()} {
		s.src = b.src
		b.devices[s.ID] = s
	}
	return b
}

// Route is the resolution of one request.
type Route struct {
	Device   string // empty when the device id is unknown
	Register string // empty when the register address is unknown
	Echo     bool
	Values   []codec.Value
	Reply    []byte
}

// Dispatch answers one request. Unknown devices and registers
// return the request unchanged.
func (b *Bus) Dispatch(req []byte) []byte {
	return b.Route(req).Reply
}

// Route resolves req and produces the reply.
func (b *Bus) Route(req []byte) Route {
	if len(req) <= offDevice {
		b.logf("bus: empty request, echo")
		return Route{Echo: true, Reply: req}
	}

	sub, ok := b.devices[req[offDevice]]
	if !ok {
		b.logf("bus: unknown device 0x%02x, echo", req[offDevice])
		return Route{Echo: true, Reply: req}
	}

	rt := sub.route(req)
	if rt.Echo {
		b.logf("bus: %s register %s, echo", sub.Name, registerLabel(req, rt.Register))
	} else {
		b.logf("bus: %s.%s -> %d bytes", sub.Name, rt.Register, len(rt.Reply))
	}
	return rt
}

// Handle answers a request already resolved to this subsystem.
func (s *Subsystem) Handle(req []byte) []byte {
	return s.route(req).Reply
}

func (s *Subsystem) route(req []byte) Route {
	rt := Route{Device: s.Name, Echo: true, Reply: req}
	if len(req) <= offRegister {
		return rt
	}

	reg, ok := s.registers[req[offRegister]]
	if !ok {
		return rt
	}
	rt.Register = reg.Name
	if reg.Echoes() {
		return rt
	}

	vals := reg.Sample(s.src, req)
	rt.Echo = false
	rt.Values = vals
	rt.Reply = codec.MustEncode(reg.Layout, vals)
	return rt
}

// Subsystem returns the device with the given id.
func (b *Bus) Subsystem(id uint8) (*Subsystem, bool) {
	s, ok := b.devices[id]
	return s, ok
}

// Subsystems returns all devices ordered by id.
func (b *Bus) Subsystems() []*Subsystem {
	out := make([]*Subsystem, 0, len(b.devices))
	for id := 0; id <= 0xff; id++ {
		if s, ok := b.devices[uint8(id)]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Layout returns the reply layout of (device, register).
// ok is false for echo and unknown addresses.
func (b *Bus) Layout(device, register uint8) (codec.Layout, bool) {
	s, ok := b.devices[device]
	if !ok {
		return nil, false
	}
	r, ok := s.registers[register]
	if !ok || r.Echoes() {
		return nil, false
	}
	return r.Layout, true
}

// Lookup resolves names like "eps", "hkp" to addresses.
func (b *Bus) Lookup(device, register string) (uint8, uint8, bool) {
	for _, s := range b.devices {
		if !strings.EqualFold(s.Name, device) {
			continue
		}
		for _, r := range s.registers {
			if strings.EqualFold(r.Name, register) {
				return s.ID, r.Addr, true
			}
		}
	}
	return 0, 0, false
}

func (b *Bus) logf(format string, args ...interface{}) {
	if b.log != nil {
		b.log.Printf(format, args...)
	}
}

func registerLabel(req []byte, name string) string {
	if name != "" {
		return name
	}
	if len(req) <= offRegister {
		return "<none>"
	}
	return fmt.Sprintf("0x%02x", req[offRegister])
}
