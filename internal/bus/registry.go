// internal/bus/registry.go
package bus

import (
	"github.com/tamzrod/satbus-sim/internal/codec"
	"github.com/tamzrod/satbus-sim/internal/telemetry"
)

// SampleFunc produces one telemetry sample in layout order.
// req is the full request; register arguments start at byte 2.
type SampleFunc func(src telemetry.Source, req []byte) []codec.Value

// Register is one entry of a subsystem register table.
// A nil Sample is the echo variant: the address is known by name
// but has no generator, so the request is returned unchanged.
type Register struct {
	Addr   uint8
	Name   string
	Layout codec.Layout
	Sample SampleFunc
}

// Echoes reports whether the register resolves to echo fallback.
func (r Register) Echoes() bool { return r.Sample == nil }

// Subsystem is one device on the bus with its static register table.
type Subsystem struct {
	ID        uint8
	Name      string
	registers map[uint8]Register
	src       telemetry.Source
}

func newSubsystem(id uint8, name string, regs ...Register) *Subsystem {
	s := &Subsystem{
		ID:        id,
		Name:      name,
		registers: make(map[uint8]Register, len(regs)),
		src:       telemetry.Default,
	}
	for _, r := range regs {
		if !r.Echoes() && len(r.Layout) == 0 {
			panic("bus: register " + name + "." + r.Name + " has a generator but no layout")
		}
		s.registers[r.Addr] = r
	}
	return s
}

// Register looks up a register by address.
func (s *Subsystem) Register(addr uint8) (Register, bool) {
	r, ok := s.registers[addr]
	return r, ok
}

// Registers returns the table ordered by address.
func (s *Subsystem) Registers() []Register {
	out := make([]Register, 0, len(s.registers))
	for a := 0; a <= 0xff; a++ {
		if r, ok := s.registers[uint8(a)]; ok {
			out = append(out, r)
		}
	}
	return out
}

func arg(req []byte, i int) uint8 {
	if len(req) <= offArg+i {
		return 0
	}
	return req[offArg+i]
}

// standard device tables

func obcSubsystem() *Subsystem {
	return newSubsystem(DeviceOBC, "obc",
		Register{
			Addr:   OBCRegTemp,
			Name:   "temp",
			Layout: codec.Layout{codec.Int32},
			Sample: func(src telemetry.Source, _ []byte) []codec.Value {
				return []codec.Value{codec.Int(telemetry.OBCTemp(src))}
			},
		},
	)
}

func epsSubsystem() *Subsystem {
	return newSubsystem(DeviceEPS, "eps",
		Register{
			Addr:   EPSRegHousekeeping,
			Name:   "hkp",
			Layout: codec.Repeat(codec.Int32, 4),
			Sample: func(src telemetry.Source, _ []byte) []codec.Value {
				hk := telemetry.EPSHousekeeping(src)
				return []codec.Value{
					codec.Int(hk.Vbat),
					codec.Int(hk.CurrentIn),
					codec.Int(hk.CurrentOut),
					codec.Int(hk.Temp),
				}
			},
		},
		Register{Addr: EPSRegSet, Name: "set"},
	)
}

func vectorValues(v telemetry.Vector) []codec.Value {
	return []codec.Value{codec.Float(v.X), codec.Float(v.Y), codec.Float(v.Z)}
}

func adcsSubsystem() *Subsystem {
	return newSubsystem(DeviceADCS, "adcs",
		Register{
			Addr:   ADCSRegMag,
			Name:   "mag",
			Layout: codec.Repeat(codec.Float32, 3),
			Sample: func(src telemetry.Source, _ []byte) []codec.Value {
				return vectorValues(telemetry.Magnetometer(src))
			},
		},
		Register{
			Addr:   ADCSRegGyro,
			Name:   "gyr",
			Layout: codec.Repeat(codec.Float32, 3),
			Sample: func(src telemetry.Source, _ []byte) []codec.Value {
				return vectorValues(telemetry.Gyroscope(src))
			},
		},
		Register{
			Addr:   ADCSRegSun,
			Name:   "sun",
			Layout: codec.Layout{codec.Int32},
			Sample: func(src telemetry.Source, req []byte) []codec.Value {
				return []codec.Value{codec.Int(telemetry.SunSensor(src, arg(req, 0)))}
			},
		},
		Register{Addr: ADCSRegTorque, Name: "mtt"},
	)
}
