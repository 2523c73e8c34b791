// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	"github.com/tamzrod/satbus-sim/internal/bus"
	"github.com/tamzrod/satbus-sim/internal/status"
)

var endpointSchemes = []string{"tcp://", "ipc://", "inproc://"}

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config: nil")
	}

	if err := validateEndpoint("transport.endpoint", cfg.Transport.Endpoint); err != nil {
		return err
	}

	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		return fmt.Errorf(
			"log: max_size_mb=%d max_backups=%d max_age_days=%d must not be negative",
			cfg.Log.MaxSizeMB,
			cfg.Log.MaxBackups,
			cfg.Log.MaxAgeDays,
		)
	}

	if cfg.Advertise.Enabled && cfg.Advertise.Instance == "" {
		return fmt.Errorf("advertise: instance name required when enabled")
	}

	if !cfg.Mirror.Enabled {
		return nil
	}
	return validateMirror(&cfg.Mirror)
}

func validateEndpoint(field, ep string) error {
	if ep == "" {
		return fmt.Errorf("%s: required", field)
	}
	for _, s := range endpointSchemes {
		if strings.HasPrefix(ep, s) && len(ep) > len(s) {
			return nil
		}
	}
	return fmt.Errorf("%s: %q must start with one of %v", field, ep, endpointSchemes)
}

func validateMirror(m *MirrorConfig) error {
	type span struct {
		start uint32
		end   uint32
		what  string
	}

	if m.Source != "" {
		if err := validateEndpoint("mirror.source", m.Source); err != nil {
			return err
		}
	}
	if m.IntervalMs <= 0 {
		return fmt.Errorf("mirror: interval_ms must be > 0")
	}
	if m.TimeoutMs <= 0 {
		return fmt.Errorf("mirror: timeout_ms must be > 0")
	}
	if m.Target.Endpoint == "" {
		return fmt.Errorf("mirror: target.endpoint required")
	}
	if len(m.Reads) == 0 {
		return fmt.Errorf("mirror: at least one read required")
	}

	// ------------------------------------------------------------
	// READ GEOMETRY VALIDATION
	// ------------------------------------------------------------

	b := bus.New()

	// key = unit_id
	spans := make(map[uint8][]span)

	claim := func(unit uint8, s span) error {
		for _, prev := range spans[unit] {
			// overlap check (inclusive)
			if !(s.end < prev.start || s.start > prev.end) {
				return fmt.Errorf(
					"mirror: register overlap: unit_id=%d %s range=%d-%d overlaps with %s range=%d-%d",
					unit,
					s.what,
					s.start,
					s.end,
					prev.what,
					prev.start,
					prev.end,
				)
			}
		}
		spans[unit] = append(spans[unit], s)
		return nil
	}

	for i, r := range m.Reads {
		layout, ok := b.Layout(r.Device, r.Register)
		if !ok {
			return fmt.Errorf(
				"mirror: read %d: device=0x%02x register=0x%02x has no telemetry generator",
				i,
				r.Device,
				r.Register,
			)
		}

		start := uint32(r.Address)
		end := start + uint32(layout.Words()) - 1
		if end > 0xffff {
			return fmt.Errorf("mirror: read %d: address %d + %d words exceeds register space", i, r.Address, layout.Words())
		}

		what := fmt.Sprintf("read[%d] dev=0x%02x reg=0x%02x", i, r.Device, r.Register)
		if err := claim(m.Target.UnitID, span{start: start, end: end, what: what}); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// STATUS BLOCK VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	if m.Status == nil {
		return nil
	}

	// device_name sanity (ASCII only)
	for i := 0; i < len(m.Status.DeviceName); i++ {
		if m.Status.DeviceName[i] > 0x7F {
			return fmt.Errorf("mirror: status.device_name must contain ASCII characters only")
		}
	}

	start := uint32(m.Status.Slot) * status.SlotsPerDevice
	end := start + status.SlotsPerDevice - 1
	if end > 0xffff {
		return fmt.Errorf("mirror: status.slot %d exceeds register space", m.Status.Slot)
	}

	return claim(m.Status.UnitID, span{start: start, end: end, what: "status block"})
}
