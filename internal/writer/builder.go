// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/satbus-sim/internal/config"
	wmodbus "github.com/tamzrod/satbus-sim/internal/writer/modbus"
)

var _ endpointClient = (*wmodbus.EndpointClient)(nil)

// BuildPlan converts the mirror config into a writer Plan.
// Assumes config has already passed Validate and Normalize.
func BuildPlan(m cfg.MirrorConfig) Plan {
	plan := Plan{
		Target: TargetEndpoint{
			Endpoint: m.Target.Endpoint,
			UnitID:   m.Target.UnitID,
		},
	}

	if m.Status != nil {
		plan.Status = &StatusPlan{
			Endpoint:   m.Target.Endpoint,
			UnitID:     m.Status.UnitID,
			BaseSlot:   m.Status.Slot,
			DeviceName: m.Status.DeviceName,
		}
	}
	return plan
}

// Build connects to the target and returns the data and status writers.
// status is nil when the plan has no status block.
func Build(m cfg.MirrorConfig) (Writer, StatusWriter, func() error, error) {
	plan := BuildPlan(m)

	c, err := wmodbus.NewEndpointClient(wmodbus.Config{
		Endpoint: plan.Target.Endpoint,
		Timeout:  time.Duration(m.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	clients := map[string]endpointClient{plan.Target.Endpoint: c}

	sw, _ := NewDeviceStatusWriter(plan, clients)
	return New(plan, clients), sw, c.Close, nil
}
