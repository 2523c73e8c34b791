// internal/writer/types.go
package writer

import "github.com/tamzrod/satbus-sim/internal/poller"

// TargetEndpoint is the Modbus TCP server that receives mirrored telemetry.
type TargetEndpoint struct {
	Endpoint string
	UnitID   uint8
}

// StatusPlan places the mirror status block on a target unit.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for the mirror.
type Plan struct {
	Target TargetEndpoint
	Status *StatusPlan // nil = status disabled
}

// Writer writes poll snapshots into the target.
type Writer interface {
	Write(res poller.PollResult) error
}
