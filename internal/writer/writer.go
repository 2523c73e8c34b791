// internal/writer/writer.go
package writer

import (
	"fmt"
	"strings"

	"github.com/juju/errors"

	"github.com/tamzrod/satbus-sim/internal/codec"
	"github.com/tamzrod/satbus-sim/internal/poller"
)

// endpointClient is the exact contract the writers use.
// Registers are holding registers on the target.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

type modbusWriter struct {
	plan    Plan
	clients map[string]endpointClient
}

// New returns a Writer delivering data blocks to the plan target.
func New(plan Plan, clients map[string]endpointClient) Writer {
	return &modbusWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write delivers every block of a successful cycle.
// A failed cycle writes nothing: stale data stays in place and the
// status block carries the error.
func (w *modbusWriter) Write(res poller.PollResult) error {
	if res.Err != nil {
		return nil
	}

	tgt := w.plan.Target
	cli := w.clients[tgt.Endpoint]
	if cli == nil {
		return errors.Errorf("writer: missing client for endpoint %s", tgt.Endpoint)
	}

	var errs []string

	for _, b := range res.Blocks {
		regs := codec.Registers(b.Values)
		if err := cli.WriteRegisters(tgt.UnitID, b.Address, regs); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d dev=0x%02x reg=0x%02x addr=%d err=%v",
				tgt.Endpoint, tgt.UnitID, b.Device, b.Register, b.Address, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}
	return nil
}
