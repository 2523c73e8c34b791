// cmd/satbus-cli/console.go
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/tamzrod/satbus-sim/internal/bus"
	"github.com/tamzrod/satbus-sim/internal/capture"
	"github.com/tamzrod/satbus-sim/internal/codec"
	"github.com/tamzrod/satbus-sim/internal/transport"
)

// Transactor sends one request and returns the reply.
type Transactor interface {
	Transact(req []byte) ([]byte, error)
}

var errQuit = errors.New("quit")

// Console evaluates one command line at a time.
// The local bus is only used as a register table for names and layouts.
type Console struct {
	link  Transactor
	table *bus.Bus
	out   io.Writer
}

func NewConsole(link Transactor, out io.Writer) *Console {
	return &Console{link: link, table: bus.New(), out: out}
}

// Exec runs one line. It returns errQuit when the user asks to leave.
func (c *Console) Exec(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	switch strings.ToLower(parts[0]) {
	case "help", "?":
		c.printHelp()
		return nil
	case "quit", "exit", "q":
		return errQuit
	case "replay":
		if len(parts) != 2 {
			return errors.New("usage: replay <capture-file>")
		}
		return c.replay(parts[1])
	}

	req, err := c.parseRequest(parts)
	if err != nil {
		return err
	}
	return c.transact(req)
}

// parseRequest accepts "<device> <register> [args...]" by name
// or a raw frame in hex ("01 00", "030205").
func (c *Console) parseRequest(parts []string) ([]byte, error) {
	if len(parts) >= 2 {
		if dev, reg, ok := c.table.Lookup(parts[0], parts[1]); ok {
			req := []byte{dev, reg}
			for _, a := range parts[2:] {
				v, err := strconv.ParseUint(a, 0, 8)
				if err != nil {
					return nil, errors.Errorf("argument %q: want 0-255", a)
				}
				req = append(req, uint8(v))
			}
			return req, nil
		}
	}

	req, err := hex.DecodeString(strings.Join(parts, ""))
	if err != nil {
		return nil, errors.Errorf("unknown command %q (type 'help' for commands)", parts[0])
	}
	return req, nil
}

func (c *Console) transact(req []byte) error {
	reply, err := c.link.Transact(req)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "-> %s\n<- %s\n", transport.FormatFrame(req), transport.FormatFrame(reply))

	if len(req) < 2 {
		return nil
	}
	layout, ok := c.table.Layout(req[0], req[1])
	if !ok || len(reply) != layout.Size() {
		fmt.Fprintln(c.out, "   (echo)")
		return nil
	}
	values, err := codec.Decode(layout, reply)
	if err != nil {
		return errors.Trace(err)
	}
	strs := make([]string, len(values))
	for i, v := range values {
		strs[i] = v.String()
	}
	fmt.Fprintf(c.out, "   %s\n", strings.Join(strs, " "))
	return nil
}

func (c *Console) replay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer f.Close()

	events, err := capture.ReadAll(f)
	if err != nil {
		return err
	}
	for _, e := range events {
		fmt.Fprintf(c.out, "%s %s #%d %-3s %s\n",
			e.Timestamp.Format("15:04:05.000"),
			e.SessionID,
			e.Seq,
			e.Direction,
			transport.FormatFrame(e.Frame),
		)
	}
	fmt.Fprintf(c.out, "%d events\n", len(events))
	return nil
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `commands:
  <device> <register> [args]   named read, e.g. "obc temp", "eps hkp", "adcs sun 5"
  <hex bytes>                  raw frame, e.g. "01 00" or "030205"
  replay <capture-file>        print a frame capture
  help                         this text
  quit                         leave`)
	for _, s := range c.table.Subsystems() {
		var regs []string
		for _, r := range s.Registers() {
			regs = append(regs, r.Name)
		}
		fmt.Fprintf(c.out, "  %-5s %s\n", s.Name, strings.Join(regs, " "))
	}
}
