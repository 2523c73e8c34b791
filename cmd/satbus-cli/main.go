// cmd/satbus-cli/main.go
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/juju/errors"
	"github.com/mattn/go-isatty"

	"github.com/tamzrod/satbus-sim/internal/transport"
)

func main() {
	endpoint := flag.String("endpoint", "tcp://localhost:5555", "bus endpoint")
	timeout := flag.Duration("timeout", transport.DefaultTimeout, "reply timeout")
	flag.Parse()

	log.SetFlags(log.Lshortfile)

	client, err := transport.Dial(transport.ClientConfig{Endpoint: *endpoint, Timeout: *timeout})
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	defer client.Close()

	// piped input: no prompt, stop at the first error
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		if err := batch(NewConsole(client, os.Stdout), os.Stdin); err != nil {
			log.Fatal(err)
		}
		return
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "satbus> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	defer rl.Close()

	con := NewConsole(client, rl.Stdout())
	fmt.Fprintf(rl.Stdout(), "connected to %s (type 'help')\n", *endpoint)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return
		}
		if err := con.Exec(strings.TrimSpace(line)); err != nil {
			if err == errQuit {
				return
			}
			fmt.Fprintf(rl.Stdout(), "error: %v\n", err)
		}
	}
}

func batch(con *Console, in io.Reader) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := con.Exec(line); err != nil {
			if err == errQuit {
				return nil
			}
			return errors.Annotatef(err, "%q", line)
		}
	}
	return sc.Err()
}
