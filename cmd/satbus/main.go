// cmd/satbus/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/tamzrod/satbus-sim/internal/advertise"
	"github.com/tamzrod/satbus-sim/internal/bus"
	"github.com/tamzrod/satbus-sim/internal/capture"
	"github.com/tamzrod/satbus-sim/internal/config"
	"github.com/tamzrod/satbus-sim/internal/logging"
	"github.com/tamzrod/satbus-sim/internal/mirror"
	"github.com/tamzrod/satbus-sim/internal/telemetry"
	"github.com/tamzrod/satbus-sim/internal/transport"
)

func main() {
	if len(os.Args) > 2 {
		log.Fatal("usage: satbus [config.yaml]")
	}

	// any fatal error exits non-zero
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}

// run starts the daemon and blocks until a signal or a fatal error.
// It returns nil only for a signal-driven shutdown.
func run(args []string) error {
	// --------------------
	// Load + validate config
	// --------------------

	cfg := config.Default()
	if len(args) == 1 {
		var err error
		cfg, err = config.Load(args[0])
		if err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return errors.Annotate(err, "config validation failed")
	}
	config.Normalize(cfg)

	// --------------------
	// Logging
	// --------------------

	underSystemd, err := logging.UnderSystemd()
	if err != nil {
		return err
	}
	logOut := logging.Setup(cfg.Log, underSystemd)
	defer logOut.Close()

	// --------------------
	// Bus
	// --------------------

	var busOpts []bus.Option
	if cfg.Bus.Seed != 0 {
		busOpts = append(busOpts, bus.WithSource(telemetry.NewSeeded(cfg.Bus.Seed)))
	}
	if cfg.Bus.Trace {
		busOpts = append(busOpts, bus.WithLogger(logging.New("")))
	}
	b := bus.New(busOpts...)

	// ---- capture (optional) ----
	var frames capture.Logger = capture.NoopLogger{}
	if cfg.Capture.File != "" {
		fl, err := capture.NewFileLogger(cfg.Capture.File)
		if err != nil {
			return err
		}
		defer fl.Close()
		frames = fl
	}

	srv := transport.NewServer(
		transport.Config{Endpoint: cfg.Transport.Endpoint, LogFrames: cfg.Log.Frames},
		b,
		transport.WithCapture(frames),
		transport.WithServerLogger(logging.New("")),
	)

	// --------------------
	// Lifecycle
	// --------------------

	a := alive.NewAlive()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-a.StopChan()
		cancel()
	}()

	fatal := make(chan error, 1)

	a.Add(1)
	go func() {
		defer a.Done()
		if err := srv.Serve(ctx); err != nil {
			fatal <- errors.Annotate(err, "transport")
			a.Stop()
		}
	}()

	select {
	case <-srv.Ready():
	case <-a.StopChan():
		a.Wait()
		return stopCause(fatal)
	}
	log.Printf("bus session=%s endpoint=%s", srv.Session(), cfg.Transport.Endpoint)

	// ---- mDNS (optional) ----
	if cfg.Advertise.Enabled {
		var names []string
		for _, s := range b.Subsystems() {
			names = append(names, s.Name)
		}
		adv, err := advertise.Start(advertise.Config{
			Instance:  cfg.Advertise.Instance,
			Interface: cfg.Advertise.Interface,
			Endpoint:  cfg.Transport.Endpoint,
			Devices:   names,
		})
		if err != nil {
			// the bus is usable without discovery
			log.Printf("advertise disabled: %v", err)
		} else {
			defer adv.Shutdown()
		}
	}

	// ---- Modbus mirror (optional) ----
	if cfg.Mirror.Enabled {
		m, closeMirror, err := mirror.Build(cfg.Mirror, b, logging.New(""))
		if err != nil {
			a.Stop()
			a.Wait()
			return err
		}
		defer closeMirror()

		a.Add(1)
		go func() {
			defer a.Done()
			_ = m.Run(ctx)
		}()
	}

	sdnotify(daemon.SdNotifyReady)
	log.Printf("satbus running")

	// --------------------
	// Wait for signal or fatal error
	// --------------------

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Printf("signal %s, stopping", sig)
		sdnotify(daemon.SdNotifyStopping)
		a.Stop()
	case <-a.StopChan():
	}

	a.Wait()
	return stopCause(fatal)
}

// stopCause reports the fatal error that stopped the process, if any.
func stopCause(fatal <-chan error) error {
	select {
	case err := <-fatal:
		return err
	default:
		return nil
	}
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Print("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
