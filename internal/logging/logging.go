// Package logging points the standard logger at stderr or a rotating file.
package logging

import (
	"io"
	"log"
	"os"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tamzrod/satbus-sim/internal/config"
)

const (
	// FlagsService drops timestamps: the journal adds its own.
	FlagsService     = log.Lshortfile
	FlagsInteractive = log.Lshortfile | log.Ltime | log.Lmicroseconds
)

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// Writer returns the log destination for cfg.
// An empty file name means stderr.
func Writer(cfg config.LogConfig) io.WriteCloser {
	if cfg.File == "" {
		return nopCloser{os.Stderr}
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
}

// Flags picks log flags for the process: service flags when started
// by systemd with a notify socket.
func Flags(underSystemd bool) int {
	if underSystemd {
		return FlagsService
	}
	return FlagsInteractive
}

// UnderSystemd reports whether a notify socket is available.
// Sending "start" is harmless when it is.
func UnderSystemd() (bool, error) {
	ok, err := daemon.SdNotify(false, "start")
	if err != nil {
		return false, errors.Annotate(err, "sdnotify")
	}
	return ok, nil
}

// Setup configures the standard logger and returns the writer to close on exit.
func Setup(cfg config.LogConfig, underSystemd bool) io.Closer {
	w := Writer(cfg)
	log.SetOutput(w)
	log.SetFlags(Flags(underSystemd))
	return w
}

// New returns a logger sharing the standard logger's output and flags.
func New(prefix string) *log.Logger {
	return log.New(log.Writer(), prefix, log.Flags())
}
