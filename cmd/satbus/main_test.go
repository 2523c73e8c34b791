package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopCause(t *testing.T) {
	fatal := make(chan error, 1)
	assert.NoError(t, stopCause(fatal), "signal shutdown is clean")

	boom := errors.New("boom")
	fatal <- boom
	assert.Equal(t, boom, stopCause(fatal))
}

func TestRunReportsTransportFailure(t *testing.T) {
	prevOut, prevFlags := log.Writer(), log.Flags()
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()
	t.Setenv("NOTIFY_SOCKET", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "satbus.yaml")
	cfg := "transport:\n  endpoint: tcp://256.0.0.1:5555\nlog:\n  file: " + filepath.Join(dir, "satbus.log") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	done := make(chan error, 1)
	go func() { done <- run([]string{path}) }()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transport")
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after bind failure")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "satbus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  endpoint: udp://*:1\n"), 0o644))

	err := run([]string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
