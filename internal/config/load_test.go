package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
bus:
  seed: 42
transport:
  endpoint: tcp://*:6000
log:
  frames: false
capture:
  file: /tmp/bus.capture
mirror:
  enabled: true
  interval_ms: 500
  target:
    endpoint: 127.0.0.1:1502
    unit_id: 3
  reads:
    - {device: 2, register: 0, address: 0}
    - {device: 3, register: 2, args: [5], address: 8}
  status:
    slot: 2
    unit_id: 4
    device_name: A-VERY-LONG-DEVICE-NAME
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "satbus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Bus.Seed)
	assert.Equal(t, "tcp://*:6000", cfg.Transport.Endpoint)
	assert.False(t, cfg.Log.Frames)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB, "defaults survive partial documents")
	assert.Equal(t, 500, cfg.Mirror.IntervalMs)
	assert.Equal(t, 2000, cfg.Mirror.TimeoutMs)
	require.Len(t, cfg.Mirror.Reads, 2)
	assert.Equal(t, []uint8{5}, cfg.Mirror.Reads[1].Args)
	require.NotNil(t, cfg.Mirror.Status)

	require.NoError(t, Validate(cfg))
	Normalize(cfg)
	assert.Equal(t, "tcp://0.0.0.0:6000", cfg.Transport.Endpoint)
	assert.Equal(t, "A-VERY-LONG-DEVI", cfg.Mirror.Status.DeviceName)
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseUnknownField(t *testing.T) {
	_, err := Parse([]byte("transport:\n  endpoint: tcp://*:1\n  bogus: 1\n"))
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNormalizeDefaultDeviceName(t *testing.T) {
	cfg := Default()
	cfg.Mirror.Status = &StatusConfig{}
	Normalize(cfg)
	assert.Equal(t, "SATBUS", cfg.Mirror.Status.DeviceName)
	assert.Equal(t, "tcp://0.0.0.0:5555", cfg.Transport.Endpoint)

	cfg.Transport.Endpoint = "ipc:///tmp/bus"
	Normalize(cfg)
	assert.Equal(t, "ipc:///tmp/bus", cfg.Transport.Endpoint)
}
