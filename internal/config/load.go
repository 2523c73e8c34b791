// internal/config/load.go
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is where the flight software expects the bus.
const DefaultEndpoint = "tcp://*:5555"

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Transport: TransportConfig{
			Endpoint: DefaultEndpoint,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
			Frames:     true,
		},
		Advertise: AdvertiseConfig{
			Instance: "satbus-sim",
		},
		Mirror: MirrorConfig{
			IntervalMs: 1000,
			TimeoutMs:  2000,
		},
	}
}

// Load reads a YAML file over the defaults.
// Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "config: read %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// empty document keeps the defaults
		if err == io.EOF {
			return cfg, nil
		}
		return nil, errors.Annotate(err, "config: decode")
	}
	return cfg, nil
}
