// internal/config/config.go
package config

type Config struct {
	Bus       BusConfig       `yaml:"bus"`
	Transport TransportConfig `yaml:"transport"`
	Log       LogConfig       `yaml:"log"`
	Capture   CaptureConfig   `yaml:"capture"`
	Advertise AdvertiseConfig `yaml:"advertise"`
	Mirror    MirrorConfig    `yaml:"mirror"`
}

// ---- BUS ----

type BusConfig struct {
	// Seed makes telemetry reproducible. 0 = process-wide random source.
	Seed uint64 `yaml:"seed"`
	// Trace logs every routing decision.
	Trace bool `yaml:"trace"`
}

// ---- TRANSPORT ----

type TransportConfig struct {
	Endpoint string `yaml:"endpoint"` // tcp://*:5555
}

// ---- LOG ----

type LogConfig struct {
	File       string `yaml:"file"` // empty = stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Frames     bool   `yaml:"frames"` // print received/sent frames
}

// ---- CAPTURE ----

type CaptureConfig struct {
	File string `yaml:"file"` // empty = disabled
}

// ---- ADVERTISE ----

type AdvertiseConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Instance  string `yaml:"instance"`
	Interface string `yaml:"interface"` // empty = all
}

// ---- MIRROR ----

type MirrorConfig struct {
	Enabled bool `yaml:"enabled"`

	// Source is a bus endpoint to sample remotely. Empty = in-process bus.
	Source     string `yaml:"source"`
	IntervalMs int    `yaml:"interval_ms"`
	TimeoutMs  int    `yaml:"timeout_ms"`

	Target TargetConfig `yaml:"target"`
	Reads  []ReadConfig `yaml:"reads"`

	// Status block (optional, opt-in)
	Status *StatusConfig `yaml:"status"`
}

// ReadConfig is one bus register copied into target holding registers.
type ReadConfig struct {
	Device   uint8   `yaml:"device"`
	Register uint8   `yaml:"register"`
	Args     []uint8 `yaml:"args"`
	Address  uint16  `yaml:"address"`
}

type TargetConfig struct {
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
}

type StatusConfig struct {
	Slot       uint16 `yaml:"slot"`
	UnitID     uint8  `yaml:"unit_id"`
	DeviceName string `yaml:"device_name"`
}
