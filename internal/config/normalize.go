// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	cfg.Transport.Endpoint = normalizeWildcard(cfg.Transport.Endpoint)

	if cfg.Mirror.Status == nil {
		return
	}

	// Normalize device_name:
	// - ASCII already validated
	// - Truncate to max 16 characters
	if len(cfg.Mirror.Status.DeviceName) > 16 {
		cfg.Mirror.Status.DeviceName = cfg.Mirror.Status.DeviceName[:16]
	}
	if cfg.Mirror.Status.DeviceName == "" {
		cfg.Mirror.Status.DeviceName = "SATBUS"
	}
}

// normalizeWildcard rewrites the ZeroMQ "any interface" host
// "tcp://*:5555" into a plain listen address.
func normalizeWildcard(ep string) string {
	const wildcard = "tcp://*:"
	if strings.HasPrefix(ep, wildcard) {
		return "tcp://0.0.0.0:" + ep[len(wildcard):]
	}
	return ep
}
