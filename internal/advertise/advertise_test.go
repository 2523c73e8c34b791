package advertise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPort(t *testing.T) {
	cases := []struct {
		endpoint string
		port     int
		ok       bool
	}{
		{"tcp://0.0.0.0:5555", 5555, true},
		{"tcp://*:6000", 6000, true},
		{"tcp://[::1]:7000", 7000, true},
		{"tcp://localhost", 0, false},
		{"tcp://host:0", 0, false},
		{"tcp://host:99999", 0, false},
		{"tcp://host:abc", 0, false},
		{"ipc:///tmp/satbus", 0, false},
		{"inproc://bus", 0, false},
	}
	for _, c := range cases {
		t.Run(c.endpoint, func(t *testing.T) {
			port, err := Port(c.endpoint)
			if !c.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.port, port)
		})
	}
}

func TestTXT(t *testing.T) {
	txt := TXT(Config{Devices: []string{"OBC", "EPS", "ADCS"}})
	assert.Equal(t, []string{"devices=obc,eps,adcs", "version=1"}, txt)
}

func TestStartRejectsBadInput(t *testing.T) {
	_, err := Start(Config{Instance: "x", Endpoint: "ipc:///tmp/bus"})
	require.Error(t, err)

	_, err = Start(Config{Instance: "x", Endpoint: "tcp://*:5555", Interface: "no-such-iface0"})
	require.Error(t, err)
}

func TestShutdownIdempotent(t *testing.T) {
	a := &Advertiser{}
	a.Shutdown()
	a.Shutdown()
}
