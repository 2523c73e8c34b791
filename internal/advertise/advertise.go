// Package advertise publishes the bus endpoint over mDNS/DNS-SD.
package advertise

import (
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/enbility/zeroconf/v3"
	"github.com/juju/errors"
)

const (
	ServiceType = "_satbus._tcp"
	Domain      = "local."

	// TXTVersion bumps when the wire format changes.
	TXTVersion = "1"
)

// Config describes one advertisement.
type Config struct {
	Instance  string
	Interface string // empty = all interfaces
	Endpoint  string // tcp://host:port
	Devices   []string
}

// Port extracts the TCP port from a bus endpoint.
// Only tcp:// endpoints can be advertised.
func Port(endpoint string) (int, error) {
	const scheme = "tcp://"
	if !strings.HasPrefix(endpoint, scheme) {
		return 0, errors.Errorf("advertise: endpoint %q is not tcp", endpoint)
	}
	_, p, err := net.SplitHostPort(endpoint[len(scheme):])
	if err != nil {
		return 0, errors.Annotatef(err, "advertise: endpoint %q", endpoint)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 0xffff {
		return 0, errors.Errorf("advertise: endpoint %q has invalid port %q", endpoint, p)
	}
	return port, nil
}

// TXT builds the TXT records for cfg.
func TXT(cfg Config) []string {
	return []string{
		"devices=" + strings.ToLower(strings.Join(cfg.Devices, ",")),
		"version=" + TXTVersion,
	}
}

func interfaces(name string) ([]net.Interface, error) {
	if name == "" {
		return nil, nil
	}
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, errors.Annotatef(err, "advertise: interface %s", name)
	}
	return []net.Interface{*iface}, nil
}

// Advertiser owns one registered service.
type Advertiser struct {
	mu     sync.Mutex
	server *zeroconf.Server
}

// Start registers the service. Call Shutdown to withdraw it.
func Start(cfg Config) (*Advertiser, error) {
	port, err := Port(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	ifaces, err := interfaces(cfg.Interface)
	if err != nil {
		return nil, err
	}

	server, err := zeroconf.Register(cfg.Instance, ServiceType, Domain, port, TXT(cfg), ifaces)
	if err != nil {
		return nil, errors.Annotate(err, "advertise: register")
	}
	return &Advertiser{server: server}, nil
}

// Shutdown withdraws the service. Safe to call more than once.
func (a *Advertiser) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
