package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Gateway is an IQRF gateway found on the local network
type Gateway struct {
	// Instance is the advertised service instance name (e.g., "iqube-0a1b2c")
	Instance string

	// Hostname is the mDNS hostname (e.g., "iqube.local.")
	Hostname string

	// IP is the gateway address, IPv4 when one was advertised
	IP string

	// Port of the daemon WebSocket API (1338 unless advertised otherwise)
	Port int

	// Metadata holds the TXT record, e.g. "path=/ws", "version=2.5.0"
	Metadata map[string]string

	DiscoveredAt time.Time
}

func (g *Gateway) String() string {
	return fmt.Sprintf("IQRF gateway %s (%s) at %s", g.Instance, g.Hostname, net.JoinHostPort(g.IP, strconv.Itoa(g.Port)))
}

// DaemonURL is the WebSocket address of the daemon API, including the
// TXT record path when the gateway advertises one
func (g *Gateway) DaemonURL() string {
	url := "ws://" + net.JoinHostPort(g.IP, strconv.Itoa(g.Port))
	if path := g.GetMetadata("path"); path != "" && path != "/" {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		url += path
	}
	return url
}

// GetMetadata returns a TXT value, or "" when absent
func (g *Gateway) GetMetadata(key string) string {
	if g.Metadata == nil {
		return ""
	}
	return g.Metadata[key]
}
