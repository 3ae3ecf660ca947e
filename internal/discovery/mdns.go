package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/muurk/iqrfgw/internal/logging"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type IQRF gateways advertise
	ServiceType = "_iqrf-gw._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is the default browse time
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the daemon WebSocket API port
	DefaultPort = 1338
)

// Scanner browses the local network for gateways
type Scanner struct {
	// Timeout is the maximum time to browse
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForGateways browses for the full timeout and returns every gateway seen
func (s *Scanner) ScanForGateways(ctx context.Context) ([]*Gateway, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu       sync.Mutex
		gateways = make([]*Gateway, 0)
		seen     = make(map[string]bool)
	)

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			gw := parseServiceEntry(entry)
			if gw == nil {
				continue
			}
			mu.Lock()
			if !seen[gw.Instance] {
				seen[gw.Instance] = true
				gateways = append(gateways, gw)
				logging.Debug("Gateway discovered",
					zap.String("instance", gw.Instance),
					zap.String("url", gw.DaemonURL()),
				)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Gateway, len(gateways))
	copy(out, gateways)
	return out, nil
}

// WaitForGateway browses until the named instance shows up or the timeout passes
func (s *Scanner) WaitForGateway(ctx context.Context, instance string) (*Gateway, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Gateway, 1)

	// Keep draining after a match, the resolver blocks on unread entries
	go func() {
		for entry := range entries {
			gw := parseServiceEntry(entry)
			if gw != nil && strings.EqualFold(gw.Instance, instance) {
				select {
				case found <- gw:
				default:
				}
				cancel()
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case gw := <-found:
		return gw, nil
	case <-ctx.Done():
		// cancel() after a match races with Done
		select {
		case gw := <-found:
			return gw, nil
		default:
		}
		return nil, fmt.Errorf("gateway %q not found within %s", instance, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf entry to a Gateway.
// Returns nil when the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Gateway {
	if entry == nil {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(strings.TrimSuffix(entry.HostName, "."), ".local")
	}
	if instance == "" {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Gateway{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForGateways scans with the given timeout
func ScanForGateways(timeout time.Duration) ([]*Gateway, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForGateways(context.Background())
}

// WaitForGateway waits up to timeout for one instance to answer
func WaitForGateway(instance string, timeout time.Duration) (*Gateway, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.WaitForGateway(context.Background(), instance)
}
