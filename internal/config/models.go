package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/muurk/iqrfgw/internal/bridge"
)

// Registry represents the entire user configuration file.
// It stores known gateways and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Gateways    map[string]*Gateway `yaml:"gateways,omitempty"` // Keyed by gateway name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Gateway is a named IQRF Gateway Daemon endpoint
type Gateway struct {
	Nickname string    `yaml:"nickname,omitempty"`  // User-friendly name
	URL      string    `yaml:"url"`                 // ws:// address of the daemon API
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultGateway  string `yaml:"default_gateway,omitempty"` // Gateway used when none is named
	DaemonURL       string `yaml:"daemon_url,omitempty"`      // Fallback when no gateway is known
	TimeoutSeconds  int    `yaml:"timeout_seconds"`           // Per-call bridge timeout
	DiscoverTimeout int    `yaml:"discover_timeout"`          // mDNS discovery timeout in seconds
	MetricsAddr     string `yaml:"metrics_addr,omitempty"`    // Prometheus listen address, disabled when empty
}

func defaultPreferences() *Preferences {
	return &Preferences{
		TimeoutSeconds:  int(bridge.DefaultTimeout / time.Second),
		DiscoverTimeout: 5,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Gateways:    make(map[string]*Gateway),
		Preferences: defaultPreferences(),
	}
}

// GetGateway retrieves a gateway by name.
// Returns nil if the gateway doesn't exist in the registry.
func (r *Registry) GetGateway(name string) *Gateway {
	return r.Gateways[name]
}

// SetGateway adds or updates a gateway entry.
func (r *Registry) SetGateway(name, url string) *Gateway {
	if r.Gateways == nil {
		r.Gateways = make(map[string]*Gateway)
	}

	gw, exists := r.Gateways[name]
	if !exists {
		gw = &Gateway{}
		r.Gateways[name] = gw
	}
	gw.URL = url
	return gw
}

// UpdateGatewayLastSeen records a discovery of the named gateway.
func (r *Registry) UpdateGatewayLastSeen(name, url string) {
	gw := r.SetGateway(name, url)
	gw.LastSeen = time.Now()
}

// GatewayNames returns the configured gateway names in sorted order.
func (r *Registry) GatewayNames() []string {
	names := make([]string, 0, len(r.Gateways))
	for name := range r.Gateways {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveDaemonURL picks the daemon URL for a call. Precedence:
//  1. IQRFGW_DAEMON_URL environment variable
//  2. the gateway called name, when name is not empty
//  3. the default gateway
//  4. the daemon_url preference
//  5. bridge.DefaultURL
//
// Naming a gateway that is not configured is an error.
func (r *Registry) ResolveDaemonURL(name string) (string, error) {
	if env := os.Getenv(bridge.URLEnvVar); env != "" {
		return env, nil
	}

	if name != "" {
		gw := r.GetGateway(name)
		if gw == nil {
			return "", fmt.Errorf("unknown gateway %q (known: %s)", name, strings.Join(r.GatewayNames(), ", "))
		}
		return gw.URL, nil
	}

	prefs := r.Preferences
	if prefs == nil {
		prefs = defaultPreferences()
	}

	if prefs.DefaultGateway != "" {
		if gw := r.GetGateway(prefs.DefaultGateway); gw != nil && gw.URL != "" {
			return gw.URL, nil
		}
	}
	if prefs.DaemonURL != "" {
		return prefs.DaemonURL, nil
	}
	return bridge.DefaultURL, nil
}

// Timeout returns the configured bridge timeout, or bridge.DefaultTimeout
func (r *Registry) Timeout() time.Duration {
	if r.Preferences == nil || r.Preferences.TimeoutSeconds <= 0 {
		return bridge.DefaultTimeout
	}
	return time.Duration(r.Preferences.TimeoutSeconds) * time.Second
}

// DiscoverTimeout returns the configured mDNS browse time
func (r *Registry) DiscoverTimeout() time.Duration {
	if r.Preferences == nil || r.Preferences.DiscoverTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.Preferences.DiscoverTimeout) * time.Second
}
