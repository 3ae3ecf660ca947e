package discovery

import (
	"net"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"
)

func entry(instance, host string, port int, v4, v6 []net.IP, txt ...string) *zeroconf.ServiceEntry {
	return &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: instance, Service: ServiceType, Domain: ServiceDomain},
		HostName:      host,
		Port:          port,
		AddrIPv4:      v4,
		AddrIPv6:      v6,
		Text:          txt,
	}
}

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name         string
		entry        *zeroconf.ServiceEntry
		wantNil      bool
		wantInstance string
		wantIP       string
		wantPort     int
		wantURL      string
	}{
		{
			name:         "gateway with IPv4",
			entry:        entry("iqube-0a1b2c", "iqube.local.", 1338, []net.IP{net.ParseIP("192.168.1.20")}, nil),
			wantInstance: "iqube-0a1b2c",
			wantIP:       "192.168.1.20",
			wantPort:     1338,
			wantURL:      "ws://192.168.1.20:1338",
		},
		{
			name:         "port defaults to 1338",
			entry:        entry("gw", "gw.local.", 0, []net.IP{net.ParseIP("10.0.0.5")}, nil),
			wantInstance: "gw",
			wantIP:       "10.0.0.5",
			wantPort:     DefaultPort,
			wantURL:      "ws://10.0.0.5:1338",
		},
		{
			name:         "instance from hostname",
			entry:        entry("", "iqaros.local.", 1338, []net.IP{net.ParseIP("10.0.0.6")}, nil),
			wantInstance: "iqaros",
			wantIP:       "10.0.0.6",
			wantPort:     1338,
			wantURL:      "ws://10.0.0.6:1338",
		},
		{
			name:         "IPv6 only",
			entry:        entry("gw6", "gw6.local.", 1338, nil, []net.IP{net.ParseIP("fe80::1")}),
			wantInstance: "gw6",
			wantIP:       "fe80::1",
			wantPort:     1338,
			wantURL:      "ws://[fe80::1]:1338",
		},
		{
			name:         "prefers IPv4",
			entry:        entry("gw", "gw.local.", 1338, []net.IP{net.ParseIP("192.168.1.50")}, []net.IP{net.ParseIP("fe80::2")}),
			wantInstance: "gw",
			wantIP:       "192.168.1.50",
			wantPort:     1338,
			wantURL:      "ws://192.168.1.50:1338",
		},
		{
			name:         "advertised path",
			entry:        entry("proxy", "proxy.local.", 8080, []net.IP{net.ParseIP("10.0.0.7")}, nil, "path=ws"),
			wantInstance: "proxy",
			wantIP:       "10.0.0.7",
			wantPort:     8080,
			wantURL:      "ws://10.0.0.7:8080/ws",
		},
		{
			name:    "no address",
			entry:   entry("gw", "gw.local.", 1338, nil, nil),
			wantNil: true,
		},
		{
			name:    "no name",
			entry:   entry("", "", 1338, []net.IP{net.ParseIP("10.0.0.8")}, nil),
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if gw != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", gw)
				}
				return
			}
			if gw == nil {
				t.Fatal("parseServiceEntry() = nil, want gateway")
			}

			if gw.Instance != tt.wantInstance {
				t.Errorf("Instance = %v, want %v", gw.Instance, tt.wantInstance)
			}
			if gw.IP != tt.wantIP {
				t.Errorf("IP = %v, want %v", gw.IP, tt.wantIP)
			}
			if gw.Port != tt.wantPort {
				t.Errorf("Port = %v, want %v", gw.Port, tt.wantPort)
			}
			if got := gw.DaemonURL(); got != tt.wantURL {
				t.Errorf("DaemonURL() = %v, want %v", got, tt.wantURL)
			}
			if time.Since(gw.DiscoveredAt) > time.Second {
				t.Errorf("DiscoveredAt is not recent: %v", gw.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	gw := parseServiceEntry(entry("gw", "gw.local.", 1338, []net.IP{net.ParseIP("10.0.0.5")}, nil,
		"version=2.5.0", "flag", "path=/"))
	if gw == nil {
		t.Fatal("parseServiceEntry() = nil, want gateway")
	}

	want := map[string]string{"version": "2.5.0", "flag": "", "path": "/"}
	if len(gw.Metadata) != len(want) {
		t.Errorf("Metadata has %d entries, want %d", len(gw.Metadata), len(want))
	}
	for k, v := range want {
		if got, ok := gw.Metadata[k]; !ok || got != v {
			t.Errorf("Metadata[%q] = %q, want %q", k, got, v)
		}
	}

	if gw.DaemonURL() != "ws://10.0.0.5:1338" {
		t.Errorf("root path should not be appended, got %v", gw.DaemonURL())
	}
}

func TestGateway_String(t *testing.T) {
	gw := &Gateway{Instance: "iqube", Hostname: "iqube.local.", IP: "192.168.1.20", Port: 1338}
	want := "IQRF gateway iqube (iqube.local.) at 192.168.1.20:1338"
	if gw.String() != want {
		t.Errorf("String() = %v, want %v", gw.String(), want)
	}
	if gw.GetMetadata("missing") != "" {
		t.Error("GetMetadata() on nil map should be empty")
	}
}

func TestNewScanner(t *testing.T) {
	if s := NewScanner(); s.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
}
