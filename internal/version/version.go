// Package version reports the build version of iqrfgw.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/muurk/iqrfgw/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/iqrfgw/internal/version.Commit=abc1234"
//
// Missing values are filled from the VCS stamp in the build info.
var (
	Version = ""
	Commit  = ""
)

// Info is the resolved build information
type Info struct {
	Version   string
	Commit    string
	GoVersion string
}

var (
	resolved Info
	once     sync.Once
)

// Get returns the build information, resolving it on first use
func Get() Info {
	once.Do(func() {
		resolved = resolve(Version, Commit)
	})
	return resolved
}

func resolve(ver, commit string) Info {
	info := Info{Version: ver, Commit: commit, GoVersion: runtime.Version()}

	if bi, ok := debug.ReadBuildInfo(); ok && (info.Version == "" || info.Commit == "") {
		var revision, vcsTime string
		var dirty bool
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.time":
				vcsTime = s.Value
			case "vcs.modified":
				dirty = s.Value == "true"
			}
		}

		if info.Commit == "" && revision != "" {
			if len(revision) > 7 {
				revision = revision[:7]
			}
			info.Commit = revision
			if dirty {
				info.Commit += "-dirty"
			}
		}

		if info.Version == "" {
			if bi.Main.Version != "" && bi.Main.Version != "(devel)" {
				info.Version = bi.Main.Version
			} else if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
				info.Version = "dev-" + t.Format("20060102")
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	return info
}

// Full returns the version with its commit, e.g. "v0.3.0 (commit: abc1234)"
func Full() string {
	i := Get()
	return fmt.Sprintf("%s (commit: %s)", i.Version, i.Commit)
}

// UserAgent identifies iqrfgw in the WebSocket handshake
func UserAgent() string {
	return "iqrfgw/" + Get().Version
}
