// Package config manages the iqrfgw user configuration file.
//
// The file is YAML and lists named gateways (daemon WebSocket URLs) plus
// client preferences such as the default gateway and call timeout:
//
//	version: 1
//	gateways:
//	  lab:
//	    nickname: Lab gateway
//	    url: ws://10.0.0.20:1338
//	preferences:
//	  default_gateway: lab
//	  timeout_seconds: 13
//	  discover_timeout: 5
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/iqrfgw/config.yaml or $HOME/.config/iqrfgw/config.yaml
//   - macOS: $HOME/.config/iqrfgw/config.yaml
//   - Windows: %LOCALAPPDATA%\iqrfgw\config.yaml
//
// # Resolving the daemon URL
//
// Registry.ResolveDaemonURL applies the precedence used by every command:
// IQRFGW_DAEMON_URL, then an explicitly named gateway, the default gateway,
// the daemon_url preference and finally ws://localhost:1338.
//
// # Thread Safety
//
// The global registry is loaded once via sync.Once. Save and ReloadRegistry
// are serialized by a package mutex.
package config
