// Package logging provides structured logging for the iqrfgw bridge and CLI.
//
// This package wraps a package-global zap logger with convenience functions
// for the logging patterns used by the bridge: connection lifecycle events,
// WebSocket frames exchanged with IQRF Gateway Daemon, and per-call summaries.
//
// # Log Levels
//
//   - Debug: frame contents, parser chain decisions, non-zero daemon status
//   - Info: dial/close events, completed exchanges
//   - Warn: dial failures, calls that hit the deadline
//   - Error: background failures such as the metrics listener
//
// # Silent by Default
//
// CLI commands must not print zap output unless asked to. When no level is
// passed to Initialize and IQRFGW_LOG_LEVEL is unset, a nop logger is used.
//
//	if err := logging.Initialize(logLevel); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogConnection(url, "dialed")
//	logging.LogWebSocketMessage(url, "sent", websocket.TextMessage, payload)
//	logging.LogExchange("iqrfRaw", 0, elapsed)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned. Initialize itself is meant to be called once at startup.
package logging
