// Iqrfgw is a command line client for the IQRF Gateway Daemon WebSocket API.
//
// Each command performs synchronous calls: it sends one request, waits for
// the matching reply (at most twice the timeout) and prints the result.
//
// Usage:
//
//	iqrfgw [command] [flags]
//
// The daemon URL comes from --url, --gateway, IQRFGW_DAEMON_URL or the
// config file; see 'iqrfgw config --help'.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/iqrfgw/internal/logging"
	"github.com/muurk/iqrfgw/internal/protocol"
	"github.com/muurk/iqrfgw/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

// printError shows daemon errors with a hint and everything else verbatim
func printError(err error) {
	var perr *protocol.Error
	if errors.As(err, &perr) {
		fmt.Fprintf(os.Stderr, "Error: %s\n\n%s\n", protocol.ShortMessage(err), protocol.TroubleshootingHint(err))
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

var rootCmd = &cobra.Command{
	Use:   "iqrfgw",
	Short: "IQRF Gateway Daemon client",
	Long: `A command line client for the IQRF Gateway Daemon WebSocket API.

Sends JSON API requests and raw DPA packets to the daemon and waits for
the reply. Gateways can be discovered on the LAN and stored by name.`,
	Version:           version.Full(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Daemon WebSocket URL (overrides --gateway and config)")
	rootCmd.PersistentFlags().StringVarP(&flagGateway, "gateway", "g", "", "Name of a configured gateway")
	rootCmd.PersistentFlags().DurationVarP(&flagTimeout, "timeout", "t", 0, "Per-call timeout, the call gives up after twice this (default from config, 13s)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); silent when empty")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9101")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		info := version.Get()
		fmt.Printf("iqrfgw %s (commit: %s, %s)\n", info.Version, info.Commit, info.GoVersion)
	},
}
