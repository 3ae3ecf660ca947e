package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/iqrfgw/internal/config"
	"github.com/muurk/iqrfgw/internal/discovery"
)

var (
	scanTimeout time.Duration
	scanSave    bool
	scanWait    string
)

// scanCmd discovers gateways on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for IQRF gateways on the network",
	Long: `Scan for IQRF gateways using mDNS/DNS-SD discovery.

Gateways advertising _iqrf-gw._tcp are listed with their daemon URL.
With --save every gateway found is stored in the config file under its
instance name. With --wait the scan stops as soon as the named instance
answers.`,
	Example: `  # Scan for 5 seconds (default)
  iqrfgw scan

  # Scan longer and remember what was found
  iqrfgw scan --scan-timeout 15s --save

  # Wait for one gateway and store it
  iqrfgw scan --wait iqube-lab --save`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", 0, "Browse time (default from config, 5s)")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Store discovered gateways in the config file")
	scanCmd.Flags().StringVar(&scanWait, "wait", "", "Stop at the first answer from this instance name")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := scanTimeout
	if timeout <= 0 {
		timeout = sess.registry.DiscoverTimeout()
	}

	fmt.Printf("Scanning for IQRF gateways (timeout: %s)...\n\n", timeout)

	var gateways []*discovery.Gateway
	if scanWait != "" {
		gw, err := discovery.WaitForGateway(scanWait, timeout)
		if err != nil {
			return err
		}
		gateways = append(gateways, gw)
	} else {
		var err error
		gateways, err = discovery.ScanForGateways(timeout)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
	}

	if len(gateways) == 0 {
		fmt.Println("No gateways found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the gateway is powered on and on the same network segment")
		fmt.Println("  - Check that multicast (UDP 5353) is not blocked")
		fmt.Println("  - Try increasing --scan-timeout")
		fmt.Println("  - Use --url to address the daemon directly")
		return nil
	}

	fmt.Printf("Found %d gateway(s):\n\n", len(gateways))
	for i, gw := range gateways {
		fmt.Printf("%d. %s\n", i+1, gw.Instance)
		fmt.Printf("   Host: %s\n", gw.Hostname)
		fmt.Printf("   URL:  %s\n", gw.DaemonURL())
		if len(gw.Metadata) > 0 {
			fmt.Printf("   TXT:  %v\n", gw.Metadata)
		}
		fmt.Println()

		if scanSave {
			sess.registry.UpdateGatewayLastSeen(gw.Instance, gw.DaemonURL())
		}
	}

	if scanSave {
		if err := config.SaveGlobal(); err != nil {
			return err
		}
		path, _ := config.GetConfigPath()
		fmt.Printf("Saved to %s\n", path)
	}
	fmt.Println("Use 'iqrfgw --gateway <name> bonded' to query a saved gateway")
	return nil
}
