package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/muurk/iqrfgw/internal/bridge"
	"github.com/muurk/iqrfgw/internal/config"
	"github.com/muurk/iqrfgw/internal/iqmesh"
)

var (
	setURLName    string
	setURLDefault bool
	setURLVerify  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print gateways, preferences and the resolved daemon URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		r := sess.registry

		fmt.Printf("Config file: %s\n\n", path)
		if len(r.Gateways) == 0 {
			fmt.Println("No gateways configured.")
		}
		for _, name := range r.GatewayNames() {
			gw := r.Gateways[name]
			marker := " "
			if r.Preferences != nil && r.Preferences.DefaultGateway == name {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s", marker, name, gw.URL)
			if gw.Nickname != "" {
				fmt.Printf("  (%s)", gw.Nickname)
			}
			if !gw.LastSeen.IsZero() {
				fmt.Printf("  seen %s", gw.LastSeen.Format("2006-01-02 15:04"))
			}
			fmt.Println()
		}

		fmt.Printf("\nDaemon URL: %s\n", sess.bridge.URL())
		fmt.Printf("Timeout:    %s\n", sess.timeout)
		return nil
	},
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Store a daemon URL",
	Long: `Store a daemon URL.

Without --name the URL becomes the fallback daemon_url preference. With
--name it is stored as a named gateway; add --default to use it when no
gateway is given.`,
	Example: `  iqrfgw config set-url ws://10.0.0.20:1338
  iqrfgw config set-url ws://10.0.0.20:1338 --name lab --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
			return fmt.Errorf("%q is not a ws:// or wss:// URL", args[0])
		}

		if setURLVerify {
			if err := verifyDaemon(args[0]); err != nil {
				return err
			}
		}

		r := sess.registry
		if setURLName == "" {
			if setURLDefault {
				return fmt.Errorf("--default needs --name")
			}
			r.Preferences.DaemonURL = args[0]
		} else {
			r.SetGateway(setURLName, args[0])
			if setURLDefault {
				r.Preferences.DefaultGateway = setURLName
			}
		}

		if err := r.Save(); err != nil {
			return err
		}
		fmt.Println("Saved.")
		return nil
	},
}

func init() {
	configSetURLCmd.Flags().StringVar(&setURLName, "name", "", "Gateway name")
	configSetURLCmd.Flags().BoolVar(&setURLDefault, "default", false, "Make the named gateway the default")
	configSetURLCmd.Flags().BoolVar(&setURLVerify, "verify", false, "Query the coordinator before saving")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetURLCmd)
	rootCmd.AddCommand(configCmd)
}

// verifyDaemon checks that the daemon at daemonURL answers a coordinator
// query. The environment override still applies to the dial.
func verifyDaemon(daemonURL string) error {
	fmt.Printf("Verifying %s...\n", daemonURL)

	b := bridge.New(bridge.Config{URL: daemonURL, Metrics: sess.metrics})
	if b.URL() != daemonURL {
		fmt.Printf("Note: %s is set, verifying %s instead\n", bridge.URLEnvVar, b.URL())
	}

	var info *iqmesh.AddrInfo
	err := iqmesh.Repeat(retries, func() error {
		var err error
		info, err = iqmesh.NewCoordinator(b, sess.timeout).AddrInfo()
		return err
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Printf("Coordinator answered: %d bonded node(s)\n", info.DevNr)
	return nil
}
