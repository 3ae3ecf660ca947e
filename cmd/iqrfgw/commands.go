package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/iqrfgw/internal/iqmesh"
	"github.com/muurk/iqrfgw/internal/protocol"
)

// Command flags
var (
	sendMType    string
	sendData     string
	sendRequest  string
	rawNadr      string
	osReadNadr   int
	enumAddr     int
	enumRepeat   int
	retries      int
	monitorEvery time.Duration
	monitorCount int
)

func init() {
	rootCmd.PersistentFlags().IntVar(&retries, "retries", 1, "Attempts per call when the daemon does not answer")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(rawCmd)
	rootCmd.AddCommand(bondedCmd)
	rootCmd.AddCommand(discoveredCmd)
	rootCmd.AddCommand(addrInfoCmd)
	rootCmd.AddCommand(osReadCmd)
	rootCmd.AddCommand(enumerateCmd)
	rootCmd.AddCommand(monitorCmd)
}

// sendCmd sends an arbitrary JSON API request
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a JSON API request",
	Long: `Send one JSON API request and print the daemon's reply.

Either give the message type and its req object, or a complete request
envelope with --request.`,
	Example: `  # LED pulse on node 1
  iqrfgw send --mtype iqrfEmbedLedr_Pulse --data '{"nAdr":1,"param":{}}'

  # Full envelope
  iqrfgw send --request '{"mType":"iqrfEmbedOs_Read","data":{"req":{"nAdr":0,"param":{}},"returnVerbose":true}}'`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendMType, "mtype", "", "Message type, e.g. iqrfEmbedLedr_Pulse")
	sendCmd.Flags().StringVar(&sendData, "data", "{}", "JSON req object")
	sendCmd.Flags().StringVar(&sendRequest, "request", "", "Complete request envelope (overrides --mtype/--data)")
}

func runSend(cmd *cobra.Command, args []string) error {
	var ex *protocol.Exchange

	err := iqmesh.Repeat(retries, func() error {
		var err error
		if sendRequest != "" {
			ex, err = iqmesh.NewRaw(sess.bridge).SendJSON([]byte(sendRequest), sess.timeout)
			return err
		}

		if sendMType == "" {
			return protocol.NewInvalidRequestError("--mtype or --request is required")
		}
		if !json.Valid([]byte(sendData)) {
			return protocol.NewJSONError("--data is not valid JSON", nil)
		}
		req := protocol.NewRequest(sendMType, json.RawMessage(sendData))
		ex, err = sess.bridge.SendSync(req, sess.timeout)
		return err
	})
	if err != nil {
		return err
	}

	return printJSON(ex)
}

// rawCmd sends a DPA packet
var rawCmd = &cobra.Command{
	Use:   "raw <packet>",
	Short: "Send a raw DPA packet",
	Long: `Send a DPA packet through iqrfRaw and decode the response.

Packets are dot-separated hex bytes: NADR(2) PNUM PCMD HWPID(2) PData.
Responses from the coordinator, OS and enumeration peripherals are
decoded; others are printed as received. Responses to broadcast
requests (NADR ff) are never decoded.`,
	Example: `  # Bonded devices
  iqrfgw raw 00.00.00.02.ff.ff

  # Pulse the red LED on node 0x2a
  iqrfgw raw 00.00.06.03.ff.ff --nadr 2a`,
	Args: cobra.ExactArgs(1),
	RunE: runRaw,
}

func init() {
	rawCmd.Flags().StringVar(&rawNadr, "nadr", "", "Rewrite the packet NADR (hex byte)")
}

func runRaw(cmd *cobra.Command, args []string) error {
	var res *iqmesh.RawResult
	err := iqmesh.Repeat(retries, func() error {
		var err error
		res, err = iqmesh.NewRaw(sess.bridge).Send(args[0], rawNadr, sess.timeout)
		return err
	})
	if err != nil {
		return err
	}

	out := struct {
		Request  string `json:"request"`
		Response string `json:"response"`
		Kind     string `json:"kind,omitempty"`
		Parsed   any    `json:"parsed,omitempty"`
	}{Request: res.Request, Response: res.Response}
	if res.Parsed != nil {
		out.Kind = res.Parsed.Kind()
		out.Parsed = res.Parsed
	}
	return printJSON(out)
}

var bondedCmd = &cobra.Command{
	Use:   "bonded",
	Short: "List bonded nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAddresses(iqmesh.NewCoordinator(sess.bridge, sess.timeout).BondedDevices)
	},
}

var discoveredCmd = &cobra.Command{
	Use:   "discovered",
	Short: "List discovered nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printAddresses(iqmesh.NewCoordinator(sess.bridge, sess.timeout).DiscoveredDevices)
	},
}

func printAddresses(list func() ([]int, error)) error {
	var addrs []int
	err := iqmesh.Repeat(retries, func() error {
		var err error
		addrs, err = list()
		return err
	})
	if err != nil {
		return err
	}

	fmt.Printf("%d node(s)", len(addrs))
	if len(addrs) > 0 {
		fmt.Printf(": %v", addrs)
	}
	fmt.Println()
	return nil
}

var addrInfoCmd = &cobra.Command{
	Use:   "addr-info",
	Short: "Show coordinator addressing info",
	RunE: func(cmd *cobra.Command, args []string) error {
		var info *iqmesh.AddrInfo
		err := iqmesh.Repeat(retries, func() error {
			var err error
			info, err = iqmesh.NewCoordinator(sess.bridge, sess.timeout).AddrInfo()
			return err
		})
		if err != nil {
			return err
		}
		fmt.Printf("Bonded nodes: %d\nDiscovery ID: %d\n", info.DevNr, info.DID)
		return nil
	},
}

var osReadCmd = &cobra.Command{
	Use:   "os-read",
	Short: "Read OS information of a node",
	RunE: func(cmd *cobra.Command, args []string) error {
		var info *iqmesh.OSRead
		err := iqmesh.Repeat(retries, func() error {
			var err error
			info, err = iqmesh.NewOS(sess.bridge, sess.timeout).Read(osReadNadr)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(info)
	},
}

func init() {
	osReadCmd.Flags().IntVar(&osReadNadr, "nadr", 0, "Node address (0 = coordinator)")
}

var enumerateCmd = &cobra.Command{
	Use:   "enumerate",
	Short: "Enumerate a device",
	Long: `Run the iqmesh device enumeration service for one node.

Enumeration issues several DPA requests; use a generous --timeout.`,
	Example: `  iqrfgw enumerate --addr 3 --repeat 2 --timeout 30s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e := iqmesh.NewEnumerator(sess.bridge, sess.timeout, enumRepeat)
		var result *iqmesh.Enumeration
		err := iqmesh.Repeat(retries, func() error {
			var err error
			result, err = e.Enumerate(enumAddr)
			return err
		})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

func init() {
	enumerateCmd.Flags().IntVar(&enumAddr, "addr", 0, "Device address")
	enumerateCmd.Flags().IntVar(&enumRepeat, "repeat", 1, "Daemon-side repeat count")
}

// monitorCmd polls the bonded node list, mostly useful with --metrics-addr
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Poll the coordinator periodically",
	Long: `Query bonded devices at a fixed interval until interrupted.

Each poll is one synchronous call. Failures are reported and polling
continues. Combine with --metrics-addr to export call counts and
latencies to Prometheus.`,
	Example: `  iqrfgw monitor --interval 30s --metrics-addr :9101`,
	RunE:    runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorEvery, "interval", 10*time.Second, "Time between polls")
	monitorCmd.Flags().IntVar(&monitorCount, "count", 0, "Stop after this many polls (0 = until interrupted)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	ctx, stop := interruptContext()
	defer stop()

	coord := iqmesh.NewCoordinator(sess.bridge, sess.timeout)
	ticker := time.NewTicker(monitorEvery)
	defer ticker.Stop()

	for n := 1; ; n++ {
		start := time.Now()
		addrs, err := coord.BondedDevices()
		stamp := start.Format(time.TimeOnly)
		if err != nil {
			fmt.Printf("%s  error: %s\n", stamp, protocol.ShortMessage(err))
		} else {
			fmt.Printf("%s  %d bonded %v (%s)\n", stamp, len(addrs), addrs, time.Since(start).Round(time.Millisecond))
		}

		if monitorCount > 0 && n >= monitorCount {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
