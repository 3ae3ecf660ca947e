// Package discovery finds IQRF gateways on the local network via mDNS.
//
// Gateways advertise the daemon WebSocket API as "_iqrf-gw._tcp" in the
// "local." domain. Each answer is turned into a Gateway whose DaemonURL can
// be handed straight to the bridge or stored in the config registry:
//
//	gateways, err := discovery.ScanForGateways(5 * time.Second)
//	for _, gw := range gateways {
//	    fmt.Println(gw.Instance, gw.DaemonURL())
//	}
//
// Discovery needs multicast on the interface and UDP port 5353 open.
package discovery
