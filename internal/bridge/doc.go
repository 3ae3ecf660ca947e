// Package bridge turns the asynchronous WebSocket API of IQRF Gateway
// Daemon into a blocking call.
//
// Each SendSync opens its own connection, writes one request frame and
// accepts exactly one reply frame:
//
//	b := bridge.New(bridge.Config{URL: "ws://gw.local:1338"})
//	ex, err := b.SendSync(protocol.NewRequest(protocol.MTypeCoordinatorBondedDevices, nil), 5*time.Second)
//
// The call is bounded: dialing is limited to the timeout and the whole
// call to twice the timeout, after which the connection is closed and the
// call fails with an empty response error. Replies are classified by
// status; non-zero statuses come back as DPA or user errors.
//
// Calls on one Bridge are serialized. There is no retry at this layer.
package bridge
