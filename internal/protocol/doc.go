// Package protocol implements the JSON envelopes of the IQRF Gateway Daemon
// WebSocket API and the error taxonomy shared by the bridge and DPA codec.
//
// # Envelopes
//
// Every frame on the wire is a JSON object with a message type and a data
// body. Requests carry a req object and the returnVerbose flag:
//
//	{"mType":"iqrfEmbedCoordinator_BondedDevices",
//	 "data":{"req":{"nAdr":0,"param":{}},"returnVerbose":true}}
//
// Responses carry rsp, the daemon instance ID and a status:
//
//	{"mType":"iqrfEmbedCoordinator_BondedDevices",
//	 "data":{"rsp":{"result":{"bondedDevices":[1,2,3]}},"insId":"iqrfgd2-1",
//	         "statusStr":"ok","status":0}}
//
// Request and Response are plain values; building, serializing and parsing
// them does no I/O.
//
// # Status Classification
//
// Classify maps a status code to an Outcome by sign:
//   - 0: success
//   - negative: DPA error reported by the network layer
//   - positive: user error, the daemon refused the request
//
// # Error Handling
//
// All failures are *Error values with an ErrorType:
//   - ErrTypeEmptyResponse: no frame before the deadline (retryable)
//   - ErrTypeDpa / ErrTypeUser: classified daemon status, Code holds it
//   - ErrTypeJSON: frame or caller data is not the expected JSON
//   - ErrTypeInvalidPacket: a DPA packet failed the packet grammar
//   - ErrTypeInvalidRequest: a call precondition was violated
//
// Use the Is* predicates or errors.Is with a template *Error to branch on
// them; errors from lower layers are wrapped and reachable via Unwrap.
package protocol
