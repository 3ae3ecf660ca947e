// Package iqmesh holds thin domain callers built on the synchronous bridge:
// coordinator queries, raw DPA packets, OS read and device enumeration.
//
// Callers depend on the Sender interface rather than on *bridge.Bridge so
// they can be driven by a fake in tests. None of them retries on its own;
// wrap a call in Repeat to retry empty responses.
package iqmesh
