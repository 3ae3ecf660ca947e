package iqmesh

import (
	"time"

	"github.com/muurk/iqrfgw/internal/protocol"
)

// coordinatorAddr is the NADR of the network coordinator
const coordinatorAddr = 0

// Coordinator queries the network coordinator through the embed API
type Coordinator struct {
	sender  Sender
	Timeout time.Duration
}

// NewCoordinator creates a Coordinator; a zero timeout uses bridge.DefaultTimeout
func NewCoordinator(s Sender, timeout time.Duration) *Coordinator {
	return &Coordinator{sender: s, Timeout: timeout}
}

// AddrInfo is the coordinator addressing information
type AddrInfo struct {
	DevNr int `json:"devNr"`
	DID   int `json:"did"`
}

type coordinatorReq struct {
	NAdr  int      `json:"nAdr"`
	Param struct{} `json:"param"`
}

// BondedDevices returns the addresses of all bonded nodes
func (c *Coordinator) BondedDevices() ([]int, error) {
	var result struct {
		BondedDevices []int `json:"bondedDevices"`
	}
	req := protocol.NewRequest(protocol.MTypeCoordinatorBondedDevices, coordinatorReq{NAdr: coordinatorAddr})
	if err := call(c.sender, req, c.Timeout, &result); err != nil {
		return nil, err
	}
	return nonNil(result.BondedDevices), nil
}

// DiscoveredDevices returns the addresses of all discovered nodes
func (c *Coordinator) DiscoveredDevices() ([]int, error) {
	var result struct {
		DiscoveredDevices []int `json:"discoveredDevices"`
	}
	req := protocol.NewRequest(protocol.MTypeCoordinatorDiscoveredDevices, coordinatorReq{NAdr: coordinatorAddr})
	if err := call(c.sender, req, c.Timeout, &result); err != nil {
		return nil, err
	}
	return nonNil(result.DiscoveredDevices), nil
}

// AddrInfo returns the number of bonded nodes and the discovery ID
func (c *Coordinator) AddrInfo() (*AddrInfo, error) {
	var result AddrInfo
	req := protocol.NewRequest(protocol.MTypeCoordinatorAddrInfo, coordinatorReq{NAdr: coordinatorAddr})
	if err := call(c.sender, req, c.Timeout, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func nonNil(addrs []int) []int {
	if addrs == nil {
		return []int{}
	}
	return addrs
}
