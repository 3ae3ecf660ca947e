package iqmesh

import (
	"fmt"
	"time"

	"github.com/muurk/iqrfgw/internal/protocol"
)

// MaxNodeAddr is the highest address a node can be bonded to
const MaxNodeAddr = 239

// OS reads module information through the embed OS API
type OS struct {
	sender  Sender
	Timeout time.Duration
}

// NewOS creates an OS caller; a zero timeout uses bridge.DefaultTimeout
func NewOS(s Sender, timeout time.Duration) *OS {
	return &OS{sender: s, Timeout: timeout}
}

// OSRead is the decoded result of iqrfEmbedOs_Read
type OSRead struct {
	ModuleID      uint32 `json:"mid"`
	OSVersion     int    `json:"osVersion"`
	TrMcuType     int    `json:"trMcuType"`
	OSBuild       int    `json:"osBuild"`
	RSSI          int    `json:"rssi"`
	SupplyVoltage int    `json:"supplyVoltage"`
	Flags         int    `json:"flags"`
	SlotLimits    int    `json:"slotLimits"`
}

// Read returns OS information of the node at nadr
func (o *OS) Read(nadr int) (*OSRead, error) {
	if err := checkAddr(nadr); err != nil {
		return nil, err
	}

	req := protocol.NewRequest(protocol.MTypeOsRead, struct {
		NAdr  int      `json:"nAdr"`
		Param struct{} `json:"param"`
	}{NAdr: nadr})

	var result OSRead
	if err := call(o.sender, req, o.Timeout, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func checkAddr(addr int) error {
	if addr < 0 || addr > MaxNodeAddr {
		return protocol.NewInvalidRequestError(fmt.Sprintf("node address %d out of range 0-%d", addr, MaxNodeAddr))
	}
	return nil
}
