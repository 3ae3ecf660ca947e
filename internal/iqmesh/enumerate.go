package iqmesh

import (
	"encoding/json"
	"time"

	"github.com/muurk/iqrfgw/internal/protocol"
)

// Enumerator runs the iqmesh device enumeration service
type Enumerator struct {
	sender  Sender
	Timeout time.Duration

	// Repeat is sent to the daemon, which retries the DPA requests itself
	Repeat int
}

// NewEnumerator creates an Enumerator; a zero timeout uses bridge.DefaultTimeout
func NewEnumerator(s Sender, timeout time.Duration, repeat int) *Enumerator {
	return &Enumerator{sender: s, Timeout: timeout, Repeat: repeat}
}

// Enumeration is the device summary returned by the enumeration service.
// The nested sections are kept as raw JSON.
type Enumeration struct {
	DeviceAddr            int             `json:"deviceAddr"`
	Manufacturer          string          `json:"manufacturer"`
	Product               string          `json:"product"`
	Discovered            bool            `json:"discovered"`
	VrN                   int             `json:"vrn"`
	Zone                  int             `json:"zone"`
	Parent                int             `json:"parent"`
	OsRead                json.RawMessage `json:"osRead,omitempty"`
	PeripheralEnumeration json.RawMessage `json:"peripheralEnumeration,omitempty"`
	TrConfiguration       json.RawMessage `json:"trConfiguration,omitempty"`
}

// Enumerate collects information about the device at addr
func (e *Enumerator) Enumerate(addr int) (*Enumeration, error) {
	if err := checkAddr(addr); err != nil {
		return nil, err
	}

	var opts []protocol.RequestOption
	if e.Repeat > 0 {
		opts = append(opts, protocol.WithRepeat(e.Repeat))
	}
	req := protocol.NewRequest(protocol.MTypeEnumerateDevice, struct {
		DeviceAddr int `json:"deviceAddr"`
	}{DeviceAddr: addr}, opts...)

	ex, err := e.sender.SendSync(req, orDefault(e.Timeout))
	if err != nil {
		return nil, err
	}

	// The enumeration service puts its result directly in rsp
	var result Enumeration
	if err := ex.Envelope.DecodeRsp(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
