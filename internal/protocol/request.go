package protocol

import (
	"encoding/json"
	"time"
)

// Message types used by the domain callers in this repository. The daemon
// supports many more; any string is accepted by NewRequest.
const (
	MTypeRaw                          = "iqrfRaw"
	MTypeRawHdp                       = "iqrfRawHdp"
	MTypeCoordinatorAddrInfo          = "iqrfEmbedCoordinator_AddrInfo"
	MTypeCoordinatorBondedDevices     = "iqrfEmbedCoordinator_BondedDevices"
	MTypeCoordinatorDiscoveredDevices = "iqrfEmbedCoordinator_DiscoveredDevices"
	MTypeOsRead                       = "iqrfEmbedOs_Read"
	MTypeEnumerateDevice              = "iqmeshNetwork_EnumerateDevice"
)

// Request is the outbound JSON envelope sent to the gateway daemon.
//
// Wire format:
//
//	{"mType":"iqrfRaw","data":{"req":{"rData":"00.00.06.03.ff.ff"},"returnVerbose":true}}
//
// A Request is built once by NewRequest and not modified afterwards.
type Request struct {
	MType string      `json:"mType"`
	Data  RequestData `json:"data"`
}

// RequestData is the data body of a Request
type RequestData struct {
	MsgID         string `json:"msgId,omitempty"`
	Req           any    `json:"req"`
	ReturnVerbose bool   `json:"returnVerbose"`
	Timeout       int    `json:"timeout,omitempty"` // milliseconds
	Repeat        int    `json:"repeat,omitempty"`
}

// RequestOption customizes a Request under construction
type RequestOption func(*RequestData)

// WithVerbose sets the returnVerbose flag (default true)
func WithVerbose(verbose bool) RequestOption {
	return func(d *RequestData) { d.ReturnVerbose = verbose }
}

// WithTimeout sets the daemon-side DPA timeout. It is sent in milliseconds
// and is unrelated to the bridge wait time.
func WithTimeout(timeout time.Duration) RequestOption {
	return func(d *RequestData) { d.Timeout = int(timeout / time.Millisecond) }
}

// WithRepeat sets the repeat count some iqmesh services honor
func WithRepeat(repeat int) RequestOption {
	return func(d *RequestData) { d.Repeat = repeat }
}

// WithMsgID sets the message ID echoed back by the daemon
func WithMsgID(id string) RequestOption {
	return func(d *RequestData) { d.MsgID = id }
}

// NewRequest builds a request envelope. A nil req is sent as an empty object,
// since the daemon requires data.req to be present.
func NewRequest(mType string, req any, opts ...RequestOption) *Request {
	if req == nil {
		req = struct{}{}
	}

	data := RequestData{
		Req:           req,
		ReturnVerbose: true,
	}
	for _, opt := range opts {
		opt(&data)
	}

	return &Request{
		MType: mType,
		Data:  data,
	}
}

// WireText serializes the request to the text frame sent on the WebSocket.
// Output is deterministic: struct fields keep declaration order and map keys
// are sorted by encoding/json.
func (r *Request) WireText() ([]byte, error) {
	if r.MType == "" {
		return nil, NewInvalidRequestError("request has no mType")
	}

	text, err := json.Marshal(r)
	if err != nil {
		return nil, NewJSONError("failed to encode request", err)
	}
	return text, nil
}

// ParseRequest decodes a caller-supplied request envelope. It accepts the
// same shape WireText produces.
func ParseRequest(text []byte) (*Request, error) {
	var wire struct {
		MType string `json:"mType"`
		Data  *struct {
			MsgID         string          `json:"msgId"`
			Req           json.RawMessage `json:"req"`
			ReturnVerbose *bool           `json:"returnVerbose"`
			Timeout       int             `json:"timeout"`
			Repeat        int             `json:"repeat"`
		} `json:"data"`
	}

	if err := json.Unmarshal(text, &wire); err != nil {
		return nil, NewJSONError("request is not valid JSON", err)
	}
	if wire.MType == "" {
		return nil, NewJSONError("request has no mType", nil)
	}
	if wire.Data == nil || len(wire.Data.Req) == 0 {
		return nil, NewJSONError("request has no data.req object", nil)
	}

	verbose := true
	if wire.Data.ReturnVerbose != nil {
		verbose = *wire.Data.ReturnVerbose
	}

	return &Request{
		MType: wire.MType,
		Data: RequestData{
			MsgID:         wire.Data.MsgID,
			Req:           wire.Data.Req,
			ReturnVerbose: verbose,
			Timeout:       wire.Data.Timeout,
			Repeat:        wire.Data.Repeat,
		},
	}, nil
}
