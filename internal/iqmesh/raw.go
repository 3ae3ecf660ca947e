package iqmesh

import (
	"fmt"
	"time"

	"github.com/muurk/iqrfgw/internal/dpa"
	"github.com/muurk/iqrfgw/internal/logging"
	"github.com/muurk/iqrfgw/internal/protocol"
	"go.uber.org/zap"
)

// Raw sends DPA packets through the iqrfRaw message type
type Raw struct {
	sender  Sender
	parsers dpa.Chain
}

// NewRaw creates a Raw caller decoding responses with dpa.DefaultChain
func NewRaw(s Sender) *Raw {
	return &Raw{sender: s, parsers: dpa.DefaultChain}
}

// WithParsers returns a copy of r that decodes responses with chain
func (r *Raw) WithParsers(chain dpa.Chain) *Raw {
	return &Raw{sender: r.sender, parsers: chain}
}

// RawResult is the outcome of a raw packet call
type RawResult struct {
	Exchange *protocol.Exchange

	// Request and Response are the packets as sent and received, lower-cased
	Request  string
	Response string

	// Parsed is nil for broadcast requests and unrecognized packets
	Parsed dpa.Result
}

type rawReq struct {
	RData string `json:"rData"`
}

// Send validates packet, optionally rewrites its NADR, sends it and decodes
// the response packet. Validation happens before any I/O.
func (r *Raw) Send(packet string, nadr string, timeout time.Duration) (*RawResult, error) {
	if !dpa.Validate(packet) {
		return nil, protocol.NewInvalidPacketError(fmt.Sprintf("%q is not a DPA packet", packet))
	}

	if nadr != "" {
		updated, err := dpa.UpdateNadr(packet, nadr)
		if err != nil {
			return nil, err
		}
		packet = updated
	}

	req := protocol.NewRequest(protocol.MTypeRaw, rawReq{RData: packet})
	ex, err := r.sender.SendSync(req, orDefault(timeout))
	if err != nil {
		return nil, err
	}

	result := &RawResult{Exchange: ex}
	if result.Request, err = dpa.ExtractPacket(ex, dpa.Request); err != nil {
		return nil, err
	}
	if result.Response, err = dpa.ExtractPacket(ex, dpa.Response); err != nil {
		return nil, err
	}
	if result.Parsed, err = r.parsers.Parse(ex); err != nil {
		return nil, err
	}

	logging.Debug("Raw packet exchanged",
		zap.String("request", result.Request),
		zap.String("response", result.Response),
		zap.Bool("parsed", result.Parsed != nil),
	)
	return result, nil
}

// SendJSON sends a caller-supplied request envelope as is
func (r *Raw) SendJSON(data []byte, timeout time.Duration) (*protocol.Exchange, error) {
	req, err := protocol.ParseRequest(data)
	if err != nil {
		return nil, err
	}
	return r.sender.SendSync(req, orDefault(timeout))
}
