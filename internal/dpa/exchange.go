package dpa

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/muurk/iqrfgw/internal/logging"
	"github.com/muurk/iqrfgw/internal/protocol"
	"go.uber.org/zap"
)

// Direction selects the side of an exchange a packet is read from
type Direction int

const (
	Request  Direction = iota // data.req.rData
	Response                  // data.rsp.rData
)

func (d Direction) String() string {
	if d == Request {
		return "request"
	}
	return "response"
}

// ExtractPacket returns the lower-cased rData packet embedded in one side of
// an exchange. A side without rData yields "".
func ExtractPacket(ex *protocol.Exchange, dir Direction) (string, error) {
	var text json.RawMessage
	if dir == Request {
		text = ex.Request
	} else {
		text = ex.Response
	}
	if len(text) == 0 {
		return "", nil
	}

	var envelope struct {
		Data struct {
			Req struct {
				RData string `json:"rData"`
			} `json:"req"`
			Rsp struct {
				RData string `json:"rData"`
			} `json:"rsp"`
		} `json:"data"`
	}
	if err := json.Unmarshal(text, &envelope); err != nil {
		return "", protocol.NewJSONError(fmt.Sprintf("cannot decode %s envelope", dir), err)
	}

	if dir == Request {
		return strings.ToLower(envelope.Data.Req.RData), nil
	}
	return strings.ToLower(envelope.Data.Rsp.RData), nil
}

// ParseResponse decodes the DPA response carried by a raw exchange using the
// default parser chain. See Chain.Parse.
func ParseResponse(ex *protocol.Exchange) (Result, error) {
	return DefaultChain.Parse(ex)
}

// Parse decodes the DPA response carried by a raw exchange.
//
// It returns (nil, nil) in two cases: the request was sent to the broadcast
// address, where several nodes may answer and the captured response cannot
// be attributed to one of them; or no parser in the chain recognizes the
// packet. An exchange without a response packet is an empty response.
func (c Chain) Parse(ex *protocol.Exchange) (Result, error) {
	rsp, err := ExtractPacket(ex, Response)
	if err != nil {
		return nil, err
	}
	req, err := ExtractPacket(ex, Request)
	if err != nil {
		return nil, err
	}

	if req != "" && rsp != "" && Nadr(req) == fmt.Sprintf("%02x", BroadcastNadr) {
		logging.Debug("Dropping response to broadcast request",
			zap.String("request", req),
			zap.String("response", rsp),
		)
		return nil, nil
	}

	if rsp == "" {
		return nil, protocol.NewEmptyResponseError("exchange carries no response packet", nil)
	}

	if !Validate(rsp) {
		return nil, protocol.NewInvalidPacketError(fmt.Sprintf("response %q does not match the packet grammar", rsp))
	}
	if len(tokens(rsp)) < ResponseHeaderTokens {
		// Valid but headerless: nothing in the chain can decode it
		return nil, nil
	}

	packet, err := DecodeResponsePacket(rsp)
	if err != nil {
		return nil, err
	}
	return c.Decode(packet)
}
