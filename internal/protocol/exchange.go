package protocol

import "encoding/json"

// Exchange is the correlated request/response pair of one bridge call.
//
// Both sides are kept as wire JSON so callers can log or re-parse exactly
// what was sent and received. Envelope is the decoded response.
type Exchange struct {
	Request  json.RawMessage `json:"request"`
	Response json.RawMessage `json:"response"`

	Envelope *Response `json:"-"`
}

// NewExchange pairs the serialized request with the captured frame and its
// decoded envelope
func NewExchange(request, response []byte, envelope *Response) *Exchange {
	return &Exchange{
		Request:  json.RawMessage(request),
		Response: json.RawMessage(response),
		Envelope: envelope,
	}
}

// Status returns the daemon status of the response, or 0 without one
func (e *Exchange) Status() int {
	if e.Envelope == nil {
		return 0
	}
	return e.Envelope.Data.Status
}
