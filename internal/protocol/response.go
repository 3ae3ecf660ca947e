package protocol

import (
	"encoding/json"
	"fmt"
)

// Response is the inbound JSON envelope received from the gateway daemon.
//
// Wire format:
//
//	{"mType":"iqrfRaw","data":{"msgId":"1","rsp":{"rData":"00.00.86.83.00.00.00.40"},
//	 "insId":"iqrfgd2-1","statusStr":"ok","status":0}}
type Response struct {
	MType string       `json:"mType"`
	Data  ResponseData `json:"data"`
}

// ResponseData is the data body of a Response
type ResponseData struct {
	MsgID     string          `json:"msgId,omitempty"`
	Rsp       json.RawMessage `json:"rsp,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"` // only with returnVerbose
	InsID     string          `json:"insId,omitempty"`
	StatusStr string          `json:"statusStr,omitempty"`
	Status    int             `json:"status"`
}

// ParseResponse decodes one inbound frame. It requires a non-empty mType,
// a data object and an integer data.status; anything else is a JSON error
// and no Response is returned.
func ParseResponse(text []byte) (*Response, error) {
	var wire struct {
		MType string `json:"mType"`
		Data  *struct {
			MsgID     string          `json:"msgId"`
			Rsp       json.RawMessage `json:"rsp"`
			Raw       json.RawMessage `json:"raw"`
			InsID     string          `json:"insId"`
			StatusStr string          `json:"statusStr"`
			Status    *int            `json:"status"`
		} `json:"data"`
	}

	if err := json.Unmarshal(text, &wire); err != nil {
		return nil, NewJSONError("response is not valid JSON", err)
	}
	if wire.MType == "" {
		return nil, NewJSONError("response has no mType", nil)
	}
	if wire.Data == nil {
		return nil, NewJSONError("response has no data object", nil)
	}
	if wire.Data.Status == nil {
		return nil, NewJSONError("response has no data.status", nil)
	}

	return &Response{
		MType: wire.MType,
		Data: ResponseData{
			MsgID:     wire.Data.MsgID,
			Rsp:       wire.Data.Rsp,
			Raw:       wire.Data.Raw,
			InsID:     wire.Data.InsID,
			StatusStr: wire.Data.StatusStr,
			Status:    *wire.Data.Status,
		},
	}, nil
}

// DecodeRsp unmarshals data.rsp into v
func (r *Response) DecodeRsp(v any) error {
	if len(r.Data.Rsp) == 0 {
		return NewJSONError("response has no data.rsp", nil)
	}
	if err := json.Unmarshal(r.Data.Rsp, v); err != nil {
		return NewJSONError(fmt.Sprintf("cannot decode %s rsp", r.MType), err)
	}
	return nil
}
