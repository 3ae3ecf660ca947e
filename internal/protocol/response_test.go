package protocol

import (
	"encoding/json"
	"testing"
)

const bondedResponse = `{"mType":"iqrfEmbedCoordinator_BondedDevices","data":{"msgId":"1","rsp":{"nAdr":0,"hwpId":0,"rCode":0,"dpaVal":64,"result":{"bondedDevices":[1,2,3]}},"insId":"iqrfgd2-1","statusStr":"ok","status":0}}`

func TestParseResponse(t *testing.T) {
	resp, err := ParseResponse([]byte(bondedResponse))
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}

	if resp.MType != MTypeCoordinatorBondedDevices {
		t.Errorf("MType = %s, want %s", resp.MType, MTypeCoordinatorBondedDevices)
	}
	if resp.Data.Status != 0 {
		t.Errorf("Status = %d, want 0", resp.Data.Status)
	}
	if resp.Data.InsID != "iqrfgd2-1" {
		t.Errorf("InsID = %s, want iqrfgd2-1", resp.Data.InsID)
	}
	if resp.Data.StatusStr != "ok" {
		t.Errorf("StatusStr = %s, want ok", resp.Data.StatusStr)
	}

	var rsp struct {
		Result struct {
			BondedDevices []int `json:"bondedDevices"`
		} `json:"result"`
	}
	if err := resp.DecodeRsp(&rsp); err != nil {
		t.Fatalf("DecodeRsp() error = %v", err)
	}
	if len(rsp.Result.BondedDevices) != 3 || rsp.Result.BondedDevices[2] != 3 {
		t.Errorf("bondedDevices = %v, want [1 2 3]", rsp.Result.BondedDevices)
	}
}

func TestParseResponse_NegativeStatus(t *testing.T) {
	resp, err := ParseResponse([]byte(`{"mType":"iqrfRaw","data":{"status":-3,"statusStr":"ERROR_PNUM"}}`))
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if resp.Data.Status != -3 {
		t.Errorf("Status = %d, want -3", resp.Data.Status)
	}
}

func TestParseResponse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ``},
		{"truncated", `{"mType":"iqrfRaw","data":{"status":0`},
		{"array", `[1,2,3]`},
		{"no mType", `{"data":{"status":0}}`},
		{"no data", `{"mType":"iqrfRaw"}`},
		{"data not object", `{"mType":"iqrfRaw","data":"x"}`},
		{"no status", `{"mType":"iqrfRaw","data":{"rsp":{}}}`},
		{"status not integer", `{"mType":"iqrfRaw","data":{"status":"0"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse([]byte(tt.text))
			if resp != nil {
				t.Errorf("ParseResponse() = %+v, want nil", resp)
			}
			if !IsJSONError(err) {
				t.Errorf("ParseResponse() error = %v, want JSON error", err)
			}
		})
	}
}

func TestDecodeRsp_Missing(t *testing.T) {
	resp := &Response{MType: MTypeRaw}
	var v map[string]any
	if err := resp.DecodeRsp(&v); !IsJSONError(err) {
		t.Errorf("DecodeRsp() error = %v, want JSON error", err)
	}
}

func TestExchange_MarshalKeepsBothSides(t *testing.T) {
	req := []byte(`{"mType":"iqrfRaw","data":{"req":{"rData":"00.00.06.03.ff.ff"},"returnVerbose":true}}`)
	rsp := []byte(`{"mType":"iqrfRaw","data":{"rsp":{"rData":"00.00.06.83.00.00.00.44"},"status":0}}`)
	envelope, err := ParseResponse(rsp)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}

	ex := NewExchange(req, rsp, envelope)
	if ex.Status() != 0 {
		t.Errorf("Status() = %d, want 0", ex.Status())
	}

	out, err := json.Marshal(ex)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"request":` + string(req) + `,"response":` + string(rsp) + `}`
	if string(out) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", out, want)
	}
}
