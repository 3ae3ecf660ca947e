package dpa

import (
	"encoding/binary"
	"fmt"
)

// OSReadResponse is PCMD of an OS Read response
const OSReadResponse = 0x80

// OSInfo is the module information returned by OS Read
type OSInfo struct {
	ModuleID      string
	OSVersion     string
	TRType        int
	McuType       int
	OSBuild       string
	RSSI          int     // dBm
	SupplyVoltage float64 // volts
	Flags         int
	SlotLimits    int
}

func (o *OSInfo) Kind() string { return "os.read" }

// ParseOS decodes OS Read responses.
//
// Payload:
//
//	[0-3]  ModuleID (LE)
//	[4]    OsVersion, major in the high nibble
//	[5]    McuType, TR series in bits 4-7, MCU in bits 0-2
//	[6-7]  OsBuild (LE)
//	[8]    RSSI, dBm + 130
//	[9]    SupplyVoltage, V = 261.12 / (127 - value)
//	[10]   Flags
//	[11]   SlotLimits
func ParseOS(p *ResponsePacket) (Result, error) {
	if p.PNUM != PnumOS || p.PCMD != OSReadResponse {
		return nil, nil
	}
	if err := needBytes(p, 12, "OS read"); err != nil {
		return nil, err
	}

	d := p.PData
	info := &OSInfo{
		ModuleID:   fmt.Sprintf("%08X", binary.LittleEndian.Uint32(d[0:4])),
		OSVersion:  fmt.Sprintf("%d.%02dD", d[4]>>4, d[4]&0x0F),
		TRType:     int(d[5] >> 4),
		McuType:    int(d[5] & 0x07),
		OSBuild:    fmt.Sprintf("%04X", binary.LittleEndian.Uint16(d[6:8])),
		RSSI:       int(d[8]) - 130,
		Flags:      int(d[10]),
		SlotLimits: int(d[11]),
	}

	if d[9] < 127 {
		info.SupplyVoltage = 261.12 / float64(127-int(d[9]))
	}

	return info, nil
}
