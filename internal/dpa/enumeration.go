package dpa

import "fmt"

// EnumerationResponse is PCMD of a peripheral enumeration response
const EnumerationResponse = 0xBF

// Enumeration describes the peripherals a node implements
type Enumeration struct {
	DpaVersion          string
	Demo                bool // demo DPA build
	UserPerNr           int
	EmbeddedPeripherals []int
	HWPID               int
	HWPIDVersion        int
	Flags               int
	UserPeripherals     []int
}

func (e *Enumeration) Kind() string { return "enumeration" }

// ParseEnumeration decodes peripheral enumeration responses.
//
// Payload:
//
//	[0-1]  DpaVersion (LE, bit 15 = demo)
//	[2]    UserPerNr
//	[3-6]  EmbeddedPers bitmap
//	[7-8]  HWPID (LE)
//	[9-10] HWPIDver (LE)
//	[11]   Flags
//	[12+]  UserPer bitmap, bit 0 = peripheral 0x20
func ParseEnumeration(p *ResponsePacket) (Result, error) {
	if p.PNUM != PnumEnumeration || p.PCMD != EnumerationResponse {
		return nil, nil
	}
	if err := needBytes(p, 12, "peripheral enumeration"); err != nil {
		return nil, err
	}

	d := p.PData
	version := le16(d, 0)

	e := &Enumeration{
		DpaVersion:          fmt.Sprintf("%x.%02x", (version>>8)&0x7F, version&0xFF),
		Demo:                version&0x8000 != 0,
		UserPerNr:           int(d[2]),
		EmbeddedPeripherals: bitmapAddresses(d[3:7]),
		HWPID:               le16(d, 7),
		HWPIDVersion:        le16(d, 9),
		Flags:               int(d[11]),
		UserPeripherals:     make([]int, 0),
	}

	for _, per := range bitmapAddresses(d[12:]) {
		e.UserPeripherals = append(e.UserPeripherals, per+0x20)
	}

	return e, nil
}
