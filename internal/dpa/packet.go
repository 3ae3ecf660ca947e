package dpa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/muurk/iqrfgw/internal/protocol"
)

// Packet layout constants
const (
	MinTokens = 5  // NADR lo, NADR hi, PNUM, PCMD, HWPID lo
	MaxTokens = 62 // largest request/response the daemon accepts

	// ResponseHeaderTokens is NADR(2) + PNUM + PCMD + HWPID(2) + ErrN + DpaValue
	ResponseHeaderTokens = 8

	// BroadcastNadr addresses every node in the network
	BroadcastNadr = 0xFF
)

// packetPattern is the packet grammar: 5..62 hex byte tokens separated by
// dots, with an optional trailing dot.
var packetPattern = regexp.MustCompile(`^([0-9a-fA-F]{1,2}\.){4,61}[0-9a-fA-F]{1,2}\.?$`)

var nadrPattern = regexp.MustCompile(`^[0-9a-fA-F]{1,2}$`)

// Validate reports whether packet is a syntactically valid DPA packet
func Validate(packet string) bool {
	return packetPattern.MatchString(packet)
}

// tokens splits a packet into its byte tokens, dropping the optional trailing dot
func tokens(packet string) []string {
	packet = strings.TrimSuffix(packet, ".")
	if packet == "" {
		return nil
	}
	return strings.Split(packet, ".")
}

// UpdateNadr rewrites the destination address of packet.
//
// nadr is left-padded to two hex digits and written to token 0; token 1 (the
// NADR high byte) is always zeroed. All other tokens are kept and the result
// is lower-cased:
//
//	UpdateNadr("00.00.06.03.ff.ff", "2a") == "2a.00.06.03.ff.ff"
func UpdateNadr(packet string, nadr string) (string, error) {
	if !nadrPattern.MatchString(nadr) {
		return "", protocol.NewInvalidPacketError(fmt.Sprintf("NADR %q is not a 1-2 digit hex byte", nadr))
	}

	toks := strings.Split(packet, ".")
	if len(toks) < 2 {
		return "", protocol.NewInvalidPacketError("packet has no NADR field")
	}

	if len(nadr) == 1 {
		nadr = "0" + nadr
	}
	toks[0] = nadr
	toks[1] = "00"

	return strings.ToLower(strings.Join(toks, ".")), nil
}

// Nadr returns the low NADR byte of packet as a two digit lower-case token,
// or "" when the packet has no tokens
func Nadr(packet string) string {
	toks := tokens(packet)
	if len(toks) == 0 {
		return ""
	}
	t := strings.ToLower(toks[0])
	if len(t) == 1 {
		t = "0" + t
	}
	return t
}

// Packet is a decoded DPA request packet
type Packet struct {
	NADR  uint16
	PNUM  byte
	PCMD  byte
	HWPID uint16
	PData []byte
}

// DecodePacket parses a dot-hex packet string
func DecodePacket(packet string) (*Packet, error) {
	if !Validate(packet) {
		return nil, protocol.NewInvalidPacketError(fmt.Sprintf("%q does not match the packet grammar", packet))
	}

	raw, err := decodeTokens(tokens(packet))
	if err != nil {
		return nil, err
	}

	p := &Packet{
		NADR: uint16(raw[0]) | uint16(raw[1])<<8,
		PNUM: raw[2],
		PCMD: raw[3],
	}

	// A five token packet only carries the HWPID low byte
	p.HWPID = uint16(raw[4])
	if len(raw) > 5 {
		p.HWPID |= uint16(raw[5]) << 8
	}
	if len(raw) > 6 {
		p.PData = raw[6:]
	}

	return p, nil
}

// String encodes the packet in dot-hex form with lower-case digits
func (p *Packet) String() string {
	raw := []byte{
		byte(p.NADR), byte(p.NADR >> 8),
		p.PNUM, p.PCMD,
		byte(p.HWPID), byte(p.HWPID >> 8),
	}
	raw = append(raw, p.PData...)
	return FormatBytes(raw)
}

// ResponsePacket is a decoded DPA response packet
type ResponsePacket struct {
	Packet
	ErrN     byte // response code, 0 = OK
	DpaValue byte
}

// DecodeResponsePacket parses a dot-hex response packet. Responses carry
// ErrN and DpaValue after the HWPID, so at least 8 tokens are required.
func DecodeResponsePacket(packet string) (*ResponsePacket, error) {
	if !Validate(packet) {
		return nil, protocol.NewInvalidPacketError(fmt.Sprintf("%q does not match the packet grammar", packet))
	}

	raw, err := decodeTokens(tokens(packet))
	if err != nil {
		return nil, err
	}
	if len(raw) < ResponseHeaderTokens {
		return nil, protocol.NewInvalidPacketError(
			fmt.Sprintf("response has %d bytes, header needs %d", len(raw), ResponseHeaderTokens))
	}

	return &ResponsePacket{
		Packet: Packet{
			NADR:  uint16(raw[0]) | uint16(raw[1])<<8,
			PNUM:  raw[2],
			PCMD:  raw[3],
			HWPID: uint16(raw[4]) | uint16(raw[5])<<8,
			PData: raw[ResponseHeaderTokens:],
		},
		ErrN:     raw[6],
		DpaValue: raw[7],
	}, nil
}

// FormatBytes encodes raw bytes as a dot-hex string
func FormatBytes(raw []byte) string {
	parts := make([]string, len(raw))
	for i, b := range raw {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, ".")
}

func decodeTokens(toks []string) ([]byte, error) {
	raw := make([]byte, len(toks))
	for i, t := range toks {
		v, err := strconv.ParseUint(t, 16, 8)
		if err != nil {
			return nil, protocol.NewInvalidPacketError(fmt.Sprintf("token %d (%q) is not a hex byte", i, t))
		}
		raw[i] = byte(v)
	}
	return raw, nil
}
