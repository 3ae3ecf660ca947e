package dpa

import (
	"encoding/binary"
	"fmt"

	"github.com/muurk/iqrfgw/internal/logging"
	"github.com/muurk/iqrfgw/internal/protocol"
	"go.uber.org/zap"
)

// Peripheral numbers
const (
	PnumCoordinator = 0x00
	PnumNode        = 0x01
	PnumOS          = 0x02
	PnumEEPROM      = 0x03
	PnumEEEPROM     = 0x04
	PnumRAM         = 0x05
	PnumLEDR        = 0x06
	PnumLEDG        = 0x07
	PnumIO          = 0x09
	PnumThermometer = 0x0A
	PnumUART        = 0x0C
	PnumFRC         = 0x0D
	PnumEnumeration = 0xFF
)

// ResponseFlag is set in PCMD of every response
const ResponseFlag = 0x80

// Result is a structured value decoded from a response packet
type Result interface {
	// Kind names the decoded structure, e.g. "coordinator.bonded"
	Kind() string
}

// Parser decodes one family of response packets.
//
// A parser checks its PNUM/PCMD discriminator first and returns (nil, nil)
// for any packet it does not own. It returns an error only when the
// discriminator matched but the payload is too short.
type Parser func(p *ResponsePacket) (Result, error)

// Chain is an ordered list of parsers; the first non-nil result wins
type Chain []Parser

// DefaultChain holds the built-in parsers. Append to it to support more
// peripherals.
var DefaultChain = Chain{
	ParseCoordinator,
	ParseEnumeration,
	ParseOS,
}

// Decode runs the chain over an already decoded response packet
func (c Chain) Decode(p *ResponsePacket) (Result, error) {
	if p.ErrN != 0 {
		logging.Debug("Response carries DPA error code, not decoding",
			zap.Uint8("pnum", p.PNUM),
			zap.Uint8("pcmd", p.PCMD),
			zap.Uint8("errn", p.ErrN),
		)
		return nil, nil
	}

	for _, parse := range c {
		result, err := parse(p)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	logging.Debug("No parser recognized response",
		zap.Uint8("pnum", p.PNUM),
		zap.Uint8("pcmd", p.PCMD),
	)
	return nil, nil
}

func needBytes(p *ResponsePacket, n int, what string) error {
	if len(p.PData) < n {
		return protocol.NewInvalidPacketError(
			fmt.Sprintf("%s payload too short: %d bytes (minimum %d)", what, len(p.PData), n))
	}
	return nil
}

// bitmapAddresses expands a little-endian bitmap into the indexes of its set bits
func bitmapAddresses(bitmap []byte) []int {
	addrs := make([]int, 0)
	for i, b := range bitmap {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<bit) != 0 {
				addrs = append(addrs, i*8+bit)
			}
		}
	}
	return addrs
}

// le16 reads a little-endian word at off
func le16(b []byte, off int) int {
	return int(binary.LittleEndian.Uint16(b[off : off+2]))
}
