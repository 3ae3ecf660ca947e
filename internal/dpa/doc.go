// Package dpa encodes, validates and decodes DPA packets in the dot-hex form
// used by the iqrfRaw message type of IQRF Gateway Daemon.
//
// # Packet Format
//
// A packet is a sequence of 5 to 62 hexadecimal byte tokens separated by
// dots, optionally followed by a trailing dot:
//
//	00.00.06.03.ff.ff
//	│  │  │  │  └──┴── HWPID (LE)
//	│  │  │  └──────── PCMD
//	│  │  └─────────── PNUM
//	└──┴────────────── NADR (LE)
//
// Responses add ErrN and DpaValue after HWPID, followed by PData.
//
// # Response Decoding
//
// ParseResponse takes a raw exchange from the bridge, extracts the request
// and response packets, and runs an ordered chain of parsers over the
// response. Each parser owns one PNUM/PCMD pair family and ignores the rest,
// so the order only decides ties that cannot occur. Extend DefaultChain to
// decode additional peripherals.
//
// Responses to requests addressed to the broadcast NADR (0xFF) decode to
// nil without an error: several nodes may reply and the captured frame cannot
// be attributed to one of them.
package dpa
