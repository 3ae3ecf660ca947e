package dpa

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/muurk/iqrfgw/internal/protocol"
)

func packetOf(n int) string {
	toks := make([]string, n)
	for i := range toks {
		toks[i] = "0a"
	}
	return strings.Join(toks, ".")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		packet string
		want   bool
	}{
		{"minimal request", "00.00.06.03.ff.ff", true},
		{"single digit tokens", "1.0.6.3.f.f", true},
		{"upper case", "0A.00.06.03.FF.FF", true},
		{"trailing dot", "00.00.06.03.ff.ff.", true},
		{"4 tokens", packetOf(4), false},
		{"5 tokens", packetOf(5), true},
		{"62 tokens", packetOf(62), true},
		{"63 tokens", packetOf(63), false},
		{"empty", "", false},
		{"three digit token", "000.00.06.03.ff.ff", false},
		{"non hex", "00.00.06.03.fg.ff", false},
		{"double dot", "00..00.06.03.ff", false},
		{"leading dot", ".00.00.06.03.ff", false},
		{"two trailing dots", "00.00.06.03.ff.ff..", false},
		{"spaces", "00 00 06 03 ff ff", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.packet); got != tt.want {
				t.Errorf("Validate(%q) = %v, want %v", tt.packet, got, tt.want)
			}
		})
	}
}

func TestUpdateNadr(t *testing.T) {
	tests := []struct {
		name   string
		packet string
		nadr   string
		want   string
	}{
		{"set node address", "00.00.06.03.ff.ff", "2a", "2a.00.06.03.ff.ff"},
		{"pads single digit", "00.00.06.03.ff.ff", "5", "05.00.06.03.ff.ff"},
		{"zeroes NADR high byte", "01.01.06.03.ff.ff", "02", "02.00.06.03.ff.ff"},
		{"lower-cases result", "00.00.06.03.FF.FF", "2A", "2a.00.06.03.ff.ff"},
		{"keeps trailing dot", "00.00.06.03.ff.ff.", "ff", "ff.00.06.03.ff.ff."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UpdateNadr(tt.packet, tt.nadr)
			if err != nil {
				t.Fatalf("UpdateNadr() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("UpdateNadr(%q, %q) = %q, want %q", tt.packet, tt.nadr, got, tt.want)
			}
		})
	}
}

func TestUpdateNadr_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		packet string
		nadr   string
	}{
		{"no tokens", "", "01"},
		{"one token", "00", "01"},
		{"nadr too long", "00.00.06.03.ff.ff", "100"},
		{"nadr not hex", "00.00.06.03.ff.ff", "zz"},
		{"nadr empty", "00.00.06.03.ff.ff", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UpdateNadr(tt.packet, tt.nadr)
			if !protocol.IsInvalidPacket(err) {
				t.Errorf("UpdateNadr() error = %v, want invalid packet", err)
			}
		})
	}
}

// UpdateNadr on any valid packet keeps it valid, keeps the token count and
// touches only tokens 0 and 1.
func TestUpdateNadr_OnlyTouchesNadr(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 500; i++ {
		n := MinTokens + rng.Intn(MaxTokens-MinTokens+1)
		toks := make([]string, n)
		for j := range toks {
			toks[j] = fmt.Sprintf("%02x", rng.Intn(256))
		}
		packet := strings.Join(toks, ".")
		nadr := fmt.Sprintf("%x", rng.Intn(256))

		if !Validate(packet) {
			t.Fatalf("generated packet %q should be valid", packet)
		}

		got, err := UpdateNadr(packet, nadr)
		if err != nil {
			t.Fatalf("UpdateNadr(%q) error = %v", packet, err)
		}
		if !Validate(got) {
			t.Fatalf("UpdateNadr(%q) = %q is not valid", packet, got)
		}

		out := strings.Split(got, ".")
		if len(out) != len(toks) {
			t.Fatalf("token count changed: %d -> %d", len(toks), len(out))
		}
		if out[1] != "00" {
			t.Errorf("token 1 = %q, want 00", out[1])
		}
		for j := 2; j < len(toks); j++ {
			if out[j] != toks[j] {
				t.Fatalf("token %d changed: %q -> %q", j, toks[j], out[j])
			}
		}
	}
}

func TestNadr(t *testing.T) {
	if got := Nadr("FF.00.06.03.ff.ff"); got != "ff" {
		t.Errorf("Nadr() = %q, want ff", got)
	}
	if got := Nadr("1.0.6.3.f.f"); got != "01" {
		t.Errorf("Nadr() = %q, want 01", got)
	}
	if got := Nadr(""); got != "" {
		t.Errorf("Nadr(\"\") = %q, want empty", got)
	}
}

func TestDecodePacket(t *testing.T) {
	p, err := DecodePacket("2a.01.06.03.ff.ff.01.02")
	if err != nil {
		t.Fatalf("DecodePacket() error = %v", err)
	}

	if p.NADR != 0x012a {
		t.Errorf("NADR = 0x%04x, want 0x012a", p.NADR)
	}
	if p.PNUM != PnumLEDR || p.PCMD != 0x03 {
		t.Errorf("PNUM/PCMD = 0x%02x/0x%02x, want 0x06/0x03", p.PNUM, p.PCMD)
	}
	if p.HWPID != 0xffff {
		t.Errorf("HWPID = 0x%04x, want 0xffff", p.HWPID)
	}
	if len(p.PData) != 2 || p.PData[1] != 0x02 {
		t.Errorf("PData = %v, want [1 2]", p.PData)
	}

	if got := p.String(); got != "2a.01.06.03.ff.ff.01.02" {
		t.Errorf("String() = %q, want 2a.01.06.03.ff.ff.01.02", got)
	}
}

func TestDecodePacket_FiveTokens(t *testing.T) {
	p, err := DecodePacket("1.0.6.3.f")
	if err != nil {
		t.Fatalf("DecodePacket() error = %v", err)
	}
	if p.HWPID != 0x000f || p.PData != nil {
		t.Errorf("HWPID/PData = 0x%04x/%v, want 0x000f/nil", p.HWPID, p.PData)
	}
}

func TestDecodePacket_Invalid(t *testing.T) {
	if _, err := DecodePacket("00.00.06"); !protocol.IsInvalidPacket(err) {
		t.Errorf("DecodePacket() error = %v, want invalid packet", err)
	}
}

func TestDecodeResponsePacket(t *testing.T) {
	p, err := DecodeResponsePacket("00.00.06.83.00.00.00.44")
	if err != nil {
		t.Fatalf("DecodeResponsePacket() error = %v", err)
	}
	if p.PCMD != 0x83 || p.ErrN != 0 || p.DpaValue != 0x44 {
		t.Errorf("PCMD/ErrN/DpaValue = 0x%02x/%d/0x%02x, want 0x83/0/0x44", p.PCMD, p.ErrN, p.DpaValue)
	}
	if len(p.PData) != 0 {
		t.Errorf("PData = %v, want empty", p.PData)
	}

	if _, err := DecodeResponsePacket("00.00.06.83.00.00"); !protocol.IsInvalidPacket(err) {
		t.Errorf("short response error = %v, want invalid packet", err)
	}
}

func TestFormatBytes(t *testing.T) {
	if got := FormatBytes([]byte{0x00, 0xab, 0x0f}); got != "00.ab.0f" {
		t.Errorf("FormatBytes() = %q, want 00.ab.0f", got)
	}
}
