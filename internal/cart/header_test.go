package cart

import (
	"encoding/binary"
	"errors"
	"testing"
)

// buildROM makes a synthetic ROM of the given size with a header at off and
// a valid checksum over the sized region.
func buildROM(size, off int, sizeCode byte) []byte {
	rom := make([]byte, size)
	for i := range rom {
		rom[i] = byte(i * 7)
	}
	copy(rom[off:], signature)
	rom[off+8], rom[off+9] = 0, 0
	rom[off+12] = 0x26 // product 7026
	rom[off+13] = 0x70
	rom[off+14] = 0x03 // version 3
	rom[off+15] = 0x40 | sizeCode

	var sum uint16
	for i := 0; i < decodeROMSize(sizeCode); i++ {
		if i >= 0x7FF0 && i < 0x8000 {
			continue
		}
		sum += uint16(rom[i])
	}
	binary.LittleEndian.PutUint16(rom[off+10:], sum)
	return rom
}

func TestParseHeader_Basic(t *testing.T) {
	rom := buildROM(128*1024, 0x7FF0, 0x0F)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if h.Offset != 0x7FF0 || h.ProductCode != 7026 || h.Version != 3 {
		t.Fatalf("header got offset %#x product %d version %d", h.Offset, h.ProductCode, h.Version)
	}
	if h.Region != 4 || h.RegionStr != "SMS Export" {
		t.Fatalf("region got %d / %s", h.Region, h.RegionStr)
	}
	if h.ROMSize != 128*1024 {
		t.Fatalf("ROM size got %d", h.ROMSize)
	}
	if !ChecksumOK(rom, h) {
		t.Fatalf("ChecksumOK = false, want true")
	}
}

func TestParseHeader_SmallROMOffsets(t *testing.T) {
	rom := buildROM(16*1024, 0x3FF0, 0x0B)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if h.Offset != 0x3FF0 || h.ROMSize != 16*1024 {
		t.Fatalf("offset %#x size %d", h.Offset, h.ROMSize)
	}
}

func TestChecksum_Bad(t *testing.T) {
	rom := buildROM(32*1024, 0x7FF0, 0x0C)
	rom[0x100] ^= 0xFF
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader error: %v", err)
	}
	if ChecksumOK(rom, h) {
		t.Fatalf("ChecksumOK = true, want false after corruption")
	}
}

func TestParseHeader_Missing(t *testing.T) {
	if _, err := ParseHeader(make([]byte, 32*1024)); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("err=%v, want ErrNoHeader", err)
	}
	if _, err := ParseHeader(make([]byte, 0x100)); !errors.Is(err, ErrNoHeader) {
		t.Fatalf("short ROM err=%v, want ErrNoHeader", err)
	}
}
