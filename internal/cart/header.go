package cart

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const signature = "TMR SEGA"

// Header locations, most common first.
var headerOffsets = []int{0x7FF0, 0x3FF0, 0x1FF0}

var ErrNoHeader = errors.New("no TMR SEGA header")

type Header struct {
	Offset      int    // where the signature was found
	Checksum    uint16 // 0x7FFA-0x7FFB, little-endian
	ProductCode int    // BCD digits of 0x7FFC-0x7FFD plus the high nibble of 0x7FFE
	Version     byte   // low nibble of 0x7FFE
	Region      byte   // high nibble of 0x7FFF
	SizeCode    byte   // low nibble of 0x7FFF

	// Decoded helpers (for logs)
	RegionStr string
	ROMSize   int
}

func ParseHeader(rom []byte) (*Header, error) {
	for _, off := range headerOffsets {
		if off+16 > len(rom) || string(rom[off:off+8]) != signature {
			continue
		}
		h := &Header{
			Offset:   off,
			Checksum: binary.LittleEndian.Uint16(rom[off+10 : off+12]),
			Version:  rom[off+14] & 0x0F,
			Region:   rom[off+15] >> 4,
			SizeCode: rom[off+15] & 0x0F,
		}
		h.ProductCode = bcd(rom[off+12]) + bcd(rom[off+13])*100 + int(rom[off+14]>>4)*10000
		h.RegionStr = regionString(h.Region)
		h.ROMSize = decodeROMSize(h.SizeCode)
		return h, nil
	}
	return nil, ErrNoHeader
}

func (h *Header) String() string {
	return fmt.Sprintf("product %d v%d, %s, %d KiB, checksum %04X", h.ProductCode, h.Version, h.RegionStr, h.ROMSize/1024, h.Checksum)
}

// ChecksumOK sums the region named by the size code, skipping the 16 header
// bytes at 0x7FF0, and compares it with the stored checksum.
func ChecksumOK(rom []byte, h *Header) bool {
	if h.ROMSize == 0 || h.ROMSize > len(rom) {
		return false
	}
	var sum uint16
	for i := 0; i < h.ROMSize; i++ {
		if i >= 0x7FF0 && i < 0x8000 {
			continue
		}
		sum += uint16(rom[i])
	}
	return sum == h.Checksum
}

func bcd(b byte) int { return int(b>>4)*10 + int(b&0x0F) }

func decodeROMSize(code byte) int {
	switch code {
	case 0x0A:
		return 8 * 1024
	case 0x0B:
		return 16 * 1024
	case 0x0C:
		return 32 * 1024
	case 0x0D:
		return 48 * 1024
	case 0x0E:
		return 64 * 1024
	case 0x0F:
		return 128 * 1024
	case 0x00:
		return 256 * 1024
	case 0x01:
		return 512 * 1024
	case 0x02:
		return 1024 * 1024
	default:
		return 0
	}
}

func regionString(code byte) string {
	switch code {
	case 3:
		return "SMS Japan"
	case 4:
		return "SMS Export"
	case 5:
		return "GG Japan"
	case 6:
		return "GG Export"
	case 7:
		return "GG International"
	default:
		return "Other/unknown"
	}
}
