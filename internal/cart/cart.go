package cart

import "errors"

// ErrEmptyROM is returned when a cartridge image has no data.
var ErrEmptyROM = errors.New("empty ROM image")

// Cartridge is the CPU's 64 KiB view of the cartridge slot plus system RAM.
// It satisfies cpu.Memory.
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	Reset()
}

// BatteryBacked is implemented by cartridges with on-board RAM that should
// survive between runs. SaveRAM returns nil if the RAM was never mapped.
type BatteryBacked interface {
	SaveRAM() []byte
	LoadRAM(data []byte)
}

// NewCartridge wraps rom in the Sega mapper. Every licensed Master System
// cartridge either uses it or is small enough not to notice the registers.
func NewCartridge(rom []byte) (Cartridge, error) {
	if len(rom) == 0 {
		return nil, ErrEmptyROM
	}
	return NewSega(rom), nil
}
