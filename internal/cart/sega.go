package cart

const (
	bankSize   = 0x4000
	ramSize    = 0x2000
	fixedBytes = 0x400 // always read from bank 0 so the interrupt vectors stay put
)

// Mapper control registers, at the top of the RAM mirror.
const (
	RegControl = 0xFFFC
	RegSlot0   = 0xFFFD
	RegSlot1   = 0xFFFE
	RegSlot2   = 0xFFFF
)

// Sega implements the standard Sega memory mapper:
//
//	0000-03FF  ROM bank 0, fixed
//	0400-3FFF  slot 0
//	4000-7FFF  slot 1
//	8000-BFFF  slot 2, or cartridge RAM when enabled in FFFC
//	C000-DFFF  8 KiB system RAM
//	E000-FFFF  mirror of system RAM; FFFC-FFFF also drive the mapper
type Sega struct {
	rom   []byte
	banks int

	ram     [ramSize]byte
	cartRAM [2][bankSize]byte

	pages      [3]byte
	ramEnabled bool
	ramBank    int
	ramUsed    bool
}

// NewSega copies rom, padding it to a whole number of 16 KiB banks.
func NewSega(rom []byte) *Sega {
	banks := (len(rom) + bankSize - 1) / bankSize
	if banks == 0 {
		banks = 1
	}
	s := &Sega{rom: make([]byte, banks*bankSize), banks: banks}
	copy(s.rom, rom)
	for i := len(rom); i < len(s.rom); i++ {
		s.rom[i] = 0xFF
	}
	s.Reset()
	return s
}

// Reset restores the power-on paging (slots 0, 1, 2) and clears system RAM.
// Cartridge RAM is kept.
func (s *Sega) Reset() {
	s.ram = [ramSize]byte{}
	s.pages = [3]byte{0, 1, 2}
	s.ramEnabled = false
	s.ramBank = 0
}

func (s *Sega) Read(addr uint16) byte {
	switch {
	case addr >= 0xC000:
		return s.ram[addr&(ramSize-1)]
	case addr < fixedBytes:
		return s.rom[addr]
	}
	slot := addr / bankSize
	off := int(addr % bankSize)
	if slot == 2 && s.ramEnabled {
		return s.cartRAM[s.ramBank][off]
	}
	return s.rom[s.pageOffset(slot)+off]
}

func (s *Sega) Write(addr uint16, value byte) {
	switch {
	case addr >= 0xC000:
		s.ram[addr&(ramSize-1)] = value
		if addr >= RegControl {
			s.writeRegister(addr, value)
		}
	case addr >= 0x8000 && addr < 0xC000 && s.ramEnabled:
		s.cartRAM[s.ramBank][addr-0x8000] = value
		s.ramUsed = true
	}
	// ROM writes are ignored.
}

func (s *Sega) writeRegister(addr uint16, value byte) {
	switch addr {
	case RegControl:
		s.ramEnabled = value&0x08 != 0
		s.ramBank = int(value>>2) & 1
	case RegSlot0, RegSlot1, RegSlot2:
		s.pages[addr-RegSlot0] = value
	}
}

func (s *Sega) pageOffset(slot uint16) int {
	return int(s.pages[slot]) % s.banks * bankSize
}

// Page returns the ROM bank mapped into slot 0..2.
func (s *Sega) Page(slot int) int { return int(s.pages[slot]) % s.banks }

// Banks is the number of 16 KiB ROM banks.
func (s *Sega) Banks() int { return s.banks }

// SaveRAM returns both cartridge RAM banks once a game has written to them.
func (s *Sega) SaveRAM() []byte {
	if !s.ramUsed {
		return nil
	}
	out := make([]byte, 0, 2*bankSize)
	out = append(out, s.cartRAM[0][:]...)
	return append(out, s.cartRAM[1][:]...)
}

// LoadRAM restores cartridge RAM saved by SaveRAM. Short data fills the
// first bank only.
func (s *Sega) LoadRAM(data []byte) {
	n := copy(s.cartRAM[0][:], data)
	if len(data) > n {
		copy(s.cartRAM[1][:], data[n:])
	}
	s.ramUsed = len(data) > 0
}
