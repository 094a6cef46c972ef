package cart

import "testing"

// bankedROM returns a ROM whose every byte holds its bank number.
func bankedROM(banks int) []byte {
	rom := make([]byte, banks*bankSize)
	for i := range rom {
		rom[i] = byte(i / bankSize)
	}
	return rom
}

func TestSega_DefaultPaging(t *testing.T) {
	m := NewSega(bankedROM(8))
	for _, tc := range []struct {
		addr uint16
		want byte
	}{{0x0000, 0}, {0x3FFF, 0}, {0x4000, 1}, {0x8000, 2}, {0xBFFF, 2}} {
		if got := m.Read(tc.addr); got != tc.want {
			t.Fatalf("read %04x got %02x want %02x", tc.addr, got, tc.want)
		}
	}
}

func TestSega_SlotPaging(t *testing.T) {
	m := NewSega(bankedROM(8))
	m.Write(RegSlot0, 5)
	m.Write(RegSlot1, 6)
	m.Write(RegSlot2, 7)
	if got := m.Read(0x0400); got != 5 {
		t.Fatalf("slot 0 got %02x want 05", got)
	}
	if got := m.Read(0x03FF); got != 0 {
		t.Fatalf("first 1 KiB got %02x want bank 0", got)
	}
	if got := m.Read(0x4000); got != 6 {
		t.Fatalf("slot 1 got %02x want 06", got)
	}
	if got := m.Read(0x8000); got != 7 {
		t.Fatalf("slot 2 got %02x want 07", got)
	}
	if m.Page(2) != 7 {
		t.Fatalf("Page(2) got %d", m.Page(2))
	}
}

func TestSega_PageWrapsToROMSize(t *testing.T) {
	m := NewSega(bankedROM(4))
	m.Write(RegSlot2, 6)
	if got := m.Read(0x8000); got != 2 {
		t.Fatalf("page 6 of 4 banks got %02x want 02", got)
	}
}

func TestSega_SystemRAMMirror(t *testing.T) {
	m := NewSega(bankedROM(2))
	m.Write(0xC123, 0xAB)
	if got := m.Read(0xE123); got != 0xAB {
		t.Fatalf("mirror read got %02x want ab", got)
	}
	m.Write(0xE200, 0xCD)
	if got := m.Read(0xC200); got != 0xCD {
		t.Fatalf("mirror write got %02x want cd", got)
	}
	// Mapper registers land in RAM too.
	m.Write(RegSlot1, 1)
	if got := m.Read(0xDFFE); got != 1 {
		t.Fatalf("register readback got %02x want 01", got)
	}
}

func TestSega_ROMWritesIgnored(t *testing.T) {
	m := NewSega(bankedROM(4))
	m.Write(0x4000, 0x99)
	m.Write(0x8000, 0x99)
	if m.Read(0x4000) != 1 || m.Read(0x8000) != 2 {
		t.Fatalf("ROM changed by write")
	}
}

func TestSega_CartridgeRAM(t *testing.T) {
	m := NewSega(bankedROM(4))
	if m.SaveRAM() != nil {
		t.Fatalf("SaveRAM before use should be nil")
	}
	m.Write(RegControl, 0x08)
	m.Write(0x8000, 0x11)
	m.Write(RegControl, 0x0C)
	m.Write(0x8000, 0x22)
	if got := m.Read(0x8000); got != 0x22 {
		t.Fatalf("bank 1 got %02x want 22", got)
	}
	m.Write(RegControl, 0x08)
	if got := m.Read(0x8000); got != 0x11 {
		t.Fatalf("bank 0 got %02x want 11", got)
	}
	m.Write(RegControl, 0x00)
	if got := m.Read(0x8000); got != 2 {
		t.Fatalf("RAM disabled got %02x want ROM bank 2", got)
	}

	saved := m.SaveRAM()
	if len(saved) != 2*bankSize || saved[0] != 0x11 || saved[bankSize] != 0x22 {
		t.Fatalf("SaveRAM got len %d", len(saved))
	}
	n := NewSega(bankedROM(4))
	n.LoadRAM(saved)
	n.Write(RegControl, 0x0C)
	if got := n.Read(0x8000); got != 0x22 {
		t.Fatalf("restored bank 1 got %02x want 22", got)
	}
}

func TestSega_ShortROMPadded(t *testing.T) {
	m := NewSega([]byte{0x3E, 0x01})
	if m.Banks() != 1 || m.Read(0) != 0x3E || m.Read(2) != 0xFF {
		t.Fatalf("banks %d bytes %02x %02x", m.Banks(), m.Read(0), m.Read(2))
	}
	m.Reset()
	if m.Read(0x4000) != 0x3E {
		t.Fatalf("slot 1 of a one-bank ROM should wrap to bank 0")
	}
}

func TestNewCartridge_Empty(t *testing.T) {
	if _, err := NewCartridge(nil); err != ErrEmptyROM {
		t.Fatalf("err=%v, want ErrEmptyROM", err)
	}
}
