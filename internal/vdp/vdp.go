package vdp

// VDP is the Sega Mode 4 video display processor: 16 KiB VRAM, 32 bytes of
// colour RAM, 16 control registers and the H/V counters that drive the
// raster engine in raster.go.
type VDP struct {
	VRAM [0x4000]byte
	CRAM [0x20]byte
	Regs [16]byte

	// InterruptPending is the /INT line. The driver copies it into the CPU
	// and clears it; reading the control port clears it as well.
	InterruptPending bool

	addr       uint16 // 14-bit address register
	code       byte   // control code from the second control write
	latch      bool   // second control write pending
	readBuffer byte
	status     byte

	hcounter    int  // 0..341
	vcounter    byte // NTSC: 00..DA, D5..FF
	vJumped     bool // DB->D5 jump already taken this frame
	lineCounter byte
	frameReady  bool

	fb [Width * Height]RGB
}

// Status register bits.
const (
	StatusFrame     byte = 1 << 7
	StatusOverflow  byte = 1 << 6
	StatusCollision byte = 1 << 5
)

func New() *VDP {
	v := &VDP{}
	v.Reset()
	return v
}

// Reset restores the power-on state. VRAM and CRAM are cleared too.
func (v *VDP) Reset() {
	*v = VDP{}
	v.lineCounter = 0xFF
}

// WriteControl handles a write to the control port (odd port in 0x80-0xBF).
func (v *VDP) WriteControl(value byte) {
	if !v.latch {
		v.addr = uint16(value)
		v.latch = true
		return
	}
	v.latch = false
	low := byte(v.addr)
	v.addr = uint16(value&0x3F)<<8 | uint16(low)
	v.code = value >> 6
	switch v.code {
	case 0:
		v.readBuffer = v.VRAM[v.addr]
		v.incAddr()
	case 2:
		v.Regs[value&0x0F] = low
	}
}

// ReadControl returns the status register and clears it together with the
// pending interrupt and the write latch.
func (v *VDP) ReadControl() byte {
	s := v.status
	v.status = 0
	v.InterruptPending = false
	v.latch = false
	return s
}

// WriteData writes to VRAM, or to CRAM when the control code is 3.
func (v *VDP) WriteData(value byte) {
	v.latch = false
	if v.code == 3 {
		v.CRAM[v.addr&0x1F] = value
	} else {
		v.VRAM[v.addr] = value
	}
	v.readBuffer = value
	v.incAddr()
}

// ReadData returns the read-ahead buffer and refills it from VRAM.
func (v *VDP) ReadData() byte {
	b := v.readBuffer
	v.readBuffer = v.VRAM[v.addr]
	v.incAddr()
	v.latch = false
	return b
}

func (v *VDP) incAddr() { v.addr = (v.addr + 1) & 0x3FFF }

// VCounter is the value read from port 0x7E.
func (v *VDP) VCounter() byte { return v.vcounter }

// HCounter is the upper 8 bits of the 9-bit horizontal counter (port 0x7F).
func (v *VDP) HCounter() byte { return byte(v.hcounter >> 1) }

// Status peeks at the status register without the read side effects.
func (v *VDP) Status() byte { return v.status }

// Address returns the current 14-bit address register.
func (v *VDP) Address() uint16 { return v.addr }

// Register accessors.

func (v *VDP) Mode4() bool           { return v.Regs[0]&0x04 != 0 }
func (v *VDP) ShiftSprites() bool    { return v.Regs[0]&0x08 != 0 }
func (v *VDP) LineIRQEnabled() bool  { return v.Regs[0]&0x10 != 0 }
func (v *VDP) MaskLeft() bool        { return v.Regs[0]&0x20 != 0 }
func (v *VDP) ZoomSprites() bool     { return v.Regs[1]&0x01 != 0 }
func (v *VDP) TallSprites() bool     { return v.Regs[1]&0x02 != 0 }
func (v *VDP) FrameIRQEnabled() bool { return v.Regs[1]&0x20 != 0 }
func (v *VDP) DisplayEnabled() bool  { return v.Regs[1]&0x40 != 0 }
func (v *VDP) Backdrop() byte        { return v.Regs[7] & 0x0F }
func (v *VDP) ScrollX() byte         { return v.Regs[8] }
func (v *VDP) ScrollY() byte         { return v.Regs[9] }
func (v *VDP) LineReload() byte      { return v.Regs[10] }

// NameTableBase is R2 bits 3..1 times 0x800.
func (v *VDP) NameTableBase() uint16 { return 0x3800 & (uint16(v.Regs[2]&0x0E) << 10) }

// SATBase is R5 bits 6..0 times 0x100.
func (v *VDP) SATBase() uint16 { return 0x3F00 & (uint16(v.Regs[5]&0x7F) << 8) }

// SpritePatternBase is 0x2000 when R6 bit 2 selects the upper pattern bank.
func (v *VDP) SpritePatternBase() uint16 {
	if v.Regs[6]&0x04 != 0 {
		return 0x2000
	}
	return 0
}
