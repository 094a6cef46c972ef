package emu

// Buttons is the state of one control pad. true means held.
type Buttons struct {
	Up, Down, Left, Right bool
	B1, B2                bool
}

// Port A (0xDC) and port B (0xDD) bits. Lines are active low.
const (
	padAUp1    = 1 << 0
	padADown1  = 1 << 1
	padALeft1  = 1 << 2
	padARight1 = 1 << 3
	padAB1     = 1 << 4
	padAB2     = 1 << 5
	padAUp2    = 1 << 6
	padADown2  = 1 << 7

	padBLeft2  = 1 << 0
	padBRight2 = 1 << 1
	padBB1     = 1 << 2
	padBB2     = 1 << 3
	padBReset  = 1 << 4
)

// SetButtons sets the player 1 pad.
func (m *Machine) SetButtons(b Buttons) { m.pads[0] = b }

// SetButtons2 sets the player 2 pad.
func (m *Machine) SetButtons2(b Buttons) { m.pads[1] = b }

// SetResetButton holds or releases the console's reset button. Games poll
// it through port 0xDD; it does not reset the CPU by itself.
func (m *Machine) SetResetButton(on bool) { m.resetBtn = on }

// Pause presses the pause button, which is wired to the CPU's NMI.
func (m *Machine) Pause() {
	if m.cpu != nil {
		m.cpu.NMIPending = true
	}
}

func low(v *byte, held bool, bit byte) {
	if held {
		*v &^= bit
	}
}

func (m *Machine) readPortA() byte {
	v := byte(0xFF)
	p1, p2 := m.pads[0], m.pads[1]
	low(&v, p1.Up, padAUp1)
	low(&v, p1.Down, padADown1)
	low(&v, p1.Left, padALeft1)
	low(&v, p1.Right, padARight1)
	low(&v, p1.B1, padAB1)
	low(&v, p1.B2, padAB2)
	low(&v, p2.Up, padAUp2)
	low(&v, p2.Down, padADown2)
	return v
}

func (m *Machine) readPortB() byte {
	v := byte(0xFF)
	p2 := m.pads[1]
	low(&v, p2.Left, padBLeft2)
	low(&v, p2.Right, padBRight2)
	low(&v, p2.B1, padBB1)
	low(&v, p2.B2, padBB2)
	low(&v, m.resetBtn, padBReset)
	return v
}

func ignore(byte) {}

// connectPorts builds the Master System port map. Only A0, A6 and A7 are
// decoded, so every range mirrors one even/odd pair.
//
//	00-3F  memory/IO control (writes ignored, reads FF)
//	40-7F  V counter (even) / H counter (odd); writes would go to the PSG
//	80-BF  VDP data (even) / control (odd)
//	C0-FF  pad port A (even) / port B (odd)
func (m *Machine) connectPorts() {
	p := m.ports
	p.ConnectRange(0x00, 0x3F, func() byte { return 0xFF }, ignore)
	for n := 0x40; n < 0x80; n += 2 {
		p.Connect(byte(n), m.vdp.VCounter, ignore)
		p.Connect(byte(n+1), m.vdp.HCounter, ignore)
	}
	for n := 0x80; n < 0xC0; n += 2 {
		p.Connect(byte(n), m.vdp.ReadData, m.vdp.WriteData)
		p.Connect(byte(n+1), m.vdp.ReadControl, m.vdp.WriteControl)
	}
	for n := 0xC0; n < 0x100; n += 2 {
		p.Connect(byte(n), m.readPortA, ignore)
		p.Connect(byte(n+1), m.readPortB, ignore)
	}
}
