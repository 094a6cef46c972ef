package cpu

// Memory is the 64 KiB logical address space seen by the CPU.
// Banking is entirely the implementation's business.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// IO is the port bus used by IN/OUT. The full 16-bit address is passed
// (A or B in the high byte); port tables usually decode only the low byte.
type IO interface {
	ReadPort(port uint16) (byte, error)
	WritePort(port uint16, value byte) error
}

type IntMode byte

const (
	IntMode0 IntMode = iota
	IntMode1
	IntMode2
)

const (
	nmiVector = 0x0066
	intVector = 0x0038
)

// CPU is a Z80 interpreter. One Step executes one instruction (or accepts
// one interrupt) and reports the T-states it took.
type CPU struct {
	Registers

	IFF1, IFF2 bool
	IM         IntMode

	// Set by the driver; cleared when the interrupt is accepted.
	NMIPending bool
	INTPending bool

	// TStates counts elapsed cycles. Callers may reset it.
	TStates uint64

	halted    bool
	eiPending bool  // EI ran; IFFs are set after the next instruction
	disp      int8  // displacement of the DDCB/FDCB form being executed
	err       error // port failure raised by the running handler

	mem Memory
	io  IO
}

// New creates a CPU in its power-on state.
func New(mem Memory, io IO) *CPU {
	c := &CPU{mem: mem, io: io}
	c.Reset()
	return c
}

// Reset reinitialises the register file and interrupt state. TStates is kept.
func (c *CPU) Reset() {
	c.Registers.reset()
	c.IFF1, c.IFF2 = false, false
	c.IM = IntMode0
	c.NMIPending, c.INTPending = false, false
	c.halted = false
	c.eiPending = false
	c.err = nil
}

// Halted reports whether a HALT is parking the CPU.
func (c *CPU) Halted() bool { return c.halted }

// SetPC allows tests or a loader to set the program counter.
func (c *CPU) SetPC(pc uint16) { c.PC = pc }

// Memory exposes the memory the CPU runs against, for tools and tests.
func (c *CPU) Memory() Memory { return c.mem }

// Step executes one instruction. Accepting an interrupt counts as a step and
// costs no cycles. An UnknownOpcodeError or a port error stops the stream;
// the CPU has to be reset before it is stepped again.
func (c *CPU) Step() (uint32, error) {
	if c.eiPending {
		// No interrupt is accepted between EI and the instruction after it.
		c.eiPending = false
		start := c.TStates
		err := c.execute()
		c.IFF1, c.IFF2 = true, true
		return uint32(c.TStates - start), err
	}
	if c.NMIPending {
		c.halted = false
		c.push16(c.PC)
		c.PC = nmiVector
		c.IFF1 = false
		c.NMIPending = false
		return 0, nil
	}
	if c.INTPending && c.IM == IntMode1 && c.IFF1 {
		c.halted = false
		c.push16(c.PC)
		c.PC = intVector
		c.IFF1, c.IFF2 = false, false
		c.INTPending = false
		return 0, nil
	}
	if c.halted {
		c.TStates += 4
		return 4, nil
	}

	start := c.TStates
	err := c.execute()
	return uint32(c.TStates - start), err
}

// execute fetches, decodes and runs one instruction without sampling interrupts.
func (c *CPU) execute() error {
	pc := c.PC
	key := opKey{op: c.fetchOpcode()}
	switch key.op {
	case 0xCB:
		key = opKey{prefix: PrefixCB, op: c.fetchOpcode()}
	case 0xED:
		key = opKey{prefix: PrefixED, op: c.fetchOpcode()}
	case 0xDD, 0xFD:
		idx := PrefixDD
		if key.op == 0xFD {
			idx = PrefixFD
		}
		key = opKey{prefix: idx, op: c.fetchOpcode()}
		if key.op == 0xCB {
			c.disp = int8(c.fetch8())
			bit := PrefixDDCB
			if idx == PrefixFD {
				bit = PrefixFDCB
			}
			key = opKey{prefix: bit, op: c.fetch8()}
		}
	}

	h := dispatch[key.prefix][key.op]
	if h == nil {
		return &UnknownOpcodeError{Opcode: key.code(), PC: pc}
	}
	c.err = nil
	h(c, key.op)
	return c.err
}

func (c *CPU) tick(n uint64) { c.TStates += n }

func (c *CPU) read8(addr uint16) byte     { return c.mem.Read(addr) }
func (c *CPU) write8(addr uint16, v byte) { c.mem.Write(addr, v) }

// fetchOpcode reads an opcode byte and bumps the 7-bit refresh counter.
func (c *CPU) fetchOpcode() byte {
	c.IR.Lo = c.IR.Lo&0x80 | (c.IR.Lo+1)&0x7F
	return c.fetch8()
}

func (c *CPU) fetch8() byte {
	b := c.read8(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch8())
	hi := uint16(c.fetch8())
	return lo | hi<<8
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := uint16(c.read8(addr))
	hi := uint16(c.read8(addr + 1))
	return lo | hi<<8
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.write8(addr, byte(v))
	c.write8(addr+1, byte(v>>8))
}

// push16 stores the high byte first, at SP-1, then the low byte at SP-2.
func (c *CPU) push16(v uint16) {
	c.SP--
	c.write8(c.SP, byte(v>>8))
	c.SP--
	c.write8(c.SP, byte(v))
}

func (c *CPU) pop16() uint16 {
	v := c.read16(c.SP)
	c.SP += 2
	return v
}

// indexAddr is IX+d or IY+d for the displacement byte at PC.
func (c *CPU) indexAddr(idx *Pair) uint16 {
	d := int8(c.fetch8())
	return idx.Word() + uint16(int16(d))
}

func (c *CPU) in(port uint16) byte {
	v, err := c.io.ReadPort(port)
	if err != nil && c.err == nil {
		c.err = err
	}
	return v
}

func (c *CPU) out(port uint16, v byte) {
	if err := c.io.WritePort(port, v); err != nil && c.err == nil {
		c.err = err
	}
}
