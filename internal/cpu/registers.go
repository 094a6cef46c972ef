package cpu

// Pair is a 16-bit register made of two independently addressable halves.
// The 16-bit view is always composed from Hi and Lo.
type Pair struct {
	Hi, Lo byte
}

func (p Pair) Word() uint16 { return uint16(p.Hi)<<8 | uint16(p.Lo) }

func (p *Pair) SetWord(v uint16) {
	p.Hi = byte(v >> 8)
	p.Lo = byte(v)
}

// Registers is the Z80 register file. I lives in IR.Hi and R in IR.Lo.
type Registers struct {
	AF, BC, DE, HL     Pair
	AF_, BC_, DE_, HL_ Pair
	IX, IY             Pair
	IR                 Pair

	SP uint16
	PC uint16
}

func (r *Registers) A() byte { return r.AF.Hi }
func (r *Registers) F() byte { return r.AF.Lo }

// reset puts every pair in its power-on state (all ones).
func (r *Registers) reset() {
	for _, p := range []*Pair{&r.AF, &r.BC, &r.DE, &r.HL, &r.AF_, &r.BC_, &r.DE_, &r.HL_, &r.IX, &r.IY} {
		p.SetWord(0xFFFF)
	}
	r.IR = Pair{}
	r.SP = 0xFFFF
	r.PC = 0
}

// reg returns a pointer to the 8-bit register selected by the usual
// 3-bit opcode field (B,C,D,E,H,L,-,A). Index 6 is (HL) and handled by callers.
func (r *Registers) reg(i byte) *byte {
	switch i {
	case 0:
		return &r.BC.Hi
	case 1:
		return &r.BC.Lo
	case 2:
		return &r.DE.Hi
	case 3:
		return &r.DE.Lo
	case 4:
		return &r.HL.Hi
	case 5:
		return &r.HL.Lo
	case 7:
		return &r.AF.Hi
	}
	panic("cpu: register index 6 is memory")
}

// regIdx is reg with H and L replaced by the halves of an index register.
func (r *Registers) regIdx(i byte, idx *Pair) *byte {
	switch i {
	case 4:
		return &idx.Hi
	case 5:
		return &idx.Lo
	}
	return r.reg(i)
}

// pair returns BC, DE, HL or SP for the 2-bit dd/ss field.
// SP has no Pair, so callers use getPair/setPair.
func (r *Registers) getPair(i byte) uint16 {
	switch i & 3 {
	case 0:
		return r.BC.Word()
	case 1:
		return r.DE.Word()
	case 2:
		return r.HL.Word()
	}
	return r.SP
}

func (r *Registers) setPair(i byte, v uint16) {
	switch i & 3 {
	case 0:
		r.BC.SetWord(v)
	case 1:
		r.DE.SetWord(v)
	case 2:
		r.HL.SetWord(v)
	default:
		r.SP = v
	}
}

// stackPair is pair with AF in place of SP (PUSH/POP encoding).
func (r *Registers) stackPair(i byte) *Pair {
	switch i & 3 {
	case 0:
		return &r.BC
	case 1:
		return &r.DE
	case 2:
		return &r.HL
	}
	return &r.AF
}
