package cpu

// buildED fills the ED page. Keys left nil are reported as unknown opcodes.
func buildED(t *[256]opFunc) {
	for r := byte(0); r < 8; r++ {
		// IN r,(C); ED70 only updates flags.
		t[0x40|r<<3] = func(c *CPU, op byte) {
			v := c.in(c.BC.Word())
			if r := (op >> 3) & 7; r != 6 {
				*c.reg(r) = v
			}
			c.setSZP(v)
			c.setFlag(FlagH, false)
			c.setFlag(FlagN, false)
			c.tick(12)
		}
		// OUT (C),r; ED71 writes zero.
		t[0x41|r<<3] = func(c *CPU, op byte) {
			var v byte
			if r := (op >> 3) & 7; r != 6 {
				v = *c.reg(r)
			}
			c.out(c.BC.Word(), v)
			c.tick(12)
		}
		// NEG and its mirrors.
		t[0x44|r<<3] = func(c *CPU, _ byte) { c.neg(); c.tick(8) }
		// RETN, with RETI at ED4D.
		t[0x45|r<<3] = func(c *CPU, _ byte) {
			c.PC = c.pop16()
			c.IFF1 = c.IFF2
			c.tick(14)
		}
		t[0x46|r<<3] = func(c *CPU, op byte) {
			switch (op >> 3) & 3 {
			case 2:
				c.IM = IntMode1
			case 3:
				c.IM = IntMode2
			default:
				c.IM = IntMode0
			}
			c.tick(8)
		}
	}

	for p := byte(0); p < 4; p++ {
		t[0x42|p<<4] = func(c *CPU, op byte) { // SBC HL,ss
			c.HL.SetWord(c.sbc16(c.HL.Word(), c.getPair(op>>4)))
			c.tick(15)
		}
		t[0x4A|p<<4] = func(c *CPU, op byte) { // ADC HL,ss
			c.HL.SetWord(c.adc16(c.HL.Word(), c.getPair(op>>4)))
			c.tick(15)
		}
		t[0x43|p<<4] = func(c *CPU, op byte) { // LD (nn),dd
			c.write16(c.fetch16(), c.getPair(op>>4))
			c.tick(20)
		}
		t[0x4B|p<<4] = func(c *CPU, op byte) { // LD dd,(nn)
			c.setPair(op>>4, c.read16(c.fetch16()))
			c.tick(20)
		}
	}

	t[0x47] = func(c *CPU, _ byte) { c.IR.Hi = c.AF.Hi; c.tick(9) }
	t[0x4F] = func(c *CPU, _ byte) { c.IR.Lo = c.AF.Hi; c.tick(9) }
	t[0x57] = func(c *CPU, _ byte) { c.ldAIR(c.IR.Hi) }
	t[0x5F] = func(c *CPU, _ byte) { c.ldAIR(c.IR.Lo) }
	t[0x67] = func(c *CPU, _ byte) { c.rrd(); c.tick(18) }
	t[0x6F] = func(c *CPU, _ byte) { c.rld(); c.tick(18) }

	t[0xA0] = func(c *CPU, _ byte) { c.ldBlock(1); c.tick(16) }
	t[0xA8] = func(c *CPU, _ byte) { c.ldBlock(-1); c.tick(16) }
	t[0xB0] = func(c *CPU, _ byte) { c.repeat(c.ldBlock(1)) }
	t[0xB8] = func(c *CPU, _ byte) { c.repeat(c.ldBlock(-1)) }

	t[0xA1] = func(c *CPU, _ byte) { c.cpBlock(1); c.tick(16) }
	t[0xA9] = func(c *CPU, _ byte) { c.cpBlock(-1); c.tick(16) }
	t[0xB1] = func(c *CPU, _ byte) { c.repeat(c.cpBlock(1)) }
	t[0xB9] = func(c *CPU, _ byte) { c.repeat(c.cpBlock(-1)) }

	t[0xA2] = func(c *CPU, _ byte) { c.inBlock(1); c.tick(16) }
	t[0xAA] = func(c *CPU, _ byte) { c.inBlock(-1); c.tick(16) }
	t[0xB2] = func(c *CPU, _ byte) { c.repeat(c.inBlock(1)) }
	t[0xBA] = func(c *CPU, _ byte) { c.repeat(c.inBlock(-1)) }

	t[0xA3] = func(c *CPU, _ byte) { c.outBlock(1); c.tick(16) }
	t[0xAB] = func(c *CPU, _ byte) { c.outBlock(-1); c.tick(16) }
	t[0xB3] = func(c *CPU, _ byte) { c.repeat(c.outBlock(1)) }
	t[0xBB] = func(c *CPU, _ byte) { c.repeat(c.outBlock(-1)) }
}

func (c *CPU) ldAIR(v byte) {
	c.AF.Hi = v
	c.setFlag(FlagS, v&0x80 != 0)
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagH, false)
	c.setFlag(FlagPV, c.IFF2)
	c.setFlag(FlagN, false)
	c.tick(9)
}

// repeat finishes one iteration of a repeating block instruction. While the
// instruction has more work it rewinds PC onto itself and costs 21 T-states;
// the final iteration costs 16. Each iteration is its own Step so interrupts
// can be taken in between.
func (c *CPU) repeat(again bool) {
	if again {
		c.PC -= 2
		c.tick(21)
		return
	}
	c.tick(16)
}

// ldBlock is LDI (dir=1) or LDD (dir=-1). It reports whether BC is non-zero.
func (c *CPU) ldBlock(dir int) bool {
	hl, de := c.HL.Word(), c.DE.Word()
	c.write8(de, c.read8(hl))
	c.HL.SetWord(hl + uint16(dir))
	c.DE.SetWord(de + uint16(dir))
	bc := c.BC.Word() - 1
	c.BC.SetWord(bc)
	c.setFlag(FlagH, false)
	c.setFlag(FlagN, false)
	c.setFlag(FlagPV, bc != 0)
	return bc != 0
}

// cpBlock is CPI/CPD. It reports whether a repeat should continue:
// BC non-zero and no match yet.
func (c *CPU) cpBlock(dir int) bool {
	hl := c.HL.Word()
	v := c.read8(hl)
	a := c.AF.Hi
	res := a - v
	c.HL.SetWord(hl + uint16(dir))
	bc := c.BC.Word() - 1
	c.BC.SetWord(bc)
	c.setFlag(FlagS, res&0x80 != 0)
	c.setFlag(FlagZ, res == 0)
	c.setFlag(FlagH, a&0x0F < v&0x0F)
	c.setFlag(FlagPV, bc != 0)
	c.setFlag(FlagN, true)
	return bc != 0 && res != 0
}

// inBlock is INI/IND. B counts the transfers.
func (c *CPU) inBlock(dir int) bool {
	v := c.in(c.BC.Word())
	hl := c.HL.Word()
	c.write8(hl, v)
	c.HL.SetWord(hl + uint16(dir))
	c.BC.Hi--
	c.setFlag(FlagZ, c.BC.Hi == 0)
	c.setFlag(FlagN, true)
	return c.BC.Hi != 0
}

// outBlock is OUTI/OUTD. B is decremented before it is put on the bus.
func (c *CPU) outBlock(dir int) bool {
	hl := c.HL.Word()
	v := c.read8(hl)
	c.BC.Hi--
	c.out(c.BC.Word(), v)
	c.HL.SetWord(hl + uint16(dir))
	c.setFlag(FlagZ, c.BC.Hi == 0)
	c.setFlag(FlagN, true)
	return c.BC.Hi != 0
}
