package cpu

// buildBase fills the unprefixed page.
func buildBase(t *[256]opFunc) {
	t[0x00] = func(c *CPU, _ byte) { c.tick(4) }

	// LD r,r' / LD r,(HL) / LD (HL),r
	for op := 0x40; op < 0x80; op++ {
		dst, src := byte(op>>3)&7, byte(op)&7
		switch {
		case op == 0x76:
			t[op] = opHalt
		case src == 6:
			t[op] = func(c *CPU, op byte) {
				*c.reg((op >> 3) & 7) = c.read8(c.HL.Word())
				c.tick(7)
			}
		case dst == 6:
			t[op] = func(c *CPU, op byte) {
				c.write8(c.HL.Word(), *c.reg(op & 7))
				c.tick(7)
			}
		default:
			t[op] = func(c *CPU, op byte) {
				*c.reg((op >> 3) & 7) = *c.reg(op & 7)
				c.tick(4)
			}
		}
	}

	for r := byte(0); r < 8; r++ {
		// LD r,n
		ldn := 0x06 | r<<3
		if r == 6 {
			t[ldn] = func(c *CPU, _ byte) {
				c.write8(c.HL.Word(), c.fetch8())
				c.tick(10)
			}
		} else {
			t[ldn] = func(c *CPU, op byte) {
				*c.reg((op >> 3) & 7) = c.fetch8()
				c.tick(7)
			}
		}

		// INC r / DEC r
		inc, dec := 0x04|r<<3, 0x05|r<<3
		if r == 6 {
			t[inc] = func(c *CPU, _ byte) {
				addr := c.HL.Word()
				c.write8(addr, c.inc8(c.read8(addr)))
				c.tick(11)
			}
			t[dec] = func(c *CPU, _ byte) {
				addr := c.HL.Word()
				c.write8(addr, c.dec8(c.read8(addr)))
				c.tick(11)
			}
		} else {
			t[inc] = func(c *CPU, op byte) {
				p := c.reg((op >> 3) & 7)
				*p = c.inc8(*p)
				c.tick(4)
			}
			t[dec] = func(c *CPU, op byte) {
				p := c.reg((op >> 3) & 7)
				*p = c.dec8(*p)
				c.tick(4)
			}
		}

		// ALU A,n and RST p share the loop index as y.
		t[0xC6|r<<3] = func(c *CPU, op byte) {
			c.alu(op>>3, c.fetch8())
			c.tick(7)
		}
		t[0xC7|r<<3] = func(c *CPU, op byte) {
			c.push16(c.PC)
			c.PC = uint16(op & 0x38)
			c.tick(11)
		}

		// Conditional RET, JP, CALL.
		t[0xC0|r<<3] = func(c *CPU, op byte) {
			if c.cond(op >> 3) {
				c.PC = c.pop16()
				c.tick(11)
				return
			}
			c.tick(5)
		}
		t[0xC2|r<<3] = func(c *CPU, op byte) {
			nn := c.fetch16()
			if c.cond(op >> 3) {
				c.PC = nn
			}
			c.tick(10)
		}
		t[0xC4|r<<3] = func(c *CPU, op byte) {
			nn := c.fetch16()
			if c.cond(op >> 3) {
				c.push16(c.PC)
				c.PC = nn
				c.tick(17)
				return
			}
			c.tick(10)
		}
	}

	// ALU A,r / ALU A,(HL)
	for op := 0x80; op < 0xC0; op++ {
		if op&7 == 6 {
			t[op] = func(c *CPU, op byte) {
				c.alu(op>>3, c.read8(c.HL.Word()))
				c.tick(7)
			}
			continue
		}
		t[op] = func(c *CPU, op byte) {
			c.alu(op>>3, *c.reg(op & 7))
			c.tick(4)
		}
	}

	for p := byte(0); p < 4; p++ {
		t[0x01|p<<4] = func(c *CPU, op byte) { // LD dd,nn
			c.setPair(op>>4, c.fetch16())
			c.tick(10)
		}
		t[0x03|p<<4] = func(c *CPU, op byte) { // INC ss
			c.setPair(op>>4, c.getPair(op>>4)+1)
			c.tick(6)
		}
		t[0x0B|p<<4] = func(c *CPU, op byte) { // DEC ss
			c.setPair(op>>4, c.getPair(op>>4)-1)
			c.tick(6)
		}
		t[0x09|p<<4] = func(c *CPU, op byte) { // ADD HL,ss
			c.HL.SetWord(c.add16(c.HL.Word(), c.getPair(op>>4)))
			c.tick(11)
		}
		t[0xC1|p<<4] = func(c *CPU, op byte) { // POP qq
			c.stackPair(op >> 4).SetWord(c.pop16())
			c.tick(10)
		}
		t[0xC5|p<<4] = func(c *CPU, op byte) { // PUSH qq
			c.push16(c.stackPair(op >> 4).Word())
			c.tick(11)
		}
	}

	// Accumulator loads through BC/DE/(nn).
	t[0x02] = func(c *CPU, _ byte) { c.write8(c.BC.Word(), c.AF.Hi); c.tick(7) }
	t[0x12] = func(c *CPU, _ byte) { c.write8(c.DE.Word(), c.AF.Hi); c.tick(7) }
	t[0x0A] = func(c *CPU, _ byte) { c.AF.Hi = c.read8(c.BC.Word()); c.tick(7) }
	t[0x1A] = func(c *CPU, _ byte) { c.AF.Hi = c.read8(c.DE.Word()); c.tick(7) }
	t[0x32] = func(c *CPU, _ byte) { c.write8(c.fetch16(), c.AF.Hi); c.tick(13) }
	t[0x3A] = func(c *CPU, _ byte) { c.AF.Hi = c.read8(c.fetch16()); c.tick(13) }
	t[0x22] = func(c *CPU, _ byte) { c.write16(c.fetch16(), c.HL.Word()); c.tick(16) }
	t[0x2A] = func(c *CPU, _ byte) { c.HL.SetWord(c.read16(c.fetch16())); c.tick(16) }

	// Accumulator rotates and flag ops.
	t[0x07] = func(c *CPU, _ byte) { c.rotA(0); c.tick(4) }
	t[0x0F] = func(c *CPU, _ byte) { c.rotA(1); c.tick(4) }
	t[0x17] = func(c *CPU, _ byte) { c.rotA(2); c.tick(4) }
	t[0x1F] = func(c *CPU, _ byte) { c.rotA(3); c.tick(4) }
	t[0x27] = func(c *CPU, _ byte) { c.daa(); c.tick(4) }
	t[0x2F] = func(c *CPU, _ byte) {
		c.AF.Hi = ^c.AF.Hi
		c.setFlag(FlagH, true)
		c.setFlag(FlagN, true)
		c.tick(4)
	}
	t[0x37] = func(c *CPU, _ byte) {
		c.setFlag(FlagC, true)
		c.setFlag(FlagH, false)
		c.setFlag(FlagN, false)
		c.tick(4)
	}
	t[0x3F] = func(c *CPU, _ byte) {
		cy := c.flag(FlagC)
		c.setFlag(FlagH, cy)
		c.setFlag(FlagC, !cy)
		c.setFlag(FlagN, false)
		c.tick(4)
	}

	// Exchanges.
	t[0x08] = func(c *CPU, _ byte) { c.AF, c.AF_ = c.AF_, c.AF; c.tick(4) }
	t[0xD9] = func(c *CPU, _ byte) {
		c.BC, c.BC_ = c.BC_, c.BC
		c.DE, c.DE_ = c.DE_, c.DE
		c.HL, c.HL_ = c.HL_, c.HL
		c.tick(4)
	}
	t[0xEB] = func(c *CPU, _ byte) { c.DE, c.HL = c.HL, c.DE; c.tick(4) }
	t[0xE3] = func(c *CPU, _ byte) {
		v := c.read16(c.SP)
		c.write16(c.SP, c.HL.Word())
		c.HL.SetWord(v)
		c.tick(19)
	}
	t[0xF9] = func(c *CPU, _ byte) { c.SP = c.HL.Word(); c.tick(6) }

	// Jumps, calls, returns.
	t[0xC3] = func(c *CPU, _ byte) { c.PC = c.fetch16(); c.tick(10) }
	t[0xE9] = func(c *CPU, _ byte) { c.PC = c.HL.Word(); c.tick(4) }
	t[0x18] = func(c *CPU, _ byte) {
		d := int8(c.fetch8())
		c.PC += uint16(int16(d))
		c.tick(12)
	}
	for cc := byte(0); cc < 4; cc++ {
		t[0x20|cc<<3] = func(c *CPU, op byte) { // JR NZ/Z/NC/C
			d := int8(c.fetch8())
			if c.cond((op >> 3) & 3) {
				c.PC += uint16(int16(d))
				c.tick(12)
				return
			}
			c.tick(7)
		}
	}
	t[0x10] = func(c *CPU, _ byte) { // DJNZ
		d := int8(c.fetch8())
		c.BC.Hi--
		if c.BC.Hi != 0 {
			c.PC += uint16(int16(d))
			c.tick(13)
			return
		}
		c.tick(8)
	}
	t[0xCD] = func(c *CPU, _ byte) {
		nn := c.fetch16()
		c.push16(c.PC)
		c.PC = nn
		c.tick(17)
	}
	t[0xC9] = func(c *CPU, _ byte) { c.PC = c.pop16(); c.tick(10) }

	// I/O with an immediate port; A supplies the high address byte.
	t[0xD3] = func(c *CPU, _ byte) {
		n := c.fetch8()
		c.out(uint16(c.AF.Hi)<<8|uint16(n), c.AF.Hi)
		c.tick(11)
	}
	t[0xDB] = func(c *CPU, _ byte) {
		n := c.fetch8()
		c.AF.Hi = c.in(uint16(c.AF.Hi)<<8 | uint16(n))
		c.tick(11)
	}

	// CPU control.
	t[0xF3] = func(c *CPU, _ byte) {
		c.IFF1, c.IFF2 = false, false
		c.tick(4)
	}
	t[0xFB] = opEI
}

func opHalt(c *CPU, _ byte) {
	c.halted = true
	c.tick(4)
}

// opEI defers the flip-flops to the end of the next Step.
func opEI(c *CPU, _ byte) {
	c.eiPending = true
	c.tick(4)
}
