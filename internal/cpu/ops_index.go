package cpu

// buildIndex fills the DD or FD page. sel picks IX or IY. Opcodes that do not
// involve HL, H, L or (HL) are duplicates of the unprefixed instruction: the
// prefix is dropped by stepping PC back onto the opcode byte, and the next
// Step executes it.
func buildIndex(t *[256]opFunc, sel func(*CPU) *Pair) {
	// LD r,r' with IXh/IXl in place of H/L, and the (IX+d) forms which use
	// the real H and L.
	for op := 0x40; op < 0x80; op++ {
		dst, src := byte(op>>3)&7, byte(op)&7
		switch {
		case op == 0x76:
			// HALT is a duplicate.
		case src == 6:
			t[op] = func(c *CPU, op byte) {
				*c.reg((op >> 3) & 7) = c.read8(c.indexAddr(sel(c)))
				c.tick(19)
			}
		case dst == 6:
			t[op] = func(c *CPU, op byte) {
				c.write8(c.indexAddr(sel(c)), *c.reg(op & 7))
				c.tick(19)
			}
		case dst == 4 || dst == 5 || src == 4 || src == 5:
			t[op] = func(c *CPU, op byte) {
				idx := sel(c)
				*c.regIdx((op>>3)&7, idx) = *c.regIdx(op&7, idx)
				c.tick(8)
			}
		}
	}

	for op := 0x80; op < 0xC0; op++ {
		switch op & 7 {
		case 6:
			t[op] = func(c *CPU, op byte) {
				c.alu(op>>3, c.read8(c.indexAddr(sel(c))))
				c.tick(19)
			}
		case 4, 5:
			t[op] = func(c *CPU, op byte) {
				c.alu(op>>3, *c.regIdx(op&7, sel(c)))
				c.tick(8)
			}
		}
	}

	for _, r := range []byte{4, 5} {
		t[0x04|r<<3] = func(c *CPU, op byte) {
			p := c.regIdx((op>>3)&7, sel(c))
			*p = c.inc8(*p)
			c.tick(8)
		}
		t[0x05|r<<3] = func(c *CPU, op byte) {
			p := c.regIdx((op>>3)&7, sel(c))
			*p = c.dec8(*p)
			c.tick(8)
		}
		t[0x06|r<<3] = func(c *CPU, op byte) {
			*c.regIdx((op>>3)&7, sel(c)) = c.fetch8()
			c.tick(11)
		}
	}

	t[0x34] = func(c *CPU, _ byte) {
		addr := c.indexAddr(sel(c))
		c.write8(addr, c.inc8(c.read8(addr)))
		c.tick(23)
	}
	t[0x35] = func(c *CPU, _ byte) {
		addr := c.indexAddr(sel(c))
		c.write8(addr, c.dec8(c.read8(addr)))
		c.tick(23)
	}
	t[0x36] = func(c *CPU, _ byte) {
		addr := c.indexAddr(sel(c))
		c.write8(addr, c.fetch8())
		c.tick(19)
	}

	// ADD IX,pp where pp is BC, DE, IX, SP.
	for p := byte(0); p < 4; p++ {
		t[0x09|p<<4] = func(c *CPU, op byte) {
			idx := sel(c)
			v := c.getPair(op >> 4)
			if op == 0x29 {
				v = idx.Word()
			}
			idx.SetWord(c.add16(idx.Word(), v))
			c.tick(15)
		}
	}

	t[0x21] = func(c *CPU, _ byte) { sel(c).SetWord(c.fetch16()); c.tick(14) }
	t[0x22] = func(c *CPU, _ byte) { c.write16(c.fetch16(), sel(c).Word()); c.tick(20) }
	t[0x2A] = func(c *CPU, _ byte) { sel(c).SetWord(c.read16(c.fetch16())); c.tick(20) }
	t[0x23] = func(c *CPU, _ byte) { idx := sel(c); idx.SetWord(idx.Word() + 1); c.tick(10) }
	t[0x2B] = func(c *CPU, _ byte) { idx := sel(c); idx.SetWord(idx.Word() - 1); c.tick(10) }
	t[0xE1] = func(c *CPU, _ byte) { sel(c).SetWord(c.pop16()); c.tick(14) }
	t[0xE5] = func(c *CPU, _ byte) { c.push16(sel(c).Word()); c.tick(15) }
	t[0xE9] = func(c *CPU, _ byte) { c.PC = sel(c).Word(); c.tick(8) }
	t[0xF9] = func(c *CPU, _ byte) { c.SP = sel(c).Word(); c.tick(10) }
	t[0xE3] = func(c *CPU, _ byte) {
		idx := sel(c)
		v := c.read16(c.SP)
		c.write16(c.SP, idx.Word())
		idx.SetWord(v)
		c.tick(23)
	}

	for op := 0; op < 256; op++ {
		if t[op] == nil && op != 0xCB {
			t[op] = opDuplicate
		}
	}
}

// opDuplicate discards the index prefix. It costs nothing itself.
func opDuplicate(c *CPU, _ byte) {
	c.PC--
}
