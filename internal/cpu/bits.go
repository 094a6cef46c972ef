package cpu

// rot applies the CB-page shift selected by bits 5..3: RLC, RRC, RL, RR,
// SLA, SRA, SLL, SRL. S, Z and P come from the result, H and N are cleared.
func (c *CPU) rot(k byte, v byte) byte {
	var res byte
	var carry bool
	switch k & 7 {
	case 0: // RLC
		carry = v&0x80 != 0
		res = v<<1 | v>>7
	case 1: // RRC
		carry = v&0x01 != 0
		res = v>>1 | v<<7
	case 2: // RL
		carry = v&0x80 != 0
		res = v << 1
		if c.flag(FlagC) {
			res |= 1
		}
	case 3: // RR
		carry = v&0x01 != 0
		res = v >> 1
		if c.flag(FlagC) {
			res |= 0x80
		}
	case 4: // SLA
		carry = v&0x80 != 0
		res = v << 1
	case 5: // SRA
		carry = v&0x01 != 0
		res = v>>1 | v&0x80
	case 6: // SLL: undocumented, bit 0 forced to 1
		carry = v&0x80 != 0
		res = v<<1 | 1
	case 7: // SRL
		carry = v&0x01 != 0
		res = v >> 1
	}
	c.setSZP(res)
	c.setFlag(FlagH, false)
	c.setFlag(FlagN, false)
	c.setFlag(FlagC, carry)
	return res
}

// rotA is the accumulator-only family (RLCA, RRCA, RLA, RRA): only C
// changes, H and N are cleared.
func (c *CPU) rotA(k byte) {
	a := c.AF.Hi
	var carry bool
	switch k & 3 {
	case 0:
		carry = a&0x80 != 0
		a = a<<1 | a>>7
	case 1:
		carry = a&0x01 != 0
		a = a>>1 | a<<7
	case 2:
		carry = a&0x80 != 0
		a <<= 1
		if c.flag(FlagC) {
			a |= 1
		}
	case 3:
		carry = a&0x01 != 0
		a >>= 1
		if c.flag(FlagC) {
			a |= 0x80
		}
	}
	c.AF.Hi = a
	c.setFlag(FlagH, false)
	c.setFlag(FlagN, false)
	c.setFlag(FlagC, carry)
}

func (c *CPU) bit(n byte, v byte) {
	set := v&(1<<n) != 0
	c.setFlag(FlagZ, !set)
	c.setFlag(FlagPV, !set)
	c.setFlag(FlagS, n == 7 && set)
	c.setFlag(FlagH, true)
	c.setFlag(FlagN, false)
}

// rld and rrd rotate BCD digits between A and (HL).
func (c *CPU) rld() {
	addr := c.HL.Word()
	m := c.read8(addr)
	a := c.AF.Hi
	c.write8(addr, m<<4|a&0x0F)
	c.AF.Hi = a&0xF0 | m>>4
	c.rdFlags()
}

func (c *CPU) rrd() {
	addr := c.HL.Word()
	m := c.read8(addr)
	a := c.AF.Hi
	c.write8(addr, a<<4|m>>4)
	c.AF.Hi = a&0xF0 | m&0x0F
	c.rdFlags()
}

func (c *CPU) rdFlags() {
	c.setSZP(c.AF.Hi)
	c.setFlag(FlagH, false)
	c.setFlag(FlagN, false)
}

// buildCB fills the CB page: x=op>>6 selects rotate, BIT, RES or SET,
// y=(op>>3)&7 the operation or bit number and z=op&7 the operand.
func buildCB(t *[256]opFunc) {
	for op := 0; op < 256; op++ {
		x, z := byte(op>>6), byte(op&7)
		mem := z == 6
		switch x {
		case 0:
			if mem {
				t[op] = func(c *CPU, op byte) {
					addr := c.HL.Word()
					c.write8(addr, c.rot(op>>3, c.read8(addr)))
					c.tick(15)
				}
			} else {
				t[op] = func(c *CPU, op byte) {
					r := c.reg(op & 7)
					*r = c.rot(op>>3, *r)
					c.tick(8)
				}
			}
		case 1:
			if mem {
				t[op] = func(c *CPU, op byte) {
					c.bit((op>>3)&7, c.read8(c.HL.Word()))
					c.tick(12)
				}
			} else {
				t[op] = func(c *CPU, op byte) {
					c.bit((op>>3)&7, *c.reg(op & 7))
					c.tick(8)
				}
			}
		default:
			if mem {
				t[op] = func(c *CPU, op byte) {
					addr := c.HL.Word()
					c.write8(addr, setRes(op, c.read8(addr)))
					c.tick(15)
				}
			} else {
				t[op] = func(c *CPU, op byte) {
					r := c.reg(op & 7)
					*r = setRes(op, *r)
					c.tick(8)
				}
			}
		}
	}
}

// setRes is RES (x=2) or SET (x=3) of bit y.
func setRes(op byte, v byte) byte {
	mask := byte(1) << ((op >> 3) & 7)
	if op>>6 == 2 {
		return v &^ mask
	}
	return v | mask
}

// buildIndexCB fills the DDCB/FDCB page. The displacement has already been
// fetched into c.disp. Forms with z != 6 also copy the result into register z.
func buildIndexCB(t *[256]opFunc, sel func(*CPU) *Pair) {
	for op := 0; op < 256; op++ {
		x := byte(op >> 6)
		if x == 1 {
			t[op] = func(c *CPU, op byte) {
				addr := sel(c).Word() + uint16(int16(c.disp))
				c.bit((op>>3)&7, c.read8(addr))
				c.tick(20)
			}
			continue
		}
		t[op] = func(c *CPU, op byte) {
			addr := sel(c).Word() + uint16(int16(c.disp))
			v := c.read8(addr)
			if op>>6 == 0 {
				v = c.rot(op>>3, v)
			} else {
				v = setRes(op, v)
			}
			c.write8(addr, v)
			if z := op & 7; z != 6 {
				*c.reg(z) = v
			}
			c.tick(23)
		}
	}
}
