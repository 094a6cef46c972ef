package cpu

func (c *CPU) add8(a, b byte, carryIn bool) byte {
	ci := 0
	if carryIn {
		ci = 1
	}
	r := int(a) + int(b) + ci
	res := byte(r)
	c.setFlag(FlagS, res&0x80 != 0)
	c.setFlag(FlagZ, res == 0)
	c.setFlag(FlagH, int(a&0x0F)+int(b&0x0F)+ci > 0x0F)
	c.setFlag(FlagPV, (a^b)&0x80 == 0 && (a^res)&0x80 != 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagC, r > 0xFF)
	return res
}

func (c *CPU) sub8(a, b byte, carryIn bool) byte {
	ci := 0
	if carryIn {
		ci = 1
	}
	r := int(a) - int(b) - ci
	res := byte(r)
	c.setFlag(FlagS, res&0x80 != 0)
	c.setFlag(FlagZ, res == 0)
	c.setFlag(FlagH, int(a&0x0F) < int(b&0x0F)+ci)
	c.setFlag(FlagPV, (a^b)&0x80 != 0 && (a^res)&0x80 != 0)
	c.setFlag(FlagN, true)
	c.setFlag(FlagC, r < 0)
	return res
}

func (c *CPU) logic(res byte, h bool) byte {
	c.setSZP(res)
	c.setFlag(FlagH, h)
	c.setFlag(FlagN, false)
	c.setFlag(FlagC, false)
	return res
}

// alu applies one of the eight accumulator operations selected by bits 5..3
// of the opcode: ADD, ADC, SUB, SBC, AND, XOR, OR, CP.
func (c *CPU) alu(k byte, v byte) {
	a := c.AF.Hi
	switch k & 7 {
	case 0:
		c.AF.Hi = c.add8(a, v, false)
	case 1:
		c.AF.Hi = c.add8(a, v, c.flag(FlagC))
	case 2:
		c.AF.Hi = c.sub8(a, v, false)
	case 3:
		c.AF.Hi = c.sub8(a, v, c.flag(FlagC))
	case 4:
		c.AF.Hi = c.logic(a&v, true)
	case 5:
		c.AF.Hi = c.logic(a^v, false)
	case 6:
		c.AF.Hi = c.logic(a|v, false)
	case 7:
		c.sub8(a, v, false)
	}
}

// inc8 and dec8 leave C untouched.
func (c *CPU) inc8(v byte) byte {
	res := v + 1
	c.setFlag(FlagS, res&0x80 != 0)
	c.setFlag(FlagZ, res == 0)
	c.setFlag(FlagH, v&0x0F == 0x0F)
	c.setFlag(FlagPV, v == 0x7F)
	c.setFlag(FlagN, false)
	return res
}

func (c *CPU) dec8(v byte) byte {
	res := v - 1
	c.setFlag(FlagS, res&0x80 != 0)
	c.setFlag(FlagZ, res == 0)
	c.setFlag(FlagH, v&0x0F == 0)
	c.setFlag(FlagPV, v == 0x80)
	c.setFlag(FlagN, true)
	return res
}

// add16 is ADD HL/IX/IY,ss: only H, N and C change.
func (c *CPU) add16(a, b uint16) uint16 {
	r := uint32(a) + uint32(b)
	c.setFlag(FlagH, (a&0x0FFF)+(b&0x0FFF) > 0x0FFF)
	c.setFlag(FlagN, false)
	c.setFlag(FlagC, r > 0xFFFF)
	return uint16(r)
}

func (c *CPU) adc16(a, b uint16) uint16 {
	ci := uint32(0)
	if c.flag(FlagC) {
		ci = 1
	}
	r := uint32(a) + uint32(b) + ci
	res := uint16(r)
	c.setFlag(FlagS, res&0x8000 != 0)
	c.setFlag(FlagZ, res == 0)
	c.setFlag(FlagH, uint32(a&0x0FFF)+uint32(b&0x0FFF)+ci > 0x0FFF)
	c.setFlag(FlagPV, (a^b)&0x8000 == 0 && (a^res)&0x8000 != 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagC, r > 0xFFFF)
	return res
}

func (c *CPU) sbc16(a, b uint16) uint16 {
	ci := 0
	if c.flag(FlagC) {
		ci = 1
	}
	r := int(a) - int(b) - ci
	res := uint16(r)
	c.setFlag(FlagS, res&0x8000 != 0)
	c.setFlag(FlagZ, res == 0)
	c.setFlag(FlagH, int(a&0x0FFF) < int(b&0x0FFF)+ci)
	c.setFlag(FlagPV, (a^b)&0x8000 != 0 && (a^res)&0x8000 != 0)
	c.setFlag(FlagN, true)
	c.setFlag(FlagC, r < 0)
	return res
}

// daa corrects A after a BCD add or subtract.
func (c *CPU) daa() {
	a := c.AF.Hi
	var corr byte
	carry := c.flag(FlagC)
	if c.flag(FlagH) || a&0x0F > 9 {
		corr |= 0x06
	}
	if carry || a > 0x99 {
		corr |= 0x60
		carry = true
	}
	res := a + corr
	if c.flag(FlagN) {
		res = a - corr
	}
	c.setFlag(FlagH, (a^res)&0x10 != 0)
	c.setFlag(FlagC, carry)
	c.AF.Hi = res
	c.setSZP(res)
}

func (c *CPU) neg() {
	c.AF.Hi = c.sub8(0, c.AF.Hi, false)
}
