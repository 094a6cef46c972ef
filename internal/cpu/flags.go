package cpu

// Flag bits in F.
const (
	FlagC  byte = 1 << 0
	FlagN  byte = 1 << 1
	FlagPV byte = 1 << 2
	Flag3  byte = 1 << 3
	FlagH  byte = 1 << 4
	Flag5  byte = 1 << 5
	FlagZ  byte = 1 << 6
	FlagS  byte = 1 << 7
)

var parityTable = func() [256]bool {
	var t [256]bool
	for i := 0; i < 256; i++ {
		bits := 0
		for v := i; v != 0; v >>= 1 {
			bits += v & 1
		}
		t[i] = bits%2 == 0
	}
	return t
}()

func (c *CPU) flag(f byte) bool { return c.AF.Lo&f != 0 }

func (c *CPU) setFlag(f byte, on bool) {
	if on {
		c.AF.Lo |= f
	} else {
		c.AF.Lo &^= f
	}
}

// setSZP sets S, Z and PV (parity) from v. H, N and C are left alone.
func (c *CPU) setSZP(v byte) {
	c.setFlag(FlagS, v&0x80 != 0)
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagPV, parityTable[v])
}

// cond evaluates the 3-bit condition field: NZ,Z,NC,C,PO,PE,P,M.
func (c *CPU) cond(cc byte) bool {
	switch cc & 7 {
	case 0:
		return !c.flag(FlagZ)
	case 1:
		return c.flag(FlagZ)
	case 2:
		return !c.flag(FlagC)
	case 3:
		return c.flag(FlagC)
	case 4:
		return !c.flag(FlagPV)
	case 5:
		return c.flag(FlagPV)
	case 6:
		return !c.flag(FlagS)
	}
	return c.flag(FlagS)
}
