package cpu

import "fmt"

// String formats the register file on one line, for traces.
func (c *CPU) String() string {
	iff := 0
	if c.IFF1 {
		iff = 1
	}
	return fmt.Sprintf("PC=%04X AF=%04X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X IR=%04X IFF=%d IM=%d",
		c.PC, c.AF.Word(), c.BC.Word(), c.DE.Word(), c.HL.Word(), c.IX.Word(), c.IY.Word(), c.SP, c.IR.Word(), iff, c.IM)
}
