package cpu

import (
	"errors"
	"testing"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/bus"
)

func newCPUWithProgram(code []byte) (*CPU, *bus.RAM, *bus.Ports) {
	ram := bus.NewRAM()
	ram.Load(0, code)
	ports := bus.NewPorts()
	c := New(ram, ports)
	c.SP = 0xDFF0
	return c, ram, ports
}

func mustStep(t *testing.T, c *CPU) uint32 {
	t.Helper()
	cyc, err := c.Step()
	if err != nil {
		t.Fatalf("Step at %04x: %v", c.PC, err)
	}
	return cyc
}

func TestCPU_NopAndPC(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0x00})
	if cycles := mustStep(t, c); cycles != 4 {
		t.Fatalf("NOP cycles got %d want 4", cycles)
	}
	if c.PC != 1 {
		t.Fatalf("PC after NOP got %#04x want 0x0001", c.PC)
	}
}

func TestCPU_ResetState(t *testing.T) {
	c, _, _ := newCPUWithProgram(nil)
	c.IFF1, c.IM, c.halted = true, IntMode1, true
	c.Reset()
	if c.AF.Word() != 0xFFFF || c.IX.Word() != 0xFFFF || c.PC != 0 {
		t.Fatalf("reset regs AF=%04x IX=%04x PC=%04x", c.AF.Word(), c.IX.Word(), c.PC)
	}
	if c.IFF1 || c.IFF2 || c.IM != IntMode0 || c.Halted() {
		t.Fatalf("reset interrupt state IFF1=%t IFF2=%t IM=%d halted=%t", c.IFF1, c.IFF2, c.IM, c.Halted())
	}
}

func TestCPU_LDAddScenario(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0x3E, 0x05, 0xC6, 0x03}) // LD A,5; ADD A,3
	c.TStates = 0
	mustStep(t, c)
	mustStep(t, c)
	if c.A() != 8 {
		t.Fatalf("A got %02x want 08", c.A())
	}
	if c.flag(FlagZ) || c.flag(FlagC) {
		t.Fatalf("flags got %08b, want Z and C clear", c.F())
	}
	if c.TStates != 14 {
		t.Fatalf("TStates got %d want 14", c.TStates)
	}
}

func TestCPU_HaltThenInterrupt(t *testing.T) {
	c, ram, _ := newCPUWithProgram([]byte{0x76}) // HALT
	c.IFF1, c.IFF2 = true, true
	c.IM = IntMode1
	mustStep(t, c) // HALT
	if !c.Halted() || c.PC != 1 {
		t.Fatalf("after HALT halted=%t PC=%04x", c.Halted(), c.PC)
	}

	if cyc := mustStep(t, c); cyc != 4 || c.PC != 1 {
		t.Fatalf("halted step cycles=%d PC=%04x, want 4 and 0001", cyc, c.PC)
	}

	c.INTPending = true
	sp := c.SP
	if cyc := mustStep(t, c); cyc != 0 {
		t.Fatalf("interrupt accept cycles got %d want 0", cyc)
	}
	if c.PC != 0x38 || c.Halted() || c.IFF1 || c.IFF2 || c.INTPending {
		t.Fatalf("after INT PC=%04x halted=%t IFF1=%t IFF2=%t pending=%t", c.PC, c.Halted(), c.IFF1, c.IFF2, c.INTPending)
	}
	if c.SP != sp-2 || ram.Read(c.SP) != 0x01 || ram.Read(c.SP+1) != 0x00 {
		t.Fatalf("pushed return got SP=%04x [%02x %02x]", c.SP, ram.Read(c.SP), ram.Read(c.SP+1))
	}
}

func TestCPU_InterruptIgnoredWhenDisabledOrOtherMode(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0x00, 0x00})
	c.INTPending = true
	c.IM = IntMode1
	mustStep(t, c)
	if c.PC != 1 {
		t.Fatalf("IFF1 clear: PC got %04x want 0001", c.PC)
	}
	c.IFF1 = true
	c.IM = IntMode2
	mustStep(t, c)
	if c.PC != 2 || !c.INTPending {
		t.Fatalf("IM 2: PC=%04x pending=%t, want 0002 and still pending", c.PC, c.INTPending)
	}
}

func TestCPU_NMI(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0x76})
	c.IFF1, c.IFF2 = true, true
	mustStep(t, c)
	c.NMIPending = true
	if cyc := mustStep(t, c); cyc != 0 {
		t.Fatalf("NMI cycles got %d want 0", cyc)
	}
	if c.PC != 0x66 || c.IFF1 || !c.IFF2 || c.Halted() || c.NMIPending {
		t.Fatalf("after NMI PC=%04x IFF1=%t IFF2=%t halted=%t", c.PC, c.IFF1, c.IFF2, c.Halted())
	}
}

func TestCPU_RETNRestoresIFF1(t *testing.T) {
	c, ram, _ := newCPUWithProgram([]byte{0x00})
	ram.Load(0x66, []byte{0xED, 0x45}) // RETN
	c.IFF1, c.IFF2 = true, true
	c.NMIPending = true
	mustStep(t, c)
	if cyc := mustStep(t, c); cyc != 14 {
		t.Fatalf("RETN cycles got %d want 14", cyc)
	}
	if c.PC != 0 || !c.IFF1 {
		t.Fatalf("after RETN PC=%04x IFF1=%t", c.PC, c.IFF1)
	}
}

func TestCPU_EIDelaysOneInstruction(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0xFB, 0x00, 0x00}) // EI; NOP; NOP
	c.IM = IntMode1
	c.INTPending = true
	if cyc := mustStep(t, c); cyc != 4 || c.PC != 1 || c.IFF1 {
		t.Fatalf("EI cycles=%d PC=%04x IFF1=%t, want 4 0001 false", cyc, c.PC, c.IFF1)
	}
	if cyc := mustStep(t, c); cyc != 4 || c.PC != 2 {
		t.Fatalf("NOP after EI cycles=%d PC=%04x, want 4 and 0002", cyc, c.PC)
	}
	if !c.IFF1 || !c.IFF2 {
		t.Fatalf("IFFs not set after the instruction following EI")
	}
	mustStep(t, c)
	if c.PC != 0x38 {
		t.Fatalf("interrupt after EI: PC got %04x want 0038", c.PC)
	}
}

func TestCPU_ConsecutiveEI(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0xFB, 0xFB, 0xFB, 0x00})
	c.IM = IntMode1
	c.INTPending = true
	for i := 0; i < 4; i++ {
		if cyc := mustStep(t, c); cyc != 4 || c.PC != uint16(i+1) {
			t.Fatalf("step %d cycles=%d PC=%04x", i, cyc, c.PC)
		}
	}
	mustStep(t, c)
	if c.PC != 0x38 {
		t.Fatalf("interrupt after EI run: PC got %04x want 0038", c.PC)
	}

	// A whole address space of EI keeps stepping one opcode at a time.
	prog := make([]byte, 0x10000)
	for i := range prog {
		prog[i] = 0xFB
	}
	c, _, _ = newCPUWithProgram(prog)
	for i := 0; i < 0x20000; i++ {
		if cyc := mustStep(t, c); cyc != 4 {
			t.Fatalf("step %d cycles got %d want 4", i, cyc)
		}
	}
	if c.PC != 0 || !c.IFF1 {
		t.Fatalf("after wrap PC=%04x IFF1=%t", c.PC, c.IFF1)
	}
}

func TestCPU_DIClearsBoth(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0xF3})
	c.IFF1, c.IFF2 = true, true
	mustStep(t, c)
	if c.IFF1 || c.IFF2 {
		t.Fatalf("DI left IFF1=%t IFF2=%t", c.IFF1, c.IFF2)
	}
}

func TestCPU_IMSelect(t *testing.T) {
	cases := []struct {
		op   byte
		want IntMode
	}{
		{0x46, IntMode0}, {0x56, IntMode1}, {0x5E, IntMode2},
		{0x66, IntMode0}, {0x76, IntMode1}, {0x7E, IntMode2},
	}
	for _, tc := range cases {
		c, _, _ := newCPUWithProgram([]byte{0xED, tc.op})
		if cyc := mustStep(t, c); cyc != 8 || c.IM != tc.want {
			t.Fatalf("ED%02X: IM=%d cycles=%d, want IM=%d cycles=8", tc.op, c.IM, cyc, tc.want)
		}
	}
}

func TestCPU_UnknownOpcode(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0x00, 0xED, 0x77})
	mustStep(t, c)
	_, err := c.Step()
	if !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("err=%v, want ErrUnknownOpcode", err)
	}
	var ue *UnknownOpcodeError
	if !errors.As(err, &ue) || ue.Opcode != 0xED77 || ue.PC != 1 {
		t.Fatalf("UnknownOpcodeError got %+v", ue)
	}
}

func TestCPU_DuplicateIndexPrefix(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0xDD, 0x47}) // DD prefix on LD B,A
	c.AF.Hi = 0x42
	if cyc := mustStep(t, c); cyc != 0 || c.PC != 1 {
		t.Fatalf("dupe cycles=%d PC=%04x, want 0 and 0001", cyc, c.PC)
	}
	if cyc := mustStep(t, c); cyc != 4 || c.BC.Hi != 0x42 {
		t.Fatalf("retried LD B,A cycles=%d B=%02x", cyc, c.BC.Hi)
	}
}

func TestCPU_InvalidPort(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0xDB, 0x10}) // IN A,(10h)
	_, err := c.Step()
	if !errors.Is(err, bus.ErrInvalidPort) {
		t.Fatalf("err=%v, want ErrInvalidPort", err)
	}
}

func TestCPU_INOUTImmediate(t *testing.T) {
	c, _, ports := newCPUWithProgram([]byte{0x3E, 0x12, 0xD3, 0xBF, 0xDB, 0x7E})
	var out byte
	ports.Connect(0xBF, nil, func(v byte) { out = v })
	ports.Connect(0x7E, func() byte { return 0x99 }, nil)
	mustStep(t, c)
	if cyc := mustStep(t, c); cyc != 11 || out != 0x12 {
		t.Fatalf("OUT (n),A cycles=%d wrote %02x", cyc, out)
	}
	if cyc := mustStep(t, c); cyc != 11 || c.A() != 0x99 {
		t.Fatalf("IN A,(n) cycles=%d A=%02x", cyc, c.A())
	}
}

func TestCPU_INrC_Flags(t *testing.T) {
	c, _, ports := newCPUWithProgram([]byte{0xED, 0x50, 0xED, 0x70}) // IN D,(C); IN (C)
	ports.Connect(0x01, func() byte { return 0x00 }, nil)
	c.BC.SetWord(0x0001)
	c.AF.Lo = FlagC | FlagH | FlagN
	if cyc := mustStep(t, c); cyc != 12 {
		t.Fatalf("IN D,(C) cycles got %d want 12", cyc)
	}
	if c.DE.Hi != 0 || !c.flag(FlagZ) || !c.flag(FlagPV) || c.flag(FlagH) || c.flag(FlagN) || !c.flag(FlagC) {
		t.Fatalf("IN D,(C) D=%02x F=%08b", c.DE.Hi, c.F())
	}
	mustStep(t, c)
	if c.PC != 4 {
		t.Fatalf("IN (C) PC got %04x want 0004", c.PC)
	}
}

func TestCPU_PushPopOrder(t *testing.T) {
	c, ram, _ := newCPUWithProgram([]byte{0xC5, 0xD1}) // PUSH BC; POP DE
	c.BC.SetWord(0x1234)
	if cyc := mustStep(t, c); cyc != 11 {
		t.Fatalf("PUSH cycles got %d want 11", cyc)
	}
	if ram.Read(0xDFEF) != 0x12 || ram.Read(0xDFEE) != 0x34 || c.SP != 0xDFEE {
		t.Fatalf("stack got [%02x %02x] SP=%04x", ram.Read(0xDFEE), ram.Read(0xDFEF), c.SP)
	}
	if cyc := mustStep(t, c); cyc != 10 || c.DE.Word() != 0x1234 {
		t.Fatalf("POP DE cycles=%d DE=%04x", cyc, c.DE.Word())
	}
}

func TestCPU_CallRetAndRST(t *testing.T) {
	prog := []byte{0xCD, 0x10, 0x00} // CALL 0010
	c, ram, _ := newCPUWithProgram(prog)
	ram.Load(0x10, []byte{0xFF}) // RST 38
	ram.Load(0x38, []byte{0xC9}) // RET
	if cyc := mustStep(t, c); cyc != 17 || c.PC != 0x10 {
		t.Fatalf("CALL cycles=%d PC=%04x", cyc, c.PC)
	}
	if cyc := mustStep(t, c); cyc != 11 || c.PC != 0x38 {
		t.Fatalf("RST cycles=%d PC=%04x", cyc, c.PC)
	}
	if cyc := mustStep(t, c); cyc != 10 || c.PC != 0x11 {
		t.Fatalf("RET cycles=%d PC=%04x", cyc, c.PC)
	}
}

func TestCPU_JRAndDJNZ(t *testing.T) {
	// LD B,2; DJNZ -2 (to itself) twice; JR +1; NOP; NOP
	c, _, _ := newCPUWithProgram([]byte{0x06, 0x02, 0x10, 0xFE, 0x18, 0x01, 0x00, 0x00})
	mustStep(t, c)
	if cyc := mustStep(t, c); cyc != 13 || c.PC != 2 {
		t.Fatalf("DJNZ taken cycles=%d PC=%04x", cyc, c.PC)
	}
	if cyc := mustStep(t, c); cyc != 8 || c.PC != 4 {
		t.Fatalf("DJNZ not taken cycles=%d PC=%04x", cyc, c.PC)
	}
	if cyc := mustStep(t, c); cyc != 12 || c.PC != 7 {
		t.Fatalf("JR cycles=%d PC=%04x", cyc, c.PC)
	}
}

func TestCPU_ConditionalCosts(t *testing.T) {
	cases := []struct {
		name  string
		code  []byte
		flags byte
		cyc   uint32
		pc    uint16
	}{
		{"JR NZ taken", []byte{0x20, 0x02}, 0, 12, 4},
		{"JR NZ not taken", []byte{0x20, 0x02}, FlagZ, 7, 2},
		{"JP PE taken", []byte{0xEA, 0x00, 0x10}, FlagPV, 10, 0x1000},
		{"JP PE not taken", []byte{0xEA, 0x00, 0x10}, 0, 10, 3},
		{"CALL M taken", []byte{0xFC, 0x00, 0x10}, FlagS, 17, 0x1000},
		{"CALL M not taken", []byte{0xFC, 0x00, 0x10}, 0, 10, 3},
		{"RET NC not taken", []byte{0xD0}, FlagC, 5, 1},
		{"RET PO taken", []byte{0xE0}, 0, 11, 0},
	}
	for _, tc := range cases {
		c, _, _ := newCPUWithProgram(tc.code)
		c.push16(0x0000)
		c.AF.Lo = tc.flags
		cyc := mustStep(t, c)
		if cyc != tc.cyc || c.PC != tc.pc {
			t.Fatalf("%s: cycles=%d PC=%04x, want %d and %04x", tc.name, cyc, c.PC, tc.cyc, tc.pc)
		}
	}
}

func TestCPU_Exchanges(t *testing.T) {
	c, ram, _ := newCPUWithProgram([]byte{0x08, 0xD9, 0xEB, 0xE3})
	c.AF.SetWord(0x1111)
	c.AF_.SetWord(0x2222)
	c.BC.SetWord(0x3333)
	c.BC_.SetWord(0x4444)
	c.DE.SetWord(0x5555)
	c.DE_.SetWord(0x8855)
	c.HL.SetWord(0x6666)
	c.HL_.SetWord(0x7777)
	ram.Load(c.SP, []byte{0xCD, 0xAB})

	mustStep(t, c)
	if c.AF.Word() != 0x2222 || c.AF_.Word() != 0x1111 {
		t.Fatalf("EX AF,AF' AF=%04x AF'=%04x", c.AF.Word(), c.AF_.Word())
	}
	mustStep(t, c)
	if c.BC.Word() != 0x4444 || c.HL.Word() != 0x7777 || c.HL_.Word() != 0x6666 {
		t.Fatalf("EXX BC=%04x HL=%04x HL'=%04x", c.BC.Word(), c.HL.Word(), c.HL_.Word())
	}
	mustStep(t, c)
	if c.DE.Word() != 0x7777 || c.HL.Word() != 0x8855 {
		t.Fatalf("EX DE,HL DE=%04x HL=%04x", c.DE.Word(), c.HL.Word())
	}
	if cyc := mustStep(t, c); cyc != 19 || c.HL.Word() != 0xABCD || ram.Read(c.SP) != 0x55 {
		t.Fatalf("EX (SP),HL cycles=%d HL=%04x (SP)=%02x", cyc, c.HL.Word(), ram.Read(c.SP))
	}
}

func TestCPU_LoadAIR(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0x3E, 0x80, 0xED, 0x47, 0x3E, 0x00, 0xED, 0x57})
	c.IFF2 = true
	mustStep(t, c)
	mustStep(t, c) // LD I,A
	mustStep(t, c)
	if cyc := mustStep(t, c); cyc != 9 {
		t.Fatalf("LD A,I cycles got %d want 9", cyc)
	}
	if c.A() != 0x80 || !c.flag(FlagS) || !c.flag(FlagPV) || c.flag(FlagZ) {
		t.Fatalf("LD A,I A=%02x F=%08b", c.A(), c.F())
	}
}

func TestCPU_RefreshCounter(t *testing.T) {
	c, _, _ := newCPUWithProgram([]byte{0x00, 0xCB, 0x00, 0xDD, 0x21, 0x00, 0x00})
	c.IR.Lo = 0xFF
	mustStep(t, c)
	if c.IR.Lo != 0x80 {
		t.Fatalf("R after NOP got %02x want 80 (bit 7 kept)", c.IR.Lo)
	}
	mustStep(t, c)
	mustStep(t, c)
	if c.IR.Lo != 0x84 {
		t.Fatalf("R after prefixed ops got %02x want 84", c.IR.Lo)
	}
}

func TestCPU_LoadStoreFamilies(t *testing.T) {
	prog := []byte{
		0x21, 0x00, 0xC0, // LD HL,C000
		0x36, 0x5A, // LD (HL),5A
		0x7E,             // LD A,(HL)
		0x32, 0x01, 0xC0, // LD (C001),A
		0x01, 0x01, 0xC0, // LD BC,C001
		0x0A,             // LD A,(BC)
		0x22, 0x10, 0xC0, // LD (C010),HL
		0xED, 0x5B, 0x10, 0xC0, // LD DE,(C010)
		0x31, 0x00, 0xD0, // LD SP,D000
		0xF9, // LD SP,HL
	}
	c, ram, _ := newCPUWithProgram(prog)
	want := []uint32{10, 10, 7, 13, 10, 7, 16, 20, 10, 6}
	for i, w := range want {
		if cyc := mustStep(t, c); cyc != w {
			t.Fatalf("instr %d cycles got %d want %d", i, cyc, w)
		}
	}
	if ram.Read(0xC001) != 0x5A || c.A() != 0x5A {
		t.Fatalf("(C001)=%02x A=%02x, want 5a", ram.Read(0xC001), c.A())
	}
	if c.DE.Word() != 0xC000 || c.SP != 0xC000 {
		t.Fatalf("DE=%04x SP=%04x, want C000", c.DE.Word(), c.SP)
	}
}
