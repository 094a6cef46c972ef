package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/cpu"
)

// BDOS entry point and the top of the transient program area it reports.
const (
	bdosEntry = 0x0005
	tpaTop    = 0xF000
)

// errWarmBoot ends a CP/M program that jumped back to 0x0000.
var errWarmBoot = errors.New("warm boot")

type traceEntry struct {
	op    byte
	state string
}

// runner drives a CPU over flat 64 KiB RAM. With cpm set it traps BDOS
// calls 2 (print E) and 9 (print $-terminated string at DE).
type runner struct {
	c     *cpu.CPU
	ram   *bus.RAM
	ports *bus.Ports
	out   io.Writer
	cpm   bool

	ring     []traceEntry
	ringIdx  int
	ringFill int

	steps  uint64
	cycles uint64
}

func newRunner(prog []byte, org uint16, out io.Writer, cpm bool) *runner {
	ram := bus.NewRAM()
	ports := bus.NewPorts()
	r := &runner{c: cpu.New(ram, ports), ram: ram, ports: ports, out: out, cpm: cpm}
	if cpm {
		// JP tpaTop at the BDOS vector: programs read 0x0006 to find the
		// top of memory and set SP from it.
		ram.Load(bdosEntry, []byte{0xC3, byte(tpaTop & 0xFF), byte(tpaTop >> 8)})
		ram.Write(tpaTop, 0xC9)
		r.c.SP = tpaTop
	}
	ram.Load(org, prog)
	r.c.SetPC(org)
	return r
}

// connectConsole prints bytes written to port and reads input from in.
// port+1 reports 0xFF while input is waiting.
func (r *runner) connectConsole(port byte, in <-chan byte) {
	var pending []byte
	poll := func() {
		for {
			select {
			case b, ok := <-in:
				if !ok {
					return
				}
				pending = append(pending, b)
			default:
				return
			}
		}
	}
	r.ports.Connect(port, func() byte {
		poll()
		if len(pending) == 0 {
			if b, ok := <-in; ok {
				return b
			}
			return 0x1A // EOF
		}
		b := pending[0]
		pending = pending[1:]
		return b
	}, func(v byte) {
		r.out.Write([]byte{v})
	})
	r.ports.Connect(port+1, func() byte {
		poll()
		if len(pending) > 0 {
			return 0xFF
		}
		return 0
	}, func(byte) {})
}

func (r *runner) enableTrace(n int) {
	if n > 0 {
		r.ring = make([]traceEntry, n)
	}
}

func (r *runner) record() {
	if r.ring == nil {
		return
	}
	r.ring[r.ringIdx] = traceEntry{op: r.ram.Read(r.c.PC), state: r.c.String()}
	r.ringIdx = (r.ringIdx + 1) % len(r.ring)
	if r.ringFill < len(r.ring) {
		r.ringFill++
	}
}

// dumpTrace prints the ring in chronological order.
func (r *runner) dumpTrace(w io.Writer) {
	if r.ringFill == 0 {
		return
	}
	fmt.Fprintf(w, "--- recent trace (last %d instructions) ---\n", r.ringFill)
	start := (r.ringIdx - r.ringFill + len(r.ring)) % len(r.ring)
	for j := 0; j < r.ringFill; j++ {
		te := r.ring[(start+j)%len(r.ring)]
		fmt.Fprintf(w, "OP=%02X %s\n", te.op, te.state)
	}
	fmt.Fprintf(w, "--- end trace ---\n")
}

func (r *runner) bdos() error {
	c := r.c
	switch c.BC.Lo {
	case 2:
		r.out.Write([]byte{c.DE.Lo})
	case 9:
		addr := c.DE.Word()
		var s []byte
		for n := 0; n < 0x10000; n++ {
			b := r.ram.Read(addr)
			if b == '$' {
				break
			}
			s = append(s, b)
			addr++
		}
		r.out.Write(s)
	default:
		return fmt.Errorf("unsupported BDOS function %d at %04X", c.BC.Lo, c.PC)
	}
	// return to the caller
	c.PC = uint16(r.ram.Read(c.SP)) | uint16(r.ram.Read(c.SP+1))<<8
	c.SP += 2
	return nil
}

// step runs one instruction, or one BDOS call when the CPU is at the entry.
func (r *runner) step() error {
	if r.cpm {
		switch r.c.PC {
		case 0x0000:
			return errWarmBoot
		case bdosEntry:
			r.steps++
			return r.bdos()
		}
	}
	r.record()
	n, err := r.c.Step()
	r.steps++
	r.cycles += uint64(n)
	return err
}
