package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

// crlfWriter turns LF into CRLF, since a raw-mode terminal no longer does it.
type crlfWriter struct{ w io.Writer }

func (c crlfWriter) Write(p []byte) (int, error) {
	s := strings.ReplaceAll(string(p), "\n", "\r\n")
	if _, err := io.WriteString(c.w, s); err != nil {
		return 0, err
	}
	return len(p), nil
}

// readInput streams stdin into a channel until EOF.
func readInput(r io.Reader) <-chan byte {
	ch := make(chan byte, 256)
	go func() {
		defer close(ch)
		br := bufio.NewReader(r)
		for {
			b, err := br.ReadByte()
			if err != nil {
				return
			}
			if b == '\r' {
				b = '\n'
			}
			ch <- b
		}
	}()
	return ch
}

func main() {
	progPath := flag.String("prog", "", "path to a raw Z80 binary (.com, .bin)")
	org := flag.Int("org", 0x0100, "load address")
	startPC := flag.Int("pc", -1, "initial PC value (default: -org)")
	steps := flag.Uint64("steps", 0, "max instructions to run; 0 runs until the program exits")
	cpm := flag.Bool("cpm", true, "trap CP/M BDOS calls at 0x0005 and stop on a jump to 0x0000")
	console := flag.Int("console", -1, "I/O port for console output/input (status on port+1); -1 disables")
	raw := flag.Bool("raw", false, "put the terminal in raw mode so console input is unbuffered")
	trace := flag.Bool("trace", false, "print every instruction")
	traceWindow := flag.Int("traceWindow", 200, "instructions kept for the dump printed on error")
	timeout := flag.Duration("timeout", 0, "optional wall-clock timeout (e.g. 30s, 2m); 0 disables")
	flag.Parse()

	if *progPath == "" {
		log.Fatal("-prog is required")
	}
	prog, err := os.ReadFile(*progPath)
	if err != nil {
		log.Fatalf("read prog: %v", err)
	}

	var out io.Writer = os.Stdout
	restore := func() {}
	rawMode := false
	if stdin := int(os.Stdin.Fd()); *raw && *console >= 0 && term.IsTerminal(stdin) {
		old, err := term.MakeRaw(stdin)
		if err != nil {
			log.Fatalf("raw mode: %v", err)
		}
		restore = func() { _ = term.Restore(stdin, old) }
		rawMode = true
		out = crlfWriter{os.Stdout}
	}
	defer restore()

	r := newRunner(prog, uint16(*org), out, *cpm)
	if *startPC >= 0 {
		r.c.SetPC(uint16(*startPC))
	}
	if *console >= 0 {
		r.connectConsole(byte(*console), readInput(os.Stdin))
	}
	r.enableTrace(*traceWindow)

	// Trace lines go to stderr; keep them aligned when it is a terminal.
	traceOut := io.Writer(os.Stderr)
	if rawMode && term.IsTerminal(int(os.Stderr.Fd())) {
		traceOut = crlfWriter{os.Stderr}
	}

	start := time.Now()
	var deadline time.Time
	if *timeout > 0 {
		deadline = start.Add(*timeout)
	}
	code := 0
	for *steps == 0 || r.steps < *steps {
		if *trace {
			fmt.Fprintf(traceOut, "OP=%02X %s\n", r.ram.Read(r.c.PC), r.c)
		}
		if err := r.step(); err != nil {
			if !errors.Is(err, errWarmBoot) {
				fmt.Fprintf(out, "\n%v\n", err)
				r.dumpTrace(traceOut)
				code = 1
			}
			break
		}
		if !deadline.IsZero() && r.steps%0x10000 == 0 && time.Now().After(deadline) {
			fmt.Fprintf(out, "\nTimeout after %s.\n", time.Since(start).Truncate(time.Millisecond))
			code = 2
			break
		}
	}
	dur := time.Since(start)
	fmt.Fprintf(out, "\nDone: steps=%d cycles=%d elapsed=%s (%.2f MHz)\n",
		r.steps, r.cycles, dur.Truncate(time.Millisecond), float64(r.cycles)/dur.Seconds()/1e6)
	if code != 0 {
		restore()
		os.Exit(code)
	}
}
