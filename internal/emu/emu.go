package emu

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/cart"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/vdp"
)

// ErrNoCartridge is returned by the stepping functions before a ROM is loaded.
var ErrNoCartridge = errors.New("no cartridge loaded")

// Screen size in pixels.
const (
	Width  = vdp.Width
	Height = vdp.Height
)

// stackTop is where the BIOS leaves SP before handing over to the cartridge.
const stackTop = 0xDFF8

// Stats counts work done since the cartridge was loaded.
type Stats struct {
	Frames  uint64 // StepFrame/StepFrameNoRender frames
	VBlanks uint64 // frame boundaries crossed by the VDP
	TStates uint64
}

type Machine struct {
	cfg Config
	fb  []byte // RGBA 256x192*4

	cart   cart.Cartridge
	header *cart.Header
	ports  *bus.Ports
	cpu    *cpu.CPU
	vdp    *vdp.VDP

	pads     [2]Buttons
	resetBtn bool

	romPath string
	trace   io.Writer
	fault   error // last CPU error; sticky until Reset
	stats   Stats
}

func New(cfg Config) *Machine {
	cfg.Defaults()
	m := &Machine{
		cfg:   cfg,
		fb:    make([]byte, Width*Height*4),
		ports: bus.NewPorts(),
		vdp:   vdp.New(),
	}
	if cfg.Trace {
		m.trace = os.Stderr
	}
	m.connectPorts()
	return m
}

// LoadCartridge maps rom behind the Sega mapper and resets the machine.
// A missing header is not an error; Header then returns nil.
func (m *Machine) LoadCartridge(rom []byte) error {
	c, err := cart.NewCartridge(rom)
	if err != nil {
		return fmt.Errorf("load rom: %w", err)
	}
	m.header = nil
	if h, err := cart.ParseHeader(rom); err == nil {
		m.header = h
	}
	m.cart = c
	m.cpu = cpu.New(c, m.ports)
	m.stats = Stats{}
	m.Reset()
	return nil
}

// LoadROMFromFile replaces the current cartridge with a ROM from disk.
func (m *Machine) LoadROMFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.LoadCartridge(data); err != nil {
		return err
	}
	m.romPath = path
	return nil
}

// ROMPath returns the currently loaded ROM file path, if any.
func (m *Machine) ROMPath() string { return m.romPath }

// SetROMPath sets the current ROM path without reloading.
func (m *Machine) SetROMPath(path string) { m.romPath = path }

// Header is the parsed cartridge header, or nil if the ROM has none.
func (m *Machine) Header() *cart.Header { return m.header }

// Loaded reports whether a cartridge is inserted.
func (m *Machine) Loaded() bool { return m.cpu != nil }

// Reset restarts the loaded cartridge from 0x0000. Cartridge RAM survives.
func (m *Machine) Reset() {
	if m.cpu == nil {
		return
	}
	m.cart.Reset()
	m.vdp.Reset()
	m.cpu.Reset()
	m.cpu.SP = stackTop
	m.fault = nil
	for i := range m.fb {
		m.fb[i] = 0
	}
}

// SetTraceWriter sends the per-instruction trace to w. nil disables it.
func (m *Machine) SetTraceWriter(w io.Writer) { m.trace = w }

// Step runs one CPU instruction, or one interrupt acceptance, and advances
// the VDP by the matching number of dots.
func (m *Machine) Step(render bool) (uint32, error) {
	if m.cpu == nil {
		return 0, ErrNoCartridge
	}
	if m.fault != nil {
		return 0, m.fault
	}
	m.cpu.INTPending = m.vdp.InterruptPending
	m.vdp.InterruptPending = false
	if m.trace != nil {
		fmt.Fprintln(m.trace, m.cpu.String())
	}
	n, err := m.cpu.Step()
	m.stats.TStates += uint64(n)
	if err != nil {
		m.fault = err
		return n, err
	}
	m.vdp.Tick(int(float64(n)*m.cfg.VDPRatio), render)
	if m.vdp.FrameReady() {
		m.stats.VBlanks++
	}
	return n, nil
}

// StepFrame runs FrameSkip frames, rendering only the last one, and
// refreshes the framebuffer.
func (m *Machine) StepFrame() error {
	for i := 0; i < m.cfg.FrameSkip; i++ {
		if err := m.runFrame(i == m.cfg.FrameSkip-1); err != nil {
			return err
		}
	}
	m.vdp.CopyRGBA(m.fb)
	return nil
}

// StepFrameNoRender runs one frame without drawing any lines.
func (m *Machine) StepFrameNoRender() error { return m.runFrame(false) }

func (m *Machine) runFrame(render bool) error {
	acc := 0
	for acc < m.cfg.FrameTStates {
		n, err := m.Step(render)
		if err != nil {
			return err
		}
		acc += int(n)
	}
	m.stats.Frames++
	return nil
}

// Err returns the error that stopped the CPU, if any.
func (m *Machine) Err() error { return m.fault }

// Framebuffer is the last presented frame as RGBA, Width*Height*4 bytes.
func (m *Machine) Framebuffer() []byte { return m.fb }

func (m *Machine) Stats() Stats { return m.stats }

func (m *Machine) Config() Config { return m.cfg }

// SetFrameSkip changes how many frames StepFrame runs per render.
func (m *Machine) SetFrameSkip(n int) {
	if n < 1 {
		n = 1
	}
	m.cfg.FrameSkip = n
}

// CPU and VDP expose the chips for debuggers and scripts.
func (m *Machine) CPU() *cpu.CPU { return m.cpu }
func (m *Machine) VDP() *vdp.VDP { return m.vdp }

// Peek reads the CPU address space through the mapper.
func (m *Machine) Peek(addr uint16) byte {
	if m.cart == nil {
		return 0xFF
	}
	return m.cart.Read(addr)
}

// Poke writes the CPU address space through the mapper, so writes to
// 0xFFFC-0xFFFF page banks like the CPU would.
func (m *Machine) Poke(addr uint16, v byte) {
	if m.cart != nil {
		m.cart.Write(addr, v)
	}
}

// SaveBattery returns cartridge RAM if the cartridge has any in use.
// File IO is left to the caller.
func (m *Machine) SaveBattery() ([]byte, bool) {
	if m == nil || m.cart == nil {
		return nil, false
	}
	if bb, ok := m.cart.(cart.BatteryBacked); ok {
		data := bb.SaveRAM()
		if len(data) == 0 {
			return nil, false
		}
		return data, true
	}
	return nil, false
}

// LoadBattery loads cartridge RAM bytes if supported.
func (m *Machine) LoadBattery(data []byte) bool {
	if m == nil || m.cart == nil {
		return false
	}
	if bb, ok := m.cart.(cart.BatteryBacked); ok {
		bb.LoadRAM(data)
		return true
	}
	return false
}
