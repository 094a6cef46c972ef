// Package script runs Lua hooks against a Machine. A script defines
// on_frame(n), which is called after every presented frame, and drives the
// machine through a small set of globals:
//
//	peek(addr)            read the CPU address space
//	poke(addr, v)         write the CPU address space
//	reg(name)             CPU register ("a", "hl", "pc", ...)
//	vdp_reg(n)            VDP register 0..15
//	vram(addr)            VRAM byte
//	press(btn [, pad])    hold "up", "down", "left", "right", "1", "2", "reset"
//	release(btn [, pad])  release a button
//	pause()               press the pause button (NMI)
//	screenshot(path [, scale])
//	stop()                end the run after this frame
//	log(msg)
package script

import (
	"errors"
	"fmt"
	"log"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/emu"
)

// ErrUnknownButton is raised into Lua for a bad press/release name.
var ErrUnknownButton = errors.New("unknown button")

type Host struct {
	L       *lua.LState
	m       *emu.Machine
	pads    [2]emu.Buttons
	reset   bool
	stopped bool
}

func New(m *emu.Machine) *Host {
	h := &Host{L: lua.NewState(), m: m}
	h.register()
	return h
}

func (h *Host) Close() { h.L.Close() }

func (h *Host) LoadFile(path string) error {
	if err := h.L.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

func (h *Host) LoadString(src string) error {
	if err := h.L.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// Stopped reports whether the script called stop().
func (h *Host) Stopped() bool { return h.stopped }

// OnFrame calls the script's on_frame(n), if it defines one, and pushes the
// resulting pad state into the machine.
func (h *Host) OnFrame(n int) error {
	fn := h.L.GetGlobal("on_frame")
	if fn.Type() != lua.LTFunction {
		return nil
	}
	if err := h.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(n)); err != nil {
		return fmt.Errorf("on_frame(%d): %w", n, err)
	}
	h.m.SetButtons(h.pads[0])
	h.m.SetButtons2(h.pads[1])
	h.m.SetResetButton(h.reset)
	return nil
}

func (h *Host) register() {
	fns := map[string]lua.LGFunction{
		"peek":       h.peek,
		"poke":       h.poke,
		"reg":        h.reg,
		"vdp_reg":    h.vdpReg,
		"vram":       h.vram,
		"press":      func(L *lua.LState) int { return h.setButton(L, true) },
		"release":    func(L *lua.LState) int { return h.setButton(L, false) },
		"pause":      h.pause,
		"screenshot": h.screenshot,
		"stop":       h.stop,
		"log":        h.log,
	}
	for name, fn := range fns {
		h.L.SetGlobal(name, h.L.NewFunction(fn))
	}
}

func (h *Host) peek(L *lua.LState) int {
	L.Push(lua.LNumber(h.m.Peek(uint16(L.CheckInt(1)))))
	return 1
}

func (h *Host) poke(L *lua.LState) int {
	h.m.Poke(uint16(L.CheckInt(1)), byte(L.CheckInt(2)))
	return 0
}

func (h *Host) reg(L *lua.LState) int {
	c := h.m.CPU()
	if c == nil {
		L.RaiseError("no cartridge loaded")
		return 0
	}
	var v uint16
	switch name := strings.ToLower(L.CheckString(1)); name {
	case "a":
		v = uint16(c.A())
	case "f":
		v = uint16(c.F())
	case "b":
		v = uint16(c.BC.Hi)
	case "c":
		v = uint16(c.BC.Lo)
	case "d":
		v = uint16(c.DE.Hi)
	case "e":
		v = uint16(c.DE.Lo)
	case "h":
		v = uint16(c.HL.Hi)
	case "l":
		v = uint16(c.HL.Lo)
	case "af":
		v = c.AF.Word()
	case "bc":
		v = c.BC.Word()
	case "de":
		v = c.DE.Word()
	case "hl":
		v = c.HL.Word()
	case "ix":
		v = c.IX.Word()
	case "iy":
		v = c.IY.Word()
	case "sp":
		v = c.SP
	case "pc":
		v = c.PC
	case "i":
		v = uint16(c.IR.Hi)
	case "r":
		v = uint16(c.IR.Lo)
	default:
		L.ArgError(1, "unknown register "+name)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (h *Host) vdpReg(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 || n > 15 {
		L.ArgError(1, "register out of range")
		return 0
	}
	L.Push(lua.LNumber(h.m.VDP().Regs[n]))
	return 1
}

func (h *Host) vram(L *lua.LState) int {
	L.Push(lua.LNumber(h.m.VDP().VRAM[L.CheckInt(1)&0x3FFF]))
	return 1
}

func (h *Host) setButton(L *lua.LState, held bool) int {
	name := strings.ToLower(L.CheckString(1))
	pad := L.OptInt(2, 1)
	if pad != 1 && pad != 2 {
		L.ArgError(2, "pad must be 1 or 2")
		return 0
	}
	b := &h.pads[pad-1]
	switch name {
	case "up":
		b.Up = held
	case "down":
		b.Down = held
	case "left":
		b.Left = held
	case "right":
		b.Right = held
	case "1", "b1":
		b.B1 = held
	case "2", "b2":
		b.B2 = held
	case "reset":
		h.reset = held
	default:
		L.RaiseError("%v: %q", ErrUnknownButton, name)
	}
	return 0
}

func (h *Host) pause(L *lua.LState) int {
	h.m.Pause()
	return 0
}

func (h *Host) screenshot(L *lua.LState) int {
	path := L.CheckString(1)
	scale := L.OptInt(2, 1)
	if err := emu.WritePNG(path, h.m.Framebuffer(), scale); err != nil {
		L.RaiseError("screenshot: %v", err)
	}
	return 0
}

func (h *Host) stop(L *lua.LState) int {
	h.stopped = true
	return 0
}

func (h *Host) log(L *lua.LState) int {
	log.Printf("script: %s", L.CheckString(1))
	return 0
}
