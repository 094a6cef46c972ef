package ui

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/emu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// basicfont.Face7x13 metrics
const (
	charW = 7
	lineH = 13
)

var shade = color.RGBA{0, 0, 0, 160}

// print draws s with its top-left corner at (x, y) on a dark backing strip.
func (a *App) print(screen *ebiten.Image, s string, x, y int) {
	s = truncateText(s, maxChars(x))
	vector.DrawFilledRect(screen, float32(x-1), float32(y), float32(len(s)*charW+2), lineH, shade, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, s, a.face, op)
}

func (a *App) printLines(screen *ebiten.Image, lines []string, x, y int) {
	for i, s := range lines {
		a.print(screen, s, x, y+i*lineH)
	}
}

// maxChars is how many characters fit between x and the right edge.
func maxChars(x int) int {
	n := (emu.Width - x) / charW
	if n < 1 {
		n = 1
	}
	return n
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "~"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a *App) drawStats(screen *ebiten.Image) {
	st := a.m.Stats()
	v := a.m.VDP()
	lines := []string{
		fmt.Sprintf("frame %d  speed %3.0f%%", st.Frames, a.speed*100),
		fmt.Sprintf("V %02X H %02X  stat %02X", v.VCounter(), v.HCounter(), v.Status()),
		fmt.Sprintf("mode4 %s  disp %s", onOff(v.Mode4()), onOff(v.DisplayEnabled())),
		fmt.Sprintf("irq frame %s line %s", onOff(v.FrameIRQEnabled()), onOff(v.LineIRQEnabled())),
		fmt.Sprintf("spr tall %s zoom %s", onOff(v.TallSprites()), onOff(v.ZoomSprites())),
		fmt.Sprintf("scroll %02X,%02X", v.ScrollX(), v.ScrollY()),
	}
	if c := a.m.CPU(); c != nil {
		lines = append(lines, fmt.Sprintf("PC %04X SP %04X AF %04X", c.PC, c.SP, c.AF.Word()))
	}
	a.printLines(screen, lines, 4, 2)
}

func (a *App) drawError(screen *ebiten.Image) {
	lines := []string{"Stopped:"}
	var ue *cpu.UnknownOpcodeError
	var pe *bus.PortError
	switch {
	case errors.As(a.err, &ue):
		lines = append(lines, fmt.Sprintf("opcode %X at %04X", ue.Opcode, ue.PC))
	case errors.As(a.err, &pe):
		lines = append(lines, pe.Error())
	default:
		lines = append(lines, a.err.Error())
	}
	lines = append(lines, "", "R: reset  Esc: menu")
	a.printLines(screen, lines, 4, 2)
}
