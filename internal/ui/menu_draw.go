package ui

import (
	"fmt"
	"path/filepath"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/emu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

func (a *App) drawMenu(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, 0, 0, emu.Width, emu.Height, shade, false)
	switch a.menuMode {
	case "rom":
		a.drawRomMenu(screen)
	default:
		a.drawMainMenu(screen)
	}
}

func (a *App) drawList(screen *ebiten.Image, title string, items []string, sel int) {
	a.print(screen, title, 4, 2)
	for i, s := range items {
		prefix := "  "
		if i == sel {
			prefix = "> "
		}
		a.print(screen, prefix+s, 4, menuTop+i*lineH)
	}
}

// romRows is how many file names fit between the title and the hint line.
func romRows() int {
	n := (emu.Height - menuTop - 2*lineH) / lineH
	if n < 1 {
		n = 1
	}
	return n
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	items := []string{
		"Switch ROM",
		fmt.Sprintf("Frame skip: < %d >", a.m.Config().FrameSkip),
		"Screenshot",
		"Reset",
		"Close",
	}
	a.drawList(screen, "Menu", items, a.menuIdx)
	a.print(screen, "P pause  N step  Tab fast  F1 stats", 4, emu.Height-2*lineH-4)
}

func (a *App) drawRomMenu(screen *ebiten.Image) {
	if len(a.romList) == 0 {
		a.drawList(screen, "Dir: "+a.cfg.ROMsDir, []string{"No ROMs found"}, -1)
		return
	}
	end := a.romOff + romRows()
	if end > len(a.romList) {
		end = len(a.romList)
	}
	var items []string
	for _, p := range a.romList[a.romOff:end] {
		items = append(items, filepath.Base(p))
	}
	a.drawList(screen, "Dir: "+a.cfg.ROMsDir, items, a.romSel-a.romOff)
	if a.romOff > 0 {
		a.print(screen, "^", emu.Width-10, menuTop)
	}
	if end < len(a.romList) {
		a.print(screen, "v", emu.Width-10, menuTop+(end-a.romOff-1)*lineH)
	}
}
