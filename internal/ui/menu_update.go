package ui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	mainMenuItems = 5
	menuTop       = 2 + lineH // below the title row
)

func (a *App) updateMenu() {
	switch a.menuMode {
	case "rom":
		a.updateRomMenu()
	default:
		a.updateMainMenu()
	}
}

func (a *App) updateMainMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < mainMenuItems-1 {
		a.menuIdx++
	}
	if a.menuIdx == 1 {
		skip := a.m.Config().FrameSkip
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			a.m.SetFrameSkip(skip - 1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			a.m.SetFrameSkip(skip + 1)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		switch a.menuIdx {
		case 0:
			a.romList = a.findROMs()
			a.romSel = 0
			a.romOff = 0
			a.menuMode = "rom"
		case 2:
			a.saveScreenshot()
			a.showMenu = false
		case 3:
			a.reset()
			a.showMenu = false
		case 4:
			a.showMenu = false
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateRomMenu() {
	back := inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace)
	n := len(a.romList)
	if n == 0 {
		if back || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			a.menuMode = "main"
		}
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.romSel > 0 {
		a.romSel--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.romSel < n-1 {
		a.romSel++
	}
	rows := romRows()
	if a.romSel < a.romOff {
		a.romOff = a.romSel
	}
	if a.romSel >= a.romOff+rows {
		a.romOff = a.romSel - rows + 1
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.loadROM(a.romList[a.romSel])
		a.menuMode = "main"
		a.showMenu = false
	}
	if back {
		a.menuMode = "main"
	}
}

func savPath(rom string) string {
	return strings.TrimSuffix(rom, filepath.Ext(rom)) + ".sav"
}

// loadROM swaps cartridges, writing the outgoing cartridge RAM first.
func (a *App) loadROM(path string) {
	if old := a.m.ROMPath(); old != "" {
		if data, ok := a.m.SaveBattery(); ok {
			_ = os.WriteFile(savPath(old), data, 0644)
		}
	}
	if err := a.m.LoadROMFromFile(path); err != nil {
		a.toast("ROM load failed: " + err.Error())
		return
	}
	if data, err := os.ReadFile(savPath(path)); err == nil {
		_ = a.m.LoadBattery(data)
	}
	a.err = nil
	a.paused = false
	a.frame = 0
	ebiten.SetWindowTitle(windowTitle(a.cfg.Title, a.m))
	a.toast("Loaded " + filepath.Base(path))
}

// findROMs lists .sms files under the configured directory.
func (a *App) findROMs() []string {
	var out []string
	_ = filepath.WalkDir(a.cfg.ROMsDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".sms") {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out
}
