package ui

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/emu"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// FrameHook is called after every frame the UI runs, with the frame number.
// Returning ebiten.Termination closes the window; any other error stops the
// machine like a CPU fault would.
type FrameHook func(frame int) error

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	face   *text.GoXFace
	paused bool
	fast   bool
	frame  int
	hook   FrameHook
	err    error // last machine error, shown until reset
	quit   bool

	// speed meter
	meterT       time.Time
	meterTStates uint64
	speed        float64

	toastMsg   string
	toastUntil time.Time

	// overlay/menu
	showMenu bool
	menuMode string // "main", "rom"
	menuIdx  int
	romList  []string
	romSel   int
	romOff   int
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(windowTitle(cfg.Title, m))
	ebiten.SetWindowSize(emu.Width*cfg.Scale, emu.Height*cfg.Scale)
	return &App{
		cfg:      cfg,
		m:        m,
		face:     text.NewGoXFace(basicfont.Face7x13),
		menuMode: "main",
	}
}

// SetFrameHook installs fn to run after each frame.
func (a *App) SetFrameHook(fn FrameHook) { a.hook = fn }

func (a *App) Run() error { return ebiten.RunGame(a) }

func windowTitle(base string, m *emu.Machine) string {
	if p := m.ROMPath(); p != "" {
		return base + " - [" + strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)) + "]"
	}
	return base
}

func (a *App) Update() error {
	if a.showMenu {
		a.updateMenu()
		return nil
	}

	// Keyboard → control pad 1
	var btn emu.Buttons
	btn.Up = ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	btn.Down = ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	btn.Left = ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	btn.Right = ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	btn.B1 = ebiten.IsKeyPressed(ebiten.KeyA)
	btn.B2 = ebiten.IsKeyPressed(ebiten.KeyS)
	a.m.SetButtons(btn)
	a.m.SetResetButton(ebiten.IsKeyPressed(ebiten.KeyDelete))

	// Console pause button
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		a.m.Pause()
	}
	// Emulator pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.cfg.ShowStats = !a.cfg.ShowStats
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.saveScreenshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = true
		a.menuMode = "main"
		a.menuIdx = 0
		return nil
	}

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.runFrame()
	}
	if !a.paused && a.err == nil && a.m.Loaded() {
		n := 1
		if a.fast {
			n = 5
		}
		for i := 0; i < n && a.err == nil; i++ {
			a.runFrame()
		}
	}
	a.updateMeter()
	if a.quit {
		return ebiten.Termination
	}
	return nil
}

func (a *App) runFrame() {
	if err := a.m.StepFrame(); err != nil {
		a.fail(err)
		return
	}
	a.frame++
	if a.hook != nil {
		switch err := a.hook(a.frame); {
		case errors.Is(err, ebiten.Termination):
			a.quit = true
		case err != nil:
			a.fail(err)
		}
	}
}

func (a *App) fail(err error) {
	log.Printf("stopped: %v", err)
	if c := a.m.CPU(); c != nil {
		log.Printf("cpu: %s", c)
	}
	a.err = err
	a.paused = true
}

func (a *App) reset() {
	a.m.Reset()
	a.err = nil
	a.paused = false
	a.toast("Reset")
}

func (a *App) updateMeter() {
	now := time.Now()
	if a.meterT.IsZero() {
		a.meterT = now
		a.meterTStates = a.m.Stats().TStates
		return
	}
	dt := now.Sub(a.meterT)
	if dt < time.Second {
		return
	}
	ts := a.m.Stats().TStates
	a.speed = float64(ts-a.meterTStates) / dt.Seconds() / a.m.Config().ClockHz
	a.meterT, a.meterTStates = now, ts
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(emu.Width, emu.Height)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)

	switch {
	case a.showMenu:
		a.drawMenu(screen)
	case a.err != nil:
		a.drawError(screen)
	case a.cfg.ShowStats:
		a.drawStats(screen)
	}
	if a.paused && a.err == nil && !a.showMenu {
		a.print(screen, "PAUSED", emu.Width-48, 2)
	}
	if a.toastMsg != "" && time.Now().Before(a.toastUntil) {
		a.print(screen, a.toastMsg, 4, emu.Height-lineH-2)
	}
}

func (a *App) Layout(outW, outH int) (int, int) { return emu.Width, emu.Height }

func (a *App) toast(msg string) {
	a.toastMsg = msg
	a.toastUntil = time.Now().Add(2 * time.Second)
}

func (a *App) saveScreenshot() {
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	if err := emu.WritePNG(name, a.m.Framebuffer(), a.cfg.Scale); err != nil {
		a.toast("Screenshot failed: " + err.Error())
		return
	}
	a.toast("Wrote " + name)
}
