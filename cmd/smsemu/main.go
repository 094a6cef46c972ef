package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/cart"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/emu"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/script"
	"github.com/FabianRolfMatthiasNoll/MasterSystemEmulator/internal/ui"
	"github.com/hajimehoshi/ebiten/v2"
)

type CLIFlags struct {
	ROMPath   string
	Scale     int
	Title     string
	Trace     bool
	SaveRAM   bool // persist cartridge RAM next to ROM (.sav)
	FrameSkip int
	Stats     bool
	ROMsDir   string
	Script    string // Lua script with an on_frame(n) hook

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	PNGScale int
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.sms)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "smsemu", "window title")
	flag.BoolVar(&f.Trace, "trace", false, "CPU trace log on stderr")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist cartridge RAM to ROM.sav on exit and load on start")
	flag.IntVar(&f.FrameSkip, "frameskip", 1, "frames per rendered frame (1, 2, 3, 10, 100...)")
	flag.BoolVar(&f.Stats, "stats", false, "show the stats overlay")
	flag.StringVar(&f.ROMsDir, "romdir", "roms", "directory listed by the ROM menu")
	flag.StringVar(&f.Script, "script", "", "Lua script defining on_frame(n)")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.IntVar(&f.PNGScale, "pngscale", 1, "integer upscale for -outpng")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, f CLIFlags, hook *script.Host) error {
	frames := f.Frames
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	ran := 0
	for ran < frames {
		if err := m.StepFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", ran, err)
		}
		ran++
		if hook != nil {
			if err := hook.OnFrame(ran); err != nil {
				return err
			}
			if hook.Stopped() {
				break
			}
		}
	}
	dur := time.Since(start)

	fb := m.Framebuffer() // RGBA 256x192*4
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(ran) / dur.Seconds()
	mhz := float64(m.Stats().TStates) / dur.Seconds() / 1e6

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f cpu=%.2fMHz (%.0f%%) fb_crc32=%08x",
		ran, dur.Truncate(time.Millisecond), fps, mhz, mhz*1e6/m.Config().ClockHz*100, crc)

	if f.PNGOut != "" {
		if err := emu.WritePNG(f.PNGOut, fb, f.PNGScale); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", f.PNGOut)
	}

	if f.Expect != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(f.Expect), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func savPath(rom string) string {
	if rom == "" {
		return ""
	}
	return strings.TrimSuffix(rom, filepath.Ext(rom)) + ".sav"
}

func writeBattery(m *emu.Machine, path string) {
	if path == "" {
		return
	}
	if data, ok := m.SaveBattery(); ok {
		if err := os.WriteFile(path, data, 0644); err == nil {
			log.Printf("wrote %s", path)
		}
	}
}

func main() {
	f := parseFlags()

	m := emu.New(emu.Config{Trace: f.Trace, FrameSkip: f.FrameSkip})
	if f.ROMPath != "" {
		path := f.ROMPath
		// prefer absolute path for state/save placement consistency
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if err := m.LoadROMFromFile(path); err != nil {
			log.Fatalf("load cart: %v", err)
		}
		if h := m.Header(); h != nil {
			rom, _ := os.ReadFile(path)
			log.Printf("ROM: %s checksum_ok=%t banks=%d", h, cart.ChecksumOK(rom, h), (len(rom)+0x3FFF)/0x4000)
		} else {
			log.Printf("ROM: no TMR SEGA header")
		}
	}

	// Cartridge RAM: load .sav if present
	var sav string
	if f.SaveRAM {
		sav = savPath(m.ROMPath())
		if data, err := os.ReadFile(sav); sav != "" && err == nil {
			if m.LoadBattery(data) {
				log.Printf("loaded save RAM: %s (%d bytes)", sav, len(data))
			}
		}
	}

	var hook *script.Host
	if f.Script != "" {
		hook = script.New(m)
		defer hook.Close()
		if err := hook.LoadFile(f.Script); err != nil {
			log.Fatal(err)
		}
	}

	if f.Headless {
		if !m.Loaded() {
			log.Fatal("-headless needs -rom")
		}
		err := runHeadless(m, f, hook)
		if f.SaveRAM {
			writeBattery(m, sav)
		}
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	uiCfg := ui.Config{Title: f.Title, Scale: f.Scale, ShowStats: f.Stats, ROMsDir: f.ROMsDir}
	app := ui.NewApp(uiCfg, m)
	if hook != nil {
		app.SetFrameHook(func(n int) error {
			if err := hook.OnFrame(n); err != nil {
				return err
			}
			if hook.Stopped() {
				return ebiten.Termination
			}
			return nil
		})
	}
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
	// UI exit: save cartridge RAM for whatever ROM is loaded now
	if f.SaveRAM {
		writeBattery(m, savPath(m.ROMPath()))
	}
}
