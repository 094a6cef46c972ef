package emu

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// findROMs recursively collects .sms files under dir.
func findROMs(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".sms") {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

// moduleRoot walks up from this file to the directory holding go.mod.
func moduleRoot() string {
	if _, file, _, ok := runtime.Caller(0); ok {
		dir := filepath.Dir(file)
		for {
			if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
				return dir
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// runROM runs a cartridge for frames frames and fails on the first CPU error.
// zexdoc.sms and friends report on screen, so the last frame is written next
// to the ROM for inspection.
func runROM(t *testing.T, romPath string, frames int) {
	t.Helper()
	m := New(Config{})
	if err := m.LoadROMFromFile(romPath); err != nil {
		t.Fatalf("load ROM: %v", err)
	}
	if h := m.Header(); h != nil {
		t.Logf("%s: %s", filepath.Base(romPath), h)
	}
	for i := 0; i < frames; i++ {
		if err := m.StepFrameNoRender(); err != nil {
			t.Fatalf("%s frame %d: %v\n%s", filepath.Base(romPath), i, err, m.CPU())
		}
	}
	if err := m.StepFrame(); err != nil {
		t.Fatalf("%s last frame: %v", filepath.Base(romPath), err)
	}
	out := strings.TrimSuffix(romPath, filepath.Ext(romPath)) + ".png"
	if err := WritePNG(out, m.Framebuffer(), 1); err != nil {
		t.Logf("write %s: %v", out, err)
	}
}

// TestROMs scans testroms/sms (or SMS_ROM_DIR) and runs every .sms found.
func TestROMs(t *testing.T) {
	if os.Getenv("RUN_SMS_ROMS") == "" {
		t.Skip("set RUN_SMS_ROMS=1 and place ROMs under testroms/sms or set SMS_ROM_DIR to run")
	}
	base := os.Getenv("SMS_ROM_DIR")
	if base == "" {
		base = filepath.Join(moduleRoot(), "testroms", "sms")
	}
	if _, err := os.Stat(base); err != nil {
		t.Skipf("ROM dir missing: %s", base)
	}
	roms, err := findROMs(base)
	if err != nil {
		t.Fatalf("scan ROMs: %v", err)
	}
	if len(roms) == 0 {
		t.Skipf("no ROMs found in %s", base)
	}

	frames := 3600
	if v := os.Getenv("SMS_MAX_FRAMES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			frames = n
		}
	}
	for _, rom := range roms {
		name := strings.TrimSuffix(filepath.Base(rom), filepath.Ext(rom))
		t.Run(name, func(t *testing.T) { runROM(t, rom, frames) })
	}
}
