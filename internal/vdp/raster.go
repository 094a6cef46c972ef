package vdp

const (
	Width  = 256
	Height = 192

	// DotsPerLine is the length of a scanline in VDP clocks, of which 256
	// are visible.
	DotsPerLine = 342

	frameLine = 0xC1
)

// RGB is one framebuffer pixel. Channels are always 0, 85, 170 or 255.
type RGB struct{ R, G, B byte }

// untouched marks pixels nothing has drawn yet on the current line. It can
// never come out of CRAM, so the compositors use it to tell "free" from
// "already drawn".
var untouched = RGB{1, 1, 1}

// cramColor expands a CRAM entry (--BBGGRR) to 8-bit channels.
func cramColor(c byte) RGB {
	return RGB{R: (c & 3) * 85, G: (c >> 2 & 3) * 85, B: (c >> 4 & 3) * 85}
}

// Tick advances the counters by cycles VDP clocks. Scanline work happens once
// per line boundary; when render is false the line is timed but not drawn.
func (v *VDP) Tick(cycles int, render bool) {
	v.hcounter += cycles
	if v.hcounter < DotsPerLine {
		return
	}
	v.hcounter %= DotsPerLine
	v.vcounter++
	switch {
	case v.vcounter == 0xDB && !v.vJumped:
		v.vcounter = 0xD5
		v.vJumped = true
	case v.vcounter == 0:
		v.vJumped = false
	}

	if v.vcounter < Height {
		if render {
			v.renderLine(int(v.vcounter))
		}
		v.lineCounter--
		if v.lineCounter == 0xFF && v.LineIRQEnabled() {
			v.InterruptPending = true
			v.lineCounter = v.LineReload()
		}
	} else {
		v.lineCounter = v.LineReload()
	}

	if v.vcounter == frameLine {
		v.status |= StatusFrame
		v.InterruptPending = true
		v.frameReady = true
	}
}

// FrameReady reports whether the frame boundary was crossed since the last
// call.
func (v *VDP) FrameReady() bool {
	r := v.frameReady
	v.frameReady = false
	return r
}

func (v *VDP) renderLine(y int) {
	line := v.fb[y*Width : (y+1)*Width]
	if !v.DisplayEnabled() {
		bd := cramColor(v.CRAM[16+v.Backdrop()])
		for x := range line {
			line[x] = bd
		}
		return
	}
	for x := range line {
		line[x] = untouched
	}
	v.drawSprites(y, line)
	v.drawBackground(y, line)
}

// Pixel returns the framebuffer pixel at (x, y).
func (v *VDP) Pixel(x, y int) RGB { return v.fb[y*Width+x] }

// CopyRGBA writes the framebuffer into dst as 8-bit RGBA, row by row.
// dst must hold Width*Height*4 bytes.
func (v *VDP) CopyRGBA(dst []byte) {
	_ = dst[Width*Height*4-1]
	for i, p := range v.fb {
		o := i * 4
		dst[o] = p.R
		dst[o+1] = p.G
		dst[o+2] = p.B
		dst[o+3] = 0xFF
	}
}
