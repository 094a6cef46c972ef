package vdp

// tileRow decodes one row of a 4-bitplane tile starting at addr into eight
// palette indices, left to right. flip mirrors the row horizontally.
func (v *VDP) tileRow(addr uint16, flip bool) [8]byte {
	var out [8]byte
	p0 := v.VRAM[addr&0x3FFF]
	p1 := v.VRAM[(addr+1)&0x3FFF]
	p2 := v.VRAM[(addr+2)&0x3FFF]
	p3 := v.VRAM[(addr+3)&0x3FFF]
	for px := 0; px < 8; px++ {
		bit := 7 - byte(px)
		if flip {
			bit = byte(px)
		}
		out[px] = (p3>>bit&1)<<3 | (p2>>bit&1)<<2 | (p1>>bit&1)<<1 | p0>>bit&1
	}
	return out
}

// drawBackground composites the 32 name-table columns of line y. A pixel is
// written where nothing is drawn yet, or over a sprite when the tile has its
// priority bit and a non-zero colour.
func (v *VDP) drawBackground(y int, line []RGB) {
	scrollY := int(v.ScrollY())
	row := y/8 + scrollY>>3
	if y%8+scrollY&7 > 7 {
		row++
	}
	row %= 28

	fineY := (y + scrollY) % 8
	base := v.NameTableBase()
	for col := 0; col < 32; col++ {
		entryAddr := base + uint16(row*64+col*2)
		entry := uint16(v.VRAM[entryAddr&0x3FFF]) | uint16(v.VRAM[(entryAddr+1)&0x3FFF])<<8

		priority := entry&(1<<12) != 0
		var palBase byte
		if entry&(1<<11) != 0 {
			palBase = 16
		}
		tileY := fineY
		if entry&(1<<10) != 0 {
			tileY = 7 - tileY
		}
		pattern := (entry&0x1FF)*32 + uint16(tileY*4)
		pixels := v.tileRow(pattern, entry&(1<<9) != 0)

		x := col*8 + int(v.ScrollX())
		for _, idx := range pixels {
			x %= Width
			pal := idx + palBase
			switch {
			case x < 8 && v.MaskLeft():
				line[x] = RGB{}
			case line[x] == untouched || priority && pal != 0 && pal != 16:
				line[x] = cramColor(v.CRAM[pal])
			}
			x++
		}
	}
}

// drawSprites composites up to eight sprites on line y. A ninth sprite on the
// line sets the overflow flag and ends the scan. Sprites earlier in the
// attribute table win overlaps, as on hardware: a later sprite never paints
// over an earlier one's opaque pixel, it only sets the collision flag.
func (v *VDP) drawSprites(y int, line []RGB) {
	sat := v.SATBase()
	size := 8
	if v.TallSprites() {
		size = 16
	}

	visible := 0
	for s := uint16(0); s < 64; s++ {
		sy := int(v.VRAM[sat+s])
		if sy == 0xD0 && v.Mode4() {
			return
		}
		sy++
		if y < sy || y >= sy+size {
			continue
		}
		visible++
		if visible > 8 {
			v.status |= StatusOverflow
			return
		}

		sx := int(v.VRAM[sat+128+s*2])
		n := uint16(v.VRAM[sat+129+s*2])
		if v.ShiftSprites() {
			sx -= 8
		}
		addr := v.SpritePatternBase() + n*32 + uint16(y-sy)*4
		for px, idx := range v.tileRow(addr, false) {
			x := sx + px
			if x < 0 || x >= Width || x < 8 && v.MaskLeft() || idx == 0 {
				continue
			}
			if line[x] != untouched {
				v.status |= StatusCollision
				continue
			}
			line[x] = cramColor(v.CRAM[16+idx])
		}
	}
}
