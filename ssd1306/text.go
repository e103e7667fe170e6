package ssd1306

import "github.com/flavioheleno/joypanel/font5x8"

// DrawChar renders ch from the 5x8 font with its top-left corner at (x, y).
// Only set glyph bits are written; characters missing from the font are
// skipped.
func (d *Dev) DrawChar(x, y int, ch rune, on bool) {
	g, ok := font5x8.Lookup(ch)
	if !ok {
		return
	}
	for col, bits := range g {
		for row := 0; row < font5x8.Height; row++ {
			if bits&(1<<uint(row)) != 0 {
				d.SetPixel(x+col, y+row, on)
			}
		}
	}
}

// DrawString renders s left to right starting at (x, y), advancing by
// font5x8.Advance pixels per rune whether or not the font has a glyph for it.
// There is no wrapping.
func (d *Dev) DrawString(x, y int, s string, on bool) {
	for _, ch := range s {
		d.DrawChar(x, y, ch, on)
		x += font5x8.Advance
	}
}
