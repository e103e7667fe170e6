package ssd1306

import "periph.io/x/devices/v3/ssd1306/image1bit"

// SetPixel turns the pixel at (x, y) on or off in the frame buffer.
// Coordinates outside the display are ignored.
func (d *Dev) SetPixel(x, y int, on bool) {
	d.buffer.SetBit(x, y, image1bit.Bit(on))
}

// Pixel reports whether the pixel at (x, y) is on in the frame buffer.
func (d *Dev) Pixel(x, y int) bool {
	return bool(d.buffer.BitAt(x, y))
}

// Clear turns every pixel of the frame buffer off. The display is not
// updated until Show.
func (d *Dev) Clear() {
	clear(d.buffer.Pix)
}

// DrawRect draws the outline of the w×h rectangle anchored at (x, y).
// Parts outside the display are clipped pixel by pixel. A zero or negative
// size is not rejected: with w <= 0 only the two vertical edges are drawn,
// at columns x and x+w-1, and likewise for h.
func (d *Dev) DrawRect(x, y, w, h int, on bool) {
	for i := x; i < x+w; i++ {
		d.SetPixel(i, y, on)
		d.SetPixel(i, y+h-1, on)
	}
	for i := y; i < y+h; i++ {
		d.SetPixel(x, i, on)
		d.SetPixel(x+w-1, i, on)
	}
}

// FillRect sets every pixel of the w×h rectangle anchored at (x, y).
func (d *Dev) FillRect(x, y, w, h int, on bool) {
	for i := x; i < x+w; i++ {
		for j := y; j < y+h; j++ {
			d.SetPixel(i, j, on)
		}
	}
}
