package ssd1306

import (
	"bytes"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func newCanvas() *Dev {
	return newDev(nil, DefaultAddr, Opts{W: 128, H: 64})
}

func countOn(d *Dev) int {
	n := 0
	for y := 0; y < d.rect.Dy(); y++ {
		for x := 0; x < d.rect.Dx(); x++ {
			if d.Pixel(x, y) {
				n++
			}
		}
	}
	return n
}

func TestSetPixelRoundTrip(t *testing.T) {
	dev := newCanvas()
	for i := range dev.buffer.Pix {
		dev.buffer.Pix[i] = byte(i*7 + 3)
	}

	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			before := append([]byte(nil), dev.buffer.Pix...)
			idx, bit := x+(y/8)*128, byte(1)<<(y%8)

			dev.SetPixel(x, y, true)
			dev.SetPixel(x, y, false)

			if dev.buffer.Pix[idx]&bit != 0 {
				t.Fatalf("bit for (%d, %d) still set", x, y)
			}
			before[idx] &^= bit
			if !bytes.Equal(before, dev.buffer.Pix) {
				t.Fatalf("SetPixel(%d, %d) touched other bits", x, y)
			}
		}
	}
}

func TestSetPixelOutOfRange(t *testing.T) {
	dev := newCanvas()
	dev.FillRect(0, 0, 128, 64, true)
	dev.SetPixel(64, 32, false)
	before := append([]byte(nil), dev.buffer.Pix...)

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {128, 0}, {0, 64}, {128, 64}, {-5, 70}, {1 << 20, 1 << 20}} {
		dev.SetPixel(p[0], p[1], true)
		dev.SetPixel(p[0], p[1], false)
		if dev.Pixel(p[0], p[1]) {
			t.Errorf("Pixel(%d, %d) = true outside the display", p[0], p[1])
		}
	}
	if !bytes.Equal(before, dev.buffer.Pix) {
		t.Error("out of range SetPixel modified the buffer")
	}
}

func TestClear(t *testing.T) {
	dev := newCanvas()
	dev.FillRect(0, 0, 128, 64, true)

	dev.Clear()

	if n := countOn(dev); n != 0 {
		t.Errorf("%d pixels on after Clear, want 0", n)
	}
	if allocs := testing.AllocsPerRun(100, dev.Clear); allocs != 0 {
		t.Errorf("Clear allocates %v times, want 0", allocs)
	}
}

func TestFillRectMatchesOracle(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"inside", 10, 10, 8, 8},
		{"full screen", 0, 0, 128, 64},
		{"single pixel", 127, 63, 1, 1},
		{"crosses pages", 3, 5, 20, 13},
		{"off left and top", -4, -3, 10, 10},
		{"off right and bottom", 120, 60, 20, 20},
		{"larger than screen", -10, -10, 200, 100},
		{"fully outside", 200, 200, 5, 5},
		{"zero width", 5, 5, 0, 10},
		{"zero height", 5, 5, 10, 0},
		{"negative width", 20, 5, -8, 10},
		{"negative height", 5, 20, 10, -8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newCanvas()
			dev.FillRect(tt.x, tt.y, tt.w, tt.h, true)

			for py := 0; py < 64; py++ {
				for px := 0; px < 128; px++ {
					want := px >= tt.x && px < tt.x+tt.w && py >= tt.y && py < tt.y+tt.h
					if got := dev.Pixel(px, py); got != want {
						t.Fatalf("Pixel(%d, %d) = %v, want %v", px, py, got, want)
					}
				}
			}
		})
	}
}

func TestFillRectOff(t *testing.T) {
	dev := newCanvas()
	dev.FillRect(0, 0, 128, 64, true)
	dev.FillRect(10, 10, 8, 8, false)

	if n := countOn(dev); n != 128*64-64 {
		t.Errorf("%d pixels on, want %d", n, 128*64-64)
	}
	if dev.Pixel(10, 10) || dev.Pixel(17, 17) || !dev.Pixel(18, 18) {
		t.Error("FillRect(false) did not clear exactly the rectangle")
	}
}

func TestDrawRectPerimeter(t *testing.T) {
	dev := newCanvas()
	dev.DrawRect(0, 0, 128, 64, true)

	if n := countOn(dev); n != 2*128+2*64-4 {
		t.Errorf("%d pixels on, want %d", n, 2*128+2*64-4)
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			want := x == 0 || x == 127 || y == 0 || y == 63
			if got := dev.Pixel(x, y); got != want {
				t.Fatalf("Pixel(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestDrawRect(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
		wantOn     int
	}{
		{"small square", 10, 10, 8, 8, 28},
		{"single pixel", 5, 5, 1, 1, 1},
		{"horizontal line", 5, 5, 10, 1, 10},
		{"vertical line", 5, 5, 1, 10, 10},
		{"2x2", 5, 5, 2, 2, 4},
		{"clipped left", -2, 10, 6, 4, 4 + 4 + 2},
		{"clipped corner", 124, 60, 10, 10, 4 + 4 - 1},
		{"zero width", 5, 5, 0, 10, 20},
		{"zero height", 5, 5, 10, 0, 20},
		{"negative size", 20, 20, -5, -5, 0},
		{"negative width", 20, 20, -5, 5, 10},
		{"negative height", 20, 20, 5, -5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newCanvas()
			dev.DrawRect(tt.x, tt.y, tt.w, tt.h, true)
			if n := countOn(dev); n != tt.wantOn {
				t.Errorf("%d pixels on, want %d", n, tt.wantOn)
			}
		})
	}
}

// outline returns the pixels lit by the reference outline loops, without any
// clipping or size checks.
func outline(x, y, w, h int) map[image.Point]bool {
	pts := map[image.Point]bool{}
	for i := x; i < x+w; i++ {
		pts[image.Pt(i, y)] = true
		pts[image.Pt(i, y+h-1)] = true
	}
	for i := y; i < y+h; i++ {
		pts[image.Pt(x, i)] = true
		pts[image.Pt(x+w-1, i)] = true
	}
	return pts
}

func TestDrawRectMatchesReferenceLoops(t *testing.T) {
	tests := []struct {
		name       string
		x, y, w, h int
	}{
		{"inside", 10, 10, 8, 8},
		{"zero width", 5, 5, 0, 10},
		{"zero height", 5, 5, 10, 0},
		{"zero size", 5, 5, 0, 0},
		{"negative width", 20, 20, -5, 5},
		{"negative height", 20, 20, 5, -5},
		{"negative size", 20, 20, -5, -5},
		{"negative width at left edge", 2, 10, -6, 4},
		{"zero height at top edge", 10, 0, 6, 0},
		{"clipped corner", 124, 60, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newCanvas()
			dev.DrawRect(tt.x, tt.y, tt.w, tt.h, true)

			want := outline(tt.x, tt.y, tt.w, tt.h)
			for py := 0; py < 64; py++ {
				for px := 0; px < 128; px++ {
					if got := dev.Pixel(px, py); got != want[image.Pt(px, py)] {
						t.Fatalf("Pixel(%d, %d) = %v, want %v", px, py, got, want[image.Pt(px, py)])
					}
				}
			}
		})
	}
}

func TestDrawRectOffErasesSameOutline(t *testing.T) {
	dev := newCanvas()
	dev.FillRect(0, 0, 128, 64, true)
	dev.DrawRect(30, 30, -4, 6, false)

	if n := countOn(dev); n != 128*64-12 {
		t.Errorf("%d pixels on, want %d", n, 128*64-12)
	}
	if dev.Pixel(30, 30) || dev.Pixel(25, 35) || !dev.Pixel(26, 30) {
		t.Error("DrawRect(false) with negative width erased the wrong columns")
	}
}

func TestFrameBufferPageLayout(t *testing.T) {
	dev := newDev(nil, DefaultAddr, Opts{W: 3, H: 16})

	dev.SetPixel(0, 0, true)
	dev.SetPixel(1, 7, true)
	dev.SetPixel(2, 8, true)
	dev.SetPixel(2, 15, true)

	want := []byte{
		0x01, 0x80, 0x00, // page 0
		0x00, 0x00, 0x81, // page 1
	}
	if !bytes.Equal(dev.buffer.Pix, want) {
		t.Errorf("Pix = % X, want % X", dev.buffer.Pix, want)
	}
}

func TestFrameBufferAddressing(t *testing.T) {
	dev := newCanvas()
	rnd := rand.New(rand.NewPCG(1, 2))
	want := make([]byte, 128*64/8)

	for i := 0; i < 5000; i++ {
		x, y := rnd.IntN(128), rnd.IntN(64)
		on := rnd.IntN(2) == 0
		dev.SetPixel(x, y, on)

		idx, bit := x+(y/8)*128, byte(1)<<(y%8)
		if on {
			want[idx] |= bit
		} else {
			want[idx] &^= bit
		}
	}

	if !bytes.Equal(dev.buffer.Pix, want) {
		t.Error("frame buffer does not follow byte x+(y/8)*W, bit y%8")
	}
}

func TestFrameBufferSizes(t *testing.T) {
	tests := []struct {
		w, h    int
		wantLen int
	}{
		{128, 64, 1024},
		{128, 32, 512},
		{64, 48, 384},
		{1, 8, 1},
	}

	for _, tt := range tests {
		dev := newDev(nil, DefaultAddr, Opts{W: tt.w, H: tt.h})
		if len(dev.buffer.Pix) != tt.wantLen {
			t.Errorf("%dx%d: len(Pix) = %d, want %d", tt.w, tt.h, len(dev.buffer.Pix), tt.wantLen)
		}
	}
}

func TestFrameBufferColorConversion(t *testing.T) {
	dev := newCanvas()

	dev.buffer.Set(0, 0, color.White)
	dev.buffer.Set(1, 0, color.Black)
	dev.buffer.Set(2, 0, image1bit.On)

	if !dev.Pixel(0, 0) || dev.Pixel(1, 0) || !dev.Pixel(2, 0) {
		t.Error("colors were not converted to on/off pixels")
	}
	if dev.buffer.At(0, 0) != image1bit.On {
		t.Errorf("At(0, 0) = %v, want On", dev.buffer.At(0, 0))
	}
}
