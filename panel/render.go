package panel

import (
	"image"
	"unicode/utf8"

	"github.com/flavioheleno/joypanel/font5x8"
)

// CursorSize is the side of the square cursor, in pixels.
const CursorSize = 8

// dotSpacing is the distance between two dots of the dotted border.
const dotSpacing = 4

// Canvas is the drawing surface of a frame; *ssd1306.Dev implements it.
type Canvas interface {
	Bounds() image.Rectangle
	Clear()
	SetPixel(x, y int, on bool)
	DrawRect(x, y, w, h int, on bool)
	FillRect(x, y, w, h int, on bool)
	DrawString(x, y int, s string, on bool)
}

// Display is a Canvas that can be pushed to hardware.
type Display interface {
	Canvas
	Show() error
}

// Render draws one frame: the cursor at its top-left corner and the border in
// the given style. The canvas is cleared first.
func Render(c Canvas, border BorderStyle, cursor image.Point) {
	r := c.Bounds()
	w, h := r.Dx(), r.Dy()

	c.Clear()
	c.FillRect(cursor.X, cursor.Y, CursorSize, CursorSize, true)

	switch border {
	case BorderDotted:
		for x := 0; x < w; x += dotSpacing {
			c.SetPixel(x, 0, true)
			c.SetPixel(x, h-1, true)
		}
	default:
		c.DrawRect(0, 0, w, h, true)
	}
}

// RenderSplash draws text centered on a blank canvas.
func RenderSplash(c Canvas, text string) {
	r := c.Bounds()
	// The trailing glyph spacing is not part of the text width.
	width := utf8.RuneCountInString(text)*font5x8.Advance - 1
	c.Clear()
	c.DrawString((r.Dx()-width)/2, (r.Dy()-font5x8.Height)/2, text, true)
}
