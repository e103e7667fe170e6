package ssd1306

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// DefaultAddr is the 7-bit I2C address most SSD1306 modules ship with.
const DefaultAddr = 0x3C

// Control bytes leading every I2C transaction.
const (
	ctrlCommand = 0x00
	ctrlData    = 0x40
)

// Command opcodes.
const (
	cmdMemoryMode      = 0x20
	cmdColumnAddr      = 0x21
	cmdPageAddr        = 0x22
	cmdScrollRight     = 0x26
	cmdScrollLeft      = 0x27
	cmdScrollStop      = 0x2E
	cmdScrollStart     = 0x2F
	cmdStartLine       = 0x40
	cmdContrast        = 0x81
	cmdChargePump      = 0x8D
	cmdSegRemapOff     = 0xA0
	cmdSegRemapOn      = 0xA1
	cmdResumeRAM       = 0xA4
	cmdNormalDisplay   = 0xA6
	cmdInvertDisplay   = 0xA7
	cmdMultiplex       = 0xA8
	cmdDisplayOff      = 0xAE
	cmdDisplayOn       = 0xAF
	cmdComScanInc      = 0xC0
	cmdComScanDec      = 0xC8
	cmdDisplayOffset   = 0xD3
	cmdClockDiv        = 0xD5
	cmdPrecharge       = 0xD9
	cmdComPins         = 0xDA
	cmdVCOMHDeselect   = 0xDB
	defaultContrast    = 0xCF
	powerOnSettleDelay = 100 * time.Millisecond
)

var (
	// ErrHalted is returned by every operation after Halt, until Init succeeds.
	ErrHalted = errors.New("ssd1306: halted")
	// ErrNotFound is returned by Probe when nothing answers at the address.
	ErrNotFound = errors.New("ssd1306: device not found")
	// ErrBufferSize is returned by Write when the frame has the wrong length.
	ErrBufferSize = errors.New("ssd1306: invalid buffer size")
)

// sleep is replaced in tests to skip the power-on settle delay.
var sleep = time.Sleep

// Opts is the configuration for the SSD1306 display.
type Opts struct {
	// Display dimensions in pixels
	W int // Width (default: 128, must be ≤128)
	H int // Height (default: 64, must be a multiple of 8 and ≤64)

	// Rotation and COM pin wiring
	Rotated    bool // 180° rotation
	Sequential bool // Sequential COM pin configuration (most 128x32 modules)

	// Contrast is the initial contrast; 0 selects the default (0xCF).
	Contrast byte
}

// Dev is the device handle for the SSD1306 display.
//
// Dev is not safe for concurrent use; it is meant to be driven by a single
// render loop.
type Dev struct {
	// Communication
	c    conn.Conn // I2C connection bound to the device address
	addr uint16

	// Display geometry
	rect image.Rectangle
	opts Opts

	// Pixel buffer, allocated once
	buffer *image1bit.VerticalLSB

	// Scratch transaction buffers so that Show does not allocate
	tx  [2]byte
	win [3]byte

	// State
	halted bool
}

// Probe checks that a device answers at addr by reading its status byte.
//
// It is meant to be called once before NewI2C; a failure is fatal for a
// program that needs the display.
func Probe(b i2c.Bus, addr uint16) error {
	var status [1]byte
	if err := b.Tx(addr, nil, status[:]); err != nil {
		return fmt.Errorf("%w at address 0x%02X: %w", ErrNotFound, addr, err)
	}
	return nil
}

// NewI2C creates a new SSD1306 device connected via I2C and runs the
// initialization sequence.
//
// opts can be nil to use defaults (128x64 display).
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{W: 128, H: 64}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	d := newDev(&i2c.Dev{Bus: b, Addr: addr}, addr, *opts)
	if err := d.Init(); err != nil {
		return nil, err
	}
	return d, nil
}

func newDev(c conn.Conn, addr uint16, opts Opts) *Dev {
	rect := image.Rect(0, 0, opts.W, opts.H)
	return &Dev{
		c:      c,
		addr:   addr,
		rect:   rect,
		opts:   opts,
		buffer: image1bit.NewVerticalLSB(rect),
	}
}

func (o *Opts) validate() error {
	if o.W <= 0 || o.W > 128 {
		return errors.New("ssd1306: width must be between 1 and 128")
	}
	if o.H <= 0 || o.H > 64 || o.H%8 != 0 {
		return errors.New("ssd1306: height must be a multiple of 8 between 8 and 64")
	}
	return nil
}

// Init zeroes the frame buffer, sends the initialization sequence and shows
// the blank frame.
//
// It is called by NewI2C and can be called again to bring the controller back
// to a known state after a failed transaction or a Halt.
func (d *Dev) Init() error {
	d.Clear()
	sleep(powerOnSettleDelay)

	seg, com := byte(cmdSegRemapOn), byte(cmdComScanDec)
	if d.opts.Rotated {
		seg, com = cmdSegRemapOff, cmdComScanInc
	}
	comPins := byte(0x12) // Alternative COM pin configuration
	if d.opts.Sequential {
		comPins = 0x02
	}
	contrast := byte(defaultContrast)
	if d.opts.Contrast != 0 {
		contrast = d.opts.Contrast
	}

	cmds := []byte{
		cmdDisplayOff,
		cmdClockDiv, 0x80, // Default oscillator frequency, divide ratio 1
		cmdMultiplex, byte(d.rect.Dy() - 1),
		cmdDisplayOffset, 0x00,
		cmdStartLine | 0x00,
		cmdChargePump, 0x14, // Enable internal charge pump
		cmdMemoryMode, 0x00, // Horizontal addressing
		seg,
		com,
		cmdComPins, comPins,
		cmdContrast, contrast,
		cmdPrecharge, 0xF1,
		cmdVCOMHDeselect, 0x40,
		cmdResumeRAM,
		cmdNormalDisplay,
		cmdDisplayOn,
	}
	if err := d.sendCommands(cmds...); err != nil {
		return fmt.Errorf("ssd1306: init: %w", err)
	}

	d.halted = false
	return d.show()
}

// sendCommands sends each command byte in its own transaction.
func (d *Dev) sendCommands(cmds ...byte) error {
	d.tx[0] = ctrlCommand
	for _, cmd := range cmds {
		d.tx[1] = cmd
		if err := d.c.Tx(d.tx[:], nil); err != nil {
			return err
		}
	}
	return nil
}

// sendRange sends the two operands of an addressing command in one transaction.
func (d *Dev) sendRange(start, end byte) error {
	d.win = [3]byte{ctrlCommand, start, end}
	return d.c.Tx(d.win[:], nil)
}

// setWindow sets the column and page range covering the whole display.
func (d *Dev) setWindow() error {
	if err := d.sendCommands(cmdColumnAddr); err != nil {
		return err
	}
	if err := d.sendRange(0, byte(d.rect.Dx()-1)); err != nil {
		return err
	}
	if err := d.sendCommands(cmdPageAddr); err != nil {
		return err
	}
	return d.sendRange(0, byte(d.rect.Dy()/8-1))
}

// Show sends the whole frame buffer to the display.
//
// The full frame is always transmitted, one data transaction per byte.
func (d *Dev) Show() error {
	if d.halted {
		return ErrHalted
	}
	return d.show()
}

func (d *Dev) show() error {
	if err := d.setWindow(); err != nil {
		return fmt.Errorf("ssd1306: show: %w", err)
	}
	d.tx[0] = ctrlData
	for _, b := range d.buffer.Pix {
		d.tx[1] = b
		if err := d.c.Tx(d.tx[:], nil); err != nil {
			return fmt.Errorf("ssd1306: show: %w", err)
		}
	}
	return nil
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds returns the image bounds of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Write replaces the frame buffer with raw pixel data in VerticalLSB format
// and shows it. The data must be exactly W*H/8 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	if d.halted {
		return 0, ErrHalted
	}
	if len(pixels) != len(d.buffer.Pix) {
		return 0, ErrBufferSize
	}
	copy(d.buffer.Pix, pixels)
	if err := d.show(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

// Draw draws an image onto the frame buffer and shows the full frame.
// The dst rectangle specifies the destination region on the display.
// The src image is positioned at src point sp within the destination.
// Colors are thresholded to on/off.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}
	dst = dst.Intersect(d.rect)
	if !dst.Empty() {
		draw.Draw(d.buffer, dst, src, sp, draw.Src)
	}
	return d.show()
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(contrast byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommands(cmdContrast, contrast)
}

// Invert inverts the display colors (lit becomes dark and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return ErrHalted
	}
	mode := byte(cmdNormalDisplay)
	if invert {
		mode = cmdInvertDisplay
	}
	return d.sendCommands(mode)
}

// Halt turns the display off.
// After calling Halt, the display will not respond to further commands
// until Init is called again.
func (d *Dev) Halt() error {
	d.halted = true
	return d.sendCommands(cmdDisplayOff)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%dx%d@0x%02X}", d.rect.Dx(), d.rect.Dy(), d.addr)
}

// ScrollSpeed defines the horizontal scroll step interval.
type ScrollSpeed byte

const (
	// Scroll step intervals (in display frames)
	Speed2Frames   ScrollSpeed = 0x07
	Speed3Frames   ScrollSpeed = 0x04
	Speed4Frames   ScrollSpeed = 0x05
	Speed5Frames   ScrollSpeed = 0x00
	Speed25Frames  ScrollSpeed = 0x06
	Speed64Frames  ScrollSpeed = 0x01
	Speed128Frames ScrollSpeed = 0x02
	Speed256Frames ScrollSpeed = 0x03
)

// ScrollHorizontal starts horizontal scrolling on the display.
// startPage and endPage specify the scroll region in pages of 8 rows.
// If right is true, scrolls right; otherwise scrolls left.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, speed ScrollSpeed, right bool) error {
	if d.halted {
		return ErrHalted
	}
	pages := byte(d.rect.Dy() / 8)
	if startPage >= pages || endPage >= pages || startPage > endPage {
		return errors.New("ssd1306: scroll page out of range")
	}
	if speed > Speed2Frames {
		return errors.New("ssd1306: invalid scroll speed")
	}

	scrollCmd := byte(cmdScrollLeft)
	if right {
		scrollCmd = cmdScrollRight
	}

	// Scroll must be stopped before the setup can change.
	return d.sendCommands(
		cmdScrollStop,
		scrollCmd,
		0x00, // Dummy byte
		startPage,
		byte(speed),
		endPage,
		0x00, 0xFF, // Dummy bytes
		cmdScrollStart,
	)
}

// StopScroll stops all scrolling. The RAM content must be rewritten after
// scrolling was active, so the frame buffer is shown again.
func (d *Dev) StopScroll() error {
	if d.halted {
		return ErrHalted
	}
	if err := d.sendCommands(cmdScrollStop); err != nil {
		return err
	}
	return d.show()
}

var _ display.Drawer = (*Dev)(nil)
