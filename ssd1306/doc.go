// Package ssd1306 controls a SSD1306 monochrome OLED display via I2C.
//
// The SSD1306 is a 1-bit OLED controller supporting up to 128×64 pixels.
// This driver implements the display.Drawer interface from periph.io and
// adds direct drawing primitives on its in-memory frame buffer.
//
// # Display Characteristics
//
// - 1 bit per pixel, one byte covers 8 vertically stacked pixels (a page)
// - Common resolutions are 128×64 and 128×32
// - Hardware scrolling support (horizontal only)
// - Adjustable contrast (0-255)
// - Display inversion
//
// # Hardware Connection
//
// Connect the SSD1306 display to your system via I2C:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → I2C Clock (SCL)
//	SDA         → I2C Data (SDA)
//
// Most modules answer on address 0x3C; some have a jumper selecting 0x3D.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/host/v3"
//		"github.com/flavioheleno/joypanel/ssd1306"
//	)
//
//	func main() {
//		host.Init()
//
//		bus, _ := i2creg.Open("")
//		defer bus.Close()
//
//		if err := ssd1306.Probe(bus, ssd1306.DefaultAddr); err != nil {
//			panic(err)
//		}
//		dev, _ := ssd1306.NewI2C(bus, ssd1306.DefaultAddr, &ssd1306.Opts{W: 128, H: 64})
//		defer dev.Halt()
//
//		dev.Clear()
//		dev.DrawRect(0, 0, 128, 64, true)
//		dev.DrawString(10, 28, "Hello", true)
//		dev.Show()
//	}
//
// # Drawing
//
// SetPixel, DrawRect, FillRect, DrawChar and DrawString only touch the frame
// buffer; Show transfers it to the panel. Coordinates outside the display are
// ignored, so shapes and text clip at the edges.
//
// Draw accepts any image.Image, converts it with image1bit.BitModel and shows
// the result. Write copies an already packed frame (W*H/8 bytes, page layout).
//
// # Protocol
//
// Every I2C transaction starts with a control byte: 0x00 for a command byte,
// 0x40 for a data byte. Init sends one command per transaction. Show sets the
// column and page window in four command transactions, then sends the frame
// buffer one data byte per transaction.
//
// # Hardware Scrolling
//
//	// Start scrolling left over the whole panel
//	dev.ScrollHorizontal(0, 7, ssd1306.Speed5Frames, false)
//	time.Sleep(5 * time.Second)
//
//	// Stop scrolling and restore the frame buffer
//	dev.StopScroll()
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
