package panel

import (
	"image"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Joystick samples are 12 bits, centered at mid-scale.
const (
	SampleMax    = 4095
	SampleCenter = 2048

	DefaultDeadzone = 100
	DefaultWrap     = 4095
)

// DutyLevel maps a joystick sample to a PWM level in [0, wrap] proportional
// to its distance from the center. Samples within deadzone of the center map
// to 0.
func DutyLevel(sample uint16, deadzone, wrap uint32) uint32 {
	d := int(min(sample, SampleMax)) - SampleCenter
	if d < 0 {
		d = -d
	}
	if uint32(d) <= deadzone {
		return 0
	}
	return uint32(min(uint64(d)*uint64(wrap)/SampleCenter, uint64(wrap)))
}

// CursorPosition maps a joystick reading to the top-left corner of a
// size×size cursor on a w×h display. The Y axis is inverted so that pushing
// the stick up moves the cursor up.
func CursorPosition(x, y uint16, w, h, size int) image.Point {
	x, y = min(x, SampleMax), min(y, SampleMax)
	return image.Point{
		X: int(x) * (w - size) / SampleMax,
		Y: (SampleMax - int(y)) * (h - size) / SampleMax,
	}
}

// Duty converts a level in [0, wrap] to a periph duty cycle.
func Duty(level, wrap uint32) gpio.Duty {
	if wrap == 0 {
		return 0
	}
	level = min(level, wrap)
	return gpio.Duty(uint64(level) * uint64(gpio.DutyMax) / uint64(wrap))
}

// Sampler is an analog input; analog.PinADC implements it.
type Sampler interface {
	Read() (analog.Sample, error)
}

// Axis reads one joystick axis as a 12 bit sample.
type Axis struct {
	pin       Sampler
	fullScale physic.ElectricPotential
}

// NewAxis returns an Axis reading pin. When fullScale is positive the sample
// voltage is rescaled so that fullScale reads as SampleMax; otherwise the raw
// converter value is used as is.
func NewAxis(pin Sampler, fullScale physic.ElectricPotential) *Axis {
	return &Axis{pin: pin, fullScale: fullScale}
}

// Sample reads the axis, clamped to [0, SampleMax].
func (a *Axis) Sample() (uint16, error) {
	s, err := a.pin.Read()
	if err != nil {
		return 0, err
	}
	var v int64
	if a.fullScale > 0 {
		v = int64(s.V) * SampleMax / int64(a.fullScale)
	} else {
		v = int64(s.Raw)
	}
	return uint16(max(0, min(v, SampleMax))), nil
}
