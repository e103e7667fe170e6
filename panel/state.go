package panel

import "sync/atomic"

// BorderStyle selects how the display frame is drawn.
type BorderStyle int32

const (
	BorderSolid  BorderStyle = iota // Full rectangle outline
	BorderDotted                    // Every 4th pixel on the top and bottom rows

	borderStyles = 2
)

func (b BorderStyle) String() string {
	switch b {
	case BorderSolid:
		return "solid"
	case BorderDotted:
		return "dotted"
	}
	return "unknown"
}

// State is the mutable state shared between the button handlers and the
// render loop. Every field is read and written atomically.
type State struct {
	pwmEnabled atomic.Bool
	border     atomic.Int32
	ledOn      atomic.Bool
}

// NewState returns the power-on state: PWM enabled, solid border, LED off.
func NewState() *State {
	s := &State{}
	s.pwmEnabled.Store(true)
	return s
}

// PWMEnabled reports whether the joystick drives the PWM LEDs.
func (s *State) PWMEnabled() bool {
	return s.pwmEnabled.Load()
}

// TogglePWM flips the PWM flag and returns the new value.
func (s *State) TogglePWM() bool {
	for {
		old := s.pwmEnabled.Load()
		if s.pwmEnabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// Border returns the current border style.
func (s *State) Border() BorderStyle {
	return BorderStyle(s.border.Load())
}

// NextBorder advances to the next border style and returns it.
func (s *State) NextBorder() BorderStyle {
	for {
		old := s.border.Load()
		next := (old + 1) % borderStyles
		if s.border.CompareAndSwap(old, next) {
			return BorderStyle(next)
		}
	}
}

// LEDOn reports whether the toggle LED is lit.
func (s *State) LEDOn() bool {
	return s.ledOn.Load()
}

// ToggleLED flips the toggle LED flag and returns the new value.
func (s *State) ToggleLED() bool {
	for {
		old := s.ledOn.Load()
		if s.ledOn.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
