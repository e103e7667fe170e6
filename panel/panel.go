// Package panel runs the joystick panel: two analog axes dim two PWM LEDs and
// move a cursor on a monochrome display, while two buttons toggle an LED, the
// border style and the PWM output.
package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flavioheleno/joypanel/internal/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultFrame is the render loop cadence.
	DefaultFrame = 50 * time.Millisecond
	// DefaultPWMFrequency is the PWM carrier of the dimmed LEDs.
	DefaultPWMFrequency = physic.KiloHertz

	// edgePoll bounds how long a button goroutine waits for an edge before
	// checking for cancellation.
	edgePoll = 100 * time.Millisecond
)

// Dimmer is a PWM output; gpio.PinOut implements it.
type Dimmer interface {
	PWM(duty gpio.Duty, f physic.Frequency) error
}

// Pins are the hardware collaborators of the panel.
type Pins struct {
	X, Y *Axis // Joystick axes

	Red   Dimmer // Brightness follows the X axis
	Blue  Dimmer // Brightness follows the Y axis
	Green gpio.PinOut

	JoystickButton gpio.PinIn // Toggles Green and cycles the border style
	ButtonA        gpio.PinIn // Toggles PWM output
}

// Config holds the tunables of the panel. Zero values select the defaults.
type Config struct {
	Deadzone     uint32
	Wrap         uint32
	PWMFrequency physic.Frequency
	Frame        time.Duration
	Debounce     time.Duration
	Splash       string // Shown once at startup when not empty
}

func (c *Config) normalize() {
	if c.Deadzone == 0 {
		c.Deadzone = DefaultDeadzone
	}
	if c.Wrap == 0 {
		c.Wrap = DefaultWrap
	}
	if c.PWMFrequency <= 0 {
		c.PWMFrequency = DefaultPWMFrequency
	}
	if c.Frame <= 0 {
		c.Frame = DefaultFrame
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
}

// button ties an edge-triggered input to a debounced handler.
type button struct {
	name     string
	pin      gpio.PinIn
	debounce *Debouncer
	onPress  func()
}

// handle runs the press handler if the edge at now survives debouncing.
func (b *button) handle(now time.Time) bool {
	if !b.debounce.Accept(now) {
		log.Debug("edge rejected", "button", b.name)
		return false
	}
	b.onPress()
	return true
}

// Panel is the application: one render loop plus one goroutine per button.
type Panel struct {
	dev   Display
	pins  Pins
	state *State
	cfg   Config

	buttons []*button
	now     func() time.Time
}

// New configures the pins and returns a Panel. state is shared with the
// button handlers; pass NewState() for the power-on state.
func New(dev Display, pins Pins, state *State, cfg Config) (*Panel, error) {
	if state == nil {
		return nil, errors.New("panel: missing state")
	}
	if dev == nil || pins.X == nil || pins.Y == nil || pins.Red == nil || pins.Blue == nil ||
		pins.Green == nil || pins.JoystickButton == nil || pins.ButtonA == nil {
		return nil, errors.New("panel: missing display or pin")
	}
	cfg.normalize()

	p := &Panel{
		dev:   dev,
		pins:  pins,
		state: state,
		cfg:   cfg,
		now:   time.Now,
	}
	p.buttons = []*button{
		{name: "joystick", pin: pins.JoystickButton, debounce: NewDebouncer(cfg.Debounce), onPress: p.onJoystickButton},
		{name: "a", pin: pins.ButtonA, debounce: NewDebouncer(cfg.Debounce), onPress: p.onButtonA},
	}

	for _, b := range p.buttons {
		if err := b.pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("panel: button %s: %w", b.name, err)
		}
	}
	if err := pins.Green.Out(gpio.Level(state.LEDOn())); err != nil {
		return nil, fmt.Errorf("panel: green led: %w", err)
	}
	if err := p.setLevels(0, 0); err != nil {
		return nil, err
	}
	return p, nil
}

// onJoystickButton toggles the green LED and cycles the border style.
func (p *Panel) onJoystickButton() {
	on := p.state.ToggleLED()
	if err := p.pins.Green.Out(gpio.Level(on)); err != nil {
		log.Error("green led", err)
	}
	border := p.state.NextBorder()
	log.Info("joystick button pressed", "border", border, "led", on)
}

// onButtonA toggles PWM output; disabling it turns both dimmed LEDs off at once.
func (p *Panel) onButtonA() {
	enabled := p.state.TogglePWM()
	if !enabled {
		if err := p.setLevels(0, 0); err != nil {
			log.Error("pwm off", err)
		}
	}
	log.Info("button A pressed", "pwm", enabled)
}

func (p *Panel) setLevels(red, blue uint32) error {
	if err := p.pins.Red.PWM(Duty(red, p.cfg.Wrap), p.cfg.PWMFrequency); err != nil {
		return fmt.Errorf("panel: red led: %w", err)
	}
	if err := p.pins.Blue.PWM(Duty(blue, p.cfg.Wrap), p.cfg.PWMFrequency); err != nil {
		return fmt.Errorf("panel: blue led: %w", err)
	}
	return nil
}

// Frame samples the joystick, updates the LEDs and renders and shows one frame.
func (p *Panel) Frame() error {
	x, err := p.pins.X.Sample()
	if err != nil {
		return fmt.Errorf("panel: sample x: %w", err)
	}
	y, err := p.pins.Y.Sample()
	if err != nil {
		return fmt.Errorf("panel: sample y: %w", err)
	}

	var red, blue uint32
	if p.state.PWMEnabled() {
		red = DutyLevel(x, p.cfg.Deadzone, p.cfg.Wrap)
		blue = DutyLevel(y, p.cfg.Deadzone, p.cfg.Wrap)
	}
	if err := p.setLevels(red, blue); err != nil {
		return err
	}

	r := p.dev.Bounds()
	Render(p.dev, p.state.Border(), CursorPosition(x, y, r.Dx(), r.Dy(), CursorSize))
	return p.dev.Show()
}

// watch dispatches falling edges of b until ctx is done.
func (p *Panel) watch(ctx context.Context, b *button) {
	for ctx.Err() == nil {
		if b.pin.WaitForEdge(edgePoll) {
			b.handle(p.now())
		}
	}
}

// Run drives the panel until ctx is done. A failing frame is logged and the
// next frame proceeds; the display may show stale content meanwhile.
func (p *Panel) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, b := range p.buttons {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.watch(ctx, b)
		}()
	}
	defer wg.Wait()

	if p.cfg.Splash != "" {
		RenderSplash(p.dev, p.cfg.Splash)
		if err := p.dev.Show(); err != nil {
			log.Error("splash", err)
		}
	}

	ticker := time.NewTicker(p.cfg.Frame)
	defer ticker.Stop()

	failures := 0
	for {
		if err := p.Frame(); err != nil {
			failures++
			log.Error("frame failed", err, "failures", failures)
		} else if failures > 0 {
			log.Info("frame recovered", "failures", failures)
			failures = 0
		}

		select {
		case <-ctx.Done():
			if err := p.setLevels(0, 0); err != nil {
				log.Error("leds off", err)
			}
			return nil
		case <-ticker.C:
		}
	}
}
