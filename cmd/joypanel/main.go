// Command joypanel drives an SSD1306 display, three LEDs and two buttons from
// an analog joystick.
//
// Hardware Setup:
//
//	Part              Raspberry Pi
//	SSD1306 SDA/SCL   I2C1 (GPIO2/GPIO3), address 0x3C
//	ADS1115 SDA/SCL   I2C1 (GPIO2/GPIO3), address 0x48
//	Joystick VRx      ADS1115 A1
//	Joystick VRy      ADS1115 A0
//	Joystick SW       GPIO22 (pulled up, active low)
//	Button A          GPIO5 (pulled up, active low)
//	LED green         GPIO11
//	LED blue          GPIO12 (PWM)
//	LED red           GPIO13 (PWM)
//
// Every setting can be overridden in the YAML file given with --config.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/flavioheleno/joypanel/internal/config"
	"github.com/flavioheleno/joypanel/internal/log"
	"github.com/flavioheleno/joypanel/panel"
	"github.com/flavioheleno/joypanel/ssd1306"
)

var (
	configPath string
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:          "joypanel",
	Short:        "joystick driven OLED and LED panel",
	Long:         "joypanel samples a two-axis joystick, dims two LEDs with it and draws a cursor on an SSD1306 display.",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file (created with defaults when missing)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging and error stacks")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if es, ok := err.(interface{ ErrorStack() string }); debug && ok {
			fmt.Fprintln(os.Stderr, es.ErrorStack())
		}
		stop()
		os.Exit(1)
	}
}

// adcChannels maps the configured input number to a single-ended channel.
var adcChannels = [...]ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}

func run(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	if debug {
		level = log.LevelDebug
	}
	log.SetLevel(level)

	if _, err := host.Init(); err != nil {
		return errors.WrapPrefix(err, "periph.io init", 0)
	}

	bus, err := i2creg.Open(cfg.Display.Bus)
	if err != nil {
		return errors.WrapPrefix(err, "open i2c bus", 0)
	}
	defer bus.Close()

	// A missing display is fatal; there is nothing to show the cursor on.
	if err := ssd1306.Probe(bus, cfg.Display.Addr); err != nil {
		return errors.Wrap(err, 0)
	}
	dev, err := ssd1306.NewI2C(bus, cfg.Display.Addr, &ssd1306.Opts{
		W:          cfg.Display.Width,
		H:          cfg.Display.Height,
		Rotated:    cfg.Display.Rotated,
		Sequential: cfg.Display.Sequential,
		Contrast:   cfg.Display.Contrast,
	})
	if err != nil {
		return errors.Wrap(err, 0)
	}
	defer func() {
		if err := dev.Halt(); err != nil {
			log.Error("display halt failed", err)
		}
	}()
	log.Info("display ready", "dev", dev.String())

	x, y, err := openAxes(bus, cfg)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	pins, err := openPins(cfg.Pins)
	if err != nil {
		return errors.Wrap(err, 0)
	}
	pins.X, pins.Y = x, y

	p, err := panel.New(dev, pins, panel.NewState(), panel.Config{
		Deadzone:     cfg.Deadzone,
		Wrap:         cfg.PWMWrap,
		PWMFrequency: physic.Frequency(cfg.PWMFrequencyHz) * physic.Hertz,
		Frame:        cfg.Frame,
		Debounce:     cfg.Debounce,
		Splash:       cfg.Splash,
	})
	if err != nil {
		return errors.Wrap(err, 0)
	}

	log.Info("panel running", "frame", cfg.Frame, "debounce", cfg.Debounce)
	if err := p.Run(ctx); err != nil {
		return errors.Wrap(err, 0)
	}
	log.Info("panel stopped")
	return nil
}

// openAxes returns the joystick axes, sampled by an ADS1115 sharing the
// display bus.
func openAxes(bus i2c.Bus, cfg *config.Config) (x, y *panel.Axis, err error) {
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: cfg.ADC.Addr})
	if err != nil {
		return nil, nil, fmt.Errorf("ads1115: %w", err)
	}
	fullScale := physic.ElectricPotential(cfg.ADC.FullScaleMv) * physic.MilliVolt
	rate := cfg.Frame.Seconds()
	freq := 100 * physic.Hertz
	if rate > 0 {
		freq = physic.Frequency(2/rate) * physic.Hertz
	}

	px, err := adc.PinForChannel(adcChannels[cfg.ADC.ChannelX], fullScale, freq, ads1x15.SaveEnergy)
	if err != nil {
		return nil, nil, fmt.Errorf("ads1115 channel %d: %w", cfg.ADC.ChannelX, err)
	}
	py, err := adc.PinForChannel(adcChannels[cfg.ADC.ChannelY], fullScale, freq, ads1x15.SaveEnergy)
	if err != nil {
		return nil, nil, fmt.Errorf("ads1115 channel %d: %w", cfg.ADC.ChannelY, err)
	}
	return panel.NewAxis(px, fullScale), panel.NewAxis(py, fullScale), nil
}

func openPins(names config.PinsConfig) (panel.Pins, error) {
	byName := func(name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("gpio pin %s not found", name)
		}
		return p, nil
	}

	var pins panel.Pins
	var err error
	if pins.Red, err = byName(names.LEDRed); err != nil {
		return pins, err
	}
	if pins.Blue, err = byName(names.LEDBlue); err != nil {
		return pins, err
	}
	if pins.Green, err = byName(names.LEDGreen); err != nil {
		return pins, err
	}
	if pins.JoystickButton, err = byName(names.JoystickButton); err != nil {
		return pins, err
	}
	if pins.ButtonA, err = byName(names.ButtonA); err != nil {
		return pins, err
	}
	return pins, nil
}
