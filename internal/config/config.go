// Package config holds the compiled-in hardware defaults and their optional
// YAML overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DisplayConfig describes the SSD1306 module.
type DisplayConfig struct {
	// Bus is the periph.io I2C bus name ("" selects the first bus).
	Bus string `yaml:"bus"`
	// Addr is the 7-bit I2C address.
	Addr uint16 `yaml:"addr"`
	// Width and Height are the panel size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Rotated flips the panel by 180°.
	Rotated bool `yaml:"rotated"`
	// Sequential selects sequential COM pin wiring (most 128x32 modules).
	Sequential bool `yaml:"sequential"`
	// Contrast overrides the init contrast when non-zero.
	Contrast byte `yaml:"contrast"`
}

// ADCConfig describes the ADS1115 converter sampling the joystick.
type ADCConfig struct {
	Addr     uint16 `yaml:"addr"`
	ChannelX int    `yaml:"channel_x"`
	ChannelY int    `yaml:"channel_y"`
	// FullScaleMv is the joystick supply voltage, read as the top of the range.
	FullScaleMv int `yaml:"full_scale_mv"`
}

// PinsConfig holds periph.io GPIO names.
type PinsConfig struct {
	LEDGreen       string `yaml:"led_green"`
	LEDBlue        string `yaml:"led_blue"`
	LEDRed         string `yaml:"led_red"`
	JoystickButton string `yaml:"joystick_button"`
	ButtonA        string `yaml:"button_a"`
}

// Config is the top-level application configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	ADC     ADCConfig     `yaml:"adc"`
	Pins    PinsConfig    `yaml:"pins"`

	// Deadzone is the distance from the joystick center inside which the LEDs stay off.
	Deadzone uint32 `yaml:"deadzone"`
	// PWMWrap is the top of the LED level range.
	PWMWrap uint32 `yaml:"pwm_wrap"`
	// PWMFrequencyHz is the LED PWM carrier.
	PWMFrequencyHz int `yaml:"pwm_frequency_hz"`
	// Frame is the render loop period.
	Frame time.Duration `yaml:"frame"`
	// Debounce is the minimum time between two accepted presses of a button.
	Debounce time.Duration `yaml:"debounce"`
	// Splash is shown once at startup; empty disables it.
	Splash string `yaml:"splash"`
	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the compiled-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Bus:    "",
			Addr:   0x3C,
			Width:  128,
			Height: 64,
		},
		ADC: ADCConfig{
			Addr:        0x48,
			ChannelX:    1,
			ChannelY:    0,
			FullScaleMv: 3300,
		},
		Pins: PinsConfig{
			LEDGreen:       "GPIO11",
			LEDBlue:        "GPIO12",
			LEDRed:         "GPIO13",
			JoystickButton: "GPIO22",
			ButtonA:        "GPIO5",
		},
		Deadzone:       100,
		PWMWrap:        4095,
		PWMFrequencyHz: 1000,
		Frame:          50 * time.Millisecond,
		Debounce:       200 * time.Millisecond,
		Splash:         "Ready",
		LogLevel:       "info",
	}
}

// Normalize fills in missing/zero values with the defaults so that
// partially-filled files still behave correctly.
func (c *Config) Normalize() {
	def := DefaultConfig()

	if c.Display.Addr == 0 {
		c.Display.Addr = def.Display.Addr
	}
	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = def.Display.Height
	}
	if c.ADC.Addr == 0 {
		c.ADC.Addr = def.ADC.Addr
	}
	if c.ADC.FullScaleMv <= 0 {
		c.ADC.FullScaleMv = def.ADC.FullScaleMv
	}
	if c.Pins.LEDGreen == "" {
		c.Pins.LEDGreen = def.Pins.LEDGreen
	}
	if c.Pins.LEDBlue == "" {
		c.Pins.LEDBlue = def.Pins.LEDBlue
	}
	if c.Pins.LEDRed == "" {
		c.Pins.LEDRed = def.Pins.LEDRed
	}
	if c.Pins.JoystickButton == "" {
		c.Pins.JoystickButton = def.Pins.JoystickButton
	}
	if c.Pins.ButtonA == "" {
		c.Pins.ButtonA = def.Pins.ButtonA
	}
	if c.Deadzone == 0 {
		c.Deadzone = def.Deadzone
	}
	if c.PWMWrap == 0 {
		c.PWMWrap = def.PWMWrap
	}
	if c.PWMFrequencyHz <= 0 {
		c.PWMFrequencyHz = def.PWMFrequencyHz
	}
	if c.Frame <= 0 {
		c.Frame = def.Frame
	}
	if c.Debounce <= 0 {
		c.Debounce = def.Debounce
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Validate reports settings that cannot drive the hardware.
func (c *Config) Validate() error {
	if c.Display.Addr > 0x7F || c.ADC.Addr > 0x7F {
		return errors.New("config: i2c addresses must be 7-bit")
	}
	if c.ADC.ChannelX < 0 || c.ADC.ChannelX > 3 || c.ADC.ChannelY < 0 || c.ADC.ChannelY > 3 {
		return errors.New("config: adc channels must be between 0 and 3")
	}
	if c.ADC.ChannelX == c.ADC.ChannelY {
		return fmt.Errorf("config: both joystick axes use adc channel %d", c.ADC.ChannelX)
	}
	if c.Deadzone >= 2048 {
		return fmt.Errorf("config: deadzone %d leaves no travel", c.Deadzone)
	}
	return nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If path is empty, the compiled-in defaults are returned.
//   - If the file does not exist, a default file is written with 0600 perms
//     and the defaults are returned.
//   - Otherwise the file is unmarshalled, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	// Keys absent from the file keep their compiled-in values.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the given configuration to the specified path.
//
// The file is written to a temp file in the same directory and renamed over
// path, with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".joypanel-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
