// Package config loads and saves the driver's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/osaker/internal/render"
	"github.com/coreman2200/osaker/internal/scene"
	"github.com/coreman2200/osaker/internal/text"
)

type Audio struct {
	Path   string  `yaml:"path"` // .wav or .mp3; empty stays idle
	Volume float64 `yaml:"volume"`
}

type Label struct {
	Font     string       `yaml:"font"`   // TTF/OTF path; empty uses Go Regular
	Locale   string       `yaml:"locale"` // BCP 47 tag; empty reads the system locale
	Position scene.Vec3   `yaml:"position"`
	Color    uint32       `yaml:"color"`
	Text     text.Options `yaml:"text"`
}

type LED struct {
	Driver     string      `yaml:"driver"` // "none" | "sim" | "spi"
	Dev        string      `yaml:"dev"`    // periph SPI port name, e.g. /dev/spidev0.0
	Columns    int         `yaml:"columns"`
	Rows       int         `yaml:"rows"`
	Serpentine bool        `yaml:"serpentine"`
	FreqKHz    int         `yaml:"freq_khz"`
	Bar        uint32      `yaml:"bar_color"`
	Post       render.Post `yaml:"post"`
}

type HTTP struct {
	Addr string `yaml:"addr"` // empty disables the preview server
}

type Config struct {
	FPS          int     `yaml:"fps"`
	Bars         int     `yaml:"bars"`
	Bins         int     `yaml:"bins"`
	ScaleFactor  float32 `yaml:"scale_factor"`
	RotationStep float32 `yaml:"rotation_step"`
	DayNight     bool    `yaml:"day_night"`

	Audio Audio `yaml:"audio"`
	Label Label `yaml:"label"`
	LED   LED   `yaml:"led"`
	HTTP  HTTP  `yaml:"http"`
}

func Defaults() *Config {
	post := render.DefaultPost()
	post.BudgetMA = 2000
	return &Config{
		FPS:          60,
		Bars:         32,
		Bins:         32,
		ScaleFactor:  3,
		RotationStep: 0.02,
		DayNight:     true,
		Audio:        Audio{Volume: 0.5},
		Label: Label{
			Position: scene.Vec3{X: -2.5, Y: -1.5, Z: -2},
			Color:    0xff0000,
			Text:     text.DefaultOptions(),
		},
		LED: LED{
			Driver:     "none",
			Columns:    32,
			Rows:       8,
			Serpentine: true,
			FreqKHz:    2500,
			Bar:        0x0000ff,
			Post:       post,
		},
		HTTP: HTTP{Addr: ":8080"},
	}
}

// Validate rejects settings the pipeline cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Bars <= 0 {
		errs = append(errs, fmt.Errorf("bars must be positive, got %d", c.Bars))
	}
	if c.Bins <= 0 {
		errs = append(errs, fmt.Errorf("bins must be positive, got %d", c.Bins))
	} else if c.Bins < c.Bars {
		errs = append(errs, fmt.Errorf("bins (%d) must cover every bar (%d)", c.Bins, c.Bars))
	}
	if c.ScaleFactor < 0 {
		errs = append(errs, fmt.Errorf("scale_factor must not be negative, got %v", c.ScaleFactor))
	}
	if c.Audio.Volume < 0 {
		errs = append(errs, fmt.Errorf("audio.volume must not be negative, got %v", c.Audio.Volume))
	}
	if err := c.Label.Text.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("label: %w", err))
	}
	switch c.LED.Driver {
	case "", "none":
	case "sim", "spi":
		if c.LED.Columns <= 0 || c.LED.Rows <= 0 {
			errs = append(errs, fmt.Errorf("led: invalid panel %dx%d", c.LED.Columns, c.LED.Rows))
		}
	default:
		errs = append(errs, fmt.Errorf("led: unknown driver %q", c.LED.Driver))
	}
	return errors.Join(errs...)
}

// Load reads path over the defaults, so a partial file only overrides the
// keys it sets.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Defaults()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
