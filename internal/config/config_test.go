package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	c := Defaults()
	require.NoError(t, c.Validate())
	assert.Equal(t, 60, c.FPS)
	assert.Equal(t, float32(0.02), c.RotationStep)
	assert.Equal(t, 0.5, c.Audio.Volume)
	assert.Equal(t, uint32(0xff0000), c.Label.Color)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"zero bars":       func(c *Config) { c.Bars = 0 },
		"zero bins":       func(c *Config) { c.Bins = 0 },
		"bins below bars": func(c *Config) { c.Bins = c.Bars - 1 },
		"zero fps":        func(c *Config) { c.FPS = 0 },
		"negative scale":  func(c *Config) { c.ScaleFactor = -1 },
		"bad led driver":  func(c *Config) { c.LED.Driver = "pwm" },
		"empty panel":     func(c *Config) { c.LED.Driver = "sim"; c.LED.Rows = 0 },
		"bad text":        func(c *Config) { c.Label.Text.Size = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Defaults()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	c := Defaults()
	c.Bars = 16
	c.Audio.Path = "track.mp3"
	c.LED.Driver = "sim"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 30\nled:\n  rows: 4\n"), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, c.FPS)
	assert.Equal(t, 4, c.LED.Rows)
	assert.Equal(t, 32, c.LED.Columns)
	assert.Equal(t, float32(3), c.ScaleFactor)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: [1"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
