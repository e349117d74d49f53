// Package lighting switches the scene between day and night from the wall
// clock hour.
package lighting

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/coreman2200/osaker/internal/scene"
)

const (
	DayStart = 6
	DayEnd   = 18 // inclusive

	SunIntensity = 0.8
	SunRadius    = 10
	SunHeight    = 10
)

var (
	Sky   = scene.Hex(0x87ceeb)
	Night = scene.Hex(0x000000)
)

// State is the lighting derived from one hour of the day.
type State struct {
	Daytime     bool
	Sun         float32
	SunPosition scene.Vec3
	Street      float32
	Background  scene.Color
}

// At returns the lighting for hour (0..23). Hours 6 through 18 inclusive are
// daytime; the sun sweeps an arc parameterized by the hour.
func At(hour int) State {
	if hour >= DayStart && hour <= DayEnd {
		a := float32(hour) / 12 * math32.Pi
		return State{
			Daytime:     true,
			Sun:         SunIntensity,
			SunPosition: scene.Vec3{X: math32.Cos(a) * SunRadius, Y: SunHeight, Z: math32.Sin(a) * SunRadius},
			Street:      0,
			Background:  Sky,
		}
	}
	return State{Sun: 0, Street: 1, Background: Night}
}

// Controller writes State into a sun, two street lights and the graph
// background. It holds no state of its own, so Apply is idempotent.
type Controller struct {
	Graph   *scene.Graph
	Sun     *scene.Light
	Streets [2]*scene.Light
}

// Apply sets the lights for now's local hour. At night the sun keeps its
// last position.
func (c *Controller) Apply(now time.Time) State {
	s := At(now.Hour())
	if c.Sun != nil {
		c.Sun.Intensity = s.Sun
		if s.Daytime {
			c.Sun.Position = s.SunPosition
		}
	}
	for _, l := range c.Streets {
		if l != nil {
			l.Intensity = s.Street
		}
	}
	if c.Graph != nil {
		c.Graph.Background = s.Background
	}
	return s
}
