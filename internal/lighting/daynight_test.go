package lighting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/osaker/internal/scene"
)

func TestBoundaryHours(t *testing.T) {
	for _, h := range []int{6, 12, 18} {
		s := At(h)
		assert.Truef(t, s.Daytime, "hour %d", h)
		assert.Equal(t, float32(0.8), s.Sun)
		assert.Zero(t, s.Street)
		assert.Equal(t, Sky, s.Background)
	}
	for _, h := range []int{0, 5, 19, 23} {
		s := At(h)
		assert.Falsef(t, s.Daytime, "hour %d", h)
		assert.Zero(t, s.Sun)
		assert.Equal(t, float32(1), s.Street)
		assert.Equal(t, Night, s.Background)
	}
}

func TestSunArc(t *testing.T) {
	// noon: cos(pi) = -1, sin(pi) = 0
	s := At(12)
	assert.InDelta(t, -10, s.SunPosition.X, 1e-4)
	assert.InDelta(t, 10, s.SunPosition.Y, 1e-6)
	assert.InDelta(t, 0, s.SunPosition.Z, 1e-4)

	// 6am: cos(pi/2) = 0, sin(pi/2) = 1
	s = At(6)
	assert.InDelta(t, 0, s.SunPosition.X, 1e-4)
	assert.InDelta(t, 10, s.SunPosition.Z, 1e-4)
}

func TestControllerApplyIdempotent(t *testing.T) {
	g := scene.NewGraph()
	c := &Controller{
		Graph:   g,
		Sun:     scene.NewLight("sun", scene.Directional, scene.Hex(0xffffff), 0.8),
		Streets: [2]*scene.Light{scene.NewLight("s1", scene.Point, scene.Hex(0xffa500), 0), scene.NewLight("s2", scene.Point, scene.Hex(0xffa500), 0)},
	}
	night := time.Date(2024, 1, 1, 19, 30, 0, 0, time.Local)
	c.Apply(night)
	c.Apply(night)
	assert.Zero(t, c.Sun.Intensity)
	assert.Equal(t, float32(1), c.Streets[0].Intensity)
	assert.Equal(t, float32(1), c.Streets[1].Intensity)
	assert.Equal(t, Night, g.Background)

	day := time.Date(2024, 1, 1, 6, 0, 0, 0, time.Local)
	s := c.Apply(day)
	assert.True(t, s.Daytime)
	assert.Equal(t, float32(0.8), c.Sun.Intensity)
	assert.Equal(t, s.SunPosition, c.Sun.Position)
	assert.Zero(t, c.Streets[0].Intensity)
	assert.Equal(t, Sky, g.Background)
}
