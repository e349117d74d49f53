// Package visualizer maps audio bins onto the heights of a row of bars.
package visualizer

import (
	"fmt"

	"github.com/coreman2200/osaker/internal/audio"
	"github.com/coreman2200/osaker/internal/scene"
)

type Config struct {
	Count       int
	ScaleFactor float32
	Spacing     float32
	Size        float32
	// Y and Z place the row; X is derived from index and spacing.
	Y, Z  float32
	Color scene.Color
}

func DefaultConfig() Config {
	return Config{
		Count:       32,
		ScaleFactor: 3,
		Spacing:     0.3,
		Size:        0.15,
		Y:           -3,
		Z:           -5,
		Color:       scene.Hex(0x0000ff),
	}
}

// Visualizer owns a fixed row of bar meshes. Bars are created once and
// never added or removed afterwards.
type Visualizer struct {
	cfg      Config
	bars     []*scene.Mesh
	geometry *scene.Geometry
	material *scene.Material
}

// New builds cfg.Count bars sharing one geometry and material and adds them
// to g.
func New(g *scene.Graph, cfg Config) (*Visualizer, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("visualizer: bar count must be positive, got %d", cfg.Count)
	}
	if cfg.ScaleFactor < 0 {
		return nil, fmt.Errorf("visualizer: negative scale factor %v", cfg.ScaleFactor)
	}
	v := &Visualizer{
		cfg:      cfg,
		bars:     make([]*scene.Mesh, cfg.Count),
		geometry: scene.Box(cfg.Size, cfg.Size, cfg.Size),
		material: scene.NewMaterial(scene.Basic, cfg.Color),
	}
	half := float32(cfg.Count) * cfg.Spacing / 2
	for i := range v.bars {
		bar := scene.NewMesh(fmt.Sprintf("bar-%02d", i), v.geometry, v.material)
		bar.Position = scene.Vec3{X: float32(i)*cfg.Spacing - half, Y: cfg.Y, Z: cfg.Z}
		v.bars[i] = bar
		g.Add(bar)
	}
	return v, nil
}

// Apply sets bar i's vertical scale to s[i]/255*ScaleFactor. If s is shorter
// than the bar count the remaining bars keep their previous scale.
func (v *Visualizer) Apply(s audio.Sample) {
	n := min(len(s), len(v.bars))
	for i := 0; i < n; i++ {
		v.bars[i].Scale.Y = float32(s[i]) / 255 * v.cfg.ScaleFactor
	}
}

func (v *Visualizer) Count() int { return len(v.bars) }

func (v *Visualizer) Bars() []*scene.Mesh { return v.bars }

func (v *Visualizer) ScaleFactor() float32 { return v.cfg.ScaleFactor }

// Levels returns each bar's current scale normalized by ScaleFactor (0..1).
func (v *Visualizer) Levels() []float32 {
	out := make([]float32, len(v.bars))
	if v.cfg.ScaleFactor == 0 {
		return out
	}
	for i, b := range v.bars {
		out[i] = b.Scale.Y / v.cfg.ScaleFactor
	}
	return out
}

// Dispose removes the bars from g and releases the shared resources.
func (v *Visualizer) Dispose(g *scene.Graph) {
	for _, b := range v.bars {
		g.Remove(b)
	}
	v.geometry.Dispose()
	v.material.Dispose()
}
