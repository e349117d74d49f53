package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/coreman2200/osaker/internal/scene"
)

// Engine implements Renderer by snapshotting the graph into a Frame and
// writing it to every sink.
type Engine struct {
	Sinks []Sink
	Hooks Hooks

	frameID uint64
	t0      time.Time

	// metrics (last durations in ms)
	Last struct {
		SnapshotMS float64
		SinkMS     float64
		TotalMS    float64
	}
}

func NewEngine(hooks Hooks, sinks ...Sink) *Engine {
	return &Engine{Sinks: sinks, Hooks: hooks, t0: time.Now()}
}

// Now returns seconds since engine start.
func (e *Engine) Now() float64 { return time.Since(e.t0).Seconds() }

// Frames returns how many frames have been rendered.
func (e *Engine) Frames() uint64 { return e.frameID }

// RenderFrame snapshots g and fans the frame out. Every sink is written even
// if an earlier one fails; the errors are joined.
func (e *Engine) RenderFrame(g *scene.Graph, cam *scene.Camera) error {
	start := time.Now()
	f := e.Snapshot(g, cam)

	sinkStart := time.Now()
	var errs []error
	for _, s := range e.Sinks {
		if err := s.Write(f); err != nil {
			errs = append(errs, fmt.Errorf("sink %T: %w", s, err))
		}
	}
	e.Last.SinkMS = float64(time.Since(sinkStart).Microseconds()) / 1000.0
	e.Last.SnapshotMS = float64(sinkStart.Sub(start).Microseconds()) / 1000.0
	e.Last.TotalMS = float64(time.Since(start).Microseconds()) / 1000.0
	return errors.Join(errs...)
}

// Snapshot copies the drawable state of g into a new Frame.
func (e *Engine) Snapshot(g *scene.Graph, cam *scene.Camera) *Frame {
	e.frameID++
	f := &Frame{
		ID:         e.frameID,
		T:          e.Now(),
		Background: g.Background,
	}
	if cam != nil {
		f.Camera = CameraState{FOV: cam.FOV, Position: cam.Position}
	}
	g.Each(func(n scene.Node) {
		switch n := n.(type) {
		case *scene.Mesh:
			ms := MeshState{
				Name:     n.Name,
				Position: n.Position,
				Rotation: n.Rotation,
				Scale:    n.Scale,
			}
			if n.Geometry != nil {
				ms.Kind = n.Geometry.Kind
				ms.Triangles = len(n.Geometry.Indices) / 3
			}
			if n.Material != nil {
				ms.Color = n.Material.Color.Hex()
				ms.Opacity = n.Material.Opacity
			}
			f.Meshes = append(f.Meshes, ms)
		case *scene.Light:
			f.Lights = append(f.Lights, LightState{
				Name:      n.Name,
				Kind:      string(n.Kind),
				Color:     n.Color.Hex(),
				Intensity: n.Intensity,
				Position:  n.Position,
			})
		}
	})
	if e.Hooks.Levels != nil {
		f.Levels = e.Hooks.Levels()
	}
	if e.Hooks.Label != nil {
		f.Label = e.Hooks.Label()
	}
	return f
}
