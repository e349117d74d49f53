package render

import "github.com/coreman2200/osaker/internal/scene"

type Vec3 = scene.Vec3
type Color = scene.Color

// Renderer draws one frame of a scene from a camera. It is called from the
// goroutine that owns the graph and must not retain the graph.
type Renderer interface {
	RenderFrame(g *scene.Graph, cam *scene.Camera) error
}

// Sink receives immutable frame snapshots, e.g. a preview socket or an LED
// strip. Sinks may hand frames to other goroutines.
type Sink interface {
	Write(f *Frame) error
}

type MeshState struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Position  Vec3    `json:"position"`
	Rotation  Vec3    `json:"rotation"`
	Scale     Vec3    `json:"scale"`
	Color     uint32  `json:"color"`
	Opacity   float32 `json:"opacity,omitempty"`
	Triangles int     `json:"triangles"`
}

type LightState struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Color     uint32  `json:"color"`
	Intensity float32 `json:"intensity"`
	Position  Vec3    `json:"position"`
}

type CameraState struct {
	FOV      float32 `json:"fov"`
	Position Vec3    `json:"position"`
}

// Frame is a copy of everything drawn in one tick.
type Frame struct {
	ID         uint64       `json:"frame_id"`
	T          float64      `json:"t"` // seconds since engine start
	Background Color        `json:"background"`
	Camera     CameraState  `json:"camera"`
	Meshes     []MeshState  `json:"meshes"`
	Lights     []LightState `json:"lights"`

	// Levels are the visualizer bar heights normalized to 0..1.
	Levels []float32 `json:"levels,omitempty"`
	Label  string    `json:"label,omitempty"`
}

// Hooks let the engine read pipeline state that isn't in the graph itself.
type Hooks struct {
	Levels func() []float32
	Label  func() string
}
