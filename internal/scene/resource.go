package scene

import "sync/atomic"

// live counts geometries and materials that were allocated but not yet disposed.
var live struct {
	geometries atomic.Int64
	materials  atomic.Int64
}

// Live returns the number of undisposed geometries and materials in the process.
func Live() (geometries, materials int64) {
	return live.geometries.Load(), live.materials.Load()
}

// Geometry is a vertex/index buffer owned by exactly one mesh (or shared by a
// fixed set of meshes that outlive the driver).
type Geometry struct {
	Kind      string
	Positions []Vec3
	Indices   []uint32
	// Contours keeps the flattened 2D outlines a renderer needs to fill caps.
	Contours [][]Vec3
	Min, Max Vec3

	disposed atomic.Bool
}

// NewGeometry registers a geometry with the live counter.
func NewGeometry(kind string, positions []Vec3, indices []uint32) *Geometry {
	g := &Geometry{Kind: kind, Positions: positions, Indices: indices}
	g.computeBounds()
	live.geometries.Add(1)
	return g
}

func (g *Geometry) computeBounds() {
	if len(g.Positions) == 0 {
		return
	}
	g.Min, g.Max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		g.Min = Vec3{min(g.Min.X, p.X), min(g.Min.Y, p.Y), min(g.Min.Z, p.Z)}
		g.Max = Vec3{max(g.Max.X, p.X), max(g.Max.Y, p.Y), max(g.Max.Z, p.Z)}
	}
}

// Dispose releases the buffers. Safe to call more than once, and from a
// goroutine other than the graph owner once the geometry is out of the graph.
func (g *Geometry) Dispose() {
	if g == nil || !g.disposed.CompareAndSwap(false, true) {
		return
	}
	g.Positions, g.Indices, g.Contours = nil, nil, nil
	live.geometries.Add(-1)
}

func (g *Geometry) Disposed() bool { return g.disposed.Load() }

// Box returns an axis-aligned box centered on the origin.
func Box(w, h, d float32) *Geometry {
	x, y, z := w/2, h/2, d/2
	pos := []Vec3{
		{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z},
		{-x, -y, -z}, {x, -y, -z}, {x, y, -z}, {-x, y, -z},
	}
	idx := []uint32{
		0, 1, 2, 0, 2, 3, // front
		5, 4, 7, 5, 7, 6, // back
		4, 0, 3, 4, 3, 7, // left
		1, 5, 6, 1, 6, 2, // right
		3, 2, 6, 3, 6, 7, // top
		4, 5, 1, 4, 1, 0, // bottom
	}
	return NewGeometry("box", pos, idx)
}

// Plane returns a w×h quad in the XY plane.
func Plane(w, h float32) *Geometry {
	x, y := w/2, h/2
	pos := []Vec3{{-x, -y, 0}, {x, -y, 0}, {x, y, 0}, {-x, y, 0}}
	return NewGeometry("plane", pos, []uint32{0, 1, 2, 0, 2, 3})
}

type MaterialKind string

const (
	Basic    MaterialKind = "basic"
	Standard MaterialKind = "standard"
	Shadow   MaterialKind = "shadow"
)

type Material struct {
	Kind    MaterialKind
	Color   Color
	Opacity float32
	// Texture is the image path sampled by the material, if any.
	Texture string

	disposed atomic.Bool
}

func NewMaterial(kind MaterialKind, c Color) *Material {
	live.materials.Add(1)
	return &Material{Kind: kind, Color: c, Opacity: 1}
}

func (m *Material) Dispose() {
	if m == nil || !m.disposed.CompareAndSwap(false, true) {
		return
	}
	live.materials.Add(-1)
}

func (m *Material) Disposed() bool { return m.disposed.Load() }
