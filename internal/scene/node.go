package scene

// Node is anything the graph can hold and the renderer can draw.
type Node interface {
	NodeName() string
}

// Mesh pairs a geometry with a material at a transform.
type Mesh struct {
	Name     string
	Geometry *Geometry
	Material *Material
	Transform

	CastShadow    bool
	ReceiveShadow bool
}

func NewMesh(name string, g *Geometry, m *Material) *Mesh {
	return &Mesh{Name: name, Geometry: g, Material: m, Transform: Identity()}
}

func (m *Mesh) NodeName() string { return m.Name }

// Dispose releases the mesh's geometry and material.
func (m *Mesh) Dispose() {
	m.Geometry.Dispose()
	m.Material.Dispose()
}

type LightKind string

const (
	Directional LightKind = "directional"
	Point       LightKind = "point"
)

type Light struct {
	Name      string
	Kind      LightKind
	Color     Color
	Intensity float32
	Position  Vec3

	CastShadow bool
	// ShadowMapSize is the square shadow map resolution; zero disables it.
	ShadowMapSize int
	// ShadowNear and ShadowFar clip the shadow camera.
	ShadowNear, ShadowFar float32
}

func NewLight(name string, kind LightKind, c Color, intensity float32) *Light {
	return &Light{Name: name, Kind: kind, Color: c, Intensity: intensity}
}

func (l *Light) NodeName() string { return l.Name }

// Camera is a perspective camera looking down -Z from Position.
type Camera struct {
	FOV       float32 // vertical, degrees
	Aspect    float32
	Near, Far float32
	Position  Vec3
}

func NewCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{FOV: fov, Aspect: aspect, Near: near, Far: far}
}
