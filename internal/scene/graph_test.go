package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddRemove(t *testing.T) {
	g := NewGraph()
	a := NewMesh("a", Box(1, 1, 1), NewMaterial(Basic, Hex(0xff0000)))
	b := NewMesh("b", Plane(1, 1), NewMaterial(Shadow, Color{}))
	l := NewLight("sun", Directional, Hex(0xffffff), 0.8)
	defer a.Dispose()
	defer b.Dispose()

	g.Add(a)
	g.Add(b)
	g.Add(l)
	g.Add(a) // duplicate
	require.Equal(t, 3, g.Len())

	assert.True(t, g.Remove(b))
	assert.False(t, g.Remove(b))
	assert.Equal(t, []Node{a, l}, g.Nodes())
	assert.False(t, g.Contains(b))

	n, ok := g.Find("sun")
	require.True(t, ok)
	assert.Same(t, l, n)

	// index must stay consistent after removal
	assert.True(t, g.Remove(l))
	assert.Equal(t, []Node{a}, g.Nodes())
}

func TestDisposeIsIdempotent(t *testing.T) {
	g0, m0 := Live()
	m := NewMesh("x", Box(1, 2, 3), NewMaterial(Standard, Hex(0x00ff00)))
	g1, m1 := Live()
	assert.Equal(t, g0+1, g1)
	assert.Equal(t, m0+1, m1)

	m.Dispose()
	m.Dispose()
	g2, m2 := Live()
	assert.Equal(t, g0, g2)
	assert.Equal(t, m0, m2)
	assert.True(t, m.Geometry.Disposed())
	assert.True(t, m.Material.Disposed())
}

func TestHexRoundTrip(t *testing.T) {
	for _, v := range []uint32{0x000000, 0x87ceeb, 0xffa500, 0xffffff} {
		assert.Equal(t, v, Hex(v).Hex())
	}
}

func TestBoxBounds(t *testing.T) {
	b := Box(0.15, 0.3, 2)
	defer b.Dispose()
	assert.InDelta(t, -0.075, b.Min.X, 1e-6)
	assert.InDelta(t, 0.15, b.Max.Y, 1e-6)
	assert.InDelta(t, 1, b.Max.Z, 1e-6)
	assert.Len(t, b.Indices, 36)
}
