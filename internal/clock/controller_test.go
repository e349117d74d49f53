package clock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/coreman2200/osaker/internal/future"
	"github.com/coreman2200/osaker/internal/scene"
	"github.com/coreman2200/osaker/internal/text"
)

// manualBuilder records requests and lets the test resolve them in any order.
type manualBuilder struct {
	texts    []string
	resolves []func(*scene.Geometry, error)
}

func (b *manualBuilder) BuildText(_ context.Context, s string, _ text.Options) *future.Future[*scene.Geometry] {
	f, resolve := future.New[*scene.Geometry]()
	b.texts = append(b.texts, s)
	b.resolves = append(b.resolves, resolve)
	return f
}

func (b *manualBuilder) ok(i int) *scene.Geometry {
	g := scene.Box(1, 1, 1)
	b.resolves[i](g, nil)
	return g
}

func labelCount(g *scene.Graph) int {
	n := 0
	g.Each(func(node scene.Node) {
		if node.NodeName() == "clock" {
			n++
		}
	})
	return n
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestTickSameSecondIsNoop(t *testing.T) {
	g := scene.NewGraph()
	b := &manualBuilder{}
	c := New(g, b)
	defer c.Close()

	c.Tick(t0)
	c.Tick(t0.Add(400 * time.Millisecond))
	c.Tick(t0.Add(999 * time.Millisecond))
	assert.Len(t, b.texts, 1)
	assert.Equal(t, uint64(1), c.Generation())

	c.Tick(t0.Add(time.Second))
	assert.Len(t, b.texts, 2)
}

func TestSwapAcrossSecondBoundary(t *testing.T) {
	g := scene.NewGraph()
	b := &manualBuilder{}
	c := New(g, b)
	defer c.Close()

	c.Tick(t0)
	first := b.ok(0)
	c.Poll()
	require.NotNil(t, c.Label())
	assert.Equal(t, "12:00:00", c.Label().Text)
	oldMesh := c.Label().Mesh
	assert.Same(t, first, oldMesh.Geometry)
	assert.Equal(t, 1, labelCount(g))

	c.Tick(t0.Add(time.Second))
	b.ok(1)
	c.Poll()
	assert.Equal(t, "12:00:01", c.Label().Text)
	assert.Equal(t, 1, labelCount(g))
	assert.False(t, g.Contains(oldMesh))
	assert.True(t, oldMesh.Geometry.Disposed())
	assert.True(t, oldMesh.Material.Disposed())
	assert.False(t, c.Label().Mesh.Geometry.Disposed())
	assert.Equal(t, scene.Vec3{X: -2.5, Y: -1.5, Z: -2}, c.Label().Mesh.Position)
}

func TestStaleResultDiscarded(t *testing.T) {
	g := scene.NewGraph()
	b := &manualBuilder{}
	c := New(g, b)
	defer c.Close()

	c.Tick(t0)                  // request A
	c.Tick(t0.Add(time.Second)) // request B before A resolves

	b.ok(1)
	c.Poll()
	require.NotNil(t, c.Label())
	assert.Equal(t, "12:00:01", c.Label().Text)

	late := b.ok(0)
	c.Poll()
	assert.Equal(t, "12:00:01", c.Label().Text)
	assert.True(t, late.Disposed())
	assert.Equal(t, 1, labelCount(g))
	assert.Zero(t, c.Pending())
}

func TestOlderResultNeverReplacesNewerRequest(t *testing.T) {
	g := scene.NewGraph()
	b := &manualBuilder{}
	c := New(g, b)
	defer c.Close()

	c.Tick(t0)
	c.Tick(t0.Add(time.Second))
	a := b.ok(0)
	c.Poll()
	assert.Nil(t, c.Label())
	assert.True(t, a.Disposed())
	assert.Equal(t, 1, c.Pending())

	b.ok(1)
	c.Poll()
	assert.Equal(t, "12:00:01", c.Label().Text)
}

func TestFailedBuildKeepsPreviousLabel(t *testing.T) {
	g := scene.NewGraph()
	b := &manualBuilder{}
	var failures []error
	c := New(g, b, WithFailureHook(func(err error) { failures = append(failures, err) }))
	defer c.Close()

	c.Tick(t0)
	b.ok(0)
	c.Poll()
	prev := c.Label()

	c.Tick(t0.Add(time.Second))
	b.resolves[1](nil, errors.New("font exploded"))
	c.Poll()
	assert.Same(t, prev, c.Label())
	assert.True(t, g.Contains(prev.Mesh))
	assert.False(t, prev.Mesh.Geometry.Disposed())
	assert.Len(t, failures, 1)
}

func TestCloseReleasesEverything(t *testing.T) {
	g0, m0 := scene.Live()
	g := scene.NewGraph()
	b := &manualBuilder{}
	c := New(g, b)

	c.Tick(t0)
	b.ok(0)
	c.Poll()
	c.Tick(t0.Add(time.Second))
	b.ok(1) // resolved but never polled

	c.Close()
	assert.Nil(t, c.Label())
	assert.Zero(t, labelCount(g))
	g1, m1 := scene.Live()
	assert.Equal(t, g0, g1)
	assert.Equal(t, m0, m1)
}

func TestWithRealBuilder(t *testing.T) {
	g := scene.NewGraph()
	b := text.NewBuilder(text.LoadFont(context.Background(), ""))
	c := New(g, b, WithFormatter(LocaleFormatter(language.AmericanEnglish)))
	defer c.Close()

	c.Tick(time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC))
	deadline := time.Now().Add(5 * time.Second)
	for c.Label() == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		c.Poll()
	}
	require.NotNil(t, c.Label())
	assert.Equal(t, "3:04:05 PM", c.Label().Text)
	assert.NotEmpty(t, c.Label().Mesh.Geometry.Positions)
}

func TestLocaleFormatter(t *testing.T) {
	at := time.Date(2024, 3, 1, 21, 7, 9, 0, time.UTC)
	assert.Equal(t, "9:07:09 PM", LocaleFormatter(language.MustParse("en-US"))(at))
	assert.Equal(t, "21:07:09", LocaleFormatter(language.MustParse("en-GB"))(at))
	assert.Equal(t, "21:07:09", LocaleFormatter(language.MustParse("ja-JP"))(at))

	f, _ := SystemFormatter()
	assert.NotEmpty(t, f(at))
}

func TestCloseDoesNotWaitForUnresolvedBuild(t *testing.T) {
	g := scene.NewGraph()
	b := &manualBuilder{}
	c := New(g, b)

	c.Tick(t0)
	b.ok(0)
	c.Poll()
	c.Tick(t0.Add(time.Second)) // never resolved before Close

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("Close blocked on a build that ignores cancellation")
	}
	assert.Nil(t, c.Label())
	assert.Zero(t, labelCount(g))

	late := b.ok(1)
	assert.Eventually(t, late.Disposed, time.Second, 5*time.Millisecond)
}
