package led

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/osaker/internal/render"
)

var (
	blue  = render.Color{B: 1}
	black = render.Color{}
	sky   = render.Color{R: 0.5, G: 0.8, B: 0.9}
)

func newTestStrip(t *testing.T, l Layout, post render.Post) (*Strip, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	s, err := Record(&buf, Options{Layout: l, Bar: blue, Post: post})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, &buf
}

func bypass() render.Post { return render.Post{Bypass: true} }

func TestRecordString(t *testing.T) {
	s, _ := newTestStrip(t, Layout{Columns: 2, Rows: 2}, bypass())
	assert.Equal(t, "nrzled{recordraw}", s.String())
}

func TestStripBarsAsColumns(t *testing.T) {
	l := Layout{Columns: 2, Rows: 4, Serpentine: true}
	s, rec := newTestStrip(t, l, bypass())
	rec.Reset()

	require.NoError(t, s.Write(&render.Frame{Levels: []float32{0.5, 1}, Background: sky}))
	px := s.Pixels()
	// column 0 lit to half height, background above
	assert.Equal(t, blue, px[l.Index(0, 0)])
	assert.Equal(t, blue, px[l.Index(0, 1)])
	assert.Equal(t, sky, px[l.Index(0, 2)])
	assert.Equal(t, sky, px[l.Index(0, 3)])
	for y := 0; y < 4; y++ {
		assert.Equal(t, blue, px[l.Index(1, y)])
	}
	assert.NotZero(t, rec.Len())
}

func TestStripPartialPixelBlends(t *testing.T) {
	l := Layout{Columns: 1, Rows: 2}
	s, _ := newTestStrip(t, l, bypass())

	require.NoError(t, s.Write(&render.Frame{Levels: []float32{0.25}, Background: black}))
	px := s.Pixels()
	assert.InDelta(t, 0.5, px[0].B, 1e-6)
	assert.Equal(t, black, px[1])
}

func TestStripNoLevelsIsBackground(t *testing.T) {
	l := Layout{Columns: 3, Rows: 2}
	s, _ := newTestStrip(t, l, bypass())

	require.NoError(t, s.Write(&render.Frame{Background: sky}))
	for _, c := range s.Pixels() {
		assert.Equal(t, sky, c)
	}
}

func TestStripMoreBarsThanColumns(t *testing.T) {
	l := Layout{Columns: 2, Rows: 1}
	s, _ := newTestStrip(t, l, bypass())

	require.NoError(t, s.Write(&render.Frame{Levels: []float32{1, 0, 0, 0}, Background: black}))
	px := s.Pixels()
	assert.Equal(t, blue, px[0])
	assert.Equal(t, black, px[1])
}

func TestStripLimiterKeepsBudget(t *testing.T) {
	l := Layout{Columns: 4, Rows: 4}
	post := render.DefaultPost()
	post.BudgetMA = 100
	s, _ := newTestStrip(t, l, post)

	white := render.Color{R: 1, G: 1, B: 1}
	s.bar = white
	require.NoError(t, s.Write(&render.Frame{Levels: []float32{1, 1, 1, 1}, Background: white}))
	assert.LessOrEqual(t, render.EstimateMA(s.Pixels(), post.ChanMA), 100.1)
}

func TestStripBadLayout(t *testing.T) {
	_, err := Record(&bytes.Buffer{}, Options{Layout: Layout{Columns: 0, Rows: 3}})
	assert.Error(t, err)
}
