// Package clock keeps a single 3D label showing the current time, rebuilt
// once per wall-clock second.
package clock

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/osaker/internal/future"
	"github.com/coreman2200/osaker/internal/scene"
	"github.com/coreman2200/osaker/internal/text"
)

// Builder turns a string into text geometry asynchronously.
type Builder interface {
	BuildText(ctx context.Context, s string, o text.Options) *future.Future[*scene.Geometry]
}

// Label is the live clock mesh. Its geometry and material are owned by the
// label and released when it is replaced.
type Label struct {
	Text string
	Mesh *scene.Mesh
}

type request struct {
	token  uint64
	text   string
	result *future.Future[*scene.Geometry]
}

// Controller owns the optional label slot. Tick, Poll and Close must be
// called from the goroutine that owns the graph.
type Controller struct {
	graph   *scene.Graph
	builder Builder
	format  Formatter
	opts    text.Options
	pos     scene.Vec3
	color   scene.Color
	log     zerolog.Logger
	onFail  func(error)

	ctx    context.Context
	cancel context.CancelFunc

	label      *Label
	pending    []request
	generation uint64
	lastSecond int64
	rendered   bool
}

type Option func(*Controller)

func WithFormatter(f Formatter) Option { return func(c *Controller) { c.format = f } }
func WithTextOptions(o text.Options) Option { return func(c *Controller) { c.opts = o } }
func WithPosition(p scene.Vec3) Option { return func(c *Controller) { c.pos = p } }
func WithColor(col scene.Color) Option { return func(c *Controller) { c.color = col } }
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }
func WithFailureHook(fn func(error)) Option { return func(c *Controller) { c.onFail = fn } }

func New(g *scene.Graph, b Builder, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		graph:   g,
		builder: b,
		format:  func(t time.Time) string { return t.Format("15:04:05") },
		opts:    text.DefaultOptions(),
		pos:     scene.Vec3{X: -2.5, Y: -1.5, Z: -2},
		color:   scene.Hex(0xff0000),
		log:     log.With().Str("component", "clock").Logger(),
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Tick requests a new label if now falls in a different second than the last
// request. Calls within the same second do nothing.
func (c *Controller) Tick(now time.Time) {
	sec := now.Unix()
	if c.rendered && sec == c.lastSecond {
		return
	}
	c.lastSecond, c.rendered = sec, true

	c.generation++
	s := c.format(now)
	c.pending = append(c.pending, request{
		token:  c.generation,
		text:   s,
		result: c.builder.BuildText(c.ctx, s, c.opts),
	})
}

// Poll consumes finished builds. Only the most recently requested build may
// replace the label; older results are disposed and dropped. A failed build
// leaves the current label in place.
func (c *Controller) Poll() {
	if len(c.pending) == 0 {
		return
	}
	keep := c.pending[:0]
	for _, r := range c.pending {
		geo, err := r.result.Poll()
		if err == future.ErrNotReady {
			keep = append(keep, r)
			continue
		}
		switch {
		case err != nil:
			geo.Dispose()
			if r.token == c.generation {
				c.fail(r, err)
			}
		case r.token != c.generation:
			geo.Dispose()
			c.log.Debug().Uint64("token", r.token).Uint64("latest", c.generation).Msg("discarding stale label")
		default:
			c.swap(r.text, geo)
		}
	}
	for i := len(keep); i < len(c.pending); i++ {
		c.pending[i] = request{}
	}
	c.pending = keep
}

func (c *Controller) fail(r request, err error) {
	if c.ctx.Err() != nil {
		return
	}
	c.log.Warn().Err(err).Str("text", r.text).Msg("label build failed; keeping previous label")
	if c.onFail != nil {
		c.onFail(err)
	}
}

// swap removes and disposes the old label before inserting the new one.
func (c *Controller) swap(s string, geo *scene.Geometry) {
	if old := c.label; old != nil {
		c.graph.Remove(old.Mesh)
		old.Mesh.Dispose()
		c.label = nil
	}
	m := scene.NewMesh("clock", geo, scene.NewMaterial(scene.Standard, c.color))
	m.Position = c.pos
	m.CastShadow, m.ReceiveShadow = true, true
	c.label = &Label{Text: s, Mesh: m}
	c.graph.Add(m)
}

func disposeResult(f *future.Future[*scene.Geometry]) {
	if geo, err := f.Poll(); err == nil {
		geo.Dispose()
	}
}

func (c *Controller) Label() *Label { return c.label }

// Generation is the token of the most recent build request.
func (c *Controller) Generation() uint64 { return c.generation }

// Pending is the number of builds not yet consumed by Poll.
func (c *Controller) Pending() int { return len(c.pending) }

// Close cancels outstanding builds and removes and disposes the label. It
// does not wait: finished builds are disposed now, and the rest are disposed
// in the background whenever they arrive.
func (c *Controller) Close() {
	c.cancel()
	for _, r := range c.pending {
		if r.result.Ready() {
			disposeResult(r.result)
			continue
		}
		go func(f *future.Future[*scene.Geometry]) {
			<-f.Done()
			disposeResult(f)
		}(r.result)
	}
	c.pending = nil
	if c.label != nil {
		c.graph.Remove(c.label.Mesh)
		c.label.Mesh.Dispose()
		c.label = nil
	}
}
