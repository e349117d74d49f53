package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chewxy/math32"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/osaker/internal/audio"
	"github.com/coreman2200/osaker/internal/lighting"
	"github.com/coreman2200/osaker/internal/render"
	"github.com/coreman2200/osaker/internal/scene"
)

var ErrRunning = errors.New("conductor: already running")

type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Rotation is a single angle advanced by Step every frame and kept in
// [0, 2π).
type Rotation struct {
	Angle float32
	Step  float32
}

func (r *Rotation) Advance() float32 {
	r.Angle = math32.Mod(r.Angle+r.Step, 2*math32.Pi)
	if r.Angle < 0 {
		r.Angle += 2 * math32.Pi
	}
	return r.Angle
}

type Bars interface {
	Apply(s audio.Sample)
}

type Lights interface {
	Apply(now time.Time) lighting.State
}

type Label interface {
	Tick(now time.Time)
	Poll()
}

// Hooks observe the loop without taking part in it.
type Hooks struct {
	OnRenderError func(err error)
	OnPanic       func(step string, v any)
}

// Conductor drives the per-frame update. It is the only goroutine that
// touches Graph while Running.
type Conductor struct {
	Graph    *scene.Graph
	Camera   *scene.Camera
	Subject  *scene.Mesh // rotated about Y each frame
	Rotation Rotation
	Sampler  audio.Sampler
	Bars     Bars
	Lights   Lights // nil disables day/night
	Label    Label
	Renderer render.Renderer
	FPS      int
	Now      func() time.Time
	Hooks    Hooks
	Log      zerolog.Logger

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
	frames atomic.Uint64
}

func NewConductor(g *scene.Graph, cam *scene.Camera, r render.Renderer, fps int) *Conductor {
	return &Conductor{
		Graph:    g,
		Camera:   cam,
		Renderer: r,
		FPS:      fps,
		Now:      time.Now,
		Log:      log.With().Str("component", "conductor").Logger(),
	}
}

func (c *Conductor) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Frames returns how many frames have completed.
func (c *Conductor) Frames() uint64 { return c.frames.Load() }

// Start launches the loop. The label is ticked once immediately, then every
// second; frames run at FPS until ctx ends or Stop is called.
func (c *Conductor) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Running {
		return ErrRunning
	}
	if c.FPS <= 0 {
		return fmt.Errorf("conductor: fps must be positive, got %d", c.FPS)
	}
	if c.Renderer == nil || c.Graph == nil {
		return errors.New("conductor: graph and renderer are required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel, c.done = cancel, make(chan struct{})
	c.state = Running
	go c.loop(ctx, c.done)
	c.Log.Info().Int("fps", c.FPS).Msg("conductor started")
	return nil
}

// Stop cancels both tickers and waits for the loop to exit. It is a no-op
// when already stopped.
func (c *Conductor) Stop() {
	c.mu.Lock()
	if c.state != Running {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.mu.Unlock()

	cancel()
	<-done
}

func (c *Conductor) loop(ctx context.Context, done chan struct{}) {
	defer func() {
		c.mu.Lock()
		c.state = Stopped
		c.cancel = nil
		c.mu.Unlock()
		close(done)
		c.Log.Info().Uint64("frames", c.Frames()).Msg("conductor stopped")
	}()

	frame := time.NewTicker(time.Second / time.Duration(c.FPS))
	defer frame.Stop()
	second := time.NewTicker(time.Second)
	defer second.Stop()

	c.tickLabel(c.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case <-second.C:
			c.tickLabel(c.Now())
		case <-frame.C:
			c.Frame(c.Now())
		}
	}
}

func (c *Conductor) tickLabel(now time.Time) {
	if c.Label != nil {
		c.guard("label", func() { c.Label.Tick(now) })
	}
}

// Frame runs one update: rotate, sample, apply bars, apply lights, swap in a
// finished label, then render. A failing step is logged and the rest still
// run. Frame must only be called from the loop goroutine, or while stopped.
func (c *Conductor) Frame(now time.Time) {
	c.guard("rotate", func() {
		a := c.Rotation.Advance()
		if c.Subject != nil {
			c.Subject.Rotation.Y = a
		}
	})
	if c.Sampler != nil && c.Bars != nil {
		c.guard("bars", func() { c.Bars.Apply(c.Sampler.Sample()) })
	}
	if c.Lights != nil {
		c.guard("lights", func() { c.Lights.Apply(now) })
	}
	if c.Label != nil {
		c.guard("label", c.Label.Poll)
	}
	c.guard("render", func() {
		if err := c.Renderer.RenderFrame(c.Graph, c.Camera); err != nil {
			c.Log.Warn().Err(err).Msg("render failed")
			if c.Hooks.OnRenderError != nil {
				c.Hooks.OnRenderError(err)
			}
		}
	})
	c.frames.Add(1)
}

func (c *Conductor) guard(step string, fn func()) {
	defer func() {
		if v := recover(); v != nil {
			c.Log.Error().Str("step", step).Interface("panic", v).Msg("frame step panicked")
			if c.Hooks.OnPanic != nil {
				c.Hooks.OnPanic(step, v)
			}
		}
	}()
	fn()
}
