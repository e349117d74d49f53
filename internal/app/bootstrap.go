// Package app assembles the scene, its controllers and the frame loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/coreman2200/osaker/internal/audio"
	"github.com/coreman2200/osaker/internal/clock"
	"github.com/coreman2200/osaker/internal/config"
	diag "github.com/coreman2200/osaker/internal/diagnostics"
	"github.com/coreman2200/osaker/internal/lighting"
	"github.com/coreman2200/osaker/internal/render"
	"github.com/coreman2200/osaker/internal/scene"
	"github.com/coreman2200/osaker/internal/text"
	"github.com/coreman2200/osaker/internal/visualizer"
)

// Deps are the collaborators InitCore does not build itself.
type Deps struct {
	Sinks []render.Sink
	Diag  diag.Pusher
	Now   func() time.Time
	// Builder overrides the text builder, mostly for tests.
	Builder clock.Builder
}

type Core struct {
	Graph     *scene.Graph
	Camera    *scene.Camera
	Cube      *scene.Mesh
	Sun       *scene.Light
	Bars      *visualizer.Visualizer
	Lights    *lighting.Controller // nil when day/night is off
	Clock     *clock.Controller
	Analyser  *audio.Analyser
	Engine    *render.Engine
	Conductor *Conductor

	cancel context.CancelFunc
}

// InitCore validates cfg, builds the scene and wires every controller into
// a stopped Conductor. Audio and font loading start in the background.
func InitCore(ctx context.Context, cfg *config.Config, deps Deps) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if deps.Diag == nil {
		deps.Diag = diag.Discard
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	ctx, cancel := context.WithCancel(ctx)
	c := &Core{Graph: scene.NewGraph(), cancel: cancel}
	g := c.Graph
	g.Background = lighting.Sky

	// 1) Static scene
	c.Cube = scene.NewMesh("cube", scene.Box(1, 1, 1), scene.NewMaterial(scene.Basic, scene.Hex(0xffffff)))
	c.Cube.Material.Texture = "resources/osaka.png"
	c.Cube.Position = scene.Vec3{Y: 1}
	c.Cube.CastShadow, c.Cube.ReceiveShadow = true, true
	g.Add(c.Cube)

	plane := scene.NewMesh("ground", scene.Plane(10, 10), scene.NewMaterial(scene.Shadow, scene.Hex(0x000000)))
	plane.Material.Opacity = 0.5
	plane.Position = scene.Vec3{Y: -1.5}
	plane.Rotation = scene.Vec3{X: -math32.Pi / 2}
	plane.ReceiveShadow = true
	g.Add(plane)

	c.Sun = scene.NewLight("sun", scene.Directional, scene.Hex(0xffffff), lighting.SunIntensity)
	c.Sun.Position = scene.Vec3{X: 5, Y: 10, Z: 5}
	c.Sun.CastShadow = true
	c.Sun.ShadowMapSize = 1024
	c.Sun.ShadowNear, c.Sun.ShadowFar = 0.5, 50
	g.Add(c.Sun)

	c.Camera = scene.NewCamera(75, 16.0/9.0, 0.1, 1000)
	c.Camera.Position = scene.Vec3{Z: 5}

	// 2) Day/night
	if cfg.DayNight {
		c.Lights = &lighting.Controller{Graph: g, Sun: c.Sun}
		for i, x := range []float32{-3, 3} {
			l := scene.NewLight(fmt.Sprintf("street-%d", i+1), scene.Point, scene.Hex(0xffa500), 0)
			l.Position = scene.Vec3{X: x, Y: 3, Z: -2}
			g.Add(l)
			c.Lights.Streets[i] = l
		}
	}

	// 3) Visualizer
	vcfg := visualizer.DefaultConfig()
	vcfg.Count = cfg.Bars
	vcfg.ScaleFactor = cfg.ScaleFactor
	bars, err := visualizer.New(g, vcfg)
	if err != nil {
		cancel()
		return nil, err
	}
	c.Bars = bars

	// 4) Audio
	an, err := audio.NewAnalyser(cfg.Bins, audio.WithVolume(cfg.Audio.Volume))
	if err != nil {
		cancel()
		return nil, err
	}
	c.Analyser = an
	if cfg.Audio.Path != "" {
		loaded := an.Load(ctx, cfg.Audio.Path)
		go func() {
			if _, err := loaded.Wait(ctx); err != nil {
				if ctx.Err() == nil {
					deps.Diag.PushDiag(diag.FromError(diag.Warn, diag.AudioLoadFailed, "audio failed to load; bars stay idle", err))
				}
				return
			}
			deps.Diag.PushDiag(diag.New(diag.Info, diag.AudioPlaying, "audio playing"))
		}()
	}

	// 5) Clock label
	builder := deps.Builder
	if builder == nil {
		font := text.LoadFont(ctx, cfg.Label.Font)
		go func() {
			if _, err := font.Wait(ctx); err != nil && ctx.Err() == nil {
				deps.Diag.PushDiag(diag.FromError(diag.Err, diag.FontLoadFailed, "font failed to load; no clock label", err))
			}
		}()
		builder = text.NewBuilder(font)
	}
	format, tag := labelFormatter(cfg.Label.Locale)
	log.Debug().Str("locale", tag.String()).Msg("clock locale")
	c.Clock = clock.New(g, builder,
		clock.WithFormatter(format),
		clock.WithTextOptions(cfg.Label.Text),
		clock.WithPosition(cfg.Label.Position),
		clock.WithColor(scene.Hex(cfg.Label.Color)),
		clock.WithFailureHook(func(err error) {
			deps.Diag.PushDiag(diag.FromError(diag.Warn, diag.LabelBuildFailed, "clock label build failed; keeping previous label", err))
		}),
	)

	// 6) Renderer
	c.Engine = render.NewEngine(render.Hooks{
		Levels: c.Bars.Levels,
		Label: func() string {
			if l := c.Clock.Label(); l != nil {
				return l.Text
			}
			return ""
		},
	}, deps.Sinks...)

	// 7) Conductor
	cd := NewConductor(g, c.Camera, c.Engine, cfg.FPS)
	cd.Subject = c.Cube
	cd.Rotation.Step = cfg.RotationStep
	cd.Sampler = an
	cd.Bars = c.Bars
	if c.Lights != nil {
		cd.Lights = c.Lights
	}
	cd.Label = c.Clock
	cd.Now = deps.Now
	cd.Hooks = Hooks{
		OnRenderError: func(err error) {
			deps.Diag.PushDiag(diag.FromError(diag.Warn, diag.RenderFailed, "render failed", err))
		},
		OnPanic: func(step string, v any) {
			d := diag.New(diag.Err, diag.FramePanicked, "frame step panicked")
			d.Evidence = map[string]any{"step": step, "panic": fmt.Sprint(v)}
			deps.Diag.PushDiag(d)
		},
	}
	c.Conductor = cd
	return c, nil
}

// Close stops the loop, halts audio and releases every scene resource the
// core created.
func (c *Core) Close() {
	c.Conductor.Stop()
	c.cancel()
	c.Analyser.Close()
	c.Clock.Close()
	c.Bars.Dispose(c.Graph)
	for _, n := range c.Graph.Nodes() {
		if m, ok := n.(*scene.Mesh); ok {
			c.Graph.Remove(m)
			m.Dispose()
		}
	}
}

func labelFormatter(locale string) (clock.Formatter, language.Tag) {
	if locale != "" {
		if tag, err := language.Parse(locale); err == nil {
			return clock.LocaleFormatter(tag), tag
		}
		log.Warn().Str("locale", locale).Msg("bad locale; using system locale")
	}
	return clock.SystemFormatter()
}
