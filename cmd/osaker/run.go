package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/osaker/internal/app"
	"github.com/coreman2200/osaker/internal/config"
	diag "github.com/coreman2200/osaker/internal/diagnostics"
	"github.com/coreman2200/osaker/internal/led"
	"github.com/coreman2200/osaker/internal/render"
	"github.com/coreman2200/osaker/internal/scene"
	"github.com/coreman2200/osaker/internal/ws"
)

// Run builds the core from config and flags and runs until SIGINT/SIGTERM.
func Run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx.GlobalString("config"))
	if err != nil {
		return err
	}
	applyFlags(ctx, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var (
		sinks []render.Sink
		diags diag.Pusher = diag.Discard
		state *ws.State
	)
	if cfg.HTTP.Addr != "" {
		state = ws.NewState(ws.Topology{Bars: cfg.Bars, FPS: cfg.FPS, Driver: cfg.LED.Driver})
		sinks = append(sinks, state)
		diags = state
	}
	strip, err := openStrip(cfg)
	if err != nil {
		log.Warn().Err(err).Str("driver", cfg.LED.Driver).Msg("led init failed; running without strip")
		diags.PushDiag(stripFailed(err))
	}
	if strip != nil {
		defer strip.Close()
		sinks = append(sinks, strip)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	core, err := app.InitCore(runCtx, cfg, app.Deps{Sinks: sinks, Diag: diags})
	if err != nil {
		return err
	}
	defer core.Close()

	var srv *http.Server
	if state != nil {
		srv = &http.Server{
			Addr:         cfg.HTTP.Addr,
			Handler:      withCORS(state.Handler()),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.HTTP.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("preview server crashed")
			}
		}()
	}

	if err := core.Conductor.Start(runCtx); err != nil {
		return err
	}
	diags.PushDiag(diag.New(diag.Info, diag.DriverStarted, "driver started"))

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	core.Conductor.Stop()
	diags.PushDiag(diag.New(diag.Info, diag.DriverStopped, "driver stopped"))
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
		defer done()
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}

// loadConfig falls back to defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", path).Msg("no config file; using defaults")
		return config.Defaults(), nil
	}
	return cfg, err
}

func applyFlags(ctx *cli.Context, cfg *config.Config) {
	if v := ctx.String("audio"); v != "" {
		cfg.Audio.Path = v
	}
	if v := ctx.String("font"); v != "" {
		cfg.Label.Font = v
	}
	if v := ctx.Int("fps"); v > 0 {
		cfg.FPS = v
	}
	if v := ctx.String("led"); v != "" {
		cfg.LED.Driver = v
	}
	if ctx.IsSet("addr") {
		cfg.HTTP.Addr = ctx.String("addr")
	}
	if ctx.Bool("no-day-night") {
		cfg.DayNight = false
	}
}

func openStrip(cfg *config.Config) (*led.Strip, error) {
	o := led.Options{
		Layout: led.Layout{Columns: cfg.LED.Columns, Rows: cfg.LED.Rows, Serpentine: cfg.LED.Serpentine},
		Freq:   physic.Frequency(cfg.LED.FreqKHz) * physic.KiloHertz,
		Bar:    scene.Hex(cfg.LED.Bar),
		Post:   cfg.LED.Post,
	}
	switch cfg.LED.Driver {
	case "sim":
		return led.Record(io.Discard, o)
	case "spi":
		return led.Open(cfg.LED.Dev, o)
	case "", "none":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown led driver %q", cfg.LED.Driver)
}

func stripFailed(err error) diag.Diagnostic {
	d := diag.FromError(diag.Warn, diag.LedInitFailed, "led init failed; running without strip", err)
	d.SuggestedFixes = []string{"check led.dev and SPI permissions", "set led.driver to sim"}
	return d
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
