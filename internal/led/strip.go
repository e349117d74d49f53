// Package led draws visualizer frames onto an addressable LED panel.
package led

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/conn/v3/spi/spitest"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/osaker/internal/render"
)

type Options struct {
	Layout Layout
	Post   render.Post

	// Freq is the nrzled bit rate; 0 uses 2.5MHz.
	Freq physic.Frequency

	// Bar is the lit color of a bar column.
	Bar render.Color

	// Log defaults to the global logger tagged component=led.
	Log *zerolog.Logger
}

// Strip is a render.Sink writing bar levels as columns. Pixels above a bar
// take the frame background.
type Strip struct {
	mu     sync.Mutex
	port   spi.PortCloser
	dev    *nrzled.Dev
	layout Layout
	bar    render.Color
	post   render.Post
	log    zerolog.Logger

	buf []render.Color
	img *image.NRGBA
}

// Open initializes the host drivers and opens the named SPI port ("" for the
// first one available).
func Open(name string, o Options) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	p, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", name, err)
	}
	s, err := newStrip(p, o)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// Record returns a strip whose SPI traffic is written raw to w, for running
// without hardware.
func Record(w io.Writer, o Options) (*Strip, error) {
	return newStrip(spitest.NewRecordRaw(w), o)
}

func newStrip(p spi.PortCloser, o Options) (*Strip, error) {
	n := o.Layout.Count()
	if o.Layout.Columns <= 0 || o.Layout.Rows <= 0 {
		return nil, fmt.Errorf("invalid led layout %dx%d", o.Layout.Columns, o.Layout.Rows)
	}
	freq := o.Freq
	if freq == 0 {
		freq = 2500 * physic.KiloHertz
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: n, Channels: 3, Freq: freq})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	lg := log.With().Str("component", "led").Logger()
	if o.Log != nil {
		lg = *o.Log
	}
	s := &Strip{
		port:   p,
		dev:    d,
		layout: o.Layout,
		bar:    o.Bar,
		post:   o.Post,
		log:    lg,
		buf:    make([]render.Color, n),
		img:    image.NewNRGBA(image.Rect(0, 0, n, 1)),
	}
	if err := d.Halt(); err != nil {
		return nil, fmt.Errorf("nrzled halt: %w", err)
	}
	lg.Debug().Int("pixels", n).Str("dev", d.String()).Msg("led strip ready")
	return s, nil
}

func (s *Strip) String() string { return s.dev.String() }

func (s *Strip) Layout() Layout { return s.layout }

// Write fills the panel from f, post-processes it and draws it.
func (s *Strip) Write(f *render.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fill(f.Levels, f.Background)
	s.post.Apply(s.buf)
	for i, c := range s.buf {
		s.img.SetNRGBA(i, 0, toNRGBA(c))
	}
	return s.dev.Draw(s.dev.Bounds(), s.img, image.Point{})
}

// fill lays out levels as columns. The topmost partially lit pixel blends
// between background and bar.
func (s *Strip) fill(levels []float32, bg render.Color) {
	cols, rows := s.layout.Columns, s.layout.Rows
	for x := 0; x < cols; x++ {
		var lv float32
		if len(levels) > 0 {
			lv = levels[x*len(levels)/cols]
		}
		lit := min(max(lv, 0), 1) * float32(rows)
		for y := 0; y < rows; y++ {
			c := bg
			switch fy := float32(y); {
			case fy+1 <= lit:
				c = s.bar
			case fy < lit:
				c = render.Lerp(bg, s.bar, float64(lit-fy))
			}
			s.buf[s.layout.Index(x, y)] = c
		}
	}
}

// Pixels returns a copy of the last post-processed buffer in strip order.
func (s *Strip) Pixels() []render.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]render.Color(nil), s.buf...)
}

// Close blanks the strip and releases the port.
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Debug().Msg("halting led strip")
	return errors.Join(s.dev.Halt(), s.port.Close())
}

func toNRGBA(c render.Color) color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 0xff}
}

func to8(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}
