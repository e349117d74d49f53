package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/osaker/internal/future"
)

var ErrUnsupportedFormat = errors.New("audio: unsupported format")

const (
	DefaultVolume    = 0.5
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyser plays a looping track into a tap and exposes its spectrum.
// Until a track has loaded, Sample returns silence.
type Analyser struct {
	bins   int
	volume float64
	tick   time.Duration
	log    zerolog.Logger

	tap   *Tap
	ready atomic.Bool

	mu  sync.Mutex // guards fft
	fft *spectrum

	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Analyser)

func WithVolume(v float64) Option { return func(a *Analyser) { a.volume = v } }

// WithPumpInterval sets how often decoded audio is pushed into the tap.
func WithPumpInterval(d time.Duration) Option { return func(a *Analyser) { a.tick = d } }

func WithLogger(l zerolog.Logger) Option { return func(a *Analyser) { a.log = l } }

// WithSmoothing overrides the spectrum's time constant and decibel range.
func WithSmoothing(tc, minDB, maxDB float64) Option {
	return func(a *Analyser) { a.fft = newSpectrum(a.bins*2, tc, minDB, maxDB) }
}

// NewAnalyser returns an idle analyser reporting bins frequency bins, using
// an FFT of twice that size.
func NewAnalyser(bins int, opts ...Option) (*Analyser, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("audio: bins must be positive, got %d", bins)
	}
	a := &Analyser{
		bins:   bins,
		volume: DefaultVolume,
		tick:   20 * time.Millisecond,
		log:    log.With().Str("component", "audio").Logger(),
		tap:    NewTap(bins * 2 * 4),
		fft:    newSpectrum(bins*2, DefaultSmoothing, DefaultMinDB, DefaultMaxDB),
	}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

func (a *Analyser) Bins() int { return a.bins }

// Ready reports whether a track is playing into the tap.
func (a *Analyser) Ready() bool { return a.ready.Load() }

// Sample returns the current spectrum, or silence before load completes.
func (a *Analyser) Sample() Sample {
	out := make(Sample, a.bins)
	if !a.ready.Load() {
		return out
	}
	a.mu.Lock()
	a.tap.Latest(a.fft.in)
	a.fft.process(out)
	a.mu.Unlock()
	return out
}

// Load decodes path on a background goroutine and starts looping playback
// into the tap. The returned future resolves once playback has started or
// the track failed to load; a failed load leaves the analyser idle.
func (a *Analyser) Load(ctx context.Context, path string) *future.Future[beep.Format] {
	return future.Go(ctx, func(ctx context.Context) (beep.Format, error) {
		s, format, err := decode(path)
		if err != nil {
			a.log.Warn().Err(err).Str("path", path).Msg("audio load failed; staying idle")
			return beep.Format{}, err
		}
		if err := a.Play(ctx, s, format); err != nil {
			_ = s.Close()
			return beep.Format{}, err
		}
		a.log.Info().Str("path", path).Int("sample_rate", int(format.SampleRate)).Msg("audio playing")
		return format, nil
	})
}

// Play starts pumping s into the tap at real-time rate, looping at the end.
// The stream is closed when playback stops.
func (a *Analyser) Play(ctx context.Context, s beep.StreamSeekCloser, format beep.Format) error {
	if format.SampleRate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", format.SampleRate)
	}
	a.Close()
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	a.mu.Lock()
	a.cancel, a.done = cancel, done
	a.mu.Unlock()

	a.ready.Store(true)
	go func() {
		defer close(done)
		defer s.Close()
		a.pump(ctx, s, format)
	}()
	return nil
}

func (a *Analyser) pump(ctx context.Context, s beep.StreamSeekCloser, format beep.Format) {
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()
	buf := make([][2]float64, format.SampleRate.N(a.tick)*2)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			want := format.SampleRate.N(now.Sub(last))
			last = now
			for want > 0 {
				chunk := buf
				if want < len(chunk) {
					chunk = chunk[:want]
				}
				n, ok := s.Stream(chunk)
				a.tap.Write(chunk[:n], a.volume)
				want -= n
				if !ok || n == 0 {
					if err := s.Err(); err != nil {
						a.log.Error().Err(err).Msg("audio stream failed")
						return
					}
					if err := s.Seek(0); err != nil {
						a.log.Error().Err(err).Msg("audio loop seek failed")
						return
					}
					if s.Len() == 0 {
						return
					}
				}
			}
		}
	}
}

// Close stops playback. Sample keeps returning the last buffered audio.
func (a *Analyser) Close() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" && ext != ".mp3" {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: open: %w", err)
	}
	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	if ext == ".wav" {
		s, format, err = wav.Decode(f)
	} else {
		s, format, err = mp3.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: decode %s: %w", path, err)
	}
	return s, format, nil
}
