package audio

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectrum converts a time-domain window into byte frequency data the way a
// browser AnalyserNode does: Blackman window, magnitude/N, exponential
// smoothing over time, then a linear map of [minDB, maxDB] onto 0..255.
type spectrum struct {
	fft      *fourier.FFT
	window   []float64
	in       []float64
	coeffs   []complex128
	smoothed []float64

	smoothing    float64
	minDB, maxDB float64
}

func newSpectrum(size int, smoothing, minDB, maxDB float64) *spectrum {
	s := &spectrum{
		fft:       fourier.NewFFT(size),
		window:    blackman(size),
		in:        make([]float64, size),
		smoothed:  make([]float64, size/2),
		smoothing: smoothing,
		minDB:     minDB,
		maxDB:     maxDB,
	}
	return s
}

func blackman(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}

// process consumes s.in and writes len(dst) bins into dst.
func (s *spectrum) process(dst Sample) {
	n := float64(len(s.in))
	for i := range s.in {
		s.in[i] *= s.window[i]
	}
	s.coeffs = s.fft.Coefficients(s.coeffs, s.in)

	span := s.maxDB - s.minDB
	for k := range dst {
		if k >= len(s.smoothed) {
			dst[k] = 0
			continue
		}
		mag := cmplx.Abs(s.coeffs[k]) / n
		v := s.smoothing*s.smoothed[k] + (1-s.smoothing)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		s.smoothed[k] = v

		if v <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(v)
		scaled := 255 * (db - s.minDB) / span
		switch {
		case scaled <= 0:
			dst[k] = 0
		case scaled >= 255:
			dst[k] = 255
		default:
			dst[k] = uint8(scaled)
		}
	}
}
