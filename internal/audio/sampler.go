// Package audio turns a playing track into a per-frame snapshot of spectral
// energy for the visualizer.
package audio

// Sample is one snapshot of frequency energy, one byte per bin (0..255).
// A Sample is never mutated after it is returned.
type Sample []uint8

// Sampler hands out the most recent spectrum. Sample must not block and must
// be safe to call before any audio has loaded.
type Sampler interface {
	Sample() Sample
	Bins() int
}

type idle int

// Idle returns a Sampler that always reports silence.
func Idle(bins int) Sampler { return idle(bins) }

func (i idle) Sample() Sample { return make(Sample, int(i)) }
func (i idle) Bins() int      { return int(i) }
