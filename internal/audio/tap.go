package audio

import "sync"

// Tap is a mono ring buffer fed by the playback pump and read by the analyser.
type Tap struct {
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

func NewTap(size int) *Tap {
	return &Tap{buf: make([]float64, size), size: size}
}

// Write mixes stereo frames down to mono, applies gain and appends them.
func (t *Tap) Write(frames [][2]float64, gain float64) {
	t.mu.Lock()
	for _, f := range frames {
		t.buf[t.pos] = (f[0] + f[1]) / 2 * gain
		t.pos = (t.pos + 1) % t.size
	}
	t.mu.Unlock()
}

// Latest copies the last len(dst) samples into dst in chronological order.
func (t *Tap) Latest(dst []float64) {
	n := len(dst)
	if n > t.size {
		n = t.size
	}
	t.mu.Lock()
	start := (t.pos - n + t.size) % t.size
	for i := 0; i < n; i++ {
		dst[i] = t.buf[(start+i)%t.size]
	}
	t.mu.Unlock()
}
