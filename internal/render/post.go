package render

import "math"

// Post holds the tone map and current limiter settings applied to LED
// buffers before they are written to the strip.
type Post struct {
	ExposureEV float64 `yaml:"exposure_ev"`
	Gamma      float64 `yaml:"gamma"`

	// WhiteCap bounds R+G+B per pixel in linear space; 3 means no cap.
	WhiteCap float64 `yaml:"white_cap"`

	// ChanMA is the current drawn by one channel at full scale (WS2812 ≈ 20).
	ChanMA   float64 `yaml:"chan_ma"`
	BudgetMA float64 `yaml:"budget_ma"` // 0 disables the budget stage

	// Knee is the fraction of the budget where soft limiting begins.
	Knee float64 `yaml:"knee"`

	// Bypass skips both stages, e.g. for previews.
	Bypass bool `yaml:"bypass"`
}

func DefaultPost() Post {
	return Post{Gamma: 2.2, WhiteCap: 3, ChanMA: 20, Knee: 0.9}
}

// Apply runs the tone map followed by the limiter.
func (p Post) Apply(buf []Color) {
	if p.Bypass {
		return
	}
	FilmicToneMap(buf, p)
	DefaultLimiter(buf, p)
}

// FilmicToneMap applies an ACES approximation with exposure in EV and an
// output gamma (2.2 when unset).
func FilmicToneMap(buf []Color, p Post) {
	gamma := p.Gamma
	if gamma <= 0 {
		gamma = 2.2
	}
	exposure := float32(math.Pow(2.0, p.ExposureEV))
	ig := 1.0 / gamma

	for i := range buf {
		r := acesApprox(buf[i].R * exposure)
		g := acesApprox(buf[i].G * exposure)
		b := acesApprox(buf[i].B * exposure)
		if gamma != 1.0 {
			r, g, b = powf(r, ig), powf(g, ig), powf(b, ig)
		}
		buf[i] = Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
	}
}

// DefaultLimiter applies a per-pixel white cap and then scales the whole
// buffer to stay under the current budget. Current above knee*budget is
// compressed so it approaches the budget without reaching it.
func DefaultLimiter(buf []Color, p Post) {
	whiteCap := p.WhiteCap
	if whiteCap <= 0 {
		whiteCap = 3
	}
	chanMA := p.ChanMA
	if chanMA <= 0 {
		chanMA = 20
	}
	knee := p.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}

	wc := float32(whiteCap)
	for i := range buf {
		s := buf[i].R + buf[i].G + buf[i].B
		if s > wc && s > 0 {
			scale := wc / s
			buf[i].R *= scale
			buf[i].G *= scale
			buf[i].B *= scale
		}
	}

	if p.BudgetMA <= 0 {
		return
	}
	total := EstimateMA(buf, chanMA)
	if total <= 0 {
		return
	}
	start := knee * p.BudgetMA
	if total <= start {
		return
	}
	headroom := p.BudgetMA - start
	target := start + headroom*math.Tanh((total-start)/headroom)
	applyGlobalScale(buf, float32(target/total))
}

// EstimateMA is the current the buffer would draw at chanMA per channel.
func EstimateMA(buf []Color, chanMA float64) float64 {
	var total float64
	cm := float32(chanMA)
	for i := range buf {
		total += float64((buf[i].R + buf[i].G + buf[i].B) * cm)
	}
	return total
}

func applyGlobalScale(buf []Color, s float32) {
	if s >= 1.0 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func powf(x float32, p float64) float32 {
	return float32(math.Pow(float64(x), p))
}

// Approximate ACES filmic curve (Narkowicz 2015).
func acesApprox(x float32) float32 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
}
