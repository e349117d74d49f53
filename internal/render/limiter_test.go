package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func whiteBuf(n int) []Color {
	buf := make([]Color, n)
	for i := range buf {
		buf[i] = Color{R: 1, G: 1, B: 1}
	}
	return buf
}

func TestDefaultLimiterBudgetClamp(t *testing.T) {
	// 10 pixels at 60mA each = 600mA before limiting
	buf := whiteBuf(10)
	DefaultLimiter(buf, Post{ChanMA: 20, BudgetMA: 300, WhiteCap: 3, Knee: 0.9})
	assert.LessOrEqual(t, EstimateMA(buf, 20), 300.1)
}

func TestDefaultLimiterUnderKnee(t *testing.T) {
	buf := whiteBuf(4) // 240mA
	DefaultLimiter(buf, Post{ChanMA: 20, BudgetMA: 1000})
	assert.Equal(t, Color{R: 1, G: 1, B: 1}, buf[0])
}

func TestDefaultLimiterSoftKnee(t *testing.T) {
	buf := whiteBuf(10) // 600mA against a 630mA budget, above the 0.9 knee
	DefaultLimiter(buf, Post{ChanMA: 20, BudgetMA: 630, Knee: 0.9})
	cur := EstimateMA(buf, 20)
	assert.Less(t, cur, 600.0)
	assert.Greater(t, cur, 500.0)
}

func TestWhiteCap(t *testing.T) {
	buf := whiteBuf(1)
	DefaultLimiter(buf, Post{WhiteCap: 1.5})
	assert.LessOrEqual(t, buf[0].R+buf[0].G+buf[0].B, float32(1.5001))
}

func TestPostBypass(t *testing.T) {
	buf := []Color{{R: 4, G: 0, B: 0}}
	p := DefaultPost()
	p.Bypass = true
	p.Apply(buf)
	assert.Equal(t, float32(4), buf[0].R)
}

func TestToneMapClamps(t *testing.T) {
	buf := []Color{{R: 10, G: 0.5, B: 0}}
	FilmicToneMap(buf, DefaultPost())
	assert.LessOrEqual(t, buf[0].R, float32(1))
	assert.Greater(t, buf[0].G, float32(0))
	assert.Zero(t, buf[0].B)
}

func TestDefaultLimiterKneeIsMonotonic(t *testing.T) {
	p := Post{ChanMA: 20, BudgetMA: 630, Knee: 0.9}
	prev := 0.0
	for n := 1; n <= 40; n++ {
		buf := whiteBuf(n)
		DefaultLimiter(buf, p)
		cur := EstimateMA(buf, 20)
		assert.LessOrEqual(t, cur, p.BudgetMA+0.01)
		assert.GreaterOrEqual(t, cur, prev-0.01, "output current dropped at %d pixels", n)
		prev = cur
	}
}
