package led

// Layout maps a columns × rows panel onto a single strip. Pixel (0,0) is the
// bottom-left corner and the strip starts there.
type Layout struct {
	Columns int
	Rows    int
	// Serpentine reverses every odd row, the usual wiring for panels.
	Serpentine bool
}

// Index maps x,y to the linear LED index (0..Count-1).
func (l Layout) Index(x, y int) int {
	xx := x
	if l.Serpentine && y%2 == 1 {
		xx = l.Columns - 1 - x
	}
	return y*l.Columns + xx
}

func (l Layout) Count() int {
	return l.Columns * l.Rows
}
