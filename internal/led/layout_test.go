package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutIndex(t *testing.T) {
	l := Layout{Columns: 4, Rows: 3, Serpentine: true}
	assert.Equal(t, 12, l.Count())
	assert.Equal(t, 0, l.Index(0, 0))
	assert.Equal(t, 3, l.Index(3, 0))
	// odd row runs backwards
	assert.Equal(t, 7, l.Index(0, 1))
	assert.Equal(t, 4, l.Index(3, 1))
	assert.Equal(t, 8, l.Index(0, 2))

	l.Serpentine = false
	assert.Equal(t, 4, l.Index(0, 1))
}

func TestLayoutIndexCoversEveryPixel(t *testing.T) {
	l := Layout{Columns: 5, Rows: 4, Serpentine: true}
	seen := map[int]bool{}
	for y := 0; y < l.Rows; y++ {
		for x := 0; x < l.Columns; x++ {
			seen[l.Index(x, y)] = true
		}
	}
	assert.Len(t, seen, l.Count())
}
