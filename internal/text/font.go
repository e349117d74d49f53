// Package text builds extruded 3D text meshes from TrueType outlines.
package text

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/coreman2200/osaker/internal/future"
)

var ErrNoGlyphs = errors.New("text: nothing to draw")

// Font wraps a parsed sfnt font. It is safe for concurrent use; every build
// uses its own sfnt.Buffer.
type Font struct {
	sf   *sfnt.Font
	name string
}

func ParseFont(data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	name, _ := sf.Name(nil, sfnt.NameIDFull)
	return &Font{sf: sf, name: name}, nil
}

func (f *Font) Name() string { return f.name }

// DefaultFont returns the embedded Go Regular face.
func DefaultFont() (*Font, error) { return ParseFont(goregular.TTF) }

// LoadFont reads and parses a font file in the background. An empty path
// loads the embedded default face.
func LoadFont(ctx context.Context, path string) *future.Future[*Font] {
	return future.Go(ctx, func(ctx context.Context) (*Font, error) {
		if path == "" {
			return DefaultFont()
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("text: read font: %w", err)
		}
		return ParseFont(data)
	})
}
