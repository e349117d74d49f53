package text

import (
	"context"
	"fmt"

	"github.com/coreman2200/osaker/internal/future"
	"github.com/coreman2200/osaker/internal/scene"
)

// Builder produces text geometry off the caller's goroutine. Builds requested
// before the font has loaded wait for it.
type Builder struct {
	font *future.Future[*Font]
}

func NewBuilder(font *future.Future[*Font]) *Builder {
	return &Builder{font: font}
}

// FontReady reports whether the font has finished loading.
func (b *Builder) FontReady() bool { return b.font.Ready() }

// BuildText starts building s and returns immediately. The geometry belongs
// to whoever consumes the future and must be disposed by them.
func (b *Builder) BuildText(ctx context.Context, s string, o Options) *future.Future[*scene.Geometry] {
	return future.Go(ctx, func(ctx context.Context) (*scene.Geometry, error) {
		f, err := b.font.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("text: font unavailable: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return f.Extrude(s, o)
	})
}
