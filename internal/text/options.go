package text

import "fmt"

type Bevel struct {
	Enabled   bool    `yaml:"enabled"`
	Thickness float32 `yaml:"thickness"`
	Size      float32 `yaml:"size"`
	Offset    float32 `yaml:"offset"`
	Segments  int     `yaml:"segments"`
}

// Options control the extruded text mesh. Lengths are in scene units; Size
// is the em height.
type Options struct {
	Size          float32 `yaml:"size"`
	Depth         float32 `yaml:"depth"`
	CurveSegments int     `yaml:"curve_segments"`
	Bevel         Bevel   `yaml:"bevel"`
}

func DefaultOptions() Options {
	return Options{
		Size:          0.5,
		Depth:         0.2,
		CurveSegments: 12,
		Bevel: Bevel{
			Enabled:   true,
			Thickness: 0.03,
			Size:      0.02,
			Offset:    0,
			Segments:  5,
		},
	}
}

func (o Options) Validate() error {
	if o.Size <= 0 {
		return fmt.Errorf("text: size must be positive, got %v", o.Size)
	}
	if o.Depth < 0 {
		return fmt.Errorf("text: negative depth %v", o.Depth)
	}
	if o.CurveSegments <= 0 {
		return fmt.Errorf("text: curve segments must be positive, got %d", o.CurveSegments)
	}
	if o.Bevel.Enabled && o.Bevel.Segments <= 0 {
		return fmt.Errorf("text: bevel segments must be positive, got %d", o.Bevel.Segments)
	}
	return nil
}
