package text

import (
	"fmt"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/osaker/internal/scene"
)

type point struct{ X, Y float32 }

// Extrude lays out s on one line starting at the origin and returns its side
// walls (with bevel rings when enabled) as an indexed mesh. The flattened
// outlines are kept in Geometry.Contours for cap filling.
func (f *Font) Extrude(s string, o Options) (*scene.Geometry, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	contours, err := f.outline(s, o)
	if err != nil {
		return nil, err
	}
	if len(contours) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoGlyphs, s)
	}

	rings := ringProfile(o)
	var (
		pos []scene.Vec3
		idx []uint32
	)
	caps := make([][]scene.Vec3, 0, len(contours))
	for _, c := range contours {
		normals := vertexNormals(c)
		base := uint32(len(pos))
		n := uint32(len(c))
		for _, r := range rings {
			for i, p := range c {
				pos = append(pos, scene.Vec3{
					X: p.X + normals[i].X*r.offset,
					Y: p.Y + normals[i].Y*r.offset,
					Z: r.z,
				})
			}
		}
		for ri := uint32(0); ri+1 < uint32(len(rings)); ri++ {
			a, b := base+ri*n, base+(ri+1)*n
			for i := uint32(0); i < n; i++ {
				j := (i + 1) % n
				idx = append(idx, a+i, b+i, b+j, a+i, b+j, a+j)
			}
		}
		cp := make([]scene.Vec3, len(c))
		for i, p := range c {
			cp[i] = scene.Vec3{X: p.X, Y: p.Y}
		}
		caps = append(caps, cp)
	}
	g := scene.NewGeometry("text", pos, idx)
	g.Contours = caps
	return g, nil
}

type ring struct{ z, offset float32 }

// ringProfile lists the extrusion rings front to back. With a bevel the front
// and back each get Segments+1 rings on a quarter circle.
func ringProfile(o Options) []ring {
	if !o.Bevel.Enabled {
		return []ring{{0, 0}, {o.Depth, 0}}
	}
	b := o.Bevel
	out := make([]ring, 0, 2*(b.Segments+1))
	for i := 0; i <= b.Segments; i++ {
		t := float32(i) / float32(b.Segments) * math32.Pi / 2
		out = append(out, ring{z: -b.Thickness * math32.Cos(t), offset: b.Size*math32.Sin(t) + b.Offset})
	}
	for i := b.Segments; i >= 0; i-- {
		t := float32(i) / float32(b.Segments) * math32.Pi / 2
		out = append(out, ring{z: o.Depth + b.Thickness*math32.Cos(t), offset: b.Size*math32.Sin(t) + b.Offset})
	}
	return out
}

// vertexNormals returns the right-hand miter normal at each vertex. For
// TrueType winding (clockwise outer contours in y-up space) that points away
// from the filled area for both outer contours and holes.
func vertexNormals(c []point) []point {
	n := len(c)
	out := make([]point, n)
	for i := range c {
		prev, next := c[(i+n-1)%n], c[(i+1)%n]
		n0 := edgeNormal(prev, c[i])
		n1 := edgeNormal(c[i], next)
		m := point{n0.X + n1.X, n0.Y + n1.Y}
		l := math32.Hypot(m.X, m.Y)
		if l < 1e-6 {
			out[i] = n1
			continue
		}
		m = point{m.X / l, m.Y / l}
		// stretch along the bisector so the offset edge stays parallel
		d := m.X*n1.X + m.Y*n1.Y
		if d < 0.5 {
			d = 0.5
		}
		out[i] = point{m.X / d, m.Y / d}
	}
	return out
}

func edgeNormal(a, b point) point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math32.Hypot(dx, dy)
	if l == 0 {
		return point{}
	}
	return point{dy / l, -dx / l}
}

// outline flattens every glyph of s into closed polygons in scene units.
func (f *Font) outline(s string, o Options) ([][]point, error) {
	var buf sfnt.Buffer
	upem := f.sf.UnitsPerEm()
	ppem := fixed.I(int(upem))
	scale := o.Size / float32(upem)

	var (
		out  [][]point
		pen  float32
		prev sfnt.GlyphIndex
	)
	for i, r := range s {
		gi, err := f.sf.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("text: glyph index %q: %w", r, err)
		}
		if i > 0 {
			if k, err := f.sf.Kern(&buf, prev, gi, ppem, font.HintingNone); err == nil {
				pen += fixedToFloat(k)
			}
		}
		segs, err := f.sf.LoadGlyph(&buf, gi, ppem, nil)
		if err != nil {
			return nil, fmt.Errorf("text: load glyph %q: %w", r, err)
		}
		for _, c := range flatten(segs, o.CurveSegments) {
			for j := range c {
				c[j] = point{(c[j].X + pen) * scale, c[j].Y * scale}
			}
			out = append(out, c)
		}
		adv, err := f.sf.GlyphAdvance(&buf, gi, ppem, font.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("text: advance %q: %w", r, err)
		}
		pen += fixedToFloat(adv)
		prev = gi
	}
	return out, nil
}

// flatten converts outline segments into polygons, sampling each curve with
// steps points. sfnt's y axis points down; the result is y-up.
func flatten(segs sfnt.Segments, steps int) [][]point {
	var (
		out [][]point
		cur []point
		at  point
	)
	closeContour := func() {
		if len(cur) > 1 && cur[0] == cur[len(cur)-1] {
			cur = cur[:len(cur)-1]
		}
		if len(cur) >= 3 {
			out = append(out, cur)
		}
		cur = nil
	}
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			closeContour()
			at = toPoint(s.Args[0])
			cur = append(cur, at)
		case sfnt.SegmentOpLineTo:
			at = toPoint(s.Args[0])
			cur = append(cur, at)
		case sfnt.SegmentOpQuadTo:
			c, end := toPoint(s.Args[0]), toPoint(s.Args[1])
			for i := 1; i <= steps; i++ {
				t := float32(i) / float32(steps)
				u := 1 - t
				cur = append(cur, point{
					u*u*at.X + 2*u*t*c.X + t*t*end.X,
					u*u*at.Y + 2*u*t*c.Y + t*t*end.Y,
				})
			}
			at = end
		case sfnt.SegmentOpCubeTo:
			c1, c2, end := toPoint(s.Args[0]), toPoint(s.Args[1]), toPoint(s.Args[2])
			for i := 1; i <= steps; i++ {
				t := float32(i) / float32(steps)
				u := 1 - t
				cur = append(cur, point{
					u*u*u*at.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*end.X,
					u*u*u*at.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*end.Y,
				})
			}
			at = end
		}
	}
	closeContour()
	return out
}

func toPoint(p fixed.Point26_6) point {
	return point{fixedToFloat(p.X), -fixedToFloat(p.Y)}
}

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }
