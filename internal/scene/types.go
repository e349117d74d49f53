package scene

import "github.com/chewxy/math32"

type Vec3 struct{ X, Y, Z float32 }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Len() float32 { return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Equal(o Vec3) bool { return v.X == o.X && v.Y == o.Y && v.Z == o.Z }
func One() Vec3 { return Vec3{1, 1, 1} }

// Color is a linear RGB triple, 0..1 per channel.
type Color struct{ R, G, B float32 }

// Hex builds a Color from a 0xRRGGBB value.
func Hex(v uint32) Color {
	return Color{
		R: float32((v>>16)&0xff) / 255,
		G: float32((v>>8)&0xff) / 255,
		B: float32(v&0xff) / 255,
	}
}

// Hex returns the 0xRRGGBB value of c, rounding each channel.
func (c Color) Hex() uint32 {
	return uint32(channel(c.R))<<16 | uint32(channel(c.G))<<8 | uint32(channel(c.B))
}

func channel(x float32) uint8 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 255
	}
	return uint8(math32.Round(x * 255))
}

// Transform is the local placement of a node. Rotation is Euler XYZ in radians.
type Transform struct {
	Position Vec3
	Rotation Vec3
	Scale    Vec3
}

func Identity() Transform { return Transform{Scale: One()} }
