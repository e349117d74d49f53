package render

// Lerp returns the color alpha of the way from a to b. Channels are linear.
func Lerp(a, b Color, alpha float64) Color {
	bf := float32(alpha)
	af := 1 - bf
	return Color{
		R: a.R*af + b.R*bf,
		G: a.G*af + b.G*bf,
		B: a.B*af + b.B*bf,
	}
}
