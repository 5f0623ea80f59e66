package gfx

// Color is a 32-bit ARGB color value.
type Color uint32

// ARGB builds a color from its channels.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channels returns the alpha, red, green and blue channels.
func (c Color) Channels() (a, r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// LerpColor interpolates each channel of a and b independently.
func LerpColor(a, b Color, t float64) Color {
	aA, aR, aG, aB := a.Channels()
	bA, bR, bG, bB := b.Channels()
	return ARGB(
		lerpChannel(aA, bA, t),
		lerpChannel(aR, bR, t),
		lerpChannel(aG, bG, t),
		lerpChannel(aB, bB, t),
	)
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := float64(a) + (float64(b)-float64(a))*t
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
