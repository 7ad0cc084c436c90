package scenepaint

import "image/color"

// Color is a non-premultiplied RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// RGB creates an opaque color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color with an explicit alpha.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Transparent is the fully transparent color.
var Transparent = Color{}

// NRGBA converts to the standard library's 8-bit non-premultiplied form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: clamp8(c.R),
		G: clamp8(c.G),
		B: clamp8(c.B),
		A: clamp8(c.A),
	}
}

// Premultiplied returns the 8-bit premultiplied components, the form the
// software draw target and tile surfaces store.
func (c Color) Premultiplied() (r, g, b, a uint8) {
	return clamp8(c.R * c.A), clamp8(c.G * c.A), clamp8(c.B * c.A), clamp8(c.A)
}

func clamp8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
