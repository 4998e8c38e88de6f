package styles

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

func rgb(r, g, b uint8) color.Color {
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Blend mixes b over a with weight t in [0,1]. A nil input returns the other
// color unchanged.
func Blend(a, b color.Color, t float64) color.Color {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return b
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	t = min(max(t, 0), 1)
	r, g, bl := ca.BlendRgb(cb, t).Clamped().RGB255()
	return rgb(r, g, bl)
}

// RGB returns the 8-bit channels of c. Nil and fully transparent colors
// report black.
func RGB(c color.Color) (r, g, b uint8) {
	if c == nil {
		return 0, 0, 0
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return 0, 0, 0
	}
	return cc.RGB255()
}

// Hex formats c as #rrggbb, or "" for nil.
func Hex(c color.Color) string {
	if c == nil {
		return ""
	}
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return ""
	}
	return cc.Hex()
}

func colorHexPtr(c color.Color) *string {
	hex := Hex(c)
	if hex == "" {
		return nil
	}
	return &hex
}
