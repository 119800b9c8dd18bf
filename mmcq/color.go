package mmcq

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultCodePointLightness = 0.15
	DefaultDerivativeStep     = 7.0
	DefaultDerivativeCount    = 4
)

// Color is an opaque 8-bit RGB color together with its HSL coordinates.
//
// Colors built with NewColor derive Hue, Saturation and Lightness from the
// channels. Colors built with ColorFromHSB keep the HSB inputs in those fields
// and derive the channels through the HSV formula, so the two directions are
// not inverses of each other.
type Color struct {
	R, G, B uint8

	Hue        float64 // [0, 360)
	Saturation float64 // [0, 1]
	Lightness  float64 // [0, 1]
}

func NewColor(r, g, b uint8) Color {
	c := Color{R: r, G: g, B: b}
	c.Hue, c.Saturation, c.Lightness = toHSL(r, g, b)
	return c
}

// ColorFromHSB builds a color from hue in degrees and saturation/brightness in
// [0, 1]. Out of range inputs are wrapped (hue) or clamped (the others).
func ColorFromHSB(hue, saturation, brightness float64) Color {
	h := math.Mod(hue, 360)
	if h < 0 {
		h += 360
	}
	s := clamp(saturation, 0, 1)
	v := clamp(brightness, 0, 1)

	rgb := colorful.Hsv(h, s, v).Clamped()
	return Color{
		R:          uint8(rgb.R * 255),
		G:          uint8(rgb.G * 255),
		B:          uint8(rgb.B * 255),
		Hue:        hue,
		Saturation: saturation,
		Lightness:  brightness,
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// CodePointColor returns a color with the same hue and saturation at the given
// lightness.
func (c Color) CodePointColor(lightness float64) Color {
	return ColorFromHSB(c.Hue, c.Saturation, lightness)
}

// DerivativeColors returns count colors whose hue is stepped away from c by
// multiples of step. Half of them sit below the hue and the rest above, unless
// that would cross 0 or 360 degrees, in which case the split moves to the
// other side.
func (c Color) DerivativeColors(step float64, count int) []Color {
	if step <= 0 || count <= 1 {
		return nil
	}

	median := count / 2
	for i := range median {
		offset := step * float64(i+1)
		if c.Hue-offset < 0 {
			median = i
			break
		}
		if c.Hue+offset > 360 {
			median = count - i
			break
		}
	}

	res := make([]Color, 0, count)
	for i := range median {
		res = append(res, ColorFromHSB(c.Hue-step*float64(i+1), c.Saturation, c.Lightness))
	}
	for i := range count - median {
		res = append(res, ColorFromHSB(c.Hue+step*float64(i+1), c.Saturation, c.Lightness))
	}

	return res
}

func toHSL(r, g, b uint8) (hue, saturation, lightness float64) {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	hi := max(rf, gf, bf)
	lo := min(rf, gf, bf)
	d := hi - lo

	switch {
	case d == 0:
		hue = 0
	case hi == rf && gf >= bf:
		hue = 60 * (gf - bf) / d
	case hi == rf:
		hue = 60*(gf-bf)/d + 360
	case hi == gf:
		hue = 60*(bf-rf)/d + 120
	default:
		hue = 60*(rf-gf)/d + 240
	}

	lightness = (rf + gf + bf) / 3

	switch {
	case lightness == 0 || d == 0:
		saturation = 0
	case lightness <= 0.5:
		saturation = d / (2 * lightness)
	default:
		saturation = d / (2 - 2*lightness)
	}

	// mean lightness lets the ratio above exceed 1 for saturated primaries
	return hue, clamp(saturation, 0, 1), lightness
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}
