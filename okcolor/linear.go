package okcolor

import (
	"image/color"
	"math"
)

// LinearRGBA is a color with gamma-decoded channels in [0, 1].
type LinearRGBA struct {
	R float64
	G float64
	B float64
	A uint16
}

var LinearRGBAModel = color.ModelFunc(linearRGBAConvert)

func linearRGBAConvert(c color.Color) color.Color {
	if _, ok := c.(LinearRGBA); ok {
		return c
	}

	return sRGBToLinearRGB(color.RGBA64Model.Convert(c).(color.RGBA64))
}

// RGBA clamps out of gamut channels before encoding.
func (lc LinearRGBA) RGBA() (uint32, uint32, uint32, uint32) {
	return linearRGBToSRGB(lc.Clamped()).RGBA()
}

func (lc LinearRGBA) InGamut() bool {
	return lc.R >= 0 && lc.R <= 1 && lc.G >= 0 && lc.G <= 1 && lc.B >= 0 && lc.B <= 1
}

func (lc LinearRGBA) Clamped() LinearRGBA {
	return LinearRGBA{
		R: min(max(lc.R, 0), 1),
		G: min(max(lc.G, 0), 1),
		B: min(max(lc.B, 0), 1),
		A: lc.A,
	}
}

func linearRGBToSRGB(lc LinearRGBA) color.RGBA64 {
	return color.RGBA64{
		R: uint16(math.Round(fromLinear(lc.R) * 65535)),
		G: uint16(math.Round(fromLinear(lc.G) * 65535)),
		B: uint16(math.Round(fromLinear(lc.B) * 65535)),
		A: lc.A,
	}
}

func sRGBToLinearRGB(c color.RGBA64) LinearRGBA {
	return LinearRGBA{
		R: toLinear(float64(c.R) / 65535),
		G: toLinear(float64(c.G) / 65535),
		B: toLinear(float64(c.B) / 65535),
		A: c.A,
	}
}

func toLinear(x float64) float64 {
	if x >= 0.04045 {
		return math.Pow((x+0.055)/1.055, 2.4)
	}
	return x / 12.92
}

const pow float64 = 1.0 / 2.4

func fromLinear(x float64) float64 {
	if x >= 0.0031308 {
		return math.Pow(x, pow)*1.055 - 0.055
	}
	return x * 12.92
}
