package palette

import (
	"image/color"
	"math"
	"sync"

	"colorpick/mmcq"
	"colorpick/okcolor"

	"golang.org/x/image/colornames"
)

// Lab is a palette held in Oklab coordinates.
type Lab []okcolor.Lab

func NewLabPalette(p color.Palette) Lab {
	pal := make(Lab, len(p))
	for i, c := range p {
		pal[i] = okcolor.LabModel.Convert(c).(okcolor.Lab)
	}
	return pal
}

// Index returns the index of the color perceptually closest to lc, the first
// one on ties.
func (p Lab) Index(lc okcolor.Lab) int {
	ret, bestSum := 0, math.MaxFloat64
	for i, v := range p {
		sum := lc.Distance(v)
		if sum < bestSum {
			if sum == 0 {
				return i
			}
			ret, bestSum = i, sum
		}
	}
	return ret
}

// namedColors holds colornames.Names in Oklab, in the same order.
var namedColors = sync.OnceValue(func() Lab {
	pal := make(color.Palette, len(colornames.Names))
	for i, name := range colornames.Names {
		pal[i] = colornames.Map[name]
	}
	return NewLabPalette(pal)
})

// Name returns the SVG color name perceptually closest to c. Names are scanned
// alphabetically, so ties go to the first name.
func Name(c mmcq.Color) string {
	lc := okcolor.LabModel.Convert(c).(okcolor.Lab)
	return colornames.Names[namedColors().Index(lc)]
}

// Family is a coarse color category used to group images.
type Family string

const (
	Black  Family = "black"
	White  Family = "white"
	Gray   Family = "gray"
	Red    Family = "red"
	Orange Family = "orange"
	Yellow Family = "yellow"
	Green  Family = "green"
	Cyan   Family = "cyan"
	Blue   Family = "blue"
	Purple Family = "purple"
	Pink   Family = "pink"
)

// Families lists every family FamilyOf can return.
func Families() []Family {
	return []Family{Black, White, Gray, Red, Orange, Yellow, Green, Cyan, Blue, Purple, Pink}
}

var hueFamilies = []struct {
	upTo   float64
	family Family
}{
	{15, Red},
	{45, Orange},
	{70, Yellow},
	{170, Green},
	{200, Cyan},
	{260, Blue},
	{300, Purple},
	{345, Pink},
	{360, Red},
}

// FamilyOf buckets c by lightness, then saturation, then hue.
func FamilyOf(c mmcq.Color) Family {
	switch {
	case c.Lightness < 0.12:
		return Black
	case c.Lightness > 0.92:
		return White
	case c.Saturation < 0.15:
		return Gray
	}

	for _, hf := range hueFamilies {
		if c.Hue < hf.upTo {
			return hf.family
		}
	}
	return Red
}
