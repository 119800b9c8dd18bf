package mmcq

import (
	"image/color"
	"math"
)

// ColorMap holds the boxes produced by Quantize, most significant first.
type ColorMap struct {
	boxes []*VBox
}

func (m *ColorMap) Len() int {
	return len(m.boxes)
}

func (m *ColorMap) Boxes() []*VBox {
	return append([]*VBox(nil), m.boxes...)
}

// Palette returns the average color of every box. The first entry is the
// dominant color.
func (m *ColorMap) Palette() []Color {
	res := make([]Color, len(m.boxes))
	for i, v := range m.boxes {
		res[i] = v.Average()
	}
	return res
}

// ColorPalette returns the palette as an image/color palette.
func (m *ColorMap) ColorPalette() color.Palette {
	res := make(color.Palette, len(m.boxes))
	for i, v := range m.boxes {
		res[i] = v.Average()
	}
	return res
}

// NearestColor returns the palette color with the smallest sum of absolute
// channel differences to c. Ties go to the earlier box. An empty map returns
// black.
func (m *ColorMap) NearestColor(c Color) Color {
	nearest := NewColor(0, 0, 0)
	best := math.MaxInt

	for _, v := range m.boxes {
		avg := v.Average()
		d := absDiff(c.R, avg.R) + absDiff(c.G, avg.G) + absDiff(c.B, avg.B)
		if d < best {
			best, nearest = d, avg
		}
	}

	return nearest
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
