package mmcq

import (
	"reflect"
	"slices"
	"testing"
)

func quantizeOpts(quality int, ignoreWhite bool, maxColors int) Options {
	return Options{Quality: quality, IgnoreWhite: ignoreWhite, MaxColors: maxColors}
}

func TestQuantizeInvalid(t *testing.T) {
	pixels := solid(10, 1, 2, 3)

	tests := []struct {
		name      string
		pixels    []byte
		maxColors int
	}{
		{"empty buffer", nil, 5},
		{"one color", pixels, 1},
		{"zero colors", pixels, 0},
		{"too many colors", pixels, 257},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m := Quantize(tt.pixels, quantizeOpts(1, false, tt.maxColors)); m != nil {
				t.Errorf("Quantize() = %d colors, want nil", m.Len())
			}
		})
	}

	if m := Quantize(pixels, quantizeOpts(1, false, MaxColors)); m == nil {
		t.Error("Quantize() with 256 colors returned nil")
	}
}

func TestQuantizeSingleColor(t *testing.T) {
	m := Quantize(solid(100, 200, 50, 50), quantizeOpts(1, false, 5))
	if m == nil {
		t.Fatal("Quantize() returned nil")
	}

	pal := m.Palette()
	if len(pal) != 1 {
		t.Fatalf("palette has %d colors, want 1", len(pal))
	}
	// bucket centers of 200>>3 and 50>>3
	if pal[0].R != 204 || pal[0].G != 52 || pal[0].B != 52 {
		t.Errorf("palette[0] = %d, %d, %d, want 204, 52, 52", pal[0].R, pal[0].G, pal[0].B)
	}
}

func TestQuantizeAllWhite(t *testing.T) {
	m := Quantize(solid(64, 255, 255, 255), quantizeOpts(1, true, 5))
	if m == nil {
		t.Fatal("Quantize() returned nil for an all white image")
	}
	if m.Len() != 0 || len(m.Palette()) != 0 {
		t.Errorf("palette has %d colors, want 0", m.Len())
	}
}

func TestQuantizeTwoColors(t *testing.T) {
	pixels := append(solid(100, 255, 0, 0), solid(100, 0, 255, 0)...)
	m := Quantize(pixels, quantizeOpts(1, false, 2))
	if m == nil {
		t.Fatal("Quantize() returned nil")
	}

	pal := m.Palette()
	if len(pal) != 2 {
		t.Fatalf("palette has %d colors, want 2", len(pal))
	}

	inputs := []Color{NewColor(255, 0, 0), NewColor(0, 255, 0)}
	matched := make([]bool, len(inputs))
	for _, c := range pal {
		for i, in := range inputs {
			if absDiff(c.R, in.R) <= Multiplier && absDiff(c.G, in.G) <= Multiplier && absDiff(c.B, in.B) <= Multiplier {
				matched[i] = true
			}
		}
	}
	for i, ok := range matched {
		if !ok {
			t.Errorf("no palette color close to %s, got %v", inputs[i].Hex(), hexes(pal))
		}
	}
}

func TestQuantizePaletteBounds(t *testing.T) {
	pixels := randomPixels(42, 4096)

	for _, maxColors := range []int{2, 3, 5, 8, 16, 64, 256} {
		m := Quantize(pixels, quantizeOpts(1, true, maxColors))
		if m == nil {
			t.Fatalf("maxColors %d: Quantize() returned nil", maxColors)
		}

		pal := m.Palette()
		if len(pal) < 1 || len(pal) > maxColors {
			t.Errorf("maxColors %d: palette has %d colors", maxColors, len(pal))
		}
		for _, c := range pal {
			if c.Hue < 0 || c.Hue >= 360 || c.Saturation < 0 || c.Saturation > 1 || c.Lightness < 0 || c.Lightness > 1 {
				t.Errorf("maxColors %d: color %s has HSL %v, %v, %v", maxColors, c.Hex(), c.Hue, c.Saturation, c.Lightness)
			}
		}
	}
}

func TestQuantizeFillsPalette(t *testing.T) {
	var pixels []byte
	for _, c := range [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}, {255, 255, 0}} {
		pixels = append(pixels, solid(50, c[0], c[1], c[2])...)
	}

	m := Quantize(pixels, quantizeOpts(1, false, 4))
	if m == nil {
		t.Fatal("Quantize() returned nil")
	}
	if m.Len() != 4 {
		t.Errorf("palette has %d colors, want 4: %v", m.Len(), hexes(m.Palette()))
	}
}

func TestQuantizePhaseCounters(t *testing.T) {
	pixels := randomPixels(42, 20000)

	// phase 2 restarts its split counter at 1, leaving one split unused
	// unless phase 1 already reached the last box
	for _, tt := range []struct{ maxColors, want int }{
		{2, 2},
		{3, 3},
		{4, 4},
		{5, 5},
		{8, 7},
		{10, 9},
		{16, 15},
		{64, 63},
	} {
		m := Quantize(pixels, quantizeOpts(1, false, tt.maxColors))
		if m == nil {
			t.Fatalf("maxColors %d: Quantize() returned nil", tt.maxColors)
		}
		if m.Len() != tt.want {
			t.Errorf("maxColors %d: got %d boxes, want %d", tt.maxColors, m.Len(), tt.want)
		}
	}
}

func TestSortBoxesTies(t *testing.T) {
	h := new(Histogram)
	h[HistogramIndex(1, 1, 1)] = 3
	h[HistogramIndex(5, 5, 5)] = 3
	h[HistogramIndex(9, 9, 9)] = 7

	a := newVBox(extent{min: [3]int{1, 1, 1}, max: [3]int{1, 1, 1}}, h)
	b := newVBox(extent{min: [3]int{5, 5, 5}, max: [3]int{5, 5, 5}}, h)
	big := newVBox(extent{min: [3]int{9, 9, 9}, max: [3]int{9, 9, 9}}, h)

	boxes := []*VBox{a, big, b}
	sortBoxes(boxes)
	if boxes[0] != big || boxes[1] != b || boxes[2] != a {
		t.Errorf("sortBoxes() = %v, want the largest box then the equal ones reversed", boxes)
	}
}

func TestQuantizeOrder(t *testing.T) {
	pixels := randomPixels(3, 2048)
	m := Quantize(pixels, quantizeOpts(2, true, 12))
	if m == nil {
		t.Fatal("Quantize() returned nil")
	}

	boxes := m.Boxes()
	for i := 1; i < len(boxes); i++ {
		if byProduct(boxes[i-1], boxes[i]) {
			t.Errorf("box %d sorts before box %d", i-1, i)
		}
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	pixels := randomPixels(11, 5000)
	opts := quantizeOpts(3, true, 10)

	first := Quantize(pixels, opts).Palette()
	second := Quantize(pixels, opts).Palette()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("palettes differ: %v vs %v", hexes(first), hexes(second))
	}

	opts.Workers = 4
	parallel := Quantize(pixels, opts).Palette()
	if !reflect.DeepEqual(first, parallel) {
		t.Errorf("parallel palette differs: %v vs %v", hexes(first), hexes(parallel))
	}
}

func TestQuantizeDoesNotModifyPixels(t *testing.T) {
	pixels := randomPixels(5, 1000)
	orig := slices.Clone(pixels)
	Quantize(pixels, quantizeOpts(1, true, 8))
	if !slices.Equal(pixels, orig) {
		t.Error("Quantize() modified its input")
	}
}

func TestNearestColor(t *testing.T) {
	m := Quantize(randomPixels(9, 3000), quantizeOpts(1, true, 8))
	pal := m.Palette()

	for _, q := range []Color{
		NewColor(0, 0, 0),
		NewColor(255, 255, 255),
		NewColor(200, 10, 90),
		pal[0],
	} {
		got := m.NearestColor(q)
		if !slices.Contains(pal, got) {
			t.Errorf("NearestColor(%s) = %s is not in the palette", q.Hex(), got.Hex())
		}
	}

	if got := m.NearestColor(pal[len(pal)-1]); got != pal[len(pal)-1] {
		t.Errorf("NearestColor of a palette color = %s, want %s", got.Hex(), pal[len(pal)-1].Hex())
	}
}

func TestNearestColorTie(t *testing.T) {
	h := new(Histogram)
	h[HistogramIndex(0, 0, 0)] = 1
	h[HistogramIndex(2, 0, 0)] = 1
	m := &ColorMap{boxes: []*VBox{
		newVBox(extent{min: [3]int{2, 0, 0}, max: [3]int{2, 0, 0}}, h),
		newVBox(extent{min: [3]int{0, 0, 0}, max: [3]int{0, 0, 0}}, h),
	}}

	// 12 is 8 away from both 20 and 4
	got := m.NearestColor(NewColor(12, 4, 4))
	if got.R != 20 {
		t.Errorf("NearestColor tie went to %s, want the first box", got.Hex())
	}

	if got := (&ColorMap{}).NearestColor(NewColor(1, 2, 3)); got != NewColor(0, 0, 0) {
		t.Errorf("empty map NearestColor = %s, want black", got.Hex())
	}
}

func hexes(pal []Color) []string {
	res := make([]string, len(pal))
	for i, c := range pal {
		res[i] = c.Hex()
	}
	return res
}
