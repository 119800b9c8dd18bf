package mmcq

import (
	"math/rand/v2"
	"testing"
)

func pixel(r, g, b, a uint8) []byte {
	return []byte{a, b, g, r}
}

func solid(n int, r, g, b uint8) []byte {
	res := make([]byte, 0, n*BytesPerPixel)
	for range n {
		res = append(res, pixel(r, g, b, 255)...)
	}
	return res
}

func randomPixels(seed uint64, n int) []byte {
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	res := make([]byte, n*BytesPerPixel)
	for i := range res {
		res[i] = uint8(rnd.UintN(256))
	}
	return res
}

func TestHistogramIndexBijection(t *testing.T) {
	seen := make([]bool, HistogramSize)
	for r := range boxLength {
		for g := range boxLength {
			for b := range boxLength {
				idx := HistogramIndex(r, g, b)
				if idx < 0 || idx >= HistogramSize {
					t.Fatalf("HistogramIndex(%d, %d, %d) = %d out of range", r, g, b, idx)
				}
				if seen[idx] {
					t.Fatalf("HistogramIndex(%d, %d, %d) = %d already used", r, g, b, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestBuildHistogramFilters(t *testing.T) {
	tests := []struct {
		name        string
		pixel       []byte
		ignoreWhite bool
		counted     bool
	}{
		{"opaque", pixel(10, 20, 30, 255), true, true},
		{"alpha threshold", pixel(10, 20, 30, 125), true, true},
		{"transparent", pixel(10, 20, 30, 124), true, false},
		{"white ignored", pixel(251, 251, 251, 255), true, false},
		{"white kept", pixel(251, 251, 251, 255), false, true},
		{"almost white", pixel(250, 251, 251, 255), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, vbox := BuildHistogram(tt.pixel, 1, tt.ignoreWhite)
			r := int(tt.pixel[3] >> RightShift)
			g := int(tt.pixel[2] >> RightShift)
			b := int(tt.pixel[1] >> RightShift)

			want := 0
			if tt.counted {
				want = 1
			}
			if got := h[HistogramIndex(r, g, b)]; got != want {
				t.Errorf("bucket count = %d, want %d", got, want)
			}
			if vbox.Count() != want {
				t.Errorf("vbox count = %d, want %d", vbox.Count(), want)
			}
		})
	}
}

func TestBuildHistogramStride(t *testing.T) {
	var pixels []byte
	for i := range 10 {
		pixels = append(pixels, pixel(uint8(i*8), 0, 0, 255)...)
	}

	tests := []struct {
		quality int
		want    []int
	}{
		{1, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{3, []int{0, 3, 6, 9}},
		{4, []int{0, 4, 8}},
		{0, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
	}

	for _, tt := range tests {
		h, vbox := BuildHistogram(pixels, tt.quality, false)
		if vbox.Count() != len(tt.want) {
			t.Errorf("quality %d: count = %d, want %d", tt.quality, vbox.Count(), len(tt.want))
		}
		for _, r := range tt.want {
			if h[HistogramIndex(r, 0, 0)] != 1 {
				t.Errorf("quality %d: red %d not sampled", tt.quality, r)
			}
		}
		if vbox.Max(Red) != tt.want[len(tt.want)-1] {
			t.Errorf("quality %d: red max = %d, want %d", tt.quality, vbox.Max(Red), tt.want[len(tt.want)-1])
		}
	}
}

func TestBuildHistogramBounds(t *testing.T) {
	pixels := append(pixel(8, 16, 24, 255), pixel(80, 40, 240, 255)...)
	_, vbox := BuildHistogram(pixels, 1, true)

	wantMin := [3]int{1, 2, 3}
	wantMax := [3]int{10, 5, 30}
	for _, ch := range []Channel{Red, Green, Blue} {
		if vbox.Min(ch) != wantMin[ch] || vbox.Max(ch) != wantMax[ch] {
			t.Errorf("%s bounds = [%d, %d], want [%d, %d]", ch, vbox.Min(ch), vbox.Max(ch), wantMin[ch], wantMax[ch])
		}
	}
	if want := 10 * 4 * 28; vbox.Volume() != want {
		t.Errorf("Volume() = %d, want %d", vbox.Volume(), want)
	}
}

func TestBuildHistogramEmpty(t *testing.T) {
	pixels := make([]byte, 16*BytesPerPixel)
	_, vbox := BuildHistogram(pixels, 1, true)
	if vbox.Count() != 0 {
		t.Errorf("Count() = %d, want 0", vbox.Count())
	}
	if vbox.Volume() != 0 {
		t.Errorf("Volume() = %d, want 0", vbox.Volume())
	}
}

func TestBuildHistogramParallel(t *testing.T) {
	pixels := randomPixels(7, 10007)
	want, wantBox := BuildHistogram(pixels, 3, true)

	for chunks := 1; chunks <= 8; chunks++ {
		got, gotBox := BuildHistogramParallel(pixels, 3, true, chunks)
		if *got != *want {
			t.Errorf("chunks %d: histogram differs from serial build", chunks)
		}
		if gotBox.ext != wantBox.ext || gotBox.Count() != wantBox.Count() {
			t.Errorf("chunks %d: box %v, want %v", chunks, gotBox.ext, wantBox.ext)
		}
	}
}
