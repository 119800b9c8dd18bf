package mmcq

import (
	"math"
	"sync"
)

// Only the top 5 bits of each 8-bit channel are kept.
const (
	SignalBits    = 5
	RightShift    = 8 - SignalBits
	Multiplier    = 1 << RightShift
	HistogramSize = 1 << (3 * SignalBits)

	boxLength = 1 << SignalBits
)

// Sampled pixels are skipped below this alpha, and when ignoring white, if
// every channel is above whiteThreshold.
const (
	alphaThreshold = 125
	whiteThreshold = 250
)

// BytesPerPixel is the size of one pixel in the buffers accepted by Quantize.
// Each pixel is laid out as alpha, blue, green, red.
const BytesPerPixel = 4

// Histogram counts sampled pixels per quantized color. It is never written to
// once built, so boxes share it by pointer.
type Histogram [HistogramSize]int

// HistogramIndex maps quantized channels in [0, 31] to a histogram bucket.
func HistogramIndex(r, g, b int) int {
	return (r << (2 * SignalBits)) + (g << SignalBits) + b
}

// Channel identifies one quantized color axis.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	}
	return "unknown"
}

type extent struct {
	min, max [3]int
}

func emptyExtent() extent {
	return extent{
		min: [3]int{math.MaxUint8, math.MaxUint8, math.MaxUint8},
		max: [3]int{0, 0, 0},
	}
}

func (e *extent) add(r, g, b int) {
	e.min[Red] = min(e.min[Red], r)
	e.min[Green] = min(e.min[Green], g)
	e.min[Blue] = min(e.min[Blue], b)
	e.max[Red] = max(e.max[Red], r)
	e.max[Green] = max(e.max[Green], g)
	e.max[Blue] = max(e.max[Blue], b)
}

func (e *extent) merge(o extent) {
	for ch := range e.min {
		e.min[ch] = min(e.min[ch], o.min[ch])
		e.max[ch] = max(e.max[ch], o.max[ch])
	}
}

// sample adds every quality-th pixel with a sample number in [from, to).
func (h *Histogram) sample(pixels []byte, from, to, quality int, ignoreWhite bool, e *extent) {
	for s := from; s < to; s++ {
		off := s * quality * BytesPerPixel
		alpha := pixels[off]
		blue := pixels[off+1]
		green := pixels[off+2]
		red := pixels[off+3]

		if alpha < alphaThreshold {
			continue
		}
		if ignoreWhite && red > whiteThreshold && green > whiteThreshold && blue > whiteThreshold {
			continue
		}

		r := int(red >> RightShift)
		g := int(green >> RightShift)
		b := int(blue >> RightShift)

		e.add(r, g, b)
		h[HistogramIndex(r, g, b)]++
	}
}

func sampleCount(pixels []byte, quality int) int {
	n := len(pixels) / BytesPerPixel
	return (n + quality - 1) / quality
}

// BuildHistogram samples pixels with the given stride and returns the
// histogram together with the box spanning every sampled color. When nothing
// was sampled the box is empty and has a zero count.
func BuildHistogram(pixels []byte, quality int, ignoreWhite bool) (*Histogram, *VBox) {
	quality = max(quality, 1)

	h := new(Histogram)
	e := emptyExtent()
	h.sample(pixels, 0, sampleCount(pixels, quality), quality, ignoreWhite, &e)

	return h, newVBox(e, h)
}

// BuildHistogramParallel is BuildHistogram with the samples split into chunks
// that are counted concurrently and summed afterwards. The result does not
// depend on the number of chunks.
func BuildHistogramParallel(pixels []byte, quality int, ignoreWhite bool, chunks int) (*Histogram, *VBox) {
	quality = max(quality, 1)
	samples := sampleCount(pixels, quality)
	if chunks <= 1 || samples < chunks {
		return BuildHistogram(pixels, quality, ignoreWhite)
	}

	parts := make([]*Histogram, chunks)
	extents := make([]extent, chunks)
	per := (samples + chunks - 1) / chunks

	var wg sync.WaitGroup
	for i := range chunks {
		from := i * per
		to := min(from+per, samples)
		parts[i] = new(Histogram)
		extents[i] = emptyExtent()
		if from >= to {
			continue
		}
		wg.Go(func() {
			parts[i].sample(pixels, from, to, quality, ignoreWhite, &extents[i])
		})
	}
	wg.Wait()

	h := parts[0]
	e := extents[0]
	for i := 1; i < chunks; i++ {
		for j, v := range parts[i] {
			h[j] += v
		}
		e.merge(extents[i])
	}

	return h, newVBox(e, h)
}
