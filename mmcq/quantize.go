// Package mmcq implements modified median cut quantization (as found in
// Leptonica) over raw pixel buffers.
//
// Pixels are 4 bytes each in alpha, blue, green, red order. Channels are
// reduced to 5 bits and counted in a 32x32x32 histogram, which is then split
// into boxes, first by population and then by population times volume. The
// palette is the population weighted average of every box.
package mmcq

import (
	"container/heap"
	"log/slog"
	"math"
	"slices"
)

const (
	MaxColors            = 256
	MaxIterations        = 1000
	FractionByPopulation = 0.75

	DefaultQuality     = 10
	DefaultIgnoreWhite = true
	DefaultColorCount  = 5
)

type Options struct {
	// Quality is the sampling stride: 1 reads every pixel, larger values are
	// faster and coarser.
	Quality int
	// IgnoreWhite skips pixels whose channels are all above 250.
	IgnoreWhite bool
	// MaxColors is the upper bound of the palette size, in [2, 256].
	MaxColors int
	// Workers above 1 build the histogram concurrently.
	Workers int
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Quality:     DefaultQuality,
		IgnoreWhite: DefaultIgnoreWhite,
		MaxColors:   DefaultColorCount,
	}
}

// Quantize reduces the pixels to at most opts.MaxColors representative
// colors. It returns nil when the buffer is empty or MaxColors is outside
// [2, 256]. A buffer without any usable pixel yields an empty, non-nil map.
func Quantize(pixels []byte, opts Options) *ColorMap {
	if len(pixels) == 0 || opts.MaxColors <= 1 || opts.MaxColors > MaxColors {
		return nil
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var vbox *VBox
	if opts.Workers > 1 {
		_, vbox = BuildHistogramParallel(pixels, opts.Quality, opts.IgnoreWhite, opts.Workers)
	} else {
		_, vbox = BuildHistogram(pixels, opts.Quality, opts.IgnoreWhite)
	}

	q := &boxQueue{boxes: []*VBox{vbox}, less: byCount}
	var final []*VBox

	target := int(math.Ceil(FractionByPopulation * float64(opts.MaxColors)))
	final = q.iterate(target, opts.MaxColors, final, logger)

	q.reorder(byProduct)
	final = q.iterate(opts.MaxColors-q.Len()-len(final), opts.MaxColors, final, logger)

	boxes := append(q.boxes, final...)
	sortBoxes(boxes)

	logger.Debug("quantized", "colors", len(boxes), "max", opts.MaxColors)
	return &ColorMap{boxes: boxes}
}

// sortBoxes orders boxes by count times volume, largest first. It sorts
// ascending and reverses, so equal boxes come out in reverse input order.
func sortBoxes(boxes []*VBox) {
	slices.SortStableFunc(boxes, func(a, b *VBox) int {
		switch {
		case byProduct(a, b):
			return -1
		case byProduct(b, a):
			return 1
		}
		return 0
	})
	slices.Reverse(boxes)
}

// iterate keeps splitting the top box. The split counter starts at 1 and the
// loop stops once it reaches target, after at least one split attempt. It also
// stops before a split when the queue runs dry, when queue and final boxes
// already hold limit boxes, or after MaxIterations. Boxes that can not be split
// any further are moved to final.
func (q *boxQueue) iterate(target, limit int, final []*VBox, logger *slog.Logger) []*VBox {
	colors := 1
	for range MaxIterations {
		if q.Len() == 0 || q.Len()+len(final) >= limit {
			break
		}

		vbox := heap.Pop(q).(*VBox)
		if vbox.Count() == 0 {
			continue
		}

		boxes, err := vbox.Split()
		switch {
		case err != nil:
			logger.Debug("dropping box", "box", vbox, "error", err)
		case len(boxes) == 1:
			final = append(final, boxes[0])
		default:
			heap.Push(q, boxes[0])
			heap.Push(q, boxes[1])
			colors++
		}

		if colors >= target {
			break
		}
	}

	return final
}
