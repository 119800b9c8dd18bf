package mmcq

import (
	"errors"
	"log/slog"
	"slices"
)

var (
	// ErrUnsplittable is returned by Split when no median plane exists along
	// the chosen axis. The box is dropped by the quantizer.
	ErrUnsplittable = errors.New("vbox can not be cut")

	errEmptySide = errors.New("cut leaves one side empty")
)

// VBox is an axis-aligned box in quantized RGB space. Bounds are inclusive.
// Volume, count and average are computed once at construction since a box
// never changes afterwards.
type VBox struct {
	ext  extent
	hist *Histogram

	volume  int
	count   int
	average Color
}

func newVBox(e extent, h *Histogram) *VBox {
	v := &VBox{ext: e, hist: h}
	v.volume = e.volume()
	v.count, v.average = v.tally()
	return v
}

func (e extent) volume() int {
	vol := 1
	for ch := range e.min {
		if e.max[ch] < e.min[ch] {
			return 0
		}
		vol *= e.max[ch] - e.min[ch] + 1
	}
	return vol
}

func (v *VBox) Min(ch Channel) int { return v.ext.min[ch] }
func (v *VBox) Max(ch Channel) int { return v.ext.max[ch] }

func (v *VBox) Volume() int    { return v.volume }
func (v *VBox) Count() int     { return v.count }
func (v *VBox) Average() Color { return v.average }

func (v *VBox) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("red", [2]int{v.ext.min[Red], v.ext.max[Red]}),
		slog.Any("green", [2]int{v.ext.min[Green], v.ext.max[Green]}),
		slog.Any("blue", [2]int{v.ext.min[Blue], v.ext.max[Blue]}),
		slog.Int("count", v.count),
		slog.Int("volume", v.volume),
	)
}

func (v *VBox) tally() (int, Color) {
	var n, rSum, gSum, bSum int
	for r := v.ext.min[Red]; r <= v.ext.max[Red]; r++ {
		for g := v.ext.min[Green]; g <= v.ext.max[Green]; g++ {
			for b := v.ext.min[Blue]; b <= v.ext.max[Blue]; b++ {
				hval := v.hist[HistogramIndex(r, g, b)]
				n += hval
				rSum += hval * (r*Multiplier + Multiplier/2)
				gSum += hval * (g*Multiplier + Multiplier/2)
				bSum += hval * (b*Multiplier + Multiplier/2)
			}
		}
	}

	if n > 0 {
		return n, NewColor(uint8(rSum/n), uint8(gSum/n), uint8(bSum/n))
	}

	mid := func(ch Channel) uint8 {
		return uint8(min(Multiplier*(v.ext.min[ch]+v.ext.max[ch]+1)/2, 255))
	}
	return 0, NewColor(mid(Red), mid(Green), mid(Blue))
}

// sum counts the histogram entries inside e.
func (v *VBox) sum(e extent) int {
	n := 0
	for r := e.min[Red]; r <= e.max[Red]; r++ {
		for g := e.min[Green]; g <= e.max[Green]; g++ {
			for b := e.min[Blue]; b <= e.max[Blue]; b++ {
				n += v.hist[HistogramIndex(r, g, b)]
			}
		}
	}
	return n
}

// WidestChannel returns the axis with the largest extent, preferring red,
// then green, then blue on ties.
func (v *VBox) WidestChannel() Channel {
	return v.channelsByWidth()[0]
}

func (v *VBox) channelsByWidth() []Channel {
	chs := []Channel{Red, Green, Blue}
	slices.SortStableFunc(chs, func(a, b Channel) int {
		wa := v.ext.max[a] - v.ext.min[a]
		wb := v.ext.max[b] - v.ext.min[b]
		return wb - wa
	})
	return chs
}

// Split cuts the box in two at the population median of its widest axis.
// A box with no pixels yields nothing and a box that cannot be divided into two
// populated halves is returned on its own. When the widest axis holds all of
// the population in one plane, the narrower axes are tried in turn.
func (v *VBox) Split() ([]*VBox, error) {
	switch v.count {
	case 0:
		return nil, nil
	case 1:
		return []*VBox{v}, nil
	}

	for _, axis := range v.channelsByWidth() {
		lo, hi, err := v.cut(axis)
		switch {
		case err == nil:
			return []*VBox{lo, hi}, nil
		case errors.Is(err, errEmptySide):
			continue
		default:
			return nil, err
		}
	}

	return []*VBox{v}, nil
}

func (v *VBox) cut(axis Channel) (*VBox, *VBox, error) {
	axisMin, axisMax := v.ext.min[axis], v.ext.max[axis]

	// -1 marks coordinates outside the box
	var partialSum, lookAheadSum [boxLength]int
	for i := range partialSum {
		partialSum[i] = -1
		lookAheadSum[i] = -1
	}

	total := 0
	slab := v.ext
	for i := axisMin; i <= axisMax; i++ {
		slab.min[axis], slab.max[axis] = i, i
		total += v.sum(slab)
		partialSum[i] = total
	}
	for i := axisMin; i <= axisMax; i++ {
		lookAheadSum[i] = total - partialSum[i]
	}

	for i := axisMin; i <= axisMax; i++ {
		if partialSum[i] <= total/2 {
			continue
		}

		left := i - axisMin
		right := axisMax - i

		var d2 int
		if left <= right {
			d2 = min(axisMax-1, i+right/2)
		} else {
			d2 = max(axisMin, int(float64(i-1)-float64(left)/2))
		}

		for d2 < 0 || partialSum[d2] <= 0 {
			d2++
		}
		count2 := lookAheadSum[d2]
		for count2 == 0 && d2 > 0 && partialSum[d2-1] > 0 {
			d2--
			count2 = lookAheadSum[d2]
		}
		if count2 == 0 {
			return nil, nil, errEmptySide
		}

		lo, hi := v.ext, v.ext
		lo.max[axis] = d2
		hi.min[axis] = d2 + 1

		return newVBox(lo, v.hist), newVBox(hi, v.hist), nil
	}

	return nil, nil, ErrUnsplittable
}
