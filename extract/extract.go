// Package extract picks representative colors out of decoded images.
package extract

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"slices"

	"colorpick/mmcq"
	"colorpick/pixels"

	"github.com/mccutchen/palettor"
)

var (
	ErrInvalidParameters = errors.New("invalid quantization parameters")
	ErrNoColors          = errors.New("no colors found")
)

// DominantColorCount is the palette size used to find the dominant color.
const DominantColorCount = 5

// kmeansIterations bounds palettor's clustering.
const kmeansIterations = 500

type Algorithm string

const (
	// AlgorithmMMCQ uses modified median cut quantization.
	AlgorithmMMCQ Algorithm = "mmcq"
	// AlgorithmKMeans uses k-means clustering.
	AlgorithmKMeans Algorithm = "kmeans"
)

func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmMMCQ, AlgorithmKMeans}
}

func ParseAlgorithm(s string) (Algorithm, error) {
	alg := Algorithm(s)
	if !slices.Contains(ValidAlgorithms(), alg) {
		return "", fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", s, ValidAlgorithms())
	}
	return alg, nil
}

type Options struct {
	Quality     int
	IgnoreWhite bool
	// MaxSide downscales images before sampling, 0 keeps the full size.
	MaxSide int
	Workers int
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Quality:     mmcq.DefaultQuality,
		IgnoreWhite: mmcq.DefaultIgnoreWhite,
	}
}

// Extractor extracts a palette of at most count colors, dominant color first.
type Extractor interface {
	Extract(img image.Image, count int) ([]mmcq.Color, error)
}

func NewExtractor(alg Algorithm, opts Options) (Extractor, error) {
	switch alg {
	case AlgorithmMMCQ:
		return &mmcqExtractor{opts: opts}, nil
	case AlgorithmKMeans:
		return &kmeansExtractor{opts: opts}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", alg, ValidAlgorithms())
	}
}

type mmcqExtractor struct {
	opts Options
}

func (e *mmcqExtractor) Extract(img image.Image, count int) ([]mmcq.Color, error) {
	m, err := GetColorMap(img, count, e.opts)
	if err != nil {
		return nil, err
	}
	return m.Palette(), nil
}

// kmeansExtractor clusters with palettor. Quality and IgnoreWhite do not apply.
type kmeansExtractor struct {
	opts Options
}

func (e *kmeansExtractor) Extract(img image.Image, count int) ([]mmcq.Color, error) {
	if count <= 1 || count > mmcq.MaxColors {
		return nil, ErrInvalidParameters
	}

	pal, err := palettor.Extract(count, kmeansIterations, pixels.Thumbnail(img, e.opts.MaxSide))
	if err != nil {
		return nil, fmt.Errorf("could not cluster image colors: %w", err)
	}

	colors := pal.Colors()
	slices.SortStableFunc(colors, func(a, b color.Color) int {
		return cmp.Compare(pal.Weight(b), pal.Weight(a))
	})

	res := make([]mmcq.Color, len(colors))
	for i, c := range colors {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		res[i] = mmcq.NewColor(nc.R, nc.G, nc.B)
	}
	return res, nil
}

// GetColorMap quantizes img into at most count colors.
func GetColorMap(img image.Image, count int, opts Options) (*mmcq.ColorMap, error) {
	buf := pixels.FromImage(pixels.Thumbnail(img, opts.MaxSide))

	m := mmcq.Quantize(buf, mmcq.Options{
		Quality:     opts.Quality,
		IgnoreWhite: opts.IgnoreWhite,
		MaxColors:   count,
		Workers:     opts.Workers,
		Logger:      opts.Logger,
	})
	if m == nil {
		return nil, ErrInvalidParameters
	}
	return m, nil
}

// GetPalette returns at most count representative colors of img, dominant
// color first.
func GetPalette(img image.Image, count int, opts Options) ([]mmcq.Color, error) {
	m, err := GetColorMap(img, count, opts)
	if err != nil {
		return nil, err
	}
	return m.Palette(), nil
}

// GetColor returns the dominant color of img.
func GetColor(img image.Image, opts Options) (mmcq.Color, error) {
	pal, err := GetPalette(img, DominantColorCount, opts)
	if err != nil {
		return mmcq.Color{}, err
	}
	if len(pal) == 0 {
		return mmcq.Color{}, ErrNoColors
	}
	return pal[0], nil
}
