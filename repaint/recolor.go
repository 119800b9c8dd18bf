package repaint

import (
	"image"
	"image/color"
	"log/slog"

	"colorpick/mmcq"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"
)

// recolor maps every pixel of img onto colors. Error diffusion needs at least
// two colors, smaller palettes are always mapped to the nearest color.
func recolor(logger *slog.Logger, img image.Image, colors []mmcq.Color, diffuse, serpentine bool) *image.Paletted {
	pal := make(color.Palette, len(colors))
	for i, c := range colors {
		pal[i] = c
	}

	logger.Debug("applying palette", "colors", len(pal), "dither", diffuse)

	if diffuse && len(pal) >= 2 {
		d := dither.NewDitherer(pal)
		d.Matrix = dither.FloydSteinberg
		d.Serpentine = serpentine
		return d.DitherPaletted(img)
	}

	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal)
	draw.Draw(dest, dr, img, sr.Min, draw.Src)
	return dest
}
