// Package repaint recolors images with the palette extracted from each of
// them.
package repaint

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"

	"colorpick/extract"
	"colorpick/mmcq"
	"colorpick/palette"
	"colorpick/parallel"
	"colorpick/pixels"

	"github.com/alecthomas/kong"
)

type ResizeParams struct {
	Resize    bool        `help:"Resize image before extracting its palette" default:"false" group:"resize"`
	Width     int         `help:"Max width" group:"resize"`
	Height    int         `help:"Max height" group:"resize"`
	Crop      bool        `help:"Crop image to maintain requested aspect ratio" default:"false" group:"resize"`
	Fill      string      `help:"If given and not cropping, will fill background with this color to maintain destination aspect ratio" group:"resize"`
	FillColor color.Color `kong:"-"`
}

func (p *ResizeParams) validate() error {
	if !p.Resize {
		return nil
	}

	switch {
	case p.Width < 0:
		return fmt.Errorf("invalid resize width: %d", p.Width)
	case p.Height < 0:
		return fmt.Errorf("invalid resize height: %d", p.Height)
	case p.Width == 0 && p.Height == 0:
		return fmt.Errorf("no resize dimensions given")
	}

	if !p.Crop && p.Fill != "" {
		fill, err := palette.ParseHex(p.Fill)
		if err != nil {
			return fmt.Errorf("invalid fill color: %w", err)
		}
		p.FillColor = fill
	}
	return nil
}

type CLICmd struct {
	Scan string `help:"Source folder to scan" default:"."`
	Dest string `help:"Destination folder for repainted pictures. Relative to scan dir if not absolute." default:"repainted"`
	ResizeParams

	Count      int    `help:"Number of colors to extract from each image (2-256)" default:"16" group:"palette"`
	Algorithm  string `help:"Extraction algorithm" enum:"mmcq,kmeans" default:"mmcq" group:"palette"`
	Quality    int    `help:"Sampling stride: 1 reads every pixel, larger is faster and coarser" default:"10" group:"palette"`
	KeepWhite  bool   `help:"Do not ignore near-white pixels" default:"false" group:"palette"`
	Dither     bool   `help:"Apply Floyd-Steinberg dithering" default:"false" group:"palette"`
	Serpentine bool   `help:"Alternate the dithering direction on every row" default:"false" group:"palette"`

	Format  string `help:"Output format. auto keeps lossless formats and writes png otherwise, same keeps the source format" enum:"auto,same,gif,jpeg,png,bmp,tiff" default:"auto"`
	Sidecar bool   `help:"Also write each extracted palette as a RIFF .pal file next to the image" default:"false"`
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	var err error
	if c.Scan, c.Dest, err = pixels.ScanFolders(c.Scan, c.Dest); err != nil {
		return err
	}
	if c.Scan == c.Dest {
		return fmt.Errorf("destination folder is the scan folder: %q", c.Dest)
	}

	if err := c.ResizeParams.validate(); err != nil {
		return err
	}

	if c.Count < 2 || c.Count > mmcq.MaxColors {
		return fmt.Errorf("invalid color count %d, should be between 2 and %d", c.Count, mmcq.MaxColors)
	}
	if c.Quality < 1 {
		return fmt.Errorf("invalid quality: %d", c.Quality)
	}
	_, err = extract.ParseAlgorithm(c.Algorithm)
	return err
}

func (c *CLICmd) Run(pool *parallel.Pool) error {
	if err := os.MkdirAll(c.Dest, 0o755); err != nil {
		return fmt.Errorf("unable to create destination folder %q: %w", c.Dest, err)
	}

	files, err := pixels.ScanDir(c.Scan)
	if err != nil {
		return err
	}

	alg, err := extract.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}
	ext, err := extract.NewExtractor(alg, extract.Options{
		Quality:     c.Quality,
		IgnoreWhite: !c.KeepWhite,
	})
	if err != nil {
		return err
	}

	out := output{dir: c.Dest, format: c.Format, sidecar: c.Sidecar}
	for _, filePath := range files {
		pool.Do(filePath, func() error {
			return c.repaint(ext, out, filePath)
		})
	}

	stats := pool.Wait()
	slog.Info("stats", "processed", stats.Processed, "errors", stats.Failed, "total", stats.Total())
	return stats.Err()
}

func (c *CLICmd) repaint(ext extract.Extractor, out output, filePath string) error {
	logger := slog.Default().With("file", filePath)

	img, err := pixels.Open(filePath, true)
	if err != nil {
		return err
	}

	if c.Resize {
		img = resize(logger, img, c.Width, c.Height, c.Crop, c.FillColor)
	}

	colors, err := ext.Extract(img, c.Count)
	if err != nil {
		return fmt.Errorf("could not extract palette: %w", err)
	}

	var repainted image.Image = img
	if len(colors) == 0 {
		logger.Warn("no colors extracted, keeping original colors")
	} else {
		repainted = recolor(logger, img, colors, c.Dither, c.Serpentine)
	}

	if err = out.save(filePath, repainted, colors); err != nil {
		return fmt.Errorf("could not save image in %q: %w", out.dir, err)
	}
	return nil
}
