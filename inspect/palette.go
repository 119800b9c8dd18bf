package inspect

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"colorpick/extract"
	"colorpick/mmcq"
	"colorpick/palette"
	"colorpick/parallel"
	"colorpick/pixels"

	"github.com/alecthomas/kong"
)

type PaletteCmd struct {
	SourceParams
	Count     int    `help:"Maximum number of colors per palette (2-256)" default:"5"`
	Algorithm string `help:"Extraction algorithm" enum:"mmcq,kmeans" default:"mmcq"`
	Format    string `help:"Output format" enum:"text,json,pal" default:"text"`
	Out       string `help:"Output file, stdout if empty" short:"o"`
	Compress  bool   `help:"Compress JSON output with zstd" default:"false"`
}

func (c *PaletteCmd) Validate(kctx *kong.Context) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := validateCount(c.Count); err != nil {
		return err
	}
	if _, err := extract.ParseAlgorithm(c.Algorithm); err != nil {
		return err
	}
	if c.Compress && c.Format != "json" {
		return fmt.Errorf("compression is only supported for json output")
	}
	return nil
}

func (c *PaletteCmd) Run(pool *parallel.Pool) error {
	files, err := pixels.Expand(c.Paths)
	if err != nil {
		return err
	}

	alg, err := extract.ParseAlgorithm(c.Algorithm)
	if err != nil {
		return err
	}
	ext, err := extract.NewExtractor(alg, c.options(len(files), pool))
	if err != nil {
		return err
	}

	palettes := make([][]mmcq.Color, len(files))
	errs, stats := c.forEachImage(pool, files, func(i int, path string, img image.Image) error {
		colors, err := ext.Extract(img, c.Count)
		if err != nil {
			return fmt.Errorf("could not extract palette: %w", err)
		}

		slog.Debug("extracted palette", "file", path, "colors", len(colors))
		palettes[i] = colors
		return nil
	})

	reports := make([]palette.Report, len(files))
	for i, file := range files {
		reports[i] = palette.NewReport(file, c.Algorithm, palettes[i])
		if errs[i] != nil {
			reports[i].Error = errs[i].Error()
		}
	}

	logStats(stats)
	if err := c.write(reports, palettes); err != nil {
		return err
	}
	return stats.Err()
}

func (c *PaletteCmd) write(reports []palette.Report, palettes [][]mmcq.Color) error {
	w, done, err := openOutput(c.Out)
	if err != nil {
		return err
	}
	defer done()

	return writeReports(w, c.Format, c.Compress, reports, palettes)
}

func writeReports(w io.Writer, format string, compress bool, reports []palette.Report, palettes [][]mmcq.Color) error {
	switch format {
	case "json":
		return palette.WriteJSON(w, reports, compress)
	case "pal":
		var pals [][]mmcq.Color
		for i, r := range reports {
			if r.Error == "" {
				pals = append(pals, palettes[i])
			}
		}
		if _, err := palette.WritePAL(w, pals); err != nil {
			return fmt.Errorf("could not save palette: %w", err)
		}
		return nil
	default:
		return palette.WriteText(w, reports)
	}
}
