package inspect

import (
	"fmt"
	"image"

	"colorpick/extract"
	"colorpick/mmcq"
	"colorpick/palette"
	"colorpick/parallel"
	"colorpick/pixels"

	"github.com/alecthomas/kong"
)

type NearestCmd struct {
	SourceParams
	Color string `help:"Color to match, as #RGB or #RRGGBB" required:""`
	Count int    `help:"Palette size to match against (2-256)" default:"16"`
	Out   string `help:"Output file, stdout if empty" short:"o"`

	target mmcq.Color `kong:"-"`
}

func (c *NearestCmd) Validate(kctx *kong.Context) error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := validateCount(c.Count); err != nil {
		return err
	}

	var err error
	if c.target, err = palette.ParseHex(c.Color); err != nil {
		return fmt.Errorf("invalid color %q: %w", c.Color, err)
	}
	return nil
}

func (c *NearestCmd) Run(pool *parallel.Pool) error {
	files, err := pixels.Expand(c.Paths)
	if err != nil {
		return err
	}

	opts := c.options(len(files), pool)
	nearest := make([]mmcq.Color, len(files))
	errs, stats := c.forEachImage(pool, files, func(i int, path string, img image.Image) error {
		m, err := extract.GetColorMap(img, c.Count, opts)
		if err != nil {
			return fmt.Errorf("could not quantize image: %w", err)
		}
		if m.Len() == 0 {
			return extract.ErrNoColors
		}
		nearest[i] = m.NearestColor(c.target)
		return nil
	})
	logStats(stats)

	w, done, err := openOutput(c.Out)
	if err != nil {
		return err
	}
	defer done()

	for i, file := range files {
		if errs[i] != nil {
			_, err = fmt.Fprintf(w, "%s\terror: %s\n", file, errs[i])
		} else {
			col := nearest[i]
			_, err = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", file, c.target.Hex(), col.Hex(), palette.Name(col))
		}
		if err != nil {
			return err
		}
	}

	return stats.Err()
}
