package inspect

import (
	"fmt"
	"image"
	"io"
	"strings"

	"colorpick/extract"
	"colorpick/mmcq"
	"colorpick/palette"
	"colorpick/parallel"
	"colorpick/pixels"

	"github.com/alecthomas/kong"
)

type DominantCmd struct {
	SourceParams
	CodePoint   float64 `help:"Lightness of the code point color, in [0, 1]" default:"0.15"`
	Step        float64 `help:"Hue step between derivative colors, in degrees" default:"7"`
	Derivatives int     `help:"Number of derivative colors, 0 disables them" default:"4"`
	Out         string  `help:"Output file, stdout if empty" short:"o"`
}

func (c *DominantCmd) Validate(kctx *kong.Context) error {
	if err := c.validate(); err != nil {
		return err
	}
	if c.CodePoint < 0 || c.CodePoint > 1 {
		return fmt.Errorf("invalid code point lightness: %g", c.CodePoint)
	}
	if c.Step <= 0 || c.Step >= 360 {
		return fmt.Errorf("invalid hue step: %g", c.Step)
	}
	if c.Derivatives < 0 || c.Derivatives > mmcq.MaxColors {
		return fmt.Errorf("invalid derivative count: %d", c.Derivatives)
	}
	return nil
}

func (c *DominantCmd) Run(pool *parallel.Pool) error {
	files, err := pixels.Expand(c.Paths)
	if err != nil {
		return err
	}

	opts := c.options(len(files), pool)
	dominant := make([]mmcq.Color, len(files))
	errs, stats := c.forEachImage(pool, files, func(i int, path string, img image.Image) error {
		col, err := extract.GetColor(img, opts)
		if err != nil {
			return fmt.Errorf("could not find dominant color: %w", err)
		}
		dominant[i] = col
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
			err = c.writeColor(w, file, dominant[i])
		}
		if err != nil {
			return err
		}
	}

	return stats.Err()
}

// writeColor prints the dominant color followed by its code point color and
// derivatives.
func (c *DominantCmd) writeColor(w io.Writer, path string, col mmcq.Color) error {
	derived := col.DerivativeColors(c.Step, c.Derivatives)
	hexes := make([]string, len(derived))
	for i, d := range derived {
		hexes[i] = d.Hex()
	}

	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\tcode point %s\tderivatives %s\n",
		path, col.Hex(), palette.Name(col), palette.FamilyOf(col),
		col.CodePointColor(c.CodePoint).Hex(), strings.Join(hexes, ","))
	return err
}
