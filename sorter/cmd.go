// Package sorter files images into one folder per dominant color family.
package sorter

import (
	"fmt"
	"log/slog"
	"sync"

	"colorpick/extract"
	"colorpick/mmcq"
	"colorpick/palette"
	"colorpick/parallel"
	"colorpick/pixels"

	"github.com/alecthomas/kong"
)

type OpParams struct {
	Scan      string `help:"Source folder to scan" default:"."`
	Dest      string `help:"Destination folder, one subfolder per color family is created in it. Relative to scan dir if not absolute." default:"sorted"`
	Quality   int    `help:"Sampling stride: 1 reads every pixel, larger is faster and coarser" default:"10"`
	KeepWhite bool   `help:"Do not ignore near-white pixels" default:"false"`
	MaxSide   int    `help:"Downscale images so their longest side is at most this many pixels before sampling, 0 disables" default:"256"`
}

type CLICmd struct {
	Cp struct {
		OpParams
	} `cmd:"" help:"Copy images to their color family folders"`
	Mv struct {
		OpParams
	} `cmd:"" help:"Move images to their color family folders"`
}

func (c *CLICmd) params(subCmd string) (*OpParams, fileOp, error) {
	switch subCmd {
	case "cp":
		return &c.Cp.OpParams, copyFile, nil
	case "mv":
		return &c.Mv.OpParams, moveFile, nil
	}
	return nil, nil, fmt.Errorf("unsupported operation: %q", subCmd)
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	conf, _, err := c.params(kctx.Selected().Name)
	if err != nil {
		return err
	}
	return conf.validate()
}

func (p *OpParams) validate() error {
	var err error
	if p.Scan, p.Dest, err = pixels.ScanFolders(p.Scan, p.Dest); err != nil {
		return err
	}

	if p.Quality < 1 {
		return fmt.Errorf("invalid quality: %d", p.Quality)
	}
	if p.MaxSide < 0 {
		return fmt.Errorf("invalid max side: %d", p.MaxSide)
	}
	return nil
}

func (c *CLICmd) Run(kctx *kong.Context, pool *parallel.Pool) error {
	conf, op, err := c.params(kctx.Selected().Name)
	if err != nil {
		return err
	}
	return conf.sort(pool, op)
}

func (p *OpParams) sort(pool *parallel.Pool, op fileOp) error {
	files, err := pixels.ScanDir(p.Scan)
	if err != nil {
		return err
	}

	opts := extract.Options{
		Quality:     p.Quality,
		IgnoreWhite: !p.KeepWhite,
		MaxSide:     p.MaxSide,
	}

	f := filer{root: p.Dest, op: op}
	var mu sync.Mutex
	families := make(map[palette.Family]int)
	for _, name := range files {
		pool.Do(name, func() error {
			dominant, err := p.dominant(name, opts)
			if err != nil {
				return err
			}

			family := palette.FamilyOf(dominant)
			dest, err := f.place(name, family, dominant)
			if err != nil {
				return fmt.Errorf("could not file image as %s: %w", family, err)
			}
			slog.Debug("filed", "file", name, "color", dominant.Hex(), "family", family, "dest", dest)

			mu.Lock()
			families[family]++
			mu.Unlock()
			return nil
		})
	}

	stats := pool.Wait()
	args := []any{"processed", stats.Processed, "errors", stats.Failed, "total", stats.Total()}
	for _, f := range palette.Families() {
		if n := families[f]; n > 0 {
			args = append(args, string(f), n)
		}
	}
	slog.Info("stats", args...)

	return stats.Err()
}

func (p *OpParams) dominant(name string, opts extract.Options) (mmcq.Color, error) {
	img, err := pixels.Open(name, false)
	if err != nil {
		return mmcq.Color{}, err
	}

	col, err := extract.GetColor(img, opts)
	if err != nil {
		return mmcq.Color{}, fmt.Errorf("could not find dominant color: %w", err)
	}
	return col, nil
}
