// Package inspect holds the commands that report palettes without touching
// the images.
package inspect

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"colorpick/extract"
	"colorpick/mmcq"
	"colorpick/parallel"
	"colorpick/pixels"
)

type SourceParams struct {
	Paths          []string `arg:"" help:"Images, or folders of images, to read" type:"path"`
	Quality        int      `help:"Sampling stride: 1 reads every pixel, larger is faster and coarser" default:"10"`
	KeepWhite      bool     `help:"Do not ignore near-white pixels" default:"false"`
	MaxSide        int      `help:"Downscale images so their longest side is at most this many pixels before sampling, 0 disables" default:"0"`
	NoExifRotation bool     `help:"Do not rotate images according to their EXIF orientation" default:"false"`
}

func (p *SourceParams) validate() error {
	if p.Quality < 1 {
		return fmt.Errorf("invalid quality: %d", p.Quality)
	}
	if p.MaxSide < 0 {
		return fmt.Errorf("invalid max side: %d", p.MaxSide)
	}
	return nil
}

func (p *SourceParams) options(files int, pool *parallel.Pool) extract.Options {
	opts := extract.Options{
		Quality:     p.Quality,
		IgnoreWhite: !p.KeepWhite,
		MaxSide:     p.MaxSide,
	}
	// files already run in parallel, only a single image gets concurrent sampling
	if files == 1 {
		opts.Workers = pool.Workers()
	}
	return opts
}

// forEachImage decodes every file on the pool and hands the image to fn
// together with its index. The returned slice holds the error of each file.
func (p *SourceParams) forEachImage(pool *parallel.Pool, files []string, fn func(i int, path string, img image.Image) error) ([]error, parallel.Stats) {
	errs := make([]error, len(files))
	for i, file := range files {
		pool.Do(file, func() error {
			img, err := pixels.Open(file, !p.NoExifRotation)
			if err == nil {
				err = fn(i, file, img)
			}
			errs[i] = err
			return err
		})
	}

	return errs, pool.Wait()
}

func validateCount(count int) error {
	if count < 2 || count > mmcq.MaxColors {
		return fmt.Errorf("invalid color count %d, should be between 2 and %d", count, mmcq.MaxColors)
	}
	return nil
}

func openOutput(name string) (io.Writer, func(), error) {
	if name == "" || name == "-" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(name)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create output file %q: %w", name, err)
	}
	return f, func() {
		if err := f.Sync(); err != nil {
			slog.Error("could not flush output file", "name", name, "error", err)
		}
		if err := f.Close(); err != nil {
			slog.Error("could not close output file", "name", name, "error", err)
		}
	}, nil
}

func logStats(stats parallel.Stats) {
	slog.Info("stats", "processed", stats.Processed, "errors", stats.Failed, "total", stats.Total())
}
