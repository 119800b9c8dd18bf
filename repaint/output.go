package repaint

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"colorpick/mmcq"
	"colorpick/palette"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// lossless formats keep every repainted pixel on the palette.
var lossless = []string{"png", "gif", "bmp", "tiff"}

// formatOf guesses the image format from the file extension.
func formatOf(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	case "":
		return ""
	default:
		return ext[1:]
	}
}

// outputFormat resolves the requested format for a source of format src.
// auto keeps lossless sources as they are and writes everything else as png,
// since jpeg artifacts would add colors outside the palette.
func outputFormat(format, src string) (string, error) {
	switch format {
	case "auto":
		if slices.Contains(lossless, src) {
			return src, nil
		}
		return "png", nil
	case "same":
		if src == "jpeg" || slices.Contains(lossless, src) {
			return src, nil
		}
		return "", fmt.Errorf("can not write %q images", src)
	default:
		return format, nil
	}
}

func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "gif":
		numColors := 256
		if p, ok := img.(*image.Paletted); ok {
			numColors = len(p.Palette)
		}
		return gif.Encode(w, img, &gif.Options{NumColors: numColors})
	case "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case "png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case "bmp":
		return bmp.Encode(w, img)
	case "tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}

// output writes repainted images, and optionally their palettes, to a folder.
type output struct {
	dir     string
	format  string
	sidecar bool
}

// save writes img and, with sidecar set, colors as a RIFF palette named after
// srcPath.
func (o output) save(srcPath string, img image.Image, colors []mmcq.Color) error {
	format, err := outputFormat(o.format, formatOf(srcPath))
	if err != nil {
		return err
	}

	base := filepath.Base(srcPath)
	base = base[:len(base)-len(filepath.Ext(base))]

	err = writeAtomic(o.dir, base+"."+format, func(w io.Writer) error {
		return encode(w, img, format)
	})
	if err != nil || !o.sidecar {
		return err
	}

	return writeAtomic(o.dir, base+".pal", func(w io.Writer) error {
		_, err := palette.WritePAL(w, [][]mmcq.Color{colors})
		return err
	})
}

// writeAtomic fills a temporary file in dir and renames it to name once write
// succeeded. The temporary file is removed on failure.
func writeAtomic(dir, name string, write func(io.Writer) error) (err error) {
	f, err := os.CreateTemp(dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temporary destination for %q: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = write(f); err != nil {
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("could not flush %q: %w", name, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w", name, err)
	}
	if err = os.Rename(f.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("could not rename destination file %q: %w", name, err)
	}
	return nil
}
