// Package pixels turns decoded images into the byte layout the quantizer
// samples: 4 bytes per pixel, non-premultiplied, in alpha, blue, green, red
// order.
package pixels

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ChannelOrder names the per pixel byte order produced by FromImage.
const ChannelOrder = "ABGR"

const BytesPerPixel = 4

// FromImage returns the pixels of img, row by row, in ChannelOrder.
func FromImage(img image.Image) []byte {
	b := img.Bounds()
	res := make([]byte, 0, b.Dx()*b.Dy()*BytesPerPixel)

	if src, ok := img.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			row := src.Pix[src.PixOffset(b.Min.X, y):src.PixOffset(b.Max.X, y)]
			for i := 0; i < len(row); i += 4 {
				res = append(res, row[i+3], row[i+2], row[i+1], row[i])
			}
		}
		return res
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			res = append(res, c.A, c.B, c.G, c.R)
		}
	}
	return res
}

// Thumbnail downscales img so that neither side exceeds maxSide. Images that
// already fit, or a maxSide below 1, are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide < 1 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}

	// box sampling is fast and good at downscaling
	return imaging.Fit(img, maxSide, maxSide, imaging.Box)
}

func Open(path string, autoOrient bool) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(autoOrient))
	if err != nil {
		return nil, fmt.Errorf("could not decode image %q: %w", path, err)
	}
	return img, nil
}

func Decode(r io.Reader, autoOrient bool) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(autoOrient))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}
	return img, nil
}

// ScanDir lists the regular files directly inside dir.
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read folder %q: %w", dir, err)
	}

	var res []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		res = append(res, filepath.Join(dir, e.Name()))
	}
	return res, nil
}

// Expand replaces every folder in paths by the files it contains.
func Expand(paths []string) ([]string, error) {
	var res []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", p, err)
		}
		if !info.IsDir() {
			res = append(res, p)
			continue
		}

		files, err := ScanDir(p)
		if err != nil {
			return nil, err
		}
		res = append(res, files...)
	}
	return res, nil
}

// ScanFolders resolves scan to an absolute folder and dest relative to it
// when dest is not absolute.
func ScanFolders(scan, dest string) (string, string, error) {
	scanDir, err := filepath.Abs(scan)
	if err == nil {
		var info os.FileInfo
		if info, err = os.Stat(scanDir); err == nil && !info.IsDir() {
			err = fmt.Errorf("not a directory")
		}
	}
	if err != nil {
		return "", "", fmt.Errorf("invalid scan path %q: %w", scan, err)
	}

	if !filepath.IsAbs(dest) {
		dest = filepath.Join(scanDir, dest)
	}
	return scanDir, dest, nil
}
