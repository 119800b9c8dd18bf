package sorter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"colorpick/mmcq"
	"colorpick/palette"
)

var errExists = errors.New("destination file already exists")

// fileOp transfers src to dest and never replaces an existing dest.
type fileOp func(src, dest string) error

// filer places images in one subfolder of root per color family.
type filer struct {
	root string
	op   fileOp
}

// place transfers src into the folder of family. When the family folder
// already holds a file with that name, the dominant color is appended to it,
// so shots named alike in different sources end up side by side.
func (f filer) place(src string, family palette.Family, dominant mmcq.Color) (string, error) {
	dir := filepath.Join(f.root, string(family))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create destination folder %q: %w", dir, err)
	}

	base := filepath.Base(src)
	dest := filepath.Join(dir, base)
	err := f.op(src, dest)
	if errors.Is(err, errExists) {
		ext := filepath.Ext(base)
		dest = filepath.Join(dir, strings.TrimSuffix(base, ext)+"-"+strings.TrimPrefix(dominant.Hex(), "#")+ext)
		err = f.op(src, dest)
	}
	if err != nil {
		return "", err
	}
	return dest, nil
}

func copyFile(src, dest string) (err error) {
	slog.Debug("copying", "from", src, "to", dest)

	if err := checkSource(src); err != nil {
		return err
	}

	inFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("could not open source file %q: %w", src, err)
	}
	defer func() {
		if closeErr := inFile.Close(); closeErr != nil {
			slog.Error("could not close source file", "name", src, "error", closeErr)
		}
	}()

	outFile, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %q", errExists, dest)
	}
	if err != nil {
		return fmt.Errorf("could not open destination file %q: %w", dest, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close destination file %q: %w", dest, closeErr)
		}
		if err != nil {
			os.Remove(dest)
		}
	}()

	if _, err = io.Copy(outFile, inFile); err != nil {
		return fmt.Errorf("could not copy from %q to %q: %w", src, dest, err)
	}

	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush destination file %q: %w", dest, err)
	}
	return nil
}

// moveFile links dest to src and then unlinks src, so a concurrent move to
// the same name fails instead of replacing the other image. Where hard links
// are unavailable, such as across devices, it copies and removes instead.
func moveFile(src, dest string) error {
	slog.Debug("moving", "from", src, "to", dest)

	if err := checkSource(src); err != nil {
		return err
	}

	err := os.Link(src, dest)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %q", errExists, dest)
	}
	if err != nil {
		slog.Debug("link failed, copying instead", "from", src, "error", err)
		if err := copyFile(src, dest); err != nil {
			return err
		}
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("could not remove source file %q: %w", src, err)
	}
	return nil
}

func checkSource(src string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("cannot stat source file %q: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot transfer non-regular file %q: %s", info.Name(), info.Mode().String())
	}
	return nil
}
