package palette

import (
	"encoding/json"
	"fmt"
	"io"

	"colorpick/mmcq"
	"colorpick/okcolor"

	"github.com/klauspost/compress/zstd"
)

// Entry describes one palette color. OKLCh holds the Oklch lightness, chroma
// and hue in degrees.
type Entry struct {
	Hex        string     `json:"hex"`
	RGB        [3]uint8   `json:"rgb"`
	Hue        float64    `json:"hue"`
	Saturation float64    `json:"saturation"`
	Lightness  float64    `json:"lightness"`
	OKLCh      [3]float64 `json:"oklch"`
	Name       string     `json:"name"`
	Family     Family     `json:"family"`
}

func NewEntry(c mmcq.Color) Entry {
	lch := okcolor.LChModel.Convert(c).(okcolor.LCh)
	return Entry{
		Hex:        c.Hex(),
		RGB:        [3]uint8{c.R, c.G, c.B},
		Hue:        c.Hue,
		Saturation: c.Saturation,
		Lightness:  c.Lightness,
		OKLCh:      [3]float64{lch.L, lch.C, lch.HueDegrees()},
		Name:       Name(c),
		Family:     FamilyOf(c),
	}
}

// Report is the palette extracted from one image.
type Report struct {
	Path      string  `json:"path"`
	Algorithm string  `json:"algorithm"`
	Colors    []Entry `json:"colors"`
	Error     string  `json:"error,omitempty"`
}

func NewReport(path, algorithm string, colors []mmcq.Color) Report {
	r := Report{
		Path:      path,
		Algorithm: algorithm,
		Colors:    make([]Entry, len(colors)),
	}
	for i, c := range colors {
		r.Colors[i] = NewEntry(c)
	}
	return r
}

// WriteJSON writes the reports as an indented JSON array, zstd compressed when
// compress is set.
func WriteJSON(w io.Writer, reports []Report, compress bool) (err error) {
	out := w
	if compress {
		enc, zerr := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zerr != nil {
			return fmt.Errorf("could not create zstd encoder: %w", zerr)
		}
		defer func() {
			if cerr := enc.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("could not flush zstd stream: %w", cerr)
			}
		}()
		out = enc
	}

	je := json.NewEncoder(out)
	je.SetIndent("", "  ")
	if err := je.Encode(reports); err != nil {
		return fmt.Errorf("could not encode report: %w", err)
	}
	return nil
}

// ReadJSON reads reports written by WriteJSON.
func ReadJSON(r io.Reader, compressed bool) ([]Report, error) {
	in := r
	if compressed {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("could not create zstd decoder: %w", err)
		}
		defer dec.Close()
		in = dec
	}

	var res []Report
	if err := json.NewDecoder(in).Decode(&res); err != nil {
		return nil, fmt.Errorf("could not decode report: %w", err)
	}
	return res, nil
}

// WriteText writes one line per color, prefixed by the image path.
func WriteText(w io.Writer, reports []Report) error {
	for _, r := range reports {
		if r.Error != "" {
			if _, err := fmt.Fprintf(w, "%s\terror: %s\n", r.Path, r.Error); err != nil {
				return err
			}
			continue
		}
		for i, e := range r.Colors {
			_, err := fmt.Fprintf(w, "%s\t%d\t%s\trgb(%d,%d,%d)\t%s\n",
				r.Path, i, e.Hex, e.RGB[0], e.RGB[1], e.RGB[2], e.Name)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseHex reads #RGB or #RRGGBB colors.
func ParseHex(s string) (mmcq.Color, error) {
	var r, g, b uint8
	switch len(s) {
	case 4:
		n, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b)
		if err != nil {
			return mmcq.Color{}, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return mmcq.Color{}, fmt.Errorf("insufficient color fields: %d", n)
		}

		r |= r << 4
		g |= g << 4
		b |= b << 4
	case 7:
		n, err := fmt.Sscanf(s, "#%2x%2x%2x", &r, &g, &b)
		if err != nil {
			return mmcq.Color{}, fmt.Errorf("could not read color: %w", err)
		} else if n < 3 {
			return mmcq.Color{}, fmt.Errorf("insufficient color fields: %d", n)
		}
	default:
		return mmcq.Color{}, fmt.Errorf("invalid color %q, should be #RGB or #RRGGBB", s)
	}

	return mmcq.NewColor(r, g, b), nil
}
