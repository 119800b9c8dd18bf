package palette

import (
	"bytes"
	"image/color"
	"reflect"
	"strings"
	"testing"

	"colorpick/mmcq"
	"colorpick/okcolor"
)

func TestPALRoundTrip(t *testing.T) {
	pals := [][]mmcq.Color{
		{mmcq.NewColor(255, 0, 0), mmcq.NewColor(1, 2, 3)},
		{mmcq.NewColor(10, 20, 30), mmcq.NewColor(0, 0, 0), mmcq.NewColor(255, 255, 255)},
		{},
	}

	var buf bytes.Buffer
	n, err := WritePAL(&buf, pals)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("WritePAL() wrote %d colors, want 5", n)
	}

	if got := buf.Bytes()[:4]; string(got) != "RIFF" {
		t.Errorf("magic = %q", got)
	}

	got, err := ReadPAL(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(pals) {
		t.Fatalf("ReadPAL() returned %d palettes, want %d", len(got), len(pals))
	}
	for i := range pals {
		if len(got[i]) != len(pals[i]) {
			t.Errorf("palette %d has %d colors, want %d", i, len(got[i]), len(pals[i]))
			continue
		}
		for j := range pals[i] {
			if got[i][j] != pals[i][j] {
				t.Errorf("palette %d color %d = %s, want %s", i, j, got[i][j].Hex(), pals[i][j].Hex())
			}
		}
	}
}

func TestReadPALErrors(t *testing.T) {
	if _, err := ReadPAL(strings.NewReader("not riff")); err == nil {
		t.Error("ReadPAL() of garbage succeeded")
	}

	// a RIFF WAVE header
	wave := []byte("RIFF\x04\x00\x00\x00WAVE")
	if _, err := ReadPAL(bytes.NewReader(wave)); err == nil {
		t.Error("ReadPAL() of a WAVE stream succeeded")
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		c    mmcq.Color
		want string
	}{
		{mmcq.NewColor(255, 0, 0), "red"},
		{mmcq.NewColor(0, 0, 0), "black"},
		{mmcq.NewColor(250, 250, 250), "snow"},
		{mmcq.NewColor(0, 0, 250), "blue"},
		// firebrick by RGB distance
		{mmcq.NewColor(204, 52, 52), "crimson"},
		{mmcq.NewColor(240, 130, 100), "salmon"},
	}

	for _, tt := range tests {
		if got := Name(tt.c); got != tt.want {
			t.Errorf("Name(%s) = %q, want %q", tt.c.Hex(), got, tt.want)
		}
	}
}

func TestLabIndex(t *testing.T) {
	pal := NewLabPalette(color.Palette{
		color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff}, // firebrick
		color.RGBA{R: 0xdc, G: 0x14, B: 0x3c, A: 0xff}, // crimson
		color.RGBA{R: 0xdc, G: 0x14, B: 0x3c, A: 0xff},
	})

	lc := okcolor.LabModel.Convert(mmcq.NewColor(204, 52, 52)).(okcolor.Lab)
	if got := pal.Index(lc); got != 1 {
		t.Errorf("Index() = %d, want 1", got)
	}

	exact := okcolor.LabModel.Convert(color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff}).(okcolor.Lab)
	if got := pal.Index(exact); got != 0 {
		t.Errorf("Index() of an exact match = %d, want 0", got)
	}

	if got := (Lab{}).Index(lc); got != 0 {
		t.Errorf("Index() on an empty palette = %d, want 0", got)
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		c    mmcq.Color
		want Family
	}{
		{mmcq.NewColor(5, 5, 5), Black},
		{mmcq.NewColor(250, 250, 250), White},
		{mmcq.NewColor(128, 128, 128), Gray},
		{mmcq.NewColor(220, 20, 20), Red},
		{mmcq.NewColor(220, 20, 60), Red},
		{mmcq.NewColor(255, 140, 0), Orange},
		{mmcq.NewColor(230, 230, 20), Yellow},
		{mmcq.NewColor(20, 200, 20), Green},
		{mmcq.NewColor(20, 200, 200), Cyan},
		{mmcq.NewColor(20, 20, 220), Blue},
		{mmcq.NewColor(150, 20, 220), Purple},
		{mmcq.NewColor(230, 20, 180), Pink},
	}

	for _, tt := range tests {
		if got := FamilyOf(tt.c); got != tt.want {
			t.Errorf("FamilyOf(%s) = %s (hue %.1f), want %s", tt.c.Hex(), got, tt.c.Hue, tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	reports := []Report{
		NewReport("a.png", "mmcq", []mmcq.Color{mmcq.NewColor(12, 34, 56), mmcq.NewColor(200, 100, 0)}),
		{Path: "b.png", Algorithm: "mmcq", Error: "could not decode"},
	}

	for _, compress := range []bool{false, true} {
		var buf bytes.Buffer
		if err := WriteJSON(&buf, reports, compress); err != nil {
			t.Fatal(err)
		}
		if !compress && !strings.Contains(buf.String(), `"hex": "#0c2238"`) {
			t.Errorf("plain JSON does not contain the hex color:\n%s", buf.String())
		}

		got, err := ReadJSON(&buf, compress)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got[0], reports[0]) {
			t.Errorf("compress %v: got %+v, want %+v", compress, got[0], reports[0])
		}
		if got[1].Error != reports[1].Error {
			t.Errorf("compress %v: error = %q", compress, got[1].Error)
		}
	}
}

func TestWriteText(t *testing.T) {
	reports := []Report{
		NewReport("a.png", "mmcq", []mmcq.Color{mmcq.NewColor(255, 0, 0)}),
		{Path: "b.png", Error: "boom"},
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, reports); err != nil {
		t.Fatal(err)
	}

	want := "a.png\t0\t#ff0000\trgb(255,0,0)\tred\nb.png\terror: boom\n"
	if buf.String() != want {
		t.Errorf("WriteText() = %q, want %q", buf.String(), want)
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"#fff", 255, 255, 255, true},
		{"#1a2", 0x11, 0xaa, 0x22, true},
		{"#12abef", 0x12, 0xab, 0xef, true},
		{"12abef", 0, 0, 0, false},
		{"#12ab", 0, 0, 0, false},
		{"#zzzzzz", 0, 0, 0, false},
	}

	for _, tt := range tests {
		c, err := ParseHex(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseHex(%q) error = %v", tt.in, err)
			continue
		}
		if tt.ok && (c.R != tt.r || c.G != tt.g || c.B != tt.b) {
			t.Errorf("ParseHex(%q) = %s", tt.in, c.Hex())
		}
	}
}

func TestFamiliesCoverFamilyOf(t *testing.T) {
	known := make(map[Family]bool)
	for _, f := range Families() {
		known[f] = true
	}

	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				c := mmcq.NewColor(uint8(r), uint8(g), uint8(b))
				if f := FamilyOf(c); !known[f] {
					t.Fatalf("FamilyOf(%s) = %q, not listed in Families()", c.Hex(), f)
				}
			}
		}
	}
}
