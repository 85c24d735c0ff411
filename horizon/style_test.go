package horizon

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want color.RGBA
	}{
		{"#1d8ec6", color.RGBA{0x1d, 0x8e, 0xc6, 0xff}},
		{"white", color.RGBA{0xff, 0xff, 0xff, 0xff}},
		{"rgb(183, 113, 28)", color.RGBA{0xb7, 0x71, 0x1c, 0xff}},
		{"transparent", color.RGBA{}},
	} {
		got, err := ParseColor(tc.in)
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseColor("not-a-color"); !errors.Is(err, ErrBadColor) {
		t.Errorf("ParseColor(bad) error = %v, want ErrBadColor", err)
	}
}

func TestLoadStyle(t *testing.T) {
	s, err := LoadStyle(strings.NewReader(`{
		"sky": "#000080",
		"ground": "saddlebrown",
		"scale_width": 1.5
	}`))
	if err != nil {
		t.Fatal(err)
	}

	def := DefaultStyle()
	if s.Sky != (color.RGBA{0, 0, 0x80, 0xff}) {
		t.Errorf("Sky = %v", s.Sky)
	}
	if s.Ground != (color.RGBA{0x8b, 0x45, 0x13, 0xff}) {
		t.Errorf("Ground = %v", s.Ground)
	}
	if s.ScaleWidth != 1.5 {
		t.Errorf("ScaleWidth = %g", s.ScaleWidth)
	}
	if s.Background != def.Background || s.CircleWidth != def.CircleWidth {
		t.Errorf("unset fields changed: %+v", s)
	}
}

func TestLoadStyleErrors(t *testing.T) {
	for _, in := range []string{
		`{"sky": "blurple"}`,
		`{"horizon": "#fff"}`,
		`{"line_width": -1}`,
		`{`,
	} {
		if _, err := LoadStyle(strings.NewReader(in)); err == nil {
			t.Errorf("LoadStyle(%s) succeeded", in)
		}
	}
}

func TestLoadStyleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.json")
	if err := os.WriteFile(path, []byte(`{"background": "#202020"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadStyleFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Background != (color.RGBA{0x20, 0x20, 0x20, 0xff}) {
		t.Errorf("Background = %v", s.Background)
	}

	if _, err := LoadStyleFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadStyleFile(missing) succeeded")
	}
}

func TestCustomStyleRenders(t *testing.T) {
	st := DefaultStyle()
	st.Background = color.RGBA{0x10, 0x20, 0x30, 0xff}
	h, err := New(Config{Style: &st})
	if err != nil {
		t.Fatal(err)
	}
	if got := h.Render().RGBAAt(2, 2); got != st.Background {
		t.Errorf("corner = %v, want %v", got, st.Background)
	}
}
