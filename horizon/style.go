package horizon

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/mazznoer/csscolorparser"
)

// Pen strokes outlines. A zero Width draws nothing.
type Pen struct {
	Color color.Color
	Width float64
}

func (p Pen) visible() bool {
	return p.Width > 0 && p.Color != nil
}

// Style holds the instrument colors and pen widths. Widths are in layout
// units and scale with the instrument size.
type Style struct {
	Background color.RGBA
	Sky        color.RGBA
	Ground     color.RGBA
	Line       color.RGBA
	Circle     color.RGBA
	Triangle   color.RGBA
	Indicator  color.RGBA
	Scale      color.RGBA

	LineWidth      float64
	CircleWidth    float64
	IndicatorWidth float64
	ScaleWidth     float64
}

func DefaultStyle() Style {
	return Style{
		Background: color.RGBA{0x53, 0x54, 0x48, 0xff},
		Sky:        color.RGBA{0x1d, 0x8e, 0xc6, 0xff},
		Ground:     color.RGBA{0xb7, 0x71, 0x1c, 0xff},
		Line:       color.RGBA{0xff, 0xff, 0xff, 0xff},
		Circle:     color.RGBA{0x00, 0x00, 0x00, 0xff},
		Triangle:   color.RGBA{0xff, 0xff, 0xff, 0xff},
		Indicator:  color.RGBA{0x00, 0x00, 0x00, 0xff},
		Scale:      color.RGBA{0xff, 0xff, 0xff, 0xff},

		LineWidth:      4,
		CircleWidth:    4,
		IndicatorWidth: 3,
		ScaleWidth:     2,
	}
}

// pens are the Style pens scaled to a Geometry.
type pens struct {
	line, circle, indicator, scale Pen
}

func (s Style) pens(unit float64) pens {
	return pens{
		line:      Pen{s.Line, s.LineWidth * unit},
		circle:    Pen{s.Circle, s.CircleWidth * unit},
		indicator: Pen{s.Indicator, s.IndicatorWidth * unit},
		scale:     Pen{s.Scale, s.ScaleWidth * unit},
	}
}

// styleFile is the on-disk form of a Style; empty fields keep the default.
type styleFile struct {
	Background string `json:"background"`
	Sky        string `json:"sky"`
	Ground     string `json:"ground"`
	Line       string `json:"line"`
	Circle     string `json:"circle"`
	Triangle   string `json:"triangle"`
	Indicator  string `json:"indicator"`
	Scale      string `json:"scale"`

	LineWidth      *float64 `json:"line_width"`
	CircleWidth    *float64 `json:"circle_width"`
	IndicatorWidth *float64 `json:"indicator_width"`
	ScaleWidth     *float64 `json:"scale_width"`
}

// ParseColor parses any CSS color string ("#1d8ec6", "skyblue",
// "rgb(29 142 198)", ...).
func ParseColor(s string) (color.RGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
	}
	r, g, b, a := c.RGBA255()
	// image/color wants premultiplied components.
	return color.RGBA{
		R: uint8(uint16(r) * uint16(a) / 255),
		G: uint8(uint16(g) * uint16(a) / 255),
		B: uint8(uint16(b) * uint16(a) / 255),
		A: a,
	}, nil
}

// LoadStyle reads a JSON style and applies it on top of DefaultStyle.
func LoadStyle(r io.Reader) (Style, error) {
	var f styleFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return Style{}, fmt.Errorf("decoding style: %w", err)
	}

	s := DefaultStyle()
	for _, c := range []struct {
		src string
		dst *color.RGBA
	}{
		{f.Background, &s.Background},
		{f.Sky, &s.Sky},
		{f.Ground, &s.Ground},
		{f.Line, &s.Line},
		{f.Circle, &s.Circle},
		{f.Triangle, &s.Triangle},
		{f.Indicator, &s.Indicator},
		{f.Scale, &s.Scale},
	} {
		if c.src == "" {
			continue
		}
		v, err := ParseColor(c.src)
		if err != nil {
			return Style{}, err
		}
		*c.dst = v
	}

	for _, w := range []struct {
		src *float64
		dst *float64
	}{
		{f.LineWidth, &s.LineWidth},
		{f.CircleWidth, &s.CircleWidth},
		{f.IndicatorWidth, &s.IndicatorWidth},
		{f.ScaleWidth, &s.ScaleWidth},
	} {
		if w.src == nil {
			continue
		}
		if *w.src < 0 {
			return Style{}, fmt.Errorf("negative pen width %g", *w.src)
		}
		*w.dst = *w.src
	}

	return s, nil
}

// LoadStyleFile is LoadStyle for a file.
func LoadStyleFile(path string) (Style, error) {
	f, err := os.Open(path)
	if err != nil {
		return Style{}, err
	}
	defer f.Close()

	s, err := LoadStyle(f)
	if err != nil {
		return Style{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
