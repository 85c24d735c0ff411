package horizon

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Static is everything about an instrument that does not depend on the
// attitude. It is immutable once built and may be shared by any number of
// Horizons; the accessors hand out copies.
type Static struct {
	style    Style
	geometry Geometry

	// foreground is the bezel layer with a transparent hole over the
	// inner disc.
	foreground *image.RGBA
	// mask is opaque over the inner disc and transparent elsewhere.
	mask *image.Alpha

	pens pens
}

// NewStatic precomputes the geometry, disc mask and foreground for an
// instrument of the given size.
func NewStatic(size int, style Style) (*Static, error) {
	g, err := NewGeometry(size)
	if err != nil {
		return nil, err
	}

	s := &Static{
		style:    style,
		geometry: g,
		pens:     style.pens(g.Unit),
	}
	s.mask = discMask(g)
	s.foreground = s.paintForeground()
	return s, nil
}

// Style is the palette the Static was painted with.
func (s *Static) Style() Style {
	return s.style
}

func (s *Static) Geometry() Geometry {
	return s.geometry
}

// Foreground returns a copy of the bezel layer.
func (s *Static) Foreground() *image.RGBA {
	img := image.NewRGBA(s.foreground.Rect)
	copy(img.Pix, s.foreground.Pix)
	return img
}

// Mask returns a copy of the disc mask.
func (s *Static) Mask() *image.Alpha {
	m := image.NewAlpha(s.mask.Rect)
	copy(m.Pix, s.mask.Pix)
	return m
}

func discMask(g Geometry) *image.Alpha {
	dc := gg.NewContext(g.Size, g.Size)
	dc.DrawCircle(g.Center.X, g.Center.Y, g.InnerRadius)
	dc.SetColor(color.White)
	dc.Fill()
	return dc.AsMask()
}

// holeMask is the inverse of the disc mask: opaque everywhere except over
// the inner disc.
func holeMask(g Geometry, disc *image.Alpha) *image.Alpha {
	dc := gg.NewContext(g.Size, g.Size)
	// disc is sized to the context, so SetMask cannot fail.
	_ = dc.SetMask(disc)
	dc.InvertMask()
	dc.DrawRectangle(0, 0, float64(g.Size), float64(g.Size))
	dc.SetColor(color.White)
	dc.Fill()
	return dc.AsMask()
}

// paintForeground paints the background wash, outer bezel, horizon
// reference line and top triangle, then cuts the disc hole out of them.
func (s *Static) paintForeground() *image.RGBA {
	g := s.geometry
	c := NewGGCanvas(g.Size, g.Size)
	c.Fill(s.style.Background)

	c.Save()
	c.Translate(g.Center.X, g.Center.Y)
	c.DrawChord(g.OuterRect, 180, -180, s.style.Sky, s.pens.circle)
	c.DrawChord(g.OuterRect, 180, 180, s.style.Ground, s.pens.circle)
	c.DrawLines([]Line{g.HorizonLine}, s.pens.line)
	c.DrawPolygon(g.Decoration[:], s.style.Triangle, Pen{})
	c.Restore()

	src := c.Image()
	dst := image.NewRGBA(src.Bounds())
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, holeMask(g, s.mask), image.Point{}, draw.Src)
	return dst
}
