package horizon

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Canvas is the drawing surface the instrument paints on. Angles follow the
// widget convention: degrees, counter-clockwise from three o'clock for
// arcs, clockwise for Rotate (y grows downwards).
//
// Save and Restore bracket transform and clip changes; a Restore undoes
// everything since the matching Save.
type Canvas interface {
	Save()
	Restore()
	Translate(dx, dy float64)
	Rotate(degrees float64)
	ClipEllipse(r Rect)

	// DrawChord fills the region between an arc of the ellipse inscribed
	// in r and the chord joining its ends, then outlines it with pen.
	DrawChord(r Rect, start, span float64, fill color.Color, pen Pen)
	DrawEllipse(r Rect, fill color.Color, pen Pen)
	DrawPolygon(pts []Point, fill color.Color, pen Pen)
	DrawLines(lines []Line, pen Pen)
	// DrawImage composites img over the canvas with its top-left corner at
	// (x, y), honoring img's alpha.
	DrawImage(img image.Image, x, y int)
}

// clipSegments is the number of edges used to rasterize a clip ellipse.
const clipSegments = 128

// GGCanvas implements Canvas on a gg.Context.
type GGCanvas struct {
	dc *gg.Context

	// gg does not restore the clip mask on Pop, so it is tracked here.
	clip  *image.Alpha
	clips []*image.Alpha
}

// NewGGCanvas returns a transparent canvas of the given size.
func NewGGCanvas(width, height int) *GGCanvas {
	return WrapContext(gg.NewContext(width, height))
}

// WrapContext paints onto an existing context, for example one shared
// with other drawing code. It sets square caps and bevel joins.
func WrapContext(dc *gg.Context) *GGCanvas {
	dc.SetLineCapSquare()
	dc.SetLineJoinBevel()
	return &GGCanvas{dc: dc}
}

func (c *GGCanvas) Context() *gg.Context {
	return c.dc
}

// Image returns the backing image; it aliases the canvas pixels.
func (c *GGCanvas) Image() *image.RGBA {
	return c.dc.Image().(*image.RGBA)
}

// Fill paints the whole surface with col, ignoring transform and clip.
func (c *GGCanvas) Fill(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *GGCanvas) Save() {
	c.dc.Push()
	c.clips = append(c.clips, c.clip)
}

func (c *GGCanvas) Restore() {
	if len(c.clips) == 0 {
		return
	}
	c.dc.Pop()
	c.clip = c.clips[len(c.clips)-1]
	c.clips = c.clips[:len(c.clips)-1]
	c.applyClip()
}

func (c *GGCanvas) applyClip() {
	if c.clip == nil {
		c.dc.ResetClip()
		return
	}
	// Masks are always allocated at the context size, so this cannot fail.
	_ = c.dc.SetMask(c.clip)
}

func (c *GGCanvas) Translate(dx, dy float64) {
	c.dc.Translate(dx, dy)
}

func (c *GGCanvas) Rotate(degrees float64) {
	c.dc.Rotate(gg.Radians(degrees))
}

// ClipEllipse intersects the clip with the ellipse inscribed in r under the
// current transform.
func (c *GGCanvas) ClipEllipse(r Rect) {
	m := gg.NewContext(c.dc.Width(), c.dc.Height())
	center := r.Center()
	for i := 0; i < clipSegments; i++ {
		a := 2 * math.Pi * float64(i) / clipSegments
		x, y := c.dc.TransformPoint(center.X+r.W/2*math.Cos(a), center.Y+r.H/2*math.Sin(a))
		if i == 0 {
			m.MoveTo(x, y)
		} else {
			m.LineTo(x, y)
		}
	}
	m.ClosePath()
	m.SetColor(color.White)
	m.Fill()

	mask := m.AsMask()
	if c.clip != nil {
		for i, a := range mask.Pix {
			mask.Pix[i] = uint8(uint16(a) * uint16(c.clip.Pix[i]) / 255)
		}
	}
	c.clip = mask
	c.applyClip()
}

func (c *GGCanvas) DrawChord(r Rect, start, span float64, fill color.Color, pen Pen) {
	if span == 0 {
		return
	}
	center := r.Center()
	c.dc.ClearPath()
	// gg measures angles clockwise on screen.
	c.dc.DrawEllipticalArc(center.X, center.Y, r.W/2, r.H/2,
		-gg.Radians(start), -gg.Radians(start+span))
	c.dc.ClosePath()
	c.paint(fill, pen)
}

func (c *GGCanvas) DrawEllipse(r Rect, fill color.Color, pen Pen) {
	center := r.Center()
	c.dc.ClearPath()
	c.dc.DrawEllipse(center.X, center.Y, r.W/2, r.H/2)
	c.paint(fill, pen)
}

func (c *GGCanvas) DrawPolygon(pts []Point, fill color.Color, pen Pen) {
	if len(pts) < 2 {
		return
	}
	c.dc.ClearPath()
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.paint(fill, pen)
}

func (c *GGCanvas) DrawLines(lines []Line, pen Pen) {
	if !pen.visible() {
		return
	}
	c.dc.ClearPath()
	for _, l := range lines {
		c.dc.DrawLine(l.P1.X, l.P1.Y, l.P2.X, l.P2.Y)
	}
	c.paint(nil, pen)
}

func (c *GGCanvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

// paint fills and then strokes the current path.
func (c *GGCanvas) paint(fill color.Color, pen Pen) {
	if fill != nil {
		c.dc.SetColor(fill)
		if pen.visible() {
			c.dc.FillPreserve()
		} else {
			c.dc.Fill()
		}
	}
	if pen.visible() {
		c.dc.SetColor(pen.Color)
		c.dc.SetLineWidth(pen.Width)
		c.dc.Stroke()
	}
	c.dc.ClearPath()
}
