package horizon

import (
	"fmt"
	"math"
)

const (
	// DefaultSize is the edge of the square instrument in pixels.
	DefaultSize = 200
	// MinSize is the smallest size NewGeometry accepts.
	MinSize = 50

	baseSize     = 200.
	basePenWidth = 4.
	baseMargin   = 20.
)

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Line is a segment from P1 to P2.
type Line struct {
	P1, P2 Point
}

// Rect is an axis-aligned rectangle; ellipse primitives use the ellipse
// inscribed in it.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// squareAt returns the square of half-edge r centered on c.
func squareAt(c Point, r float64) Rect {
	return Rect{c.X - r, c.Y - r, 2 * r, 2 * r}
}

// Geometry holds the static layout of the instrument. Everything except
// Viewport is expressed relative to the widget center.
type Geometry struct {
	Size int
	// Unit is the pixel length of one layout unit; 1 at DefaultSize.
	Unit     float64
	PenWidth float64
	Margin   float64

	Center   Point
	Viewport Rect

	OuterRadius float64
	OuterRect   Rect
	InnerRadius float64
	InnerRect   Rect

	HorizonLine Line
	Decoration  [3]Point

	IndicatorTriangle [3]Point
	IndicatorLines    [5]Line
	// Fixed chord on the viewport ellipse, in degrees counter-clockwise
	// from three o'clock.
	IndicatorStart, IndicatorSpan float64

	ScaleLines [12]Line
}

// NewGeometry lays the instrument out for a size x size pixel surface.
// All lengths scale with size/DefaultSize.
func NewGeometry(size int) (Geometry, error) {
	if size < MinSize {
		return Geometry{}, fmt.Errorf("%w: %d < %d", ErrSizeTooSmall, size, MinSize)
	}

	u := float64(size) / baseSize
	g := Geometry{
		Size:     size,
		Unit:     u,
		PenWidth: basePenWidth * u,
		Margin:   baseMargin * u,
		Center:   Point{float64(size) / 2, float64(size) / 2},
		Viewport: Rect{0, 0, float64(size), float64(size)},

		IndicatorStart: 230,
		IndicatorSpan:  80,
	}

	half := float64(size) / 2
	g.OuterRadius = half - g.PenWidth
	g.OuterRect = squareAt(Point{}, g.OuterRadius)
	g.InnerRadius = g.OuterRadius - g.Margin
	g.InnerRect = squareAt(Point{}, g.InnerRadius)

	hl := half - 2*g.PenWidth
	g.HorizonLine = Line{Point{-hl, 0}, Point{hl, 0}}
	g.Decoration = [3]Point{{-10 * u, -90 * u}, {10 * u, -90 * u}, {0, -78 * u}}

	r := g.InnerRadius
	g.IndicatorTriangle = [3]Point{{-20 * u, r}, {20 * u, r}, {0, r - 35*u}}
	g.IndicatorLines = [5]Line{
		{Point{0, r - 30*u}, Point{0, 0}},
		{Point{-50 * u, 0}, Point{-25 * u, 0}},
		{Point{50 * u, 0}, Point{25 * u, 0}},
		{Point{-25 * u, 0}, Point{0, 25 * u}},
		{Point{25 * u, 0}, Point{0, 25 * u}},
	}

	// Graduations every 5 units: short ticks on odd steps, longer ones
	// growing by 5 on even steps.
	for i := 1; i <= 6; i++ {
		w := 5.
		if i%2 == 0 {
			w = float64(5 * (i/2 + 1))
		}
		y := float64(5*i) * u
		g.ScaleLines[i-1] = Line{Point{-w * u, -y}, Point{w * u, -y}}
		g.ScaleLines[i+5] = Line{Point{-w * u, y}, Point{w * u, y}}
	}

	return g, nil
}

// SplitAngle returns, in degrees, how far the horizon chord sits below the
// disc's horizontal diameter for the given pitch. The ratio fed to acos is
// clamped so that pitches beyond the inner radius pin to ±90 instead of NaN.
func (g Geometry) SplitAngle(pitch float64) float64 {
	ratio := pitch * g.Unit / g.InnerRadius
	ratio = math.Max(-1, math.Min(1, ratio))
	return (math.Pi/2 - math.Acos(ratio)) * 180 / math.Pi
}

// Sixteenths truncates an angle in degrees to 1/16 degree units.
func Sixteenths(deg float64) int {
	return int(deg * 16)
}
