// Package horizon draws a cockpit artificial horizon: a sky/ground disc
// rotated by roll and split by pitch, a pitch scale, a fixed aircraft
// reference and a bezel, composited back to front.
package horizon

import (
	"image"
	"sync"

	"github.com/fogleman/gg"
)

// Invalidator is notified whenever the displayed attitude may have
// changed and the host should repaint.
type Invalidator interface {
	Invalidate()
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func()

func (f InvalidatorFunc) Invalidate() { f() }

// Config describes an instrument for New.
type Config struct {
	// Size is the instrument edge in pixels; DefaultSize if zero.
	Size int
	// Style defaults to DefaultStyle.
	Style       *Style
	Policy      Policy
	Invalidator Invalidator
	// Cache, if set, supplies a shared Static instead of building one.
	Cache *StaticCache
}

// Horizon is one instrument. SetRollPitch and Paint may be called from
// different goroutines.
type Horizon struct {
	static      *Static
	policy      Policy
	invalidator Invalidator

	mu          sync.Mutex
	roll, pitch float64
}

// New builds an instrument with its own Static, or one from cfg.Cache.
func New(cfg Config) (*Horizon, error) {
	size := cfg.Size
	if size == 0 {
		size = DefaultSize
	}
	style := DefaultStyle()
	if cfg.Style != nil {
		style = *cfg.Style
	}

	var s *Static
	var err error
	if cfg.Cache != nil {
		s, err = cfg.Cache.Get(size, style)
	} else {
		s, err = NewStatic(size, style)
	}
	if err != nil {
		return nil, err
	}
	return NewWithStatic(s, cfg), nil
}

// NewWithStatic builds an instrument around an existing Static; cfg.Size
// and cfg.Style are ignored.
func NewWithStatic(s *Static, cfg Config) *Horizon {
	return &Horizon{
		static:      s,
		policy:      cfg.Policy,
		invalidator: cfg.Invalidator,
	}
}

func (h *Horizon) Static() *Static {
	return h.static
}

func (h *Horizon) Size() int {
	return h.static.geometry.Size
}

func (h *Horizon) Policy() Policy {
	return h.policy
}

// SetRollPitch stores a new attitude if the policy accepts it. A rejected
// sample leaves the previous attitude in place and is reported through the
// returned error. The invalidator runs either way.
func (h *Horizon) SetRollPitch(roll, pitch float64) error {
	roll, pitch, err := h.policy.apply(roll, pitch)
	if err == nil {
		h.mu.Lock()
		h.roll, h.pitch = roll, pitch
		h.mu.Unlock()
	}

	if h.invalidator != nil {
		h.invalidator.Invalidate()
	}
	return err
}

func (h *Horizon) Attitude() (roll, pitch float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.roll, h.pitch
}

// Paint draws one frame onto c, which must be at least Size() square.
func (h *Horizon) Paint(c Canvas) {
	roll, pitch := h.Attitude()
	s := h.static
	g := s.geometry
	st := s.style

	// Moving disc. The outline is drawn last so it hides the chord ends.
	c.Save()
	c.Translate(g.Center.X, g.Center.Y)
	c.Rotate(roll)
	angle := float64(Sixteenths(g.SplitAngle(pitch))) / 16
	c.DrawChord(g.InnerRect, 180+angle, -180-2*angle, st.Sky, s.pens.line)
	c.DrawChord(g.InnerRect, 180+angle, 180-2*angle, st.Ground, s.pens.line)
	c.DrawEllipse(g.InnerRect, nil, s.pens.circle)
	c.Restore()

	// Pitch scale; it moves with pitch but does not roll.
	c.Save()
	c.Translate(g.Center.X, g.Center.Y+pitch*g.Unit)
	c.ClipEllipse(g.InnerRect)
	c.DrawLines(g.ScaleLines[:], s.pens.scale)
	c.Restore()

	c.DrawImage(s.foreground, 0, 0)

	// Aircraft reference.
	c.DrawChord(g.Viewport, g.IndicatorStart, g.IndicatorSpan, st.Indicator, Pen{})
	c.Save()
	c.Translate(g.Center.X, g.Center.Y)
	c.DrawPolygon(g.IndicatorTriangle[:], st.Indicator, Pen{})
	c.DrawLines(g.IndicatorLines[:], s.pens.indicator)
	c.Restore()

	c.Save()
	c.Translate(g.Center.X, g.Center.Y)
	c.DrawEllipse(g.InnerRect, nil, s.pens.circle)
	c.Restore()
}

// Render paints the current attitude into a new image.
func (h *Horizon) Render() *image.RGBA {
	c := NewGGCanvas(h.Size(), h.Size())
	h.Paint(c)
	return c.Image()
}

func (h *Horizon) SavePNG(path string) error {
	return gg.SavePNG(path, h.Render())
}
