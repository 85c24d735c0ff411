package main

import (
	"fmt"
	"image/color"
	"time"

	"artificial-horizon/instrument"
	"artificial-horizon/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const statusBarH = 24

// CockpitHUD shows the instrument and the status bar beneath it.
type CockpitHUD struct {
	ctrl  *instrument.Controller
	scale float64

	// instrument holds the last rendered frame; it is only rewritten when
	// the controller reports a change.
	instrument *ebiten.Image

	textColor    color.RGBA
	warningColor color.RGBA
	accentColor  color.RGBA
	bgColor      color.RGBA
}

func NewCockpitHUD(ctrl *instrument.Controller, scale float64) *CockpitHUD {
	return &CockpitHUD{
		ctrl:         ctrl,
		scale:        scale,
		textColor:    color.RGBA{0, 255, 0, 255},   // Green (HUD style)
		warningColor: color.RGBA{255, 50, 50, 255}, // Red
		accentColor:  color.RGBA{255, 200, 0, 255}, // Yellow/Gold
		bgColor:      color.RGBA{0, 0, 0, 200},
	}
}

// InstrumentSize is the on-screen edge of the instrument.
func (h *CockpitHUD) InstrumentSize() int {
	return int(float64(h.ctrl.Horizon().Size()) * h.scale)
}

// refresh re-renders the instrument if its attitude changed.
func (h *CockpitHUD) refresh() {
	size := h.ctrl.Horizon().Size()
	if h.instrument == nil {
		h.instrument = ebiten.NewImage(size, size)
		h.ctrl.TakeDirty()
	} else if !h.ctrl.TakeDirty() {
		return
	}
	h.instrument.WritePixels(h.ctrl.Horizon().Render().Pix)
}

func (h *CockpitHUD) Draw(screen *ebiten.Image, link *telemetry.State) {
	h.refresh()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(h.scale, h.scale)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(h.instrument, op)

	h.drawStatusBar(screen, h.InstrumentSize(), h.ctrl.Status(time.Now()), link)
}

// drawStatusBar renders mode, link and attitude in one line at y.
func (h *CockpitHUD) drawStatusBar(screen *ebiten.Image, y int, st instrument.Status, link *telemetry.State) {
	w := screen.Bounds().Dx()
	vector.DrawFilledRect(screen, 0, float32(y), float32(w), statusBarH, h.bgColor, true)

	ty := y + 5
	x := 5

	modeColor := h.textColor
	if st.Mode == instrument.ModeManual {
		modeColor = h.accentColor
	}
	x = h.drawTextWithBg(screen, st.Mode.String(), x, ty, modeColor) + 6

	switch {
	case link == nil:
		ebitenutil.DebugPrintAt(screen, "NO LINK", x, ty)
		x += 8 * 7
	case !link.Connected:
		x = h.drawTextWithBg(screen, "DISC", x, ty, h.warningColor) + 6
	case st.Stale:
		x = h.drawTextWithBg(screen, "STALE", x, ty, h.warningColor) + 6
	default:
		ebitenutil.DebugPrintAt(screen, "LINK", x, ty)
		x += 5 * 7
	}

	attStr := fmt.Sprintf("R:%5.1f P:%+5.1f", st.Roll, st.Pitch)
	ebitenutil.DebugPrintAt(screen, attStr, x, ty)
	x += (len(attStr) + 1) * 7

	if st.Rejected > 0 {
		h.drawTextWithBg(screen, fmt.Sprintf("REJ:%d", st.Rejected), x, ty, h.warningColor)
	}
}

// drawTextWithBg draws text on a coloured box and returns the x just past
// the box.
func (h *CockpitHUD) drawTextWithBg(screen *ebiten.Image, text string, x, y int, bgColor color.RGBA) int {
	w := len(text)*7 + 4
	vector.DrawFilledRect(screen, float32(x-2), float32(y-1), float32(w), 16, bgColor, true)
	ebitenutil.DebugPrintAt(screen, text, x, y)
	return x - 2 + w
}
