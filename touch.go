package main

import (
	"image/color"

	"artificial-horizon/instrument"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	touchRowH = 45
	// Touch nudges are coarser than the per-tick keyboard ones.
	touchRollStep  = 5.
	touchPitchStep = 2.
)

// TouchButton represents an on-screen touch button
type TouchButton struct {
	X, Y, W, H int
	Label      string
	Active     bool // Toggle state for toggle buttons
	Visible    bool
	OnPress    func()
}

// TouchControls manages touch UI elements
type TouchControls struct {
	buttons  []*TouchButton
	screenW  int
	screenH  int
	btnColor color.RGBA
	actColor color.RGBA
	txtColor color.RGBA
}

func NewTouchControls() *TouchControls {
	return &TouchControls{
		buttons:  make([]*TouchButton, 0),
		btnColor: color.RGBA{60, 60, 60, 200},
		actColor: color.RGBA{0, 150, 0, 200},
		txtColor: color.RGBA{255, 255, 255, 255},
	}
}

func (tc *TouchControls) AddButton(label string, onPress func()) *TouchButton {
	btn := &TouchButton{
		Label:   label,
		Visible: true,
		OnPress: onPress,
	}
	tc.buttons = append(tc.buttons, btn)
	return btn
}

// Update checks for touch/click events
func (tc *TouchControls) Update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		tc.handlePress(mx, my)
	}

	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		tc.handlePress(tx, ty)
	}
}

func (tc *TouchControls) handlePress(x, y int) {
	for _, btn := range tc.buttons {
		if !btn.Visible {
			continue
		}
		if x >= btn.X && x <= btn.X+btn.W && y >= btn.Y && y <= btn.Y+btn.H {
			if btn.OnPress != nil {
				btn.OnPress()
			}
			break
		}
	}
}

func (tc *TouchControls) Draw(screen *ebiten.Image) {
	for _, btn := range tc.buttons {
		if !btn.Visible {
			continue
		}

		bgColor := tc.btnColor
		if btn.Active {
			bgColor = tc.actColor
		}
		vector.DrawFilledRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), bgColor, true)
		vector.StrokeRect(screen, float32(btn.X), float32(btn.Y), float32(btn.W), float32(btn.H), 2, tc.txtColor, true)

		labelX := btn.X + btn.W/2 - len(btn.Label)*3
		labelY := btn.Y + btn.H/2 - 6
		ebitenutil.DebugPrintAt(screen, btn.Label, labelX, labelY)
	}
}

// UpdateLayout spreads the buttons evenly over a row starting at top.
func (tc *TouchControls) UpdateLayout(screenW, top int) {
	if tc.screenW == screenW && tc.screenH == top {
		return
	}
	tc.screenW = screenW
	tc.screenH = top

	if len(tc.buttons) == 0 {
		return
	}
	margin := 4
	btnW := (screenW - margin*(len(tc.buttons)+1)) / len(tc.buttons)
	for i, btn := range tc.buttons {
		btn.X = margin + i*(btnW+margin)
		btn.Y = top + margin
		btn.W = btnW
		btn.H = touchRowH - 2*margin
	}
}

// SetupDefaultButtons creates the manual attitude controls.
func (tc *TouchControls) SetupDefaultButtons(app *App) {
	nudge := func(dRoll, dPitch float64) func() {
		return func() {
			// Rejections are counted by the controller and shown in the
			// status bar.
			_ = app.ctrl.Nudge(dRoll, dPitch)
		}
	}
	tc.AddButton("ROLL-", nudge(-touchRollStep, 0))
	tc.AddButton("ROLL+", nudge(touchRollStep, 0))
	tc.AddButton("PTCH+", nudge(0, touchPitchStep))
	tc.AddButton("PTCH-", nudge(0, -touchPitchStep))
	tc.AddButton("LIVE", func() {
		app.ctrl.ToggleMode()
	})
}

// UpdateButtonStates updates active states based on app state
func (tc *TouchControls) UpdateButtonStates(app *App) {
	for _, btn := range tc.buttons {
		if btn.Label == "LIVE" {
			btn.Active = app.ctrl.Mode() == instrument.ModeLive
		}
	}
}
