package main

import (
	"image/color"

	"artificial-horizon/instrument"
	"artificial-horizon/log"
	"artificial-horizon/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Per-tick keyboard nudges while an arrow key is held.
const (
	keyRollStep  = 1.
	keyPitchStep = 0.5
)

// App is the main application
type App struct {
	ctrl          *instrument.Controller
	client        *telemetry.Client // nil without a telemetry server
	cockpitHUD    *CockpitHUD
	touchControls *TouchControls
	lg            *log.Logger

	fullscreen    bool
	showTouchBtns bool
	showHelp      bool
	quit          bool
}

// NewApp creates the application around ctrl. client may be nil, in which
// case the instrument is driven manually only.
func NewApp(ctrl *instrument.Controller, client *telemetry.Client, scale float64, fullscreen, touch bool, lg *log.Logger) *App {
	app := &App{
		ctrl:          ctrl,
		client:        client,
		cockpitHUD:    NewCockpitHUD(ctrl, scale),
		touchControls: NewTouchControls(),
		lg:            lg,
		fullscreen:    fullscreen,
		showTouchBtns: touch,
	}
	app.touchControls.SetupDefaultButtons(app)
	if client == nil {
		ctrl.SetMode(instrument.ModeManual)
	}
	return app
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	w, h := a.screenSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Artificial Horizon")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if a.fullscreen {
		ebiten.SetFullscreen(true)
	}

	if a.client != nil {
		if err := a.client.Connect(); err != nil {
			a.lg.Warn("could not connect to telemetry server", "addr", a.client.Addr(), "error", err)
		} else if err := a.client.StartStream(a.ctrl.Feed); err != nil {
			a.lg.Warn("could not start attitude stream", "error", err)
		}
	}

	return ebiten.RunGame(a)
}

// Shutdown cleans up resources
func (a *App) Shutdown() {
	if a.client != nil {
		a.client.Disconnect()
	}
}

// Update handles input and logic updates
func (a *App) Update() error {
	if a.showTouchBtns {
		w, _ := a.screenSize()
		a.touchControls.UpdateLayout(w, a.cockpitHUD.InstrumentSize()+statusBarH)
		a.touchControls.Update()
		a.touchControls.UpdateButtonStates(a)
	}

	a.handleKeyboard()

	if a.quit {
		a.Shutdown()
		return ebiten.Termination
	}
	return nil
}

// Draw renders the application
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{30, 30, 30, 255})

	var link *telemetry.State
	if a.client != nil {
		st := a.client.State()
		link = &st
	}
	a.cockpitHUD.Draw(screen, link)

	if a.showTouchBtns {
		a.touchControls.Draw(screen)
	}
	if a.showHelp {
		a.drawHelp(screen)
	}
}

// Layout keeps a fixed logical screen; ebiten scales it to the window.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.screenSize()
}

func (a *App) screenSize() (int, int) {
	w := a.cockpitHUD.InstrumentSize()
	h := w + statusBarH
	if a.showTouchBtns {
		h += touchRowH
	}
	return w, h
}

func (a *App) handleKeyboard() {
	var dRoll, dPitch float64
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		dRoll -= keyRollStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		dRoll += keyRollStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) {
		dPitch += keyPitchStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) {
		dPitch -= keyPitchStep
	}
	if dRoll != 0 || dPitch != 0 {
		_ = a.ctrl.Nudge(dRoll, dPitch)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		_ = a.ctrl.Reset()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.lg.Infof("switched to %s mode", a.ctrl.ToggleMode())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		a.showTouchBtns = !a.showTouchBtns
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) || inpututil.IsKeyJustPressed(ebiten.KeySlash) {
		a.showHelp = !a.showHelp
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		a.quit = true
	}
}

func (a *App) drawHelp(screen *ebiten.Image) {
	help := []string{
		"== Artificial Horizon ==",
		"",
		"Arrows  Roll / pitch",
		"R       Level (manual)",
		"M       Manual / live",
		"T       Touch buttons",
		"F11     Fullscreen",
		"F1/?    This help",
		"Q/Esc   Quit",
	}

	panelW := 180
	panelH := len(help)*16 + 20
	panelX := 10
	panelY := 10

	vector.DrawFilledRect(screen, float32(panelX), float32(panelY), float32(panelW), float32(panelH), color.RGBA{0, 0, 0, 200}, false)

	y := panelY + 10
	for _, line := range help {
		ebitenutil.DebugPrintAt(screen, line, panelX+10, y)
		y += 16
	}
}
