package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"artificial-horizon/horizon"
	"artificial-horizon/instrument"
	"artificial-horizon/log"
	"artificial-horizon/telemetry"
)

func main() {
	// Command line flags
	grpcAddr := flag.String("grpc", "localhost:10000", "gRPC attitude server address (empty for manual control only)")
	size := flag.Int("size", horizon.DefaultSize, "Instrument size in pixels")
	scale := flag.Float64("scale", 2, "Window scale factor")
	stylePath := flag.String("style", "", "JSON file overriding instrument colours and pen widths")
	policyName := flag.String("policy", "wrap", "Attitude policy: reject, wrap or legacy")
	fullscreen := flag.Bool("fullscreen", false, "Start in fullscreen mode")
	touchBtns := flag.Bool("touch", false, "Enable on-screen touch buttons")
	renderPath := flag.String("render", "", "Write one frame to this PNG file and exit")
	roll := flag.Float64("roll", 0, "Initial roll in degrees")
	pitch := flag.Float64("pitch", 0, "Initial pitch")
	logLevel := flag.String("loglevel", "info", "Log level: debug, info, warn or error")
	logDir := flag.String("logdir", "", "Directory for rotating log files (default stderr)")
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	cfg := horizon.Config{Size: *size}
	policy, err := horizon.ParsePolicy(*policyName)
	if err != nil {
		fatal(lg, "invalid -policy", err)
	}
	cfg.Policy = policy

	if *stylePath != "" {
		style, err := horizon.LoadStyleFile(*stylePath)
		if err != nil {
			fatal(lg, "unable to load style", err)
		}
		cfg.Style = &style
	}
	if *scale <= 0 {
		fatal(lg, "invalid -scale", fmt.Errorf("%g: must be positive", *scale))
	}

	if *renderPath != "" {
		if err := renderPNG(cfg, *roll, *pitch, *renderPath); err != nil {
			fatal(lg, "render failed", err)
		}
		lg.Info("wrote frame", "path", *renderPath, "roll", *roll, "pitch", *pitch)
		return
	}

	lg.Info("Artificial Horizon", "size", cfg.Size, "policy", policy.String(), "grpc", *grpcAddr)

	ctrl, err := instrument.New(cfg, lg)
	if err != nil {
		fatal(lg, "unable to build instrument", err)
	}
	if err := ctrl.Set(*roll, *pitch); err != nil {
		lg.Warn("initial attitude rejected", "error", err)
	}

	var client *telemetry.Client
	if *grpcAddr != "" {
		client = telemetry.NewClient(*grpcAddr, lg)
	}
	app := NewApp(ctrl, client, *scale, *fullscreen, *touchBtns, lg)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		lg.Info("Shutting down...")
		app.Shutdown()
		os.Exit(0)
	}()

	if err := app.Run(); err != nil {
		fatal(lg, "application error", err)
	}
}

// renderPNG draws a single frame without opening a window.
func renderPNG(cfg horizon.Config, roll, pitch float64, path string) error {
	h, err := horizon.New(cfg)
	if err != nil {
		return err
	}
	if err := h.SetRollPitch(roll, pitch); err != nil {
		return err
	}
	return h.SavePNG(path)
}

func fatal(lg *log.Logger, msg string, err error) {
	lg.Error(msg, "error", err)
	os.Exit(1)
}
