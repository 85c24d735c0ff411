// attitude-sim serves a simulated attitude stream for the artificial
// horizon to follow.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artificial-horizon/log"
	"artificial-horizon/telemetry"
)

func main() {
	listen := flag.String("listen", ":10000", "Address to serve the attitude stream on")
	interval := flag.Duration("interval", 50*time.Millisecond, "Time between samples")
	count := flag.Int("count", 0, "Samples per stream before it ends (0 streams forever)")
	logLevel := flag.String("loglevel", "info", "Log level: debug, info, warn or error")
	logDir := flag.String("logdir", "", "Directory for rotating log files (default stderr)")
	flag.Parse()

	lg := log.New(*logLevel, *logDir)

	if *interval <= 0 {
		lg.Error("invalid -interval", "interval", interval.String())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		lg.Error("unable to listen", "addr", *listen, "error", err)
		os.Exit(1)
	}

	sim := telemetry.NewSimulator(*interval, lg)
	sim.MaxSamples = *count

	if err := telemetry.Serve(ctx, lis, sim, lg); err != nil {
		lg.Error("telemetry server failed", "error", err)
		os.Exit(1)
	}
	lg.Info("telemetry server stopped", "uptime", time.Since(lg.Start).String())
}
