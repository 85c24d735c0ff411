package telemetry

import (
	"context"
	"math"
	"net"
	"time"

	"artificial-horizon/log"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	simRollAmplitude  = 30.
	simRollPeriod     = 8 * time.Second
	simPitchAmplitude = 20.
	simPitchPeriod    = 5 * time.Second
)

// SimulatedAttitude is a gentle banking and climbing sweep, elapsed after
// the start of the stream. Roll is reported in [0,360).
func SimulatedAttitude(elapsed time.Duration) Attitude {
	phase := func(period time.Duration) float64 {
		return 2 * math.Pi * float64(elapsed%period) / float64(period)
	}
	roll := simRollAmplitude * math.Sin(phase(simRollPeriod))
	if roll < 0 {
		roll += 360
	}
	if roll >= 360 {
		roll = 0
	}
	return Attitude{
		Roll:  roll,
		Pitch: simPitchAmplitude * math.Sin(phase(simPitchPeriod)),
	}
}

// Simulator is an AttitudeServer that streams SimulatedAttitude.
type Simulator struct {
	Interval time.Duration
	// MaxSamples ends each stream after that many samples; zero streams
	// until the client goes away.
	MaxSamples int

	lg *log.Logger
}

// NewSimulator returns a Simulator sending one sample every interval.
func NewSimulator(interval time.Duration, lg *log.Logger) *Simulator {
	return &Simulator{Interval: interval, lg: lg}
}

// Stream sends SimulatedAttitude samples, timed from the start of the
// call, until the client leaves or MaxSamples is reached.
func (s *Simulator) Stream(_ *emptypb.Empty, stream AttitudeStream) error {
	ctx := stream.Context()
	start := time.Now()
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.lg.Info("attitude stream opened")
	for sent := 0; s.MaxSamples == 0 || sent < s.MaxSamples; sent++ {
		select {
		case <-ctx.Done():
			s.lg.Info("attitude stream closed by client", "sent", sent)
			return nil
		case now := <-ticker.C:
			a := SimulatedAttitude(now.Sub(start))
			a.Time = now
			m, err := a.Proto()
			if err != nil {
				return err
			}
			if err := stream.Send(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// Serve runs an AttitudeService for srv on lis until ctx is done or the
// server fails.
func Serve(ctx context.Context, lis net.Listener, srv AttitudeServer, lg *log.Logger) error {
	s := grpc.NewServer()
	RegisterAttitudeServer(s, srv)

	served := make(chan struct{})
	defer close(served)

	go func() {
		select {
		case <-served:
			return
		case <-ctx.Done():
		}
		lg.Info("stopping telemetry server")

		// Open streams never finish on their own; give them a moment.
		stopped := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			s.Stop()
		}
	}()

	lg.Info("serving attitude telemetry", "addr", lis.Addr().String())
	return s.Serve(lis)
}
