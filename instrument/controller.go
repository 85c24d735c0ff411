// Package instrument connects a Horizon to its attitude sources: the
// telemetry stream in live mode and keyboard or touch nudges in manual
// mode. It also tracks what the host needs for its status line.
package instrument

import (
	"sync"
	"sync/atomic"
	"time"

	"artificial-horizon/horizon"
	"artificial-horizon/log"
	"artificial-horizon/telemetry"
)

type Mode int

const (
	// ModeLive follows the telemetry stream.
	ModeLive Mode = iota
	// ModeManual ignores telemetry; the attitude only changes via Nudge,
	// Set and Reset.
	ModeManual
)

func (m Mode) String() string {
	if m == ModeManual {
		return "MANUAL"
	}
	return "LIVE"
}

// DefaultStaleAfter is how long live mode waits for a sample before the
// attitude is flagged as stale.
const DefaultStaleAfter = 2 * time.Second

// Status is a snapshot for display.
type Status struct {
	Mode        Mode
	Roll, Pitch float64
	Accepted    uint64
	Rejected    uint64
	LastSample  time.Time
	LastError   error
	Stale       bool
}

// Controller drives one Horizon from telemetry or manual input and keeps
// the counters shown in the status bar. Its methods may be called from
// the telemetry goroutine and the UI loop at the same time.
type Controller struct {
	StaleAfter time.Duration

	h     *horizon.Horizon
	lg    *log.Logger
	dirty atomic.Bool

	mu       sync.Mutex
	mode     Mode
	accepted uint64
	rejected uint64
	last     time.Time
	lastErr  error
	// liveSince is when live mode was last entered; staleness is measured
	// from it until the first sample arrives.
	liveSince time.Time
}

// New builds the instrument described by cfg. cfg.Invalidator is replaced
// by the controller's own dirty flag.
func New(cfg horizon.Config, lg *log.Logger) (*Controller, error) {
	c := &Controller{StaleAfter: DefaultStaleAfter, lg: lg, liveSince: time.Now()}
	cfg.Invalidator = horizon.InvalidatorFunc(func() { c.dirty.Store(true) })

	h, err := horizon.New(cfg)
	if err != nil {
		return nil, err
	}
	c.h = h
	c.dirty.Store(true)
	return c, nil
}

// Horizon returns the instrument being driven.
func (c *Controller) Horizon() *horizon.Horizon {
	return c.h
}

// TakeDirty reports whether the instrument needs repainting since the last
// call and clears the flag.
func (c *Controller) TakeDirty() bool {
	return c.dirty.Swap(false)
}

func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

func (c *Controller) SetMode(m Mode) {
	c.mu.Lock()
	changed := c.mode != m
	c.mode = m
	if changed && m == ModeLive {
		c.liveSince = time.Now()
	}
	c.mu.Unlock()

	if changed {
		c.lg.Info("instrument mode changed", "mode", m.String())
		c.dirty.Store(true)
	}
}

func (c *Controller) ToggleMode() Mode {
	m := ModeManual
	if c.Mode() == ModeManual {
		m = ModeLive
	}
	c.SetMode(m)
	return m
}

// Feed is the telemetry sink. Samples are applied only in live mode.
func (c *Controller) Feed(a telemetry.Attitude) {
	c.mu.Lock()
	live := c.mode == ModeLive
	if live {
		// Receive time, not a.Time: the sender's clock may differ.
		c.last = time.Now()
	}
	c.mu.Unlock()

	if live {
		c.apply(a.Roll, a.Pitch)
	}
}

// Set applies an attitude regardless of mode.
func (c *Controller) Set(roll, pitch float64) error {
	return c.apply(roll, pitch)
}

// Nudge switches to manual mode and offsets the current attitude. Under
// the reject policy a nudge past the valid range is refused.
func (c *Controller) Nudge(dRoll, dPitch float64) error {
	c.SetMode(ModeManual)
	roll, pitch := c.h.Attitude()
	return c.apply(roll+dRoll, pitch+dPitch)
}

// Reset levels the instrument and switches to manual mode.
func (c *Controller) Reset() error {
	c.SetMode(ModeManual)
	return c.apply(0, 0)
}

func (c *Controller) apply(roll, pitch float64) error {
	err := c.h.SetRollPitch(roll, pitch)

	c.mu.Lock()
	if err != nil {
		c.rejected++
		c.lastErr = err
	} else {
		c.accepted++
	}
	c.mu.Unlock()

	if err != nil {
		c.lg.Debug("attitude rejected", "roll", roll, "pitch", pitch, "error", err)
	}
	return err
}

// Status snapshots the controller. In live mode the attitude is stale when
// neither a sample nor the switch to live mode happened within StaleAfter
// of now.
func (c *Controller) Status(now time.Time) Status {
	roll, pitch := c.h.Attitude()

	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := c.liveSince
	if c.last.After(fresh) {
		fresh = c.last
	}
	return Status{
		Mode:       c.mode,
		Roll:       roll,
		Pitch:      pitch,
		Accepted:   c.accepted,
		Rejected:   c.rejected,
		LastSample: c.last,
		LastError:  c.lastErr,
		Stale:      c.mode == ModeLive && now.Sub(fresh) > c.StaleAfter,
	}
}
