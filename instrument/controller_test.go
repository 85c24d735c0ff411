package instrument

import (
	"errors"
	"testing"
	"time"

	"artificial-horizon/horizon"
	"artificial-horizon/telemetry"
)

func newController(t *testing.T, p horizon.Policy) *Controller {
	t.Helper()
	c, err := New(horizon.Config{Size: 100, Policy: p}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestDirtyFlag(t *testing.T) {
	c := newController(t, horizon.PolicyReject)
	if !c.TakeDirty() {
		t.Error("new controller not dirty")
	}
	if c.TakeDirty() {
		t.Error("dirty flag not cleared")
	}

	// Rejected samples still request a repaint.
	if err := c.Set(400, 0); err == nil {
		t.Fatal("Set(400, 0) accepted under reject policy")
	}
	if !c.TakeDirty() {
		t.Error("rejected Set did not mark dirty")
	}
}

func TestFeedLiveAndManual(t *testing.T) {
	c := newController(t, horizon.PolicyReject)

	c.Feed(telemetry.Attitude{Roll: 10, Pitch: 5})
	c.Feed(telemetry.Attitude{Roll: 370, Pitch: 5})
	st := c.Status(time.Now())
	if st.Roll != 10 || st.Pitch != 5 {
		t.Errorf("attitude = %g,%g, want 10,5", st.Roll, st.Pitch)
	}
	if st.Accepted != 1 || st.Rejected != 1 {
		t.Errorf("accepted %d rejected %d, want 1 and 1", st.Accepted, st.Rejected)
	}
	if !errors.Is(st.LastError, horizon.ErrRollOutOfRange) {
		t.Errorf("LastError = %v, want ErrRollOutOfRange", st.LastError)
	}
	if st.LastSample.IsZero() {
		t.Error("LastSample not recorded")
	}

	c.SetMode(ModeManual)
	c.Feed(telemetry.Attitude{Roll: 20, Pitch: 0})
	if roll, _ := c.Horizon().Attitude(); roll != 10 {
		t.Errorf("manual mode applied telemetry: roll %g", roll)
	}
}

func TestNudge(t *testing.T) {
	for _, tc := range []struct {
		policy    horizon.Policy
		start     float64
		dRoll     float64
		wantRoll  float64
		wantError bool
	}{
		{horizon.PolicyReject, 10, 5, 15, false},
		{horizon.PolicyReject, 0, -5, 0, true},
		{horizon.PolicyReject, 358, 5, 358, true},
		{horizon.PolicyWrap, 0, -5, 355, false},
		{horizon.PolicyWrap, 358, 5, 3, false},
	} {
		c := newController(t, tc.policy)
		if err := c.Set(tc.start, 0); err != nil {
			t.Fatal(err)
		}
		err := c.Nudge(tc.dRoll, 0)
		if (err != nil) != tc.wantError {
			t.Errorf("%v: Nudge(%g) from %g error = %v", tc.policy, tc.dRoll, tc.start, err)
		}
		if roll, _ := c.Horizon().Attitude(); roll != tc.wantRoll {
			t.Errorf("%v: Nudge(%g) from %g gave roll %g, want %g", tc.policy, tc.dRoll, tc.start, roll, tc.wantRoll)
		}
		if c.Mode() != ModeManual {
			t.Errorf("%v: Nudge did not switch to manual", tc.policy)
		}
	}
}

func TestNudgePitchClamp(t *testing.T) {
	c := newController(t, horizon.PolicyWrap)
	if err := c.Nudge(0, 200); err != nil {
		t.Fatal(err)
	}
	if _, pitch := c.Horizon().Attitude(); pitch != horizon.MaxPitch {
		t.Errorf("pitch = %g, want %g", pitch, horizon.MaxPitch)
	}
}

func TestReset(t *testing.T) {
	c := newController(t, horizon.PolicyReject)
	c.Feed(telemetry.Attitude{Roll: 45, Pitch: -12})
	if err := c.Reset(); err != nil {
		t.Fatal(err)
	}
	if roll, pitch := c.Horizon().Attitude(); roll != 0 || pitch != 0 {
		t.Errorf("after Reset attitude = %g,%g", roll, pitch)
	}
	if c.Mode() != ModeManual {
		t.Error("Reset did not switch to manual")
	}
	if c.ToggleMode() != ModeLive || c.Mode() != ModeLive {
		t.Error("ToggleMode did not return to live")
	}
}

func TestStale(t *testing.T) {
	c := newController(t, horizon.PolicyReject)
	now := time.Now()
	if c.Status(now).Stale {
		t.Error("stale right after entering live mode")
	}

	c.Feed(telemetry.Attitude{Roll: 1})
	if c.Status(time.Now()).Stale {
		t.Error("stale right after a sample")
	}
	later := time.Now().Add(c.StaleAfter + time.Second)
	if !c.Status(later).Stale {
		t.Error("not stale after StaleAfter")
	}

	// Manual mode never goes stale.
	c.SetMode(ModeManual)
	if c.Status(later).Stale {
		t.Error("stale in manual mode")
	}
}

func TestStaleWithoutSamples(t *testing.T) {
	c := newController(t, horizon.PolicyReject)
	later := time.Now().Add(c.StaleAfter + time.Second)
	if !c.Status(later).Stale {
		t.Error("live link without samples not reported stale")
	}

	// Re-entering live mode restarts the wait.
	c.SetMode(ModeManual)
	c.SetMode(ModeLive)
	if c.Status(time.Now()).Stale {
		t.Error("stale right after returning to live mode")
	}
}

func TestModeString(t *testing.T) {
	if ModeLive.String() != "LIVE" || ModeManual.String() != "MANUAL" {
		t.Errorf("got %q %q", ModeLive, ModeManual)
	}
}
