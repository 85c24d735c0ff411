package horizon

import (
	"fmt"
	"math"
	"strings"
)

// Policy decides what SetRollPitch does with a sample.
type Policy int

const (
	// PolicyReject accepts roll in [0,360) and pitch in [-90,90] and
	// leaves the stored attitude alone for anything else.
	PolicyReject Policy = iota
	// PolicyWrap folds roll into [0,360) and clamps pitch to [-90,90].
	PolicyWrap
	// PolicyLegacy applies the historical guard "roll >= 0 && roll >= 360"
	// literally: only rolls of 360 and above are stored.
	PolicyLegacy
)

const (
	MaxRoll  = 360.
	MinPitch = -90.
	MaxPitch = 90.
)

var policyNames = map[Policy]string{
	PolicyReject: "reject",
	PolicyWrap:   "wrap",
	PolicyLegacy: "legacy",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps "reject", "wrap" or "legacy" (any case) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	for p, name := range policyNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return PolicyReject, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// apply returns the attitude to store, or an error if the sample must be
// dropped.
func (p Policy) apply(roll, pitch float64) (float64, float64, error) {
	if math.IsNaN(roll) || math.IsInf(roll, 0) || math.IsNaN(pitch) || math.IsInf(pitch, 0) {
		return 0, 0, fmt.Errorf("%w: roll %v pitch %v", ErrNotFinite, roll, pitch)
	}

	switch p {
	case PolicyWrap:
		roll = math.Mod(roll, MaxRoll)
		if roll < 0 {
			roll += MaxRoll
		}
		if roll >= MaxRoll {
			roll = 0
		}
		return roll, math.Max(MinPitch, math.Min(MaxPitch, pitch)), nil

	case PolicyLegacy:
		if !(roll >= 0 && roll >= MaxRoll) {
			return 0, 0, fmt.Errorf("%w: %g", ErrRollOutOfRange, roll)
		}

	default:
		if roll < 0 || roll >= MaxRoll {
			return 0, 0, fmt.Errorf("%w: %g", ErrRollOutOfRange, roll)
		}
	}

	if pitch < MinPitch || pitch > MaxPitch {
		return 0, 0, fmt.Errorf("%w: %g", ErrPitchOutOfRange, pitch)
	}
	return roll, pitch, nil
}
