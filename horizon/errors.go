package horizon

import "errors"

var (
	ErrSizeTooSmall    = errors.New("instrument size too small")
	ErrRollOutOfRange  = errors.New("roll out of range")
	ErrPitchOutOfRange = errors.New("pitch out of range")
	ErrNotFinite       = errors.New("attitude is not a finite number")
	ErrUnknownPolicy   = errors.New("unknown attitude policy")
	ErrBadColor        = errors.New("invalid color")
)
