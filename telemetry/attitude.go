// Package telemetry carries attitude samples over a gRPC stream.
package telemetry

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

var (
	ErrMalformed      = errors.New("malformed attitude message")
	ErrConnectTimeout = errors.New("timed out connecting to telemetry server")
	ErrNotConnected   = errors.New("not connected to telemetry server")
)

// Attitude is one sample: roll in degrees, pitch in instrument units.
type Attitude struct {
	Roll  float64
	Pitch float64
	Time  time.Time
}

const (
	fieldRoll  = "roll"
	fieldPitch = "pitch"
	fieldTime  = "time"
)

// Proto encodes a as a google.protobuf.Struct.
func (a Attitude) Proto() (*structpb.Struct, error) {
	fields := map[string]any{
		fieldRoll:  a.Roll,
		fieldPitch: a.Pitch,
	}
	if !a.Time.IsZero() {
		fields[fieldTime] = a.Time.UTC().Format(time.RFC3339Nano)
	}
	return structpb.NewStruct(fields)
}

// FromProto decodes a Struct built by Attitude.Proto.
func FromProto(s *structpb.Struct) (Attitude, error) {
	var a Attitude
	f := s.GetFields()

	num := func(name string) (float64, error) {
		v, ok := f[name]
		if !ok {
			return 0, fmt.Errorf("%w: missing %s", ErrMalformed, name)
		}
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || math.IsNaN(n.NumberValue) {
			return 0, fmt.Errorf("%w: %s is not a number", ErrMalformed, name)
		}
		return n.NumberValue, nil
	}

	var err error
	if a.Roll, err = num(fieldRoll); err != nil {
		return Attitude{}, err
	}
	if a.Pitch, err = num(fieldPitch); err != nil {
		return Attitude{}, err
	}
	if v, ok := f[fieldTime]; ok {
		if a.Time, err = time.Parse(time.RFC3339Nano, v.GetStringValue()); err != nil {
			return Attitude{}, fmt.Errorf("%w: time: %v", ErrMalformed, err)
		}
	}
	return a, nil
}
