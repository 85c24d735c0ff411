package telemetry

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestAttitudeProto(t *testing.T) {
	a := Attitude{Roll: 12.5, Pitch: -3.25, Time: time.Date(2024, 5, 4, 12, 0, 0, 123, time.UTC)}
	m, err := a.Proto()
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromProto(m)
	if err != nil {
		t.Fatal(err)
	}
	if got.Roll != a.Roll || got.Pitch != a.Pitch || !got.Time.Equal(a.Time) {
		t.Errorf("FromProto(Proto(%+v)) = %+v", a, got)
	}

	// Time is optional.
	m, _ = Attitude{Roll: 1, Pitch: 2}.Proto()
	if got, err := FromProto(m); err != nil || !got.Time.IsZero() {
		t.Errorf("without time: %+v, %v", got, err)
	}
}

func TestFromProtoMalformed(t *testing.T) {
	for _, fields := range []map[string]any{
		{"roll": 1.0},
		{"pitch": 1.0},
		{"roll": "level", "pitch": 0.0},
		{"roll": 1.0, "pitch": 0.0, "time": "yesterday"},
	} {
		m, err := structpb.NewStruct(fields)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := FromProto(m); !errors.Is(err, ErrMalformed) {
			t.Errorf("FromProto(%v) error = %v, want ErrMalformed", fields, err)
		}
	}
}

func TestSimulatedAttitudeRange(t *testing.T) {
	for ms := 0; ms < 20000; ms += 7 {
		a := SimulatedAttitude(time.Duration(ms) * time.Millisecond)
		if a.Roll < 0 || a.Roll >= 360 {
			t.Fatalf("t=%dms: roll %g outside [0,360)", ms, a.Roll)
		}
		if a.Roll > simRollAmplitude && a.Roll < 360-simRollAmplitude {
			t.Fatalf("t=%dms: roll %g beyond ±%g", ms, a.Roll, simRollAmplitude)
		}
		if a.Pitch < -simPitchAmplitude || a.Pitch > simPitchAmplitude {
			t.Fatalf("t=%dms: pitch %g beyond ±%g", ms, a.Pitch, simPitchAmplitude)
		}
	}
	if a := SimulatedAttitude(0); a.Roll != 0 || a.Pitch != 0 {
		t.Errorf("SimulatedAttitude(0) = %+v, want level", a)
	}
}

// startServer serves srv on an in-memory listener and returns a client
// wired to it.
func startServer(t *testing.T, srv AttitudeServer) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 16)
	ctx, cancel := context.WithCancel(context.Background())

	served := make(chan error, 1)
	go func() { served <- Serve(ctx, lis, srv, nil) }()

	c := NewClient("passthrough:///bufnet", nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	c.RetryDelay = 10 * time.Millisecond

	t.Cleanup(func() {
		c.Disconnect()
		cancel()
		if err := <-served; err != nil {
			t.Errorf("Serve: %v", err)
		}
	})
	return c
}

func collect(t *testing.T, ch <-chan Attitude, n int) []Attitude {
	t.Helper()
	var got []Attitude
	timeout := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case a := <-ch:
			got = append(got, a)
		case <-timeout:
			t.Fatalf("received %d of %d samples", len(got), n)
		}
	}
	return got
}

func TestClientStreamsAcrossReconnects(t *testing.T) {
	sim := NewSimulator(5*time.Millisecond, nil)
	// Each stream ends after three samples, so five samples need a
	// reconnect.
	sim.MaxSamples = 3
	c := startServer(t, sim)

	if err := c.Connect(); err != nil {
		t.Fatal(err)
	}
	if !c.State().Connected {
		t.Error("State().Connected = false after Connect")
	}

	ch := make(chan Attitude, 64)
	if err := c.StartStream(func(a Attitude) { ch <- a }); err != nil {
		t.Fatal(err)
	}
	got := collect(t, ch, 5)

	for _, a := range got {
		if a.Time.IsZero() {
			t.Errorf("sample without time: %+v", a)
		}
		if a.Roll < 0 || a.Roll >= 360 {
			t.Errorf("roll %g outside [0,360)", a.Roll)
		}
	}

	c.StopStream()
	st := c.State()
	if st.Streaming {
		t.Error("still streaming after StopStream")
	}
	if st.Samples < 5 {
		t.Errorf("State().Samples = %d, want >= 5", st.Samples)
	}
	if st.LastUpdate.IsZero() {
		t.Error("LastUpdate not set")
	}

	c.Disconnect()
	if c.State().Connected {
		t.Error("State().Connected = true after Disconnect")
	}
}

// scripted sends a fixed list of messages and ends the stream.
type scripted []*structpb.Struct

func (s scripted) Stream(_ *emptypb.Empty, stream AttitudeStream) error {
	for _, m := range s {
		if err := stream.Send(m); err != nil {
			return err
		}
	}
	<-stream.Context().Done()
	return nil
}

func TestClientDropsMalformed(t *testing.T) {
	bad, _ := structpb.NewStruct(map[string]any{"roll": 10.0})
	good, _ := Attitude{Roll: 10, Pitch: 5}.Proto()
	c := startServer(t, scripted{bad, good})

	if err := c.Connect(); err != nil {
		t.Fatal(err)
	}
	ch := make(chan Attitude, 8)
	if err := c.StartStream(func(a Attitude) { ch <- a }); err != nil {
		t.Fatal(err)
	}

	a := collect(t, ch, 1)[0]
	if a.Roll != 10 || a.Pitch != 5 {
		t.Errorf("received %+v, want roll 10 pitch 5", a)
	}
	if a.Time.IsZero() {
		t.Error("receive time not filled in")
	}
	if st := c.State(); st.Errors != 1 || st.Samples != 1 {
		t.Errorf("State() errors %d samples %d, want 1 and 1", st.Errors, st.Samples)
	}
}

func TestServeReturnsListenerError(t *testing.T) {
	lis := bufconn.Listen(1 << 10)
	lis.Close()

	done := make(chan error, 1)
	go func() { done <- Serve(context.Background(), lis, NewSimulator(time.Millisecond, nil), nil) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("Serve on a closed listener returned nil")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after its listener failed")
	}
}

func TestStartStreamRequiresConnect(t *testing.T) {
	c := NewClient("passthrough:///nowhere", nil)
	if err := c.StartStream(func(Attitude) {}); !errors.Is(err, ErrNotConnected) {
		t.Errorf("StartStream error = %v, want ErrNotConnected", err)
	}
	// Harmless without a connection.
	c.StopStream()
	c.Disconnect()
}

func TestConnectTimeout(t *testing.T) {
	c := NewClient("passthrough:///unreachable", nil,
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return nil, errors.New("no route")
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	c.ConnectTimeout = 100 * time.Millisecond

	if err := c.Connect(); !errors.Is(err, ErrConnectTimeout) {
		t.Errorf("Connect error = %v, want ErrConnectTimeout", err)
	}
	if c.State().Connected {
		t.Error("Connected after failed Connect")
	}
}
