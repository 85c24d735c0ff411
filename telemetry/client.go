package telemetry

import (
	"context"
	"io"
	"sync"
	"time"

	"artificial-horizon/log"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
)

// State is a snapshot of the client's link.
type State struct {
	Connected  bool
	Streaming  bool
	Samples    uint64
	Errors     uint64
	Last       Attitude
	LastUpdate time.Time
}

// Client receives attitude samples from an AttitudeService.
type Client struct {
	addr string
	opts []grpc.DialOption
	lg   *log.Logger

	// ConnectTimeout bounds Connect; RetryDelay is the pause before
	// reopening a failed or finished stream.
	ConnectTimeout time.Duration
	RetryDelay     time.Duration

	mu     sync.Mutex
	conn   *grpc.ClientConn
	client *attitudeClient
	cancel context.CancelFunc
	done   chan struct{}

	stateMu sync.RWMutex
	state   State
}

// NewClient returns a client for addr. Without options the connection is
// unencrypted.
func NewClient(addr string, lg *log.Logger, opts ...grpc.DialOption) *Client {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	return &Client{
		addr:           addr,
		opts:           opts,
		lg:             lg,
		ConnectTimeout: 5 * time.Second,
		RetryDelay:     time.Second,
	}
}

// Addr is the server address the client dials.
func (c *Client) Addr() string {
	return c.addr
}

// Connect establishes the connection and waits until it is ready.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	conn, err := grpc.NewClient(c.addr, c.opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.ConnectTimeout)
	defer cancel()

	conn.Connect()
	for s := conn.GetState(); s != connectivity.Ready; s = conn.GetState() {
		if !conn.WaitForStateChange(ctx, s) {
			conn.Close()
			return ErrConnectTimeout
		}
	}

	c.conn = conn
	c.client = newAttitudeClient(conn)
	c.updateState(func(s *State) { s.Connected = true })
	c.lg.Info("connected to telemetry server", "addr", c.addr)
	return nil
}

// Disconnect stops any stream and closes the connection.
func (c *Client) Disconnect() {
	c.StopStream()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
		c.client = nil
	}
	c.updateState(func(s *State) { s.Connected = false })
}

// StartStream delivers every received sample to sink from a background
// goroutine until StopStream or Disconnect. Broken streams are reopened
// after RetryDelay.
func (c *Client) StartStream(sink func(Attitude)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return ErrNotConnected
	}
	if c.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.updateState(func(s *State) { s.Streaming = true })

	go c.streamAttitude(ctx, c.client, sink, c.done)
	return nil
}

// StopStream cancels the stream and waits for its goroutine to exit.
func (c *Client) StopStream() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	c.updateState(func(s *State) { s.Streaming = false })
}

// State returns a snapshot of the link counters.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Client) updateState(f func(*State)) {
	c.stateMu.Lock()
	f(&c.state)
	c.stateMu.Unlock()
}

func (c *Client) streamAttitude(ctx context.Context, client *attitudeClient, sink func(Attitude), done chan struct{}) {
	defer close(done)

	for {
		stream, err := client.Stream(ctx, &emptypb.Empty{})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.lg.Warn("attitude stream error", "error", err)
			c.updateState(func(s *State) { s.Errors++ })
		} else {
			c.recvLoop(ctx, stream, sink)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.RetryDelay):
		}
	}
}

func (c *Client) recvLoop(ctx context.Context, stream *attitudeStreamClient, sink func(Attitude)) {
	for {
		m, err := stream.Recv()
		if err == io.EOF {
			c.lg.Info("attitude stream ended")
			return
		}
		if err != nil {
			if ctx.Err() == nil {
				c.lg.Warn("attitude recv error", "error", err)
				c.updateState(func(s *State) { s.Errors++ })
			}
			return
		}

		a, err := FromProto(m)
		if err != nil {
			c.lg.Debug("dropping attitude message", "error", err)
			c.updateState(func(s *State) { s.Errors++ })
			continue
		}
		if a.Time.IsZero() {
			a.Time = time.Now()
		}

		c.updateState(func(s *State) {
			s.Samples++
			s.Last = a
			s.LastUpdate = time.Now()
		})
		sink(a)
	}
}
