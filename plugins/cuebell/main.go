package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-plugin"

	cuerpc "chalkup/internal/modules/cue/adapter/out/rpc"
)

// server rings the controlling terminal. Without a tty the bell is muted but
// calls still succeed so timers keep their cadence.
type server struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *server) Describe(_ context.Context, _ *cuerpc.Empty) (*cuerpc.Description, error) {
	return &cuerpc.Description{Name: "cuebell", Audio: true, Haptic: false}, nil
}

func (s *server) Unlock(_ context.Context, _ *cuerpc.Empty) (*cuerpc.UnlockResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.out != nil {
		return &cuerpc.UnlockResponse{Ready: true}, nil
	}
	tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
	if err != nil {
		s.out = io.Discard
		return &cuerpc.UnlockResponse{Ready: true, Reason: "no tty, bell muted"}, nil
	}
	s.out = tty
	return &cuerpc.UnlockResponse{Ready: true}, nil
}

func (s *server) Play(ctx context.Context, in *cuerpc.PlayRequest) (*cuerpc.Empty, error) {
	if in.DurationMS < 0 {
		return nil, fmt.Errorf("negative duration")
	}
	s.mu.Lock()
	out := s.out
	s.mu.Unlock()
	if out == nil {
		return nil, fmt.Errorf("bell not unlocked")
	}
	if _, err := io.WriteString(out, "\a"); err != nil {
		return nil, fmt.Errorf("ring bell: %w", err)
	}
	t := time.NewTimer(time.Duration(in.DurationMS) * time.Millisecond)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.C:
	}
	return &cuerpc.Empty{}, nil
}

func (s *server) Vibrate(_ context.Context, _ *cuerpc.VibrateRequest) (*cuerpc.Empty, error) {
	return &cuerpc.Empty{}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: cuerpc.HandshakeConfig,
		Plugins:         cuerpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
