package out

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	cuerpc "chalkup/internal/modules/cue/adapter/out/rpc"
	"chalkup/internal/modules/cue/domain"
	"chalkup/internal/platform/logging"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 2 * time.Second
)

// PluginSink forwards tones and vibration to an out-of-process cue plugin.
// The plugin binary is launched on Unlock and stays up until Close.
type PluginSink struct {
	binary string
	logger hclog.Logger

	mu     sync.Mutex
	client *plugin.Client
	rpc    cuerpc.CueSinkClient
	desc   cuerpc.Description
}

func NewPluginSink(binary string, logger hclog.Logger) *PluginSink {
	return &PluginSink{binary: binary, logger: logging.OrDiscard(logger).Named("cue-plugin")}
}

func (s *PluginSink) Unlock(ctx context.Context) error {
	client, err := s.connect()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	resp, err := client.Unlock(callCtx)
	if err != nil {
		return fmt.Errorf("unlock cue plugin: %w", err)
	}
	if !resp.Ready {
		return fmt.Errorf("%w: %s", domain.ErrAudioUnavailable, resp.Reason)
	}
	return nil
}

func (s *PluginSink) Play(ctx context.Context, tone domain.Tone) error {
	client, err := s.connected()
	if err != nil {
		return err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout+tone.Duration)
	defer cancel()
	if err := client.Play(callCtx, &cuerpc.PlayRequest{
		FrequencyHz: int32(tone.FrequencyHz),
		DurationMS:  int32(tone.Duration / time.Millisecond),
	}); err != nil {
		return fmt.Errorf("play tone: %w", err)
	}
	return nil
}

func (s *PluginSink) Vibrate(ctx context.Context, pattern []time.Duration) error {
	client, err := s.connected()
	if err != nil {
		return err
	}
	ms := make([]int32, 0, len(pattern))
	for _, d := range pattern {
		ms = append(ms, int32(d/time.Millisecond))
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	if err := client.Vibrate(callCtx, &cuerpc.VibrateRequest{PatternMS: ms}); err != nil {
		return fmt.Errorf("vibrate: %w", err)
	}
	return nil
}

// Describe reports what the plugin announced when it was launched.
func (s *PluginSink) Describe() cuerpc.Description {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc
}

func (s *PluginSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Kill()
		s.client = nil
		s.rpc = nil
	}
	return nil
}

func (s *PluginSink) connected() (cuerpc.CueSinkClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rpc == nil {
		return nil, fmt.Errorf("cue plugin not started")
	}
	return s.rpc, nil
}

func (s *PluginSink) connect() (cuerpc.CueSinkClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rpc != nil {
		return s.rpc, nil
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  cuerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          cuerpc.PluginMap(nil),
		Cmd:              exec.Command(s.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           s.logger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("start cue plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(cuerpc.PluginMapKey)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("dispense cue plugin: %w", err)
	}
	typed, ok := raw.(cuerpc.CueSinkClient)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("cue plugin rpc client type mismatch")
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultCallTimeout)
	defer cancel()
	desc, err := typed.Describe(ctx)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("describe cue plugin: %w", err)
	}
	s.client = client
	s.rpc = typed
	s.desc = *desc
	s.logger.Debug("cue plugin ready", "name", desc.Name, "audio", desc.Audio, "haptic", desc.Haptic)
	return typed, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
