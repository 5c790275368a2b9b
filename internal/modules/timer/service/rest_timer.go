package service

import (
	"context"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	cuedomain "chalkup/internal/modules/cue/domain"
	"chalkup/internal/modules/timer/domain"
	timerout "chalkup/internal/modules/timer/port/out"
	"chalkup/internal/platform/clock"
	"chalkup/internal/platform/logging"
	"chalkup/internal/platform/ticker"
)

// RestTimer is the ad-hoc countdown between attempts. Start always replaces
// whatever countdown was in flight.
type RestTimer struct {
	clock  clock.Clock
	driver *ticker.Driver
	cues   timerout.CueSink
	queue  *cueQueue
	hub    *Hub
	logger hclog.Logger

	mu    sync.Mutex
	state domain.RestState
	gen   uint64
}

func NewRestTimer(clk clock.Clock, driver *ticker.Driver, cues timerout.CueSink, hub *Hub, logger hclog.Logger) *RestTimer {
	return &RestTimer{
		clock:  clk,
		driver: driver,
		cues:   cues,
		queue:  newCueQueue(cues),
		hub:    hub,
		logger: logging.OrDiscard(logger).Named("rest"),
	}
}

func (t *RestTimer) Start(ctx context.Context, seconds int) (domain.RestState, error) {
	state, err := domain.NewRestState(seconds)
	if err != nil {
		return domain.RestState{}, err
	}
	if t.cues != nil {
		t.cues.Unlock(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.state = state
	t.startLocked(ctx)
	t.publish(state, nil)
	t.logger.Debug("rest started", "seconds", seconds)
	return state, nil
}

func (t *RestTimer) Toggle(ctx context.Context) domain.RestState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.state.Active() {
		return t.state
	}
	t.gen++
	t.state = t.state.Toggle()
	if t.state.Running {
		t.startLocked(ctx)
	} else {
		t.driver.Stop()
	}
	t.publish(t.state, nil)
	return t.state
}

// Stop cancels the countdown and clears it.
func (t *RestTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.driver.Stop()
	if t.state == (domain.RestState{}) {
		return
	}
	t.state = domain.RestState{}
	t.publish(t.state, nil)
}

func (t *RestTimer) Snapshot() domain.RestState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *RestTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Running
}

func (t *RestTimer) Tick(ctx context.Context) domain.RestState {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	return t.tick(ctx, gen)
}

func (t *RestTimer) startLocked(ctx context.Context) {
	gen := t.gen
	runCtx := context.WithoutCancel(ctx)
	t.driver.Start(func(time.Time) { t.tick(runCtx, gen) })
}

func (t *RestTimer) tick(ctx context.Context, gen uint64) domain.RestState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || !t.state.Running {
		return t.state
	}
	next, cues := t.state.Tick()
	t.state = next
	if !next.Running {
		t.gen++
		t.driver.Stop()
	}
	t.queue.play(ctx, cues)
	t.publish(next, cues)
	return next
}

func (t *RestTimer) publish(state domain.RestState, cues []cuedomain.Type) {
	if t.hub == nil {
		return
	}
	t.hub.Publish(domain.Event{Source: domain.SourceRest, Rest: state, Cues: cues, At: t.clock.Now()})
}

// WaitCues blocks until the cues of past ticks have finished playing.
func (t *RestTimer) WaitCues(ctx context.Context) error {
	return t.queue.wait(ctx)
}
