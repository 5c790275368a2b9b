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

// IntervalTimer drives an IntervalState once per second. Every start of the
// driver gets a new generation; ticks carrying an older one are dropped, so
// nothing mutates state after pause, reset or unload.
type IntervalTimer struct {
	clock  clock.Clock
	driver *ticker.Driver
	cues   timerout.CueSink
	queue  *cueQueue
	hub    *Hub
	logger hclog.Logger

	mu     sync.Mutex
	state  domain.IntervalState
	loaded bool
	gen    uint64
}

func NewIntervalTimer(clk clock.Clock, driver *ticker.Driver, cues timerout.CueSink, hub *Hub, logger hclog.Logger) *IntervalTimer {
	return &IntervalTimer{
		clock:  clk,
		driver: driver,
		cues:   cues,
		queue:  newCueQueue(cues),
		hub:    hub,
		logger: logging.OrDiscard(logger).Named("interval"),
	}
}

func (t *IntervalTimer) Load(cfg domain.IntervalConfig) (domain.IntervalState, error) {
	state, err := domain.NewIntervalState(cfg)
	if err != nil {
		return domain.IntervalState{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.driver.Stop()
	t.state = state
	t.loaded = true
	t.publish(state, true, nil)
	t.logger.Debug("protocol loaded", "work", cfg.WorkSeconds, "rest", cfg.RestSeconds, "reps", cfg.RepsPerSet, "sets", cfg.TotalSets)
	return state, nil
}

func (t *IntervalTimer) Unload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.driver.Stop()
	if !t.loaded {
		return
	}
	t.state = domain.IntervalState{}
	t.loaded = false
	t.publish(domain.IntervalState{}, false, nil)
}

func (t *IntervalTimer) Snapshot() (domain.IntervalState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state, t.loaded
}

// Active reports a loaded protocol that has not finished.
func (t *IntervalTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loaded && !t.state.Done()
}

func (t *IntervalTimer) Toggle(ctx context.Context) (domain.IntervalState, error) {
	t.mu.Lock()
	loaded, done, running := t.loaded, t.state.Done(), t.state.Running
	t.mu.Unlock()
	if !loaded {
		return domain.IntervalState{}, domain.ErrNotLoaded
	}
	if !done && !running && t.cues != nil {
		t.cues.Unlock(ctx)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		return domain.IntervalState{}, domain.ErrNotLoaded
	}
	if t.state.Done() {
		return t.state, nil
	}
	t.gen++
	gen := t.gen
	t.state = t.state.Toggle()
	if t.state.Running {
		runCtx := context.WithoutCancel(ctx)
		t.driver.Start(func(time.Time) { t.tick(runCtx, gen) })
	} else {
		t.driver.Stop()
	}
	t.publish(t.state, true, nil)
	return t.state, nil
}

// Reset is a no-op without a loaded protocol.
func (t *IntervalTimer) Reset() domain.IntervalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		return domain.IntervalState{}
	}
	t.gen++
	t.driver.Stop()
	t.state = t.state.Reset()
	t.publish(t.state, true, nil)
	return t.state
}

// Tick advances the current generation by one second. The driver calls it
// once per second; tests call it directly.
func (t *IntervalTimer) Tick(ctx context.Context) domain.IntervalState {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	return t.tick(ctx, gen)
}

func (t *IntervalTimer) tick(ctx context.Context, gen uint64) domain.IntervalState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen || !t.loaded || !t.state.Running {
		return t.state
	}
	next, cues := t.state.Tick()
	t.state = next
	if next.Done() {
		t.gen++
		t.driver.Stop()
		t.logger.Debug("protocol complete")
	}
	// Cues and the event leave under the lock so a concurrent pause or reset
	// cannot be overtaken by output from this tick.
	t.queue.play(ctx, cues)
	t.publish(next, true, cues)
	return next
}

func (t *IntervalTimer) publish(state domain.IntervalState, loaded bool, cues []cuedomain.Type) {
	if t.hub == nil {
		return
	}
	t.hub.Publish(domain.Event{Source: domain.SourceInterval, Interval: state, Loaded: loaded, Cues: cues, At: t.clock.Now()})
}

// WaitCues blocks until the cues of past ticks have finished playing.
func (t *IntervalTimer) WaitCues(ctx context.Context) error {
	return t.queue.wait(ctx)
}
