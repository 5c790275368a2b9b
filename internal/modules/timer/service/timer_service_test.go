package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	cuedomain "chalkup/internal/modules/cue/domain"
	"chalkup/internal/modules/timer/domain"
	"chalkup/internal/modules/timer/service"
	"chalkup/internal/platform/ticker"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

type fakeCues struct {
	mu      sync.Mutex
	unlocks int
	emitted []cuedomain.Type
}

func (f *fakeCues) Unlock(context.Context) {
	f.mu.Lock()
	f.unlocks++
	f.mu.Unlock()
}

func (f *fakeCues) Emit(_ context.Context, cue cuedomain.Type) <-chan struct{} {
	f.mu.Lock()
	f.emitted = append(f.emitted, cue)
	f.mu.Unlock()
	done := make(chan struct{})
	close(done)
	return done
}

func (f *fakeCues) count(cue cuedomain.Type) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.emitted {
		if c == cue {
			n++
		}
	}
	return n
}

func (f *fakeCues) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.emitted)
}

// gatedCues holds every cue until release is closed.
type gatedCues struct {
	release chan struct{}
}

func (gatedCues) Unlock(context.Context) {}

func (g gatedCues) Emit(context.Context, cuedomain.Type) <-chan struct{} {
	return g.release
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestIntervalTimerRequiresLoadedProtocol(t *testing.T) {
	t.Parallel()
	timer := service.NewIntervalTimer(newClock(), ticker.NewDriver(ticker.ManualFactory(ticker.NewManual()), time.Second), &fakeCues{}, service.NewHub(), nil)
	if _, err := timer.Toggle(context.Background()); err != domain.ErrNotLoaded {
		t.Fatalf("expected not loaded, got %v", err)
	}
	if state := timer.Reset(); state != (domain.IntervalState{}) {
		t.Fatalf("reset without protocol must be a no-op, got %+v", state)
	}
	if _, err := timer.Load(domain.IntervalConfig{WorkSeconds: 7, RepsPerSet: 2, TotalSets: 1}); err == nil {
		t.Fatalf("invalid protocol should be rejected")
	}
	if timer.Active() {
		t.Fatalf("rejected protocol must not be loaded")
	}
}

func TestIntervalTimerDriverTicksUntilPaused(t *testing.T) {
	t.Parallel()
	manual := ticker.NewManual()
	driver := ticker.NewDriver(ticker.ManualFactory(manual), time.Second)
	cues := &fakeCues{}
	hub := service.NewHub()
	events, cancel := hub.Subscribe(16)
	defer cancel()
	timer := service.NewIntervalTimer(newClock(), driver, cues, hub, nil)

	if _, err := timer.Load(domain.IntervalConfig{WorkSeconds: 3, RestSeconds: 2, RepsPerSet: 2, TotalSets: 1}); err != nil {
		t.Fatalf("load: %v", err)
	}
	<-events
	state, err := timer.Toggle(context.Background())
	if err != nil || !state.Running {
		t.Fatalf("toggle should start: %+v %v", state, err)
	}
	<-events
	if cues.unlocks != 1 {
		t.Fatalf("starting the protocol should unlock audio")
	}

	if !manual.Fire(time.Now(), time.Second) {
		t.Fatalf("driver did not take the tick")
	}
	select {
	case ev := <-events:
		if ev.Source != domain.SourceInterval || ev.Interval.RemainingSeconds != 2 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no tick event")
	}
	waitFor(t, func() bool { return cues.count(cuedomain.Countdown) == 1 })

	paused, _ := timer.Toggle(context.Background())
	if paused.Running || paused.RemainingSeconds != 2 {
		t.Fatalf("pause should freeze at 2s, got %+v", paused)
	}
	waitFor(t, manual.Stopped)
	if manual.Fire(time.Now(), 50*time.Millisecond) {
		t.Fatalf("paused timer must not consume ticks")
	}
	if after := timer.Tick(context.Background()); after != paused {
		t.Fatalf("tick while paused must not mutate state, got %+v", after)
	}
	if cues.total() != 1 {
		t.Fatalf("no cue may follow a pause, got %d", cues.total())
	}
}

func TestIntervalTimerStopsItselfWhenDone(t *testing.T) {
	t.Parallel()
	cues := &fakeCues{}
	driver := ticker.NewDriver(ticker.ManualFactory(ticker.NewManual()), time.Second)
	timer := service.NewIntervalTimer(newClock(), driver, cues, nil, nil)
	if _, err := timer.Load(domain.IntervalConfig{WorkSeconds: 2, RepsPerSet: 1, TotalSets: 1}); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := timer.Toggle(context.Background()); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	timer.Tick(context.Background())
	state := timer.Tick(context.Background())
	if !state.Done() || state.Running {
		t.Fatalf("expected done, got %+v", state)
	}
	if driver.Running() {
		t.Fatalf("driver should stop on completion")
	}
	if timer.Active() {
		t.Fatalf("finished protocol is not active")
	}
	waitFor(t, func() bool { return cues.count(cuedomain.Complete) == 1 })
	again, err := timer.Toggle(context.Background())
	if err != nil || again.Running {
		t.Fatalf("toggle after done must be a no-op, got %+v %v", again, err)
	}
	if reset := timer.Reset(); reset.Phase != domain.PhaseWork || reset.RemainingSeconds != 2 {
		t.Fatalf("reset should reload work phase, got %+v", reset)
	}
}

func TestRestTimerRestartReplacesCountdown(t *testing.T) {
	t.Parallel()
	cues := &fakeCues{}
	driver := ticker.NewDriver(ticker.ManualFactory(ticker.NewManual()), time.Second)
	rest := service.NewRestTimer(newClock(), driver, cues, nil, nil)
	if _, err := rest.Start(context.Background(), 0); err == nil {
		t.Fatalf("zero rest should fail")
	}
	if _, err := rest.Start(context.Background(), 60); err != nil {
		t.Fatalf("start: %v", err)
	}
	rest.Tick(context.Background())
	if got := rest.Snapshot().RemainingSeconds; got != 59 {
		t.Fatalf("expected 59, got %d", got)
	}
	if _, err := rest.Start(context.Background(), 3); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := rest.Snapshot(); got.RemainingSeconds != 3 || got.DurationSeconds != 3 || !got.Running {
		t.Fatalf("restart should begin fresh, got %+v", got)
	}
	for i := 0; i < 6; i++ {
		rest.Tick(context.Background())
	}
	final := rest.Snapshot()
	if final.Running || !final.Completed() {
		t.Fatalf("rest should be complete, got %+v", final)
	}
	if driver.Running() {
		t.Fatalf("driver should stop after completion")
	}
	waitFor(t, func() bool { return cues.count(cuedomain.RestComplete) == 1 && cues.count(cuedomain.Countdown) == 3 })

	rest.Stop()
	if rest.Snapshot() != (domain.RestState{}) {
		t.Fatalf("stop should clear the rest")
	}
}

func TestRestTimerToggle(t *testing.T) {
	t.Parallel()
	driver := ticker.NewDriver(ticker.ManualFactory(ticker.NewManual()), time.Second)
	rest := service.NewRestTimer(newClock(), driver, nil, nil, nil)
	if state := rest.Toggle(context.Background()); state.Running {
		t.Fatalf("toggle without rest must not start anything")
	}
	_, _ = rest.Start(context.Background(), 120)
	paused := rest.Toggle(context.Background())
	if paused.Running || driver.Running() {
		t.Fatalf("toggle should pause the rest and its driver")
	}
	if after := rest.Tick(context.Background()); after.RemainingSeconds != 120 {
		t.Fatalf("paused rest must not count, got %d", after.RemainingSeconds)
	}
	if resumed := rest.Toggle(context.Background()); !resumed.Running || !driver.Running() {
		t.Fatalf("toggle should resume")
	}
}

func TestSessionClockRecomputesFromStart(t *testing.T) {
	t.Parallel()
	clk := newClock()
	hub := service.NewHub()
	events, cancel := hub.Subscribe(4)
	defer cancel()
	sessionClock := service.NewSessionClock(clk, ticker.NewDriver(ticker.ManualFactory(ticker.NewManual()), time.Second), hub)

	sessionClock.Start(clk.Now().Add(-90 * time.Second))
	if ev := <-events; ev.Elapsed != 90 {
		t.Fatalf("expected 90 on start, got %d", ev.Elapsed)
	}
	clk.advance(45*time.Minute + 500*time.Millisecond)
	if got := sessionClock.Tick(); got != 90+45*60 {
		t.Fatalf("suspended ticks must not drift, got %d", got)
	}
	sessionClock.Stop()
	if sessionClock.Elapsed() != 0 || sessionClock.Tick() != 0 {
		t.Fatalf("stopped clock reads zero")
	}
}

func TestHubDropsForSlowSubscribers(t *testing.T) {
	t.Parallel()
	hub := service.NewHub()
	events, cancel := hub.Subscribe(1)
	hub.Publish(domain.Event{Source: domain.SourceClock, Elapsed: 1})
	hub.Publish(domain.Event{Source: domain.SourceClock, Elapsed: 2})
	if ev := <-events; ev.Elapsed != 1 {
		t.Fatalf("expected first event, got %+v", ev)
	}
	cancel()
	cancel()
	if _, ok := <-events; ok {
		t.Fatalf("cancel should close the channel")
	}
	hub.Publish(domain.Event{})
}

func TestWaitCuesHoldsUntilFinalCuePlays(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cues := gatedCues{release: make(chan struct{})}
	driver := ticker.NewDriver(ticker.ManualFactory(ticker.NewManual()), time.Second)
	rest := service.NewRestTimer(newClock(), driver, cues, nil, nil)

	if err := rest.WaitCues(ctx); err != nil {
		t.Fatalf("nothing queued, wait should return at once: %v", err)
	}
	if _, err := rest.Start(ctx, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if state := rest.Tick(ctx); !state.Completed() {
		t.Fatalf("rest should complete, got %+v", state)
	}

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := rest.WaitCues(short); err != context.DeadlineExceeded {
		t.Fatalf("wait should block while the cue plays, got %v", err)
	}

	close(cues.release)
	done := make(chan error, 1)
	go func() { done <- rest.WaitCues(ctx) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("wait after release: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("wait did not return after the cue played")
	}
}
