package ticker

import (
	"sync"
	"time"
)

// Ticker is the part of *time.Ticker the driver needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Factory creates a ticker firing every d.
type Factory func(d time.Duration) Ticker

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }
func (s systemTicker) Stop()               { s.t.Stop() }

func System(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

// Driver owns at most one ticking goroutine. Start replaces any previous run,
// so a timer never has two drivers calling into it.
type Driver struct {
	factory  Factory
	interval time.Duration

	mu     sync.Mutex
	stopCh chan struct{}
}

func NewDriver(factory Factory, interval time.Duration) *Driver {
	if factory == nil {
		factory = System
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Driver{factory: factory, interval: interval}
}

// Start launches fn once per interval until Stop. Stop may be called from fn.
func (d *Driver) Start(fn func(time.Time)) {
	d.mu.Lock()
	d.stopLocked()
	stopCh := make(chan struct{})
	d.stopCh = stopCh
	t := d.factory(d.interval)
	d.mu.Unlock()

	go func() {
		defer t.Stop()
		for {
			select {
			case <-stopCh:
				return
			case now := <-t.C():
				select {
				case <-stopCh:
					return
				default:
				}
				fn(now)
			}
		}
	}()
}

func (d *Driver) Stop() {
	d.mu.Lock()
	d.stopLocked()
	d.mu.Unlock()
}

func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopCh != nil
}

func (d *Driver) stopLocked() {
	if d.stopCh != nil {
		close(d.stopCh)
		d.stopCh = nil
	}
}

// Manual is a hand-fired ticker for tests.
type Manual struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func NewManual() *Manual {
	return &Manual{ch: make(chan time.Time)}
}

func (m *Manual) C() <-chan time.Time { return m.ch }

func (m *Manual) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *Manual) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Fire blocks until the driver goroutine receives the tick or timeout elapses.
func (m *Manual) Fire(now time.Time, timeout time.Duration) bool {
	select {
	case m.ch <- now:
		return true
	case <-time.After(timeout):
		return false
	}
}

// ManualFactory hands out the same Manual ticker on every call.
func ManualFactory(m *Manual) Factory {
	return func(time.Duration) Ticker { return m }
}
