package service

import (
	"sync"
	"time"

	"chalkup/internal/modules/timer/domain"
	"chalkup/internal/platform/clock"
	"chalkup/internal/platform/ticker"
)

// SessionClock publishes elapsed session time once per second. The value is
// always derived from the absolute start, never from counted ticks.
type SessionClock struct {
	clock  clock.Clock
	driver *ticker.Driver
	hub    *Hub

	mu      sync.Mutex
	started time.Time
	gen     uint64
}

func NewSessionClock(clk clock.Clock, driver *ticker.Driver, hub *Hub) *SessionClock {
	return &SessionClock{clock: clk, driver: driver, hub: hub}
}

func (c *SessionClock) Start(startedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	gen := c.gen
	c.started = startedAt
	c.driver.Start(func(time.Time) { c.tick(gen) })
	c.publishLocked()
}

func (c *SessionClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.driver.Stop()
	c.started = time.Time{}
}

func (c *SessionClock) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Elapsed(c.started, c.clock.Now())
}

func (c *SessionClock) StartedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.started
}

func (c *SessionClock) Tick() int {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	return c.tick(gen)
}

func (c *SessionClock) tick(gen uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || c.started.IsZero() {
		return 0
	}
	return c.publishLocked()
}

func (c *SessionClock) publishLocked() int {
	now := c.clock.Now()
	elapsed := domain.Elapsed(c.started, now)
	if c.hub != nil {
		c.hub.Publish(domain.Event{Source: domain.SourceClock, Elapsed: elapsed, At: now})
	}
	return elapsed
}
