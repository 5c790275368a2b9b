package ticker_test

import (
	"testing"
	"time"

	"chalkup/internal/platform/ticker"
)

func TestDriverCallsFnPerTickAndStops(t *testing.T) {
	t.Parallel()
	manual := ticker.NewManual()
	driver := ticker.NewDriver(ticker.ManualFactory(manual), time.Second)
	calls := make(chan time.Time, 4)
	driver.Start(func(now time.Time) { calls <- now })
	if !driver.Running() {
		t.Fatalf("driver should be running")
	}

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if !manual.Fire(at, time.Second) {
		t.Fatalf("tick was not consumed")
	}
	select {
	case got := <-calls:
		if !got.Equal(at) {
			t.Fatalf("unexpected tick time %v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("fn was not called")
	}

	driver.Stop()
	if driver.Running() {
		t.Fatalf("driver should be stopped")
	}
	deadline := time.Now().Add(time.Second)
	for !manual.Stopped() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !manual.Stopped() {
		t.Fatalf("underlying ticker should be stopped")
	}
	if manual.Fire(at, 50*time.Millisecond) {
		t.Fatalf("stopped driver must not consume ticks")
	}
}

func TestDriverStopFromCallback(t *testing.T) {
	t.Parallel()
	manual := ticker.NewManual()
	driver := ticker.NewDriver(ticker.ManualFactory(manual), time.Second)
	done := make(chan struct{})
	driver.Start(func(time.Time) {
		driver.Stop()
		close(done)
	})
	manual.Fire(time.Now(), time.Second)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("callback did not run")
	}
	if driver.Running() {
		t.Fatalf("driver should report stopped")
	}
}
