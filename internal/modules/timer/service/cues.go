package service

import (
	"context"
	"sync"

	cuedomain "chalkup/internal/modules/cue/domain"
	timerout "chalkup/internal/modules/timer/port/out"
)

// cueQueue emits cues one after another in the background so a countdown
// beep and the phase cue of the same tick never overlap. It counts the
// batches still playing so callers can wait for them before exiting.
type cueQueue struct {
	sink timerout.CueSink

	mu      sync.Mutex
	pending int
	idle    chan struct{}
}

func newCueQueue(sink timerout.CueSink) *cueQueue {
	return &cueQueue{sink: sink}
}

// play registers the batch before returning, so an event published after
// play is never observed ahead of its cues.
func (q *cueQueue) play(ctx context.Context, cues []cuedomain.Type) {
	if q.sink == nil || len(cues) == 0 {
		return
	}
	q.mu.Lock()
	if q.pending == 0 {
		q.idle = make(chan struct{})
	}
	q.pending++
	q.mu.Unlock()

	go func() {
		defer q.done()
		for _, cue := range cues {
			select {
			case <-q.sink.Emit(ctx, cue):
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (q *cueQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending--
	if q.pending == 0 {
		close(q.idle)
	}
}

// wait blocks until every batch queued so far has played.
func (q *cueQueue) wait(ctx context.Context) error {
	q.mu.Lock()
	if q.pending == 0 {
		q.mu.Unlock()
		return nil
	}
	idle := q.idle
	q.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
