package service

import (
	"sync"

	"chalkup/internal/modules/timer/domain"
)

// Hub fans timer events out to subscribers. Slow subscribers miss events
// rather than stall a tick.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan domain.Event
}

func NewHub() *Hub {
	return &Hub{subs: map[int]chan domain.Event{}}
}

func (h *Hub) Subscribe(buffer int) (<-chan domain.Event, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan domain.Event, buffer)
	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Publish(event domain.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
