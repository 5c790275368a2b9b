package out

import (
	"context"
	"io"
	"sync"
	"time"

	"chalkup/internal/modules/cue/domain"
)

// TerminalBell rings the terminal bell once per tone. Frequency is ignored.
type TerminalBell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalBell(w io.Writer) *TerminalBell {
	return &TerminalBell{w: w}
}

func (b *TerminalBell) Unlock(context.Context) error {
	if b.w == nil {
		return domain.ErrAudioUnavailable
	}
	return nil
}

func (b *TerminalBell) Play(ctx context.Context, tone domain.Tone) error {
	b.mu.Lock()
	_, err := io.WriteString(b.w, "\a")
	b.mu.Unlock()
	if err != nil {
		return err
	}
	t := time.NewTimer(tone.Duration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
