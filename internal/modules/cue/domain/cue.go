package domain

import (
	"errors"
	"fmt"
	"time"
)

type Type string

const (
	Work         Type = "work"
	Rest         Type = "rest"
	SetRest      Type = "set_rest"
	Complete     Type = "complete"
	Countdown    Type = "countdown"
	RestComplete Type = "rest_complete"
)

// ErrAudioUnavailable is returned by audio outputs that cannot produce sound.
var ErrAudioUnavailable = errors.New("audio output unavailable")

// Tone is one beep.
type Tone struct {
	FrequencyHz int
	Duration    time.Duration
}

// Waveform describes a cue: Count beeps of Tone separated by Gap.
type Waveform struct {
	Tone
	Count int
	Gap   time.Duration
}

var waveforms = map[Type]Waveform{
	Work:         {Tone: Tone{FrequencyHz: 880, Duration: 200 * time.Millisecond}, Count: 2, Gap: 100 * time.Millisecond},
	Rest:         {Tone: Tone{FrequencyHz: 440, Duration: 300 * time.Millisecond}, Count: 1},
	SetRest:      {Tone: Tone{FrequencyHz: 523, Duration: 400 * time.Millisecond}, Count: 2, Gap: 150 * time.Millisecond},
	Complete:     {Tone: Tone{FrequencyHz: 1047, Duration: 150 * time.Millisecond}, Count: 3, Gap: 100 * time.Millisecond},
	Countdown:    {Tone: Tone{FrequencyHz: 660, Duration: 100 * time.Millisecond}, Count: 1},
	RestComplete: {Tone: Tone{FrequencyHz: 784, Duration: 250 * time.Millisecond}, Count: 3, Gap: 120 * time.Millisecond},
}

func Types() []Type {
	return []Type{Work, Rest, SetRest, Complete, Countdown, RestComplete}
}

func (t Type) Validate() error {
	if _, ok := waveforms[t]; !ok {
		return fmt.Errorf("unknown cue type %q", string(t))
	}
	return nil
}

func WaveformFor(t Type) (Waveform, bool) {
	w, ok := waveforms[t]
	return w, ok
}

// Haptic derives the vibration pattern: on, off, on, ... with Count pulses.
func (w Waveform) Haptic() []time.Duration {
	if w.Count <= 0 {
		return nil
	}
	pattern := make([]time.Duration, 0, w.Count*2-1)
	for i := 0; i < w.Count; i++ {
		if i > 0 {
			pattern = append(pattern, w.Gap)
		}
		pattern = append(pattern, w.Duration)
	}
	return pattern
}

// Total is how long the full beep sequence lasts.
func (w Waveform) Total() time.Duration {
	if w.Count <= 0 {
		return 0
	}
	return time.Duration(w.Count)*w.Duration + time.Duration(w.Count-1)*w.Gap
}
