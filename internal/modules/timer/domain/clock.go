package domain

import "time"

// Elapsed is whole seconds since start, recomputed from absolute instants so
// missed ticks never drift. A clock that jumps backwards reads as zero.
func Elapsed(start, now time.Time) int {
	if start.IsZero() || now.Before(start) {
		return 0
	}
	return int(now.Sub(start) / time.Second)
}
