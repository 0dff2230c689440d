// Package monotonic provides saturating counters that only move upward.
package monotonic

// Level is a bounded value that increases until it saturates at its cap.
// The zero value has a cap of zero; construct with NewLevel.
type Level struct {
	value uint32
	cap   uint32
}

// NewLevel returns a level starting at value with the given cap. A starting
// value above the cap is clamped.
func NewLevel(value, cap uint32) Level {
	if value > cap {
		value = cap
	}
	return Level{value: value, cap: cap}
}

// Value returns the current level.
func (l Level) Value() uint32 { return l.value }

// Cap returns the saturation bound.
func (l Level) Cap() uint32 { return l.cap }

// Saturated reports whether the level has reached its cap.
func (l Level) Saturated() bool { return l.value >= l.cap }

// Add returns the level raised by step, clamped at the cap. Levels never
// decrease; there is no subtraction.
func (l Level) Add(step uint32) Level {
	next := l.value + step
	if next < l.value || next > l.cap {
		next = l.cap
	}
	return Level{value: next, cap: l.cap}
}

// Counter is an unbounded count that only increments.
type Counter uint64

// Inc returns the counter advanced by one.
func (c Counter) Inc() Counter { return c + 1 }

// Value returns the current count.
func (c Counter) Value() uint64 { return uint64(c) }
