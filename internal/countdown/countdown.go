// Package countdown reconciles the server's round timer with a client's
// local clock. Polling clients receive an elapsed-seconds anchor with every
// snapshot and extrapolate between polls on their own wall clock, so a
// skewed device clock cannot stretch or shrink the round.
package countdown

import (
	"sync"
	"time"
)

// DefaultThresholds are the warning marks, in seconds remaining, that fire
// once per round phase.
var DefaultThresholds = []int{120, 60, 30, 0}

// Anchor is one observation of the server timer, taken from a snapshot.
type Anchor struct {
	Round           int
	Phase           string
	DurationSeconds int
	ElapsedSeconds  int
	ReceivedAt      time.Time
}

type Timer struct {
	mu         sync.Mutex
	thresholds []int
	anchor     Anchor
	hasAnchor  bool
	fired      map[int]bool
}

func NewTimer(thresholds ...int) *Timer {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	return &Timer{
		thresholds: thresholds,
		fired:      make(map[int]bool),
	}
}

// Observe re-anchors the timer on fresher server data. A change of round or
// phase resets the one-shot thresholds.
func (t *Timer) Observe(a Anchor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.hasAnchor || a.Round != t.anchor.Round || a.Phase != t.anchor.Phase {
		t.fired = make(map[int]bool)
	}
	t.anchor = a
	t.hasAnchor = true
}

// Remaining extrapolates from the last anchor using the local clock. Before
// the first observation it reports zero.
func (t *Timer) Remaining(now time.Time) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remainingLocked(now)
}

func (t *Timer) remainingLocked(now time.Time) time.Duration {
	if !t.hasAnchor {
		return 0
	}
	elapsed := time.Duration(t.anchor.ElapsedSeconds)*time.Second + now.Sub(t.anchor.ReceivedAt)
	remaining := time.Duration(t.anchor.DurationSeconds)*time.Second - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Tick reports which thresholds have been crossed since the last call. Each
// threshold fires at most once per (round, phase).
func (t *Timer) Tick(now time.Time) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.hasAnchor {
		return nil
	}
	remaining := t.remainingLocked(now)
	var crossed []int
	for _, threshold := range t.thresholds {
		if t.fired[threshold] {
			continue
		}
		if remaining <= time.Duration(threshold)*time.Second {
			t.fired[threshold] = true
			crossed = append(crossed, threshold)
		}
	}
	return crossed
}
