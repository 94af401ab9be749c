package core

import "time"

// TimerState is the shared countdown. The server never ticks it; the
// remaining value is re-derived from wall clock time on every read, and
// each control transition re-anchors LastUpdatedAt.
type TimerState struct {
	Duration      int64     `json:"duration" bson:"duration"`   // seconds
	Remaining     int64     `json:"remaining" bson:"remaining"` // seconds, as of LastUpdatedAt
	IsRunning     bool      `json:"isRunning" bson:"isRunning"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt" bson:"lastUpdatedAt"`
}

// Start begins or resumes the countdown. A positive duration resets both
// Duration and Remaining before running; duration <= 0 resumes from the
// current Remaining without touching Duration. Valid from any state.
func (t *TimerState) Start(duration int64, now time.Time) {
	if duration > 0 {
		t.Duration = duration
		t.Remaining = duration
	}
	t.IsRunning = true
	t.LastUpdatedAt = now
}

// Pause folds the elapsed wall time into Remaining and stops the
// countdown. A no-op unless running.
func (t *TimerState) Pause(now time.Time) {
	if !t.IsRunning {
		return
	}
	elapsed := int64(now.Sub(t.LastUpdatedAt).Seconds())
	t.Remaining -= elapsed
	if t.Remaining < 0 {
		t.Remaining = 0
	}
	t.IsRunning = false
	t.LastUpdatedAt = now
}

// Reset restores Remaining to the configured Duration and stops the
// countdown. Valid from any state.
func (t *TimerState) Reset(now time.Time) {
	t.Remaining = t.Duration
	t.IsRunning = false
	t.LastUpdatedAt = now
}

// Effective returns the countdown value observers should see at now.
// Never stored back: the anchored Remaining/LastUpdatedAt pair stays
// authoritative until the next control transition.
func (t TimerState) Effective(now time.Time) int64 {
	if !t.IsRunning {
		return t.Remaining
	}
	remaining := t.Remaining - int64(now.Sub(t.LastUpdatedAt).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
