// Package timer implements the pure transition logic for an in-progress time
// entry: create, pause, resume, stop, and elapsed-time computation. Every
// function takes the current time explicitly so transitions are deterministic
// under test; the tracker session passes time.Now().
package timer

import (
	"time"

	"github.com/workpulse/workpulse/internal/model"
)

// New creates an active, unpaused entry starting at now. The caller is
// responsible for sanitizing the text fields and for stopping any other
// active entry first.
func New(client, task, description string, tags []string, now time.Time) model.TimeEntry {
	return model.TimeEntry{
		ID:          model.NewULID(),
		Client:      client,
		Task:        task,
		StartTime:   now,
		EndTime:     nil,
		PausedTime:  0,
		IsActive:    true,
		IsPaused:    false,
		Description: description,
		Tags:        tags,
	}
}

// Pause marks a running entry paused as of now. Callers guard the
// precondition (active and not already paused); an entry that is already
// paused or inactive is returned unchanged.
func Pause(e model.TimeEntry, now time.Time) model.TimeEntry {
	if !e.IsActive || e.IsPaused {
		return e
	}
	e.IsPaused = true
	t := now
	e.PauseStartTime = &t
	return e
}

// Resume folds the open pause interval into PausedTime and clears the pause
// marker. If PauseStartTime is absent the entry is returned unchanged; that
// state should not occur when the invariants hold.
func Resume(e model.TimeEntry, now time.Time) model.TimeEntry {
	if !e.IsActive || !e.IsPaused || e.PauseStartTime == nil {
		return e
	}
	pauseDuration := now.Sub(*e.PauseStartTime).Milliseconds()
	if pauseDuration > 0 {
		e.PausedTime += pauseDuration
	}
	e.IsPaused = false
	e.PauseStartTime = nil
	return e
}

// Stop completes an active entry at now. Stopping a paused entry first folds
// the open pause interval into PausedTime, so time spent paused right up to
// the stop call is excluded from the recorded duration.
func Stop(e model.TimeEntry, now time.Time) model.TimeEntry {
	if !e.IsActive {
		return e
	}
	if e.IsPaused {
		e = Resume(e, now)
	}
	t := now
	e.EndTime = &t
	e.IsActive = false
	e.IsPaused = false
	e.PauseStartTime = nil
	return e
}

// Elapsed returns the working time in milliseconds since the entry started,
// excluding accumulated paused time, clamped to zero. While the entry is
// paused the value is computed against the pause start instead of now, which
// freezes the displayed figure until resume.
func Elapsed(e model.TimeEntry, now time.Time) int64 {
	at := now
	if e.IsPaused && e.PauseStartTime != nil {
		at = *e.PauseStartTime
	}
	elapsed := at.Sub(e.StartTime).Milliseconds() - e.PausedTime
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
