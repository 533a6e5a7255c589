package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/workpulse/workpulse/internal/timer"
)

// Notifier receives user-facing notifications raised by the watch loops.
// The CLI installs a stderr implementation; tests install a recorder.
type Notifier interface {
	Notify(title, body string)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string) {}

// reminderHour is the local hour after which the daily reminder fires.
const reminderHour = 20

// CheckAutoPause performs one idle check: if auto-pause is enabled and the
// active entry is running and unpaused and no activity signal has arrived
// within the configured threshold, the timer is paused on the user's behalf.
// The pause is back-dated to the last observed activity, so the idle gap is
// excluded from the tracked duration even when the check runs in a later
// process. Returns true when a pause was applied.
func (s *Session) CheckAutoPause() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.activeLocked()
	if !s.settings.AutoPauseEnabled || !ok || entry.IsPaused {
		return false, nil
	}
	threshold := time.Duration(s.settings.AutoPauseMinutes) * time.Minute
	if s.now().Sub(s.lastActivity) < threshold {
		return false, nil
	}

	entry = timer.Pause(entry, s.lastActivity)
	s.entries[entry.ID] = entry
	s.refreshElapsedLocked()
	return true, s.persistEntriesLocked()
}

// Watch runs the session's recurring ticks until ctx is cancelled: a
// one-second tick recomputing the displayed elapsed time and running the
// idle check, and a one-minute tick for the daily reminder. Each tick owns
// its teardown, so cancelling ctx stops both without leaking.
func (s *Session) Watch(ctx context.Context, notifier Notifier) {
	if notifier == nil {
		notifier = NopNotifier{}
	}

	second := time.NewTicker(time.Second)
	defer second.Stop()
	minute := time.NewTicker(time.Minute)
	defer minute.Stop()

	var reminderShown time.Time // day the reminder last fired

	for {
		select {
		case <-ctx.Done():
			return
		case <-second.C:
			s.mu.Lock()
			s.refreshElapsedLocked()
			s.mu.Unlock()

			if paused, _ := s.CheckAutoPause(); paused {
				notifier.Notify("Auto-paused",
					fmt.Sprintf("Timer paused after %d minutes of inactivity",
						s.Settings().AutoPauseMinutes))
			}
		case now := <-minute.C:
			if !s.Settings().DailyReminders {
				continue
			}
			if now.Hour() < reminderHour {
				continue
			}
			if sameDay(reminderShown, now) {
				continue
			}
			reminderShown = now
			notifier.Notify("Daily Reminder",
				"Don't forget to log your time entries for today!")
		}
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
