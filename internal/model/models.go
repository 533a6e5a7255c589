package model

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID
func NewULID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// TimeEntry is a completed or in-progress unit of tracked work.
//
// The JSON field names match the stored record format, so entries round-trip
// through the store and through data-file exports without translation.
// PausedTime is cumulative milliseconds spent paused. PauseStartTime is set
// only while the entry is paused and cleared on resume.
type TimeEntry struct {
	ID             string     `json:"id"`
	Client         string     `json:"client"`
	Task           string     `json:"task"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
	PausedTime     int64      `json:"pausedTime"`
	IsActive       bool       `json:"isActive"`
	IsPaused       bool       `json:"isPaused"`
	Description    string     `json:"description,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	PauseStartTime *time.Time `json:"pauseStartTime,omitempty"`
}

// Completed reports whether the entry has been stopped.
func (e *TimeEntry) Completed() bool {
	return e.EndTime != nil
}

// Duration returns the tracked working duration in milliseconds for a
// completed entry: the start-to-end span minus accumulated paused time,
// clamped to zero. In-progress entries report 0; use DurationAt for a live
// figure.
func (e *TimeEntry) Duration() int64 {
	if e.EndTime == nil {
		return 0
	}
	raw := e.EndTime.Sub(e.StartTime).Milliseconds() - e.PausedTime
	if raw < 0 {
		return 0
	}
	return raw
}

// DurationAt returns the tracked working duration in milliseconds as of now,
// using now as the end point for in-progress entries.
func (e *TimeEntry) DurationAt(now time.Time) int64 {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	raw := end.Sub(e.StartTime).Milliseconds() - e.PausedTime
	if raw < 0 {
		return 0
	}
	return raw
}

// Clone returns a deep copy of the entry. Tags and the time pointers are
// copied so callers can mutate the result without aliasing stored state.
func (e *TimeEntry) Clone() TimeEntry {
	c := *e
	if e.EndTime != nil {
		t := *e.EndTime
		c.EndTime = &t
	}
	if e.PauseStartTime != nil {
		t := *e.PauseStartTime
		c.PauseStartTime = &t
	}
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	return c
}

// Settings is the flat configuration record. Every field has a default and
// partial updates merge over the current record; see DefaultSettings.
type Settings struct {
	// Timer settings
	IdleTimeout      int    `json:"idleTimeout"`
	RoundTimeEntries bool   `json:"roundTimeEntries"`
	AutoStop         bool   `json:"autoStop"`
	AutoStopMinutes  int    `json:"autoStopMinutes"`
	AutoContinue     bool   `json:"autoContinue"`
	DefaultClient    string `json:"defaultClient"`
	DefaultTask      string `json:"defaultTask"`

	// Display settings
	Hour12           bool   `json:"hour12"`
	DateFormat       string `json:"dateFormat"`
	ShowSeconds      bool   `json:"showSeconds"`
	CompactView      bool   `json:"compactView"`
	ShowDescriptions bool   `json:"showDescriptions"`
	Theme            string `json:"theme"`
	WeekStart        string `json:"weekStart"`

	// Notification settings
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	AutoPauseEnabled     bool   `json:"autoPauseEnabled"`
	AutoPauseMinutes     int    `json:"autoPauseMinutes"`
	DailyReminders       bool   `json:"dailyReminders"`
	IdleReminders        bool   `json:"idleReminders"`
	TimerAlerts          bool   `json:"timerAlerts"`
	DailySummary         bool   `json:"dailySummary"`
	NotificationSound    string `json:"notificationSound"`

	// Data settings
	AutoSave        bool   `json:"autoSave"`
	BackupFrequency string `json:"backupFrequency"`
	AutoArchive     bool   `json:"autoArchive"`
	ArchivePeriod   string `json:"archivePeriod"`
}

// DefaultSettings returns the settings record used when nothing is stored or
// when a stored field fails validation.
func DefaultSettings() Settings {
	return Settings{
		IdleTimeout:      30,
		RoundTimeEntries: false,
		AutoStop:         false,
		AutoStopMinutes:  60,
		AutoContinue:     false,
		DefaultClient:    "",
		DefaultTask:      "",

		Hour12:           true,
		DateFormat:       "MM/DD/YYYY",
		ShowSeconds:      true,
		CompactView:      false,
		ShowDescriptions: true,
		Theme:            "system",
		WeekStart:        "sunday",

		NotificationsEnabled: false,
		AutoPauseEnabled:     false,
		AutoPauseMinutes:     25,
		DailyReminders:       true,
		IdleReminders:        true,
		TimerAlerts:          true,
		DailySummary:         false,
		NotificationSound:    "default",

		AutoSave:        true,
		BackupFrequency: "daily",
		AutoArchive:     false,
		ArchivePeriod:   "3months",
	}
}
