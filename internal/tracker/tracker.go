// Package tracker orchestrates the timer state machine over the persistent
// store: it owns the entry collection, the single active entry, the settings
// record, and the derived elapsed-time value. Every mutating operation
// writes through to the store before returning.
package tracker

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/workpulse/workpulse/internal/model"
	"github.com/workpulse/workpulse/internal/store"
	"github.com/workpulse/workpulse/internal/timer"
	"github.com/workpulse/workpulse/internal/validate"
)

// EntryUpdate is a partial update merged into an existing entry. Nil fields
// are left unchanged. Updates to the active entry can never complete it: the
// merged result is forced back to in-progress.
type EntryUpdate struct {
	Client      *string
	Task        *string
	Description *string
	Tags        []string
	StartTime   *time.Time
	EndTime     *time.Time
}

// Session holds the tracker state. Entries live in a map keyed by id and the
// active entry is a lookup by id, so there is exactly one copy of each
// logical entry. A mutex guards state because the watch loops run on their
// own goroutines.
type Session struct {
	mu sync.Mutex

	store    *store.Store
	entries  map[string]model.TimeEntry
	activeID string
	settings model.Settings

	elapsed      int64 // last computed elapsed value, milliseconds
	lastActivity time.Time

	now func() time.Time
}

// New restores a session from the store. A corrupt or missing active-entry
// record leaves the session idle; corrupt collection entries have already
// been dropped by the store's load path.
func New(s *store.Store) *Session {
	sess := &Session{
		store:    s,
		entries:  make(map[string]model.TimeEntry),
		settings: s.LoadSettings(),
		now:      time.Now,
	}

	for _, e := range s.LoadEntries() {
		sess.entries[e.ID] = e
	}
	if active := s.LoadActiveEntry(); active != nil {
		// The collection is the source of truth; the active record only
		// identifies which collection entry is live.
		sess.entries[active.ID] = *active
		sess.activeID = active.ID
	}

	// Last activity persists across invocations so the idle check can see
	// gaps that span processes. Absent record means a fresh start.
	if t, ok := s.LoadLastActivity(); ok {
		sess.lastActivity = t
	} else {
		sess.lastActivity = sess.now()
	}
	sess.refreshElapsedLocked()
	return sess
}

// SetClock overrides the session clock. Tests use it to make transitions
// deterministic.
func (s *Session) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// StartTimer begins tracking a new entry. An already-running timer is
// stopped first; that is an implicit transition, not an error. Empty client
// or task fall back to the configured defaults, and all free text is
// sanitized before the entry is created. When neither the argument nor the
// default yields a client and task the start is rejected before any state
// changes, so a running timer survives a failed start.
func (s *Session) StartTimer(client, task, description string, tags []string) (model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if client == "" {
		client = s.settings.DefaultClient
	}
	if task == "" {
		task = s.settings.DefaultTask
	}
	client = validate.SanitizeString(client, validate.MaxTextLen)
	task = validate.SanitizeString(task, validate.MaxTextLen)
	description = validate.SanitizeString(description, validate.MaxDescriptionLen)

	if client == "" {
		return model.TimeEntry{}, fmt.Errorf("client is required (use @client or set defaultClient)")
	}
	if task == "" {
		return model.TimeEntry{}, fmt.Errorf("task is required (name the task or set defaultTask)")
	}

	if s.activeID != "" {
		s.stopLocked()
	}

	entry := timer.New(client, task, description, validate.SanitizeTags(tags), s.now())
	s.entries[entry.ID] = entry
	s.activeID = entry.ID
	s.touchLocked()
	s.refreshElapsedLocked()

	return entry, s.persistEntriesLocked()
}

// StopTimer completes the active entry. With no active entry it is a no-op.
func (s *Session) StopTimer() (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeID == "" {
		return nil, nil
	}
	stopped := s.stopLocked()
	s.refreshElapsedLocked()
	return &stopped, s.persistEntriesLocked()
}

// stopLocked applies the stop transition to the active entry and clears the
// active slot. Callers hold the mutex.
func (s *Session) stopLocked() model.TimeEntry {
	entry := s.entries[s.activeID]
	entry = timer.Stop(entry, s.now())
	s.entries[entry.ID] = entry
	s.activeID = ""
	return entry
}

// PauseTimer pauses the active entry. A missing or already-paused entry
// makes this a no-op; transition-precondition violations are deliberately
// silent.
func (s *Session) PauseTimer() (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.activeLocked()
	if !ok || entry.IsPaused {
		return nil, nil
	}

	entry = timer.Pause(entry, s.now())
	s.entries[entry.ID] = entry
	s.touchLocked()
	s.refreshElapsedLocked()
	return &entry, s.persistEntriesLocked()
}

// ResumeTimer resumes a paused active entry; a no-op otherwise.
func (s *Session) ResumeTimer() (*model.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.activeLocked()
	if !ok || !entry.IsPaused || entry.PauseStartTime == nil {
		return nil, nil
	}

	entry = timer.Resume(entry, s.now())
	s.entries[entry.ID] = entry
	s.touchLocked()
	s.refreshElapsedLocked()
	return &entry, s.persistEntriesLocked()
}

// DeleteEntry removes an entry from the collection. Deleting the active
// entry abandons the timer: the active slot is cleared without recording an
// end time.
func (s *Session) DeleteEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return nil
	}
	delete(s.entries, id)
	if s.activeID == id {
		s.activeID = ""
	}
	s.refreshElapsedLocked()
	return s.persistEntriesLocked()
}

// UpdateEntry merges a partial update into the entry with the given id.
// Free text and tags are sanitized. When the target is the active entry the
// result is forced back to in-progress, so an update can never complete the
// live timer out from under the session.
func (s *Session) UpdateEntry(id string, update EntryUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil
	}

	if update.Client != nil {
		entry.Client = validate.SanitizeString(*update.Client, validate.MaxTextLen)
	}
	if update.Task != nil {
		entry.Task = validate.SanitizeString(*update.Task, validate.MaxTextLen)
	}
	if update.Description != nil {
		entry.Description = validate.SanitizeString(*update.Description, validate.MaxDescriptionLen)
	}
	if update.Tags != nil {
		entry.Tags = validate.SanitizeTags(update.Tags)
	}
	if update.StartTime != nil {
		entry.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		entry.EndTime = update.EndTime
	}

	if s.activeID == id {
		entry.IsActive = true
		entry.EndTime = nil
	}

	s.entries[id] = entry
	s.refreshElapsedLocked()
	return s.persistEntriesLocked()
}

// ClearAllEntries empties the collection and the active slot and purges
// their persisted records. Settings are untouched.
func (s *Session) ClearAllEntries() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]model.TimeEntry)
	s.activeID = ""
	s.elapsed = 0
	s.store.ClearEntries()
}

// ImportData replaces the entry collection with the given entries and,
// when settings is non-nil, adopts the imported settings. Any running timer
// is discarded with the old collection; imported entries are always loaded
// completed-or-idle, never live.
func (s *Session) ImportData(entries []model.TimeEntry, settings *model.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]model.TimeEntry, len(entries))
	for _, e := range entries {
		e.IsActive = false
		e.IsPaused = false
		e.PauseStartTime = nil
		// An inactive entry must carry an end time. A live entry in the
		// backup is closed at its own start, recording zero duration.
		if e.EndTime == nil {
			t := e.StartTime
			e.EndTime = &t
		}
		s.entries[e.ID] = e
	}
	s.activeID = ""
	s.refreshElapsedLocked()

	if settings != nil {
		s.settings = validate.Settings(*settings)
		if err := s.store.SaveSettings(s.settings); err != nil {
			return err
		}
	}
	return s.persistEntriesLocked()
}

// UpdateSettings merges the given record over the current settings,
// validates per-field, and persists immediately.
func (s *Session) UpdateSettings(merge func(*model.Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.settings
	merge(&updated)
	s.settings = validate.Settings(updated)
	return s.store.SaveSettings(s.settings)
}

// ResetSettings restores defaults and persists them.
func (s *Session) ResetSettings() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = model.DefaultSettings()
	return s.store.SaveSettings(s.settings)
}

// Settings returns the current settings record.
func (s *Session) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ActiveEntry returns a copy of the active entry, or nil when idle.
func (s *Session) ActiveEntry() *model.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.activeLocked()
	if !ok {
		return nil
	}
	c := entry.Clone()
	return &c
}

// Entries returns a copy of the collection sorted by start time descending,
// the order every consumer displays.
func (s *Session) Entries() []model.TimeEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]model.TimeEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e.Clone())
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartTime.After(entries[j].StartTime)
	})
	return entries
}

// Entry returns a copy of a single entry by id.
func (s *Session) Entry(id string) (model.TimeEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return model.TimeEntry{}, false
	}
	return entry.Clone(), true
}

// Elapsed returns the most recently computed elapsed value in milliseconds.
// While the active entry is paused the figure stays frozen at its value when
// the pause began.
func (s *Session) Elapsed() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Touch records a user-activity signal. The auto-pause check measures idle
// time from the most recent touch.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
}

// touchLocked advances the idle clock and writes it through, so the next
// process measures idle time from this moment. Callers hold the mutex.
func (s *Session) touchLocked() {
	s.lastActivity = s.now()
	if err := s.store.SaveLastActivity(s.lastActivity); err != nil {
		log.Printf("warning: failed to record activity: %v", err)
	}
}

// persistEntriesLocked writes the collection and the active slot through to
// the store. A quota failure is surfaced; the in-memory state is already
// updated, so the session keeps functioning either way.
func (s *Session) persistEntriesLocked() error {
	entries := make([]model.TimeEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StartTime.Before(entries[j].StartTime)
	})

	if err := s.store.SaveEntries(entries); err != nil {
		return err
	}

	var active *model.TimeEntry
	if entry, ok := s.activeLocked(); ok {
		active = &entry
	}
	return s.store.SaveActiveEntry(active)
}

func (s *Session) activeLocked() (model.TimeEntry, bool) {
	if s.activeID == "" {
		return model.TimeEntry{}, false
	}
	entry, ok := s.entries[s.activeID]
	if !ok {
		// Should not happen; the active id always references the collection.
		log.Printf("warning: active entry %s missing from collection", s.activeID)
		s.activeID = ""
		return model.TimeEntry{}, false
	}
	return entry, ok
}

func (s *Session) refreshElapsedLocked() {
	entry, ok := s.activeLocked()
	if !ok {
		s.elapsed = 0
		return
	}
	s.elapsed = timer.Elapsed(entry, s.now())
}
