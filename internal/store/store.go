// Package store provides durable key-value persistence for the three
// independent records the tracker owns: the entry collection, the
// active-entry slot, and settings, plus a storage-format version marker.
//
// Load operations never fail: on any availability, parse, or validation
// problem they log and return a safe empty or default value, dropping
// individually corrupt entries rather than invalidating the whole
// collection. Save operations validate before writing and perform one atomic
// write per key.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/workpulse/workpulse/internal/model"
	"github.com/workpulse/workpulse/internal/validate"
)

// Storage keys. Each record has an independent lifecycle: clearing entries
// leaves settings untouched.
const (
	keyEntries  = "workpulse-time-entries"
	keyActive   = "workpulse-active-entry"
	keySettings = "workpulse-settings"
	keyVersion  = "workpulse-storage-version"
	keyActivity = "workpulse-last-activity"
)

// currentVersion is the storage-format version written by this build.
const currentVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS records (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

var (
	// ErrQuotaExceeded reports that a write failed because the backing
	// storage is full. It is surfaced to the caller so the UI can tell the
	// user their data was not saved.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnavailable reports that the backing storage could not be opened.
	ErrUnavailable = errors.New("storage unavailable")
)

// DefaultDir returns the default data directory (~/.workpulse), honoring the
// WORKPULSE_DATA_DIR override.
func DefaultDir() (string, error) {
	if dir := os.Getenv("WORKPULSE_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".workpulse"), nil
}

// Store is the persistent adapter. A Store whose backing database failed to
// open keeps working in degraded mode: loads return defaults and saves are
// skipped, so the session continues with in-memory state only.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database under dir and initializes the
// storage-format version marker, running the migration hook when the stored
// version is older than the current one. Open never fails hard: if the
// storage cannot be used the returned store is degraded and err describes
// why.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Store{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "workpulse.db"))
	if err != nil {
		return &Store{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return &Store{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s := &Store{db: db}
	s.initVersion()
	return s, nil
}

// Available reports whether the backing storage is usable.
func (s *Store) Available() bool {
	return s.db != nil
}

// Close releases the backing database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// initVersion reads the version marker, writing the current version when
// absent and running migrations when the stored version is older.
func (s *Store) initVersion() {
	raw, ok := s.getRecord(keyVersion)
	if !ok {
		if err := s.setRecord(keyVersion, strconv.Itoa(currentVersion)); err != nil {
			log.Printf("warning: failed to write storage version: %v", err)
		}
		return
	}
	version, err := strconv.Atoi(raw)
	if err != nil || version < currentVersion {
		s.migrate(version)
		if err := s.setRecord(keyVersion, strconv.Itoa(currentVersion)); err != nil {
			log.Printf("warning: failed to update storage version: %v", err)
		}
	}
}

// migrate transforms stored record shapes from an older format version.
// Version 1 is the first format, so there is nothing to transform yet;
// future versions hook in here.
func (s *Store) migrate(from int) {
	_ = from
}

// Version returns the stored format version, or the current version when the
// marker is unreadable.
func (s *Store) Version() int {
	raw, ok := s.getRecord(keyVersion)
	if !ok {
		return currentVersion
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return currentVersion
	}
	return version
}

// LoadEntries returns the stored entry collection. Each entry is validated
// independently; a corrupt element is dropped with a warning and the rest of
// the collection survives. Never returns an error: availability and parse
// failures degrade to an empty collection.
func (s *Store) LoadEntries() []model.TimeEntry {
	raw, ok := s.getRecord(keyEntries)
	if !ok {
		return []model.TimeEntry{}
	}

	var rawEntries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rawEntries); err != nil {
		log.Printf("warning: invalid time entries record, resetting to empty: %v", err)
		return []model.TimeEntry{}
	}

	entries := make([]model.TimeEntry, 0, len(rawEntries))
	for _, rawEntry := range rawEntries {
		var e model.TimeEntry
		if err := json.Unmarshal(rawEntry, &e); err != nil {
			log.Printf("warning: skipping unreadable time entry: %v", err)
			continue
		}
		if err := validate.Entry(e); err != nil {
			log.Printf("warning: skipping invalid time entry %s: %v", e.ID, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// SaveEntries writes the entry collection under its key. Individual invalid
// entries are dropped with a warning instead of failing the whole save. A
// full backing store surfaces ErrQuotaExceeded; an unavailable store skips
// the write silently.
func (s *Store) SaveEntries(entries []model.TimeEntry) error {
	valid := make([]model.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if err := validate.Entry(e); err != nil {
			log.Printf("warning: dropping invalid time entry %s on save: %v", e.ID, err)
			continue
		}
		valid = append(valid, e)
	}

	data, err := json.Marshal(valid)
	if err != nil {
		return fmt.Errorf("failed to encode time entries: %w", err)
	}
	return s.setRecord(keyEntries, string(data))
}

// LoadActiveEntry returns the stored active entry, or nil when the slot is
// empty. A stored entry that is not a valid in-progress entry is cleared
// rather than returned.
func (s *Store) LoadActiveEntry() *model.TimeEntry {
	raw, ok := s.getRecord(keyActive)
	if !ok {
		return nil
	}

	var e model.TimeEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		log.Printf("warning: invalid active entry record, clearing: %v", err)
		s.deleteRecord(keyActive)
		return nil
	}
	if err := validate.ActiveEntry(e); err != nil {
		log.Printf("warning: stored active entry is not active, clearing: %v", err)
		s.deleteRecord(keyActive)
		return nil
	}
	return &e
}

// SaveActiveEntry writes the active-entry slot; a nil entry clears it. An
// entry that fails validation aborts the write and clears the slot so the
// store never holds invalid data.
func (s *Store) SaveActiveEntry(e *model.TimeEntry) error {
	if e == nil {
		s.deleteRecord(keyActive)
		return nil
	}
	if err := validate.ActiveEntry(*e); err != nil {
		log.Printf("warning: not saving invalid active entry: %v", err)
		s.deleteRecord(keyActive)
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode active entry: %w", err)
	}
	return s.setRecord(keyActive, string(data))
}

// LoadSettings returns the stored settings merged with defaults. Missing or
// invalid fields fall back individually; an unreadable record falls back
// wholesale.
func (s *Store) LoadSettings() model.Settings {
	raw, ok := s.getRecord(keySettings)
	if !ok {
		return model.DefaultSettings()
	}

	settings := model.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		log.Printf("warning: invalid settings record, using defaults: %v", err)
		return model.DefaultSettings()
	}
	return validate.Settings(settings)
}

// SaveSettings validates and writes the settings record.
func (s *Store) SaveSettings(settings model.Settings) error {
	data, err := json.Marshal(validate.Settings(settings))
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return s.setRecord(keySettings, string(data))
}

// LoadLastActivity returns the recorded last user-activity time. Sessions
// are short-lived processes; persisting the idle clock is what lets the
// auto-pause check observe gaps that span invocations.
func (s *Store) LoadLastActivity() (time.Time, bool) {
	raw, ok := s.getRecord(keyActivity)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		log.Printf("warning: invalid last-activity record, clearing: %v", err)
		s.deleteRecord(keyActivity)
		return time.Time{}, false
	}
	return t, true
}

// SaveLastActivity writes the last user-activity time.
func (s *Store) SaveLastActivity(t time.Time) error {
	return s.setRecord(keyActivity, t.Format(time.RFC3339Nano))
}

// ClearEntries purges the entry collection and the active-entry slot.
// Settings are untouched.
func (s *Store) ClearEntries() {
	s.deleteRecord(keyEntries)
	s.deleteRecord(keyActive)
}

// Clear purges every stored record, including settings and the version
// marker.
func (s *Store) Clear() {
	s.deleteRecord(keyEntries)
	s.deleteRecord(keyActive)
	s.deleteRecord(keySettings)
	s.deleteRecord(keyVersion)
	s.deleteRecord(keyActivity)
}

func (s *Store) getRecord(key string) (string, bool) {
	if s.db == nil {
		return "", false
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		log.Printf("warning: failed to read record %s: %v", key, err)
		return "", false
	}
	return value, true
}

// setRecord performs the single atomic write for one key.
func (s *Store) setRecord(key, value string) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec("INSERT OR REPLACE INTO records (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		if isQuotaError(err) {
			return fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *Store) deleteRecord(key string) {
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec("DELETE FROM records WHERE key = ?", key); err != nil {
		log.Printf("warning: failed to delete record %s: %v", key, err)
	}
}

// isQuotaError recognizes SQLite's disk-full conditions.
func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "disk I/O error")
}
