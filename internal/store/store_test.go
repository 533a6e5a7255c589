package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workpulse/workpulse/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func completedEntry(client string, start time.Time) model.TimeEntry {
	end := start.Add(time.Hour)
	return model.TimeEntry{
		ID:        model.NewULID(),
		Client:    client,
		Task:      "Design",
		StartTime: start,
		EndTime:   &end,
	}
}

func TestLoadEntriesEmptyStore(t *testing.T) {
	s := openStore(t)
	entries := s.LoadEntries()
	require.NotNil(t, entries)
	require.Empty(t, entries)
}

func TestEntriesRoundTrip(t *testing.T) {
	s := openStore(t)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	saved := []model.TimeEntry{
		completedEntry("Acme", start),
		completedEntry("Globex", start.Add(2*time.Hour)),
	}

	require.NoError(t, s.SaveEntries(saved))

	loaded := s.LoadEntries()
	require.Len(t, loaded, 2)
	require.Equal(t, saved[0].ID, loaded[0].ID)
	require.Equal(t, saved[1].Client, loaded[1].Client)
	require.True(t, saved[0].StartTime.Equal(loaded[0].StartTime))
	require.True(t, saved[0].EndTime.Equal(*loaded[0].EndTime))
}

func TestLoadEntriesDropsCorruptEntry(t *testing.T) {
	s := openStore(t)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	good1 := completedEntry("Acme", start)
	bad := completedEntry("", start.Add(time.Hour)) // empty client fails validation
	good2 := completedEntry("Globex", start.Add(2*time.Hour))

	// Write the collection directly so the invalid entry bypasses the save
	// path's own filtering, simulating a hand-edited or corrupted store.
	data, err := json.Marshal([]model.TimeEntry{good1, bad, good2})
	require.NoError(t, err)
	require.NoError(t, s.setRecord(keyEntries, string(data)))

	loaded := s.LoadEntries()
	require.Len(t, loaded, 2)
	require.Equal(t, good1.ID, loaded[0].ID)
	require.Equal(t, good2.ID, loaded[1].ID)
}

func TestLoadEntriesUnparseableRecord(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.setRecord(keyEntries, "{not json"))
	require.Empty(t, s.LoadEntries())
}

func TestSaveEntriesDropsInvalid(t *testing.T) {
	s := openStore(t)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	good := completedEntry("Acme", start)
	bad := completedEntry("Globex", start)
	bad.PausedTime = -100

	require.NoError(t, s.SaveEntries([]model.TimeEntry{good, bad}))
	require.Len(t, s.LoadEntries(), 1)
}

func TestActiveEntryRoundTrip(t *testing.T) {
	s := openStore(t)
	e := model.TimeEntry{
		ID:        model.NewULID(),
		Client:    "Acme",
		Task:      "Design",
		StartTime: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		IsActive:  true,
	}

	require.NoError(t, s.SaveActiveEntry(&e))
	loaded := s.LoadActiveEntry()
	require.NotNil(t, loaded)
	require.Equal(t, e.ID, loaded.ID)

	require.NoError(t, s.SaveActiveEntry(nil))
	require.Nil(t, s.LoadActiveEntry())
}

func TestLoadActiveEntryClearsStoppedEntry(t *testing.T) {
	s := openStore(t)
	e := completedEntry("Acme", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	data, err := json.Marshal(e)
	require.NoError(t, err)
	require.NoError(t, s.setRecord(keyActive, string(data)))

	require.Nil(t, s.LoadActiveEntry())
	// The bad record is gone, not just ignored.
	_, ok := s.getRecord(keyActive)
	require.False(t, ok)
}

func TestSaveActiveEntryRejectsInvalid(t *testing.T) {
	s := openStore(t)
	e := completedEntry("Acme", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	e.IsActive = true // still has an end time, so not a valid active entry

	require.NoError(t, s.SaveActiveEntry(&e))
	require.Nil(t, s.LoadActiveEntry())
}

func TestSettingsRoundTripAndFallback(t *testing.T) {
	s := openStore(t)

	settings := model.DefaultSettings()
	settings.AutoPauseEnabled = true
	settings.AutoPauseMinutes = 10
	require.NoError(t, s.SaveSettings(settings))

	loaded := s.LoadSettings()
	require.True(t, loaded.AutoPauseEnabled)
	require.Equal(t, 10, loaded.AutoPauseMinutes)

	// Corrupt record falls back to defaults wholesale.
	require.NoError(t, s.setRecord(keySettings, "oops"))
	require.Equal(t, model.DefaultSettings(), s.LoadSettings())

	// A readable record with one bad field falls back per-field.
	require.NoError(t, s.setRecord(keySettings, `{"theme":"neon","autoPauseMinutes":15}`))
	loaded = s.LoadSettings()
	require.Equal(t, "system", loaded.Theme)
	require.Equal(t, 15, loaded.AutoPauseMinutes)
}

func TestClearEntriesKeepsSettings(t *testing.T) {
	s := openStore(t)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveEntries([]model.TimeEntry{completedEntry("Acme", start)}))
	settings := model.DefaultSettings()
	settings.CompactView = true
	require.NoError(t, s.SaveSettings(settings))

	s.ClearEntries()

	require.Empty(t, s.LoadEntries())
	require.Nil(t, s.LoadActiveEntry())
	require.True(t, s.LoadSettings().CompactView)
}

func TestVersionMarker(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, currentVersion, s.Version())
	s.Close()

	// Reopening preserves the marker.
	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, currentVersion, s.Version())
}

func TestDegradedStore(t *testing.T) {
	s := &Store{}
	require.False(t, s.Available())

	// Reads degrade to defaults, writes are skipped without error.
	require.Empty(t, s.LoadEntries())
	require.Nil(t, s.LoadActiveEntry())
	require.Equal(t, model.DefaultSettings(), s.LoadSettings())
	require.NoError(t, s.SaveEntries([]model.TimeEntry{completedEntry("Acme", time.Now())}))
	require.NoError(t, s.SaveSettings(model.DefaultSettings()))
}

func TestLastActivityRoundTrip(t *testing.T) {
	s := openStore(t)

	_, ok := s.LoadLastActivity()
	require.False(t, ok)

	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveLastActivity(at))

	loaded, ok := s.LoadLastActivity()
	require.True(t, ok)
	require.True(t, loaded.Equal(at))
}

func TestLoadLastActivityClearsCorruptRecord(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.setRecord(keyActivity, "not-a-timestamp"))

	_, ok := s.LoadLastActivity()
	require.False(t, ok)

	// The bad record was purged, not left to fail every load.
	_, found := s.getRecord(keyActivity)
	require.False(t, found)
}
