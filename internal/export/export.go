// Package export serializes the entry collection for external consumption:
// CSV for spreadsheets and a JSON data file for backup and restore. Import
// validates each record independently so one corrupt entry never fails the
// batch.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/workpulse/workpulse/internal/model"
	"github.com/workpulse/workpulse/internal/validate"
)

// FormatDurationHHMMSS renders milliseconds as HH:MM:SS, truncating to whole
// seconds.
func FormatDurationHHMMSS(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	seconds := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// CSV writes completed entries as CSV: one row per entry with Date, Client,
// Task, Description, Start Time, End Time, Duration (HH:MM:SS), and
// comma-joined Tags. In-progress entries are not eligible.
func CSV(w io.Writer, entries []model.TimeEntry) error {
	cw := csv.NewWriter(w)

	header := []string{"Date", "Client", "Task", "Description", "Start Time", "End Time", "Duration", "Tags"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		if !e.Completed() {
			continue
		}
		row := []string{
			e.StartTime.Format("Jan 2, 2006"),
			e.Client,
			e.Task,
			e.Description,
			e.StartTime.Format("15:04:05"),
			e.EndTime.Format("15:04:05"),
			FormatDurationHHMMSS(e.Duration()),
			strings.Join(e.Tags, ", "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// DataFile is the backup file shape: the entry collection plus the settings
// record.
type DataFile struct {
	TimeEntries []model.TimeEntry `json:"timeEntries"`
	Settings    *model.Settings   `json:"settings,omitempty"`
	ExportedAt  time.Time         `json:"exportedAt"`
}

// WriteJSON writes a backup data file.
func WriteJSON(w io.Writer, entries []model.TimeEntry, settings model.Settings, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(DataFile{
		TimeEntries: entries,
		Settings:    &settings,
		ExportedAt:  now,
	})
}

// ImportResult reports how a data-file import went.
type ImportResult struct {
	Entries  []model.TimeEntry
	Settings *model.Settings
	Imported int
	Skipped  int
}

// ReadJSON parses a backup data file. Each entry is validated independently:
// structurally invalid entries are skipped with a warning and counted,
// never aborting the import. An unparseable file is the only hard error.
func ReadJSON(r io.Reader) (*ImportResult, error) {
	var raw struct {
		TimeEntries []json.RawMessage `json:"timeEntries"`
		Settings    *model.Settings   `json:"settings"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid data file: %w", err)
	}

	result := &ImportResult{Settings: raw.Settings}
	for _, rawEntry := range raw.TimeEntries {
		var e model.TimeEntry
		if err := json.Unmarshal(rawEntry, &e); err != nil {
			log.Printf("warning: skipping unreadable entry in data file: %v", err)
			result.Skipped++
			continue
		}
		if err := validate.Entry(e); err != nil {
			log.Printf("warning: skipping invalid entry in data file: %v", err)
			result.Skipped++
			continue
		}
		e.Client = validate.SanitizeString(e.Client, validate.MaxTextLen)
		e.Task = validate.SanitizeString(e.Task, validate.MaxTextLen)
		e.Description = validate.SanitizeString(e.Description, validate.MaxDescriptionLen)
		e.Tags = validate.SanitizeTags(e.Tags)
		result.Entries = append(result.Entries, e)
		result.Imported++
	}
	return result, nil
}
