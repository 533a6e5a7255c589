package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/tracker"
)

var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a time entry",
	Long: `Edit a time entry in your editor. Without an ID, edits the most recent entry.

Examples:
  workpulse edit                            # Edit most recent entry
  workpulse edit 01ABC123DEF456GHI789JKL0   # Edit specific entry

Opens the entry as JSON in $EDITOR (defaults to vim).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

// editableEntry is the JSON structure for editing
type editableEntry struct {
	ID          string   `json:"id"`
	Client      string   `json:"client"`
	Task        string   `json:"task"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time,omitempty"`
}

func runEdit(cmd *cobra.Command, args []string) error {
	var entryID string

	if len(args) == 0 {
		entries := session.Entries()
		if len(entries) == 0 {
			fmt.Println("No entries to edit")
			return nil
		}
		entryID = entries[0].ID
	} else {
		entryID = args[0]
	}

	entry, ok := session.Entry(entryID)
	if !ok {
		return fmt.Errorf("entry not found: %s", entryID)
	}

	editable := editableEntry{
		ID:          entry.ID,
		Client:      entry.Client,
		Task:        entry.Task,
		Description: entry.Description,
		Tags:        entry.Tags,
		StartTime:   entry.StartTime.Format("2006-01-02 15:04:05"),
	}
	if entry.EndTime != nil {
		editable.EndTime = entry.EndTime.Format("2006-01-02 15:04:05")
	}

	// Write to temp file
	tmpfile, err := os.CreateTemp("", "workpulse-edit-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	encoder := json.NewEncoder(tmpfile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(editable); err != nil {
		tmpfile.Close()
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	tmpfile.Close()

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	editCmd := exec.Command(editor, tmpPath)
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr

	if err := editCmd.Run(); err != nil {
		return fmt.Errorf("editor failed: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to read temp file: %w", err)
	}

	var updated editableEntry
	if err := json.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	startTime, err := time.ParseInLocation("2006-01-02 15:04:05", updated.StartTime, time.Local)
	if err != nil {
		return fmt.Errorf("invalid start_time format: %w", err)
	}

	var endTime *time.Time
	if updated.EndTime != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", updated.EndTime, time.Local)
		if err != nil {
			return fmt.Errorf("invalid end_time format: %w", err)
		}
		endTime = &t
	}

	if endTime != nil && endTime.Before(startTime) {
		return fmt.Errorf("end_time cannot be before start_time")
	}

	update := tracker.EntryUpdate{
		Client:      &updated.Client,
		Task:        &updated.Task,
		Description: &updated.Description,
		Tags:        updated.Tags,
		StartTime:   &startTime,
		EndTime:     endTime,
	}
	if update.Tags == nil {
		update.Tags = []string{}
	}

	if err := session.UpdateEntry(entryID, update); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	fmt.Println("Entry updated successfully")
	return nil
}
