package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/model"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current timer status",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	entry := session.ActiveEntry()
	if entry == nil {
		fmt.Println("No timer running")
		return nil
	}

	printStatus(entry, session.Elapsed())
	return nil
}

func printStatus(entry *model.TimeEntry, elapsedMs int64) {
	status := "Running"
	if entry.IsPaused {
		status = "Paused"
	}

	fmt.Printf("[%s] @%s: %s", status, entry.Client, entry.Task)
	if len(entry.Tags) > 0 {
		fmt.Printf(" [%s]", formatTags(entry.Tags))
	}
	fmt.Printf("\n")
	if entry.Description != "" {
		fmt.Printf("  %s\n", entry.Description)
	}
	fmt.Printf("  Started: %s\n", entry.StartTime.Format("15:04:05"))
	fmt.Printf("  Elapsed: %s\n", formatDuration(time.Duration(elapsedMs)*time.Millisecond))

	if entry.PausedTime > 0 {
		fmt.Printf("  Paused:  %s\n", formatDuration(time.Duration(entry.PausedTime)*time.Millisecond))
	}
}

// formatDuration renders a duration in whole seconds, truncating the
// fraction so a display never reports more time than was tracked.
func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

func formatDurationShort(d time.Duration) string {
	d = d.Truncate(time.Minute)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute

	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
