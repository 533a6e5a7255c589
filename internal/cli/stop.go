package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer",
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	entry, err := session.StopTimer()
	if err != nil {
		return fmt.Errorf("failed to stop timer: %w", err)
	}
	if entry == nil {
		fmt.Println("No timer running")
		return nil
	}

	fmt.Printf("Stopped timer for @%s: %s\n", entry.Client, entry.Task)
	fmt.Printf("  Duration: %s\n", formatDuration(time.Duration(entry.Duration())*time.Millisecond))
	if entry.PausedTime > 0 {
		fmt.Printf("  Paused:   %s\n", formatDuration(time.Duration(entry.PausedTime)*time.Millisecond))
	}
	return nil
}
