package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running timer",
	RunE:  runPause,
}

func runPause(cmd *cobra.Command, args []string) error {
	entry, err := session.PauseTimer()
	if err != nil {
		return fmt.Errorf("failed to pause timer: %w", err)
	}
	if entry == nil {
		fmt.Println("No running timer to pause")
		return nil
	}

	fmt.Printf("Paused timer for @%s: %s\n", entry.Client, entry.Task)
	return nil
}
