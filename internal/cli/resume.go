package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused timer",
	RunE:  runResume,
}

func runResume(cmd *cobra.Command, args []string) error {
	entry, err := session.ResumeTimer()
	if err != nil {
		return fmt.Errorf("failed to resume timer: %w", err)
	}
	if entry == nil {
		fmt.Println("No paused timer to resume")
		return nil
	}

	fmt.Printf("Resumed timer for @%s: %s\n", entry.Client, entry.Task)
	return nil
}
