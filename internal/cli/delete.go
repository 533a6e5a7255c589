package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// deleteForce specifies whether the delete operation should skip the user confirmation prompt.
var deleteForce bool

// deleteCmd represents the command to delete a time entry.
//
// Deletes a specific time entry when provided with an ID. Without an ID, it deletes the most recent entry.
//
// The command performs a confirmation prompt before deletion unless the --force flag is used to bypass it.
// Deleting the entry behind a running timer abandons the timer without recording an end time.
var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a time entry",
	Long: `Delete a time entry. Without an ID, deletes the most recent entry.

Examples:
  workpulse delete                              # Delete most recent entry
  workpulse delete 01ABC123DEF456GHI789JKL0     # Delete specific entry
  workpulse delete --force                      # Skip confirmation`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	var entryID string

	if len(args) == 0 {
		entries := session.Entries()
		if len(entries) == 0 {
			fmt.Println("No entries to delete")
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

	// Show entry details
	fmt.Printf("Entry: %s\n", entry.ID)
	fmt.Printf("  Client: @%s\n", entry.Client)
	fmt.Printf("  Task:   %s\n", entry.Task)
	fmt.Printf("  Date:   %s\n", entry.StartTime.Format("2006-01-02 15:04"))
	fmt.Printf("  Duration: %s\n", formatDuration(time.Duration(entry.DurationAt(time.Now()))*time.Millisecond))
	if entry.IsActive {
		fmt.Println("  This entry has the running timer; deleting it abandons the timer.")
	}
	fmt.Println()

	// Confirm deletion unless --force
	if !deleteForce {
		reader := bufio.NewReader(os.Stdin)
		fmt.Print("Delete this entry? [y/N]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		input = strings.TrimSpace(strings.ToLower(input))
		if input != "y" && input != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := session.DeleteEntry(entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	fmt.Println("Entry deleted")
	return nil
}
