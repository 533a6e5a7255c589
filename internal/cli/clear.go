package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all time entries",
	Long: `Delete every time entry, including the running timer. Settings are kept.

Examples:
  workpulse clear
  workpulse clear --force     # Skip confirmation`,
	RunE: runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	entries := session.Entries()
	if len(entries) == 0 {
		fmt.Println("No entries to clear")
		return nil
	}

	if !clearForce {
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Delete all %d entries? [y/N]: ", len(entries))
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

	session.ClearAllEntries()
	fmt.Printf("Deleted %d entries\n", len(entries))
	return nil
}
