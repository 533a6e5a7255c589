package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/export"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a JSON backup file",
	Long: `Import a JSON backup previously created by "workpulse export --format json".

Importing replaces the current entry collection with the file's entries.
A running timer is discarded along with the old collection. Entries the
file got wrong are skipped individually rather than failing the import.

Examples:
  workpulse import backup.json
  cat backup.json | workpulse import -`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importForce, "force", "f", false, "Skip confirmation prompt")
}

func runImport(cmd *cobra.Command, args []string) error {
	filename := args[0]

	var reader io.Reader
	if filename == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(filename)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	result, err := export.ReadJSON(reader)
	if err != nil {
		return err
	}

	if existing := session.Entries(); len(existing) > 0 && !importForce && filename != "-" {
		r := bufio.NewReader(os.Stdin)
		fmt.Printf("Replace %d existing entries with %d imported ones? [y/N]: ",
			len(existing), result.Imported)
		input, err := r.ReadString('\n')
		if err != nil {
			return err
		}
		input = strings.TrimSpace(strings.ToLower(input))
		if input != "y" && input != "yes" {
			fmt.Println("Cancelled")
			return nil
		}
	}

	if err := session.ImportData(result.Entries, result.Settings); err != nil {
		return fmt.Errorf("failed to import data: %w", err)
	}

	fmt.Printf("Imported %d entries (%d skipped)\n", result.Imported, result.Skipped)
	if result.Settings != nil {
		fmt.Println("Settings restored from backup")
	}
	return nil
}
