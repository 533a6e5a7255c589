package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/export"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export time entries",
	Long: `Export time entries to CSV or a JSON backup file. Without a file
argument the export is written to stdout.

CSV exports include completed entries only. JSON exports are full backups
(all entries plus settings) that "workpulse import" can restore.

Examples:
  workpulse export --format csv entries.csv
  workpulse export --format json backup.json
  workpulse export --format csv > entries.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format (csv, json)")
}

func runExport(cmd *cobra.Command, args []string) error {
	var w io.Writer = os.Stdout
	if len(args) == 1 {
		file, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		defer file.Close()
		w = file
	}

	entries := session.Entries()

	switch exportFormat {
	case "csv":
		if err := export.CSV(w, entries); err != nil {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
	case "json":
		if err := export.WriteJSON(w, entries, session.Settings(), time.Now()); err != nil {
			return fmt.Errorf("failed to export JSON: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", exportFormat)
	}

	if len(args) == 1 {
		fmt.Printf("Exported %d entries to %s\n", len(entries), args[0])
	}
	return nil
}
