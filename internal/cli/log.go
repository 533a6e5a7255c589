package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/model"
	"github.com/workpulse/workpulse/internal/view"
)

var (
	logSearch string
	logLimit  int
	logPage   int
	logFrom   string
	logTo     string
)

var logCmd = &cobra.Command{
	Use:   "log [@client] [+tag]...",
	Short: "Show time entries",
	Long: `Show time entries, optionally filtered by client, tags, free text,
and date range.

Examples:
  workpulse log                      # Last 10 entries
  workpulse log --limit 20           # Last 20 entries
  workpulse log @acme                # Entries for client 'acme'
  workpulse log +backend             # Entries tagged 'backend'
  workpulse log --search "sync"      # Entries mentioning 'sync'
  workpulse log --from 2026-01-01 --to 2026-01-31`,
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logSearch, "search", "s", "", "Match client, task, or description")
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 10, "Number of entries per page")
	logCmd.Flags().IntVarP(&logPage, "page", "p", 1, "Page number")
	logCmd.Flags().StringVar(&logFrom, "from", "", "Start date (YYYY-MM-DD)")
	logCmd.Flags().StringVar(&logTo, "to", "", "End date (YYYY-MM-DD)")
}

func runLog(cmd *cobra.Command, args []string) error {
	criteria := view.Criteria{Search: logSearch}

	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			criteria.Client = strings.TrimPrefix(arg, "@")
		} else if strings.HasPrefix(arg, "+") {
			criteria.Tags = append(criteria.Tags, strings.TrimPrefix(arg, "+"))
		}
	}

	if logFrom != "" {
		t, err := time.Parse("2006-01-02", logFrom)
		if err != nil {
			return fmt.Errorf("invalid --from date (use YYYY-MM-DD): %w", err)
		}
		criteria.From = &t
	}
	if logTo != "" {
		t, err := time.Parse("2006-01-02", logTo)
		if err != nil {
			return fmt.Errorf("invalid --to date (use YYYY-MM-DD): %w", err)
		}
		// Add a day to include the entire 'to' date
		t = t.Add(24 * time.Hour)
		criteria.To = &t
	}

	entries := view.Filter(session.Entries(), criteria)
	if len(entries) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	page, totalPages := view.Paginate(entries, logPage, logLimit)
	printEntriesTable(page)
	if totalPages > 1 {
		fmt.Printf("\nPage %d of %d\n", clampPage(logPage, totalPages), totalPages)
	}
	return nil
}

func clampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

func printEntriesTable(entries []model.TimeEntry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Client", "Task", "Duration", "Tags", "Date"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	now := time.Now()
	for _, e := range entries {
		durationStr := formatDurationShort(time.Duration(e.DurationAt(now)) * time.Millisecond)
		if e.IsActive && e.IsPaused {
			durationStr += "~"
		} else if e.IsActive {
			durationStr += "*"
		}

		task := e.Task
		if len(task) > 30 {
			task = task[:27] + "..."
		}

		table.Append([]string{
			e.ID,
			"@" + e.Client,
			task,
			durationStr,
			formatTags(e.Tags),
			e.StartTime.Format("2006-01-02 15:04"),
		})
	}

	table.Render()
	fmt.Println("\n* = running, ~ = paused")
}
