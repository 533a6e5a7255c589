package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/view"
)

var reportCmd = &cobra.Command{
	Use:   "report [period] [@client] [+tag]...",
	Short: "Generate time reports",
	Long: `Generate time reports for various periods.

Periods:
  today, yesterday, week, lastWeek, month, lastMonth, year

Examples:
  workpulse report                  # Interactive menu
  workpulse report today            # Today's report with focus metrics
  workpulse report week @acme       # This week's report for client 'acme'
  workpulse report month +backend   # This month's report, 'backend' tag only`,
	RunE: runReport,
}

func runReport(cmd *cobra.Command, args []string) error {
	var period view.Period
	criteria := view.Criteria{}

	for _, arg := range args {
		if strings.HasPrefix(arg, "@") {
			criteria.Client = strings.TrimPrefix(arg, "@")
		} else if strings.HasPrefix(arg, "+") {
			criteria.Tags = append(criteria.Tags, strings.TrimPrefix(arg, "+"))
		} else {
			period = view.Period(arg)
		}
	}

	if period == "" {
		p, err := selectPeriod()
		if err != nil {
			return err
		}
		period = p
	}

	validPeriod := false
	for _, p := range view.AllPeriods {
		if period == p {
			validPeriod = true
			break
		}
	}
	if !validPeriod {
		return fmt.Errorf("invalid period: %s\nValid periods: %v", period, view.AllPeriods)
	}

	now := time.Now()
	start, end := view.PeriodRange(period, now)
	criteria.From = &start
	criteria.To = &end
	entries := view.Filter(session.Entries(), criteria)

	fmt.Printf("\nReport: %s\n", period)
	fmt.Printf("Period: %s to %s\n",
		start.Format("2006-01-02"),
		end.Add(-1).Format("2006-01-02"))

	var total int64
	for _, e := range entries {
		if e.Completed() {
			total += e.Duration()
		}
	}
	fmt.Printf("Total: %s\n\n", formatDuration(time.Duration(total)*time.Millisecond))

	printTotals("By Client:", "@", view.ClientTotals(entries, start, end))
	printTotals("By Tag:", "+", view.TagTotals(entries, start, end))

	if period == view.PeriodToday {
		printFocus(view.Focus(entries, now))
	}

	printChart(view.Chart(entries, period, now))
	return nil
}

func selectPeriod() (view.Period, error) {
	fmt.Println("Select a report period:")
	fmt.Println()
	for i, p := range view.AllPeriods {
		fmt.Printf("  %d. %s\n", i+1, p)
	}
	fmt.Println()
	fmt.Printf("Enter number (1-%d): ", len(view.AllPeriods))

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}

	input = strings.TrimSpace(input)
	var choice int
	if _, err := fmt.Sscanf(input, "%d", &choice); err != nil {
		return "", fmt.Errorf("invalid selection")
	}

	if choice < 1 || choice > len(view.AllPeriods) {
		return "", fmt.Errorf("invalid selection: choose 1-%d", len(view.AllPeriods))
	}

	return view.AllPeriods[choice-1], nil
}

func printTotals(heading, prefix string, totals map[string]int64) {
	if len(totals) == 0 {
		return
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println(heading)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetTablePadding("  ")

	for _, name := range names {
		table.Append([]string{
			"  " + prefix + name,
			formatDurationShort(time.Duration(totals[name]) * time.Millisecond),
		})
	}
	table.Render()
	fmt.Println()
}

func printFocus(m view.FocusMetrics) {
	if m.Sessions == 0 {
		return
	}

	fmt.Println("Focus:")
	fmt.Printf("  Score:         %d/100\n", m.Score)
	fmt.Printf("  Sessions:      %d\n", m.Sessions)
	fmt.Printf("  Avg session:   %s\n", formatDurationShort(time.Duration(m.AvgSession)*time.Millisecond))
	fmt.Printf("  Longest:       %s\n", formatDurationShort(time.Duration(m.LongestSession)*time.Millisecond))
	fmt.Printf("  Uninterrupted: %d%%\n", m.UninterruptedPct)
	fmt.Println()
}

// printChart renders each bucket as a bar scaled against the busiest bucket.
func printChart(points []view.ChartPoint) {
	var max int64
	for _, p := range points {
		if p.Value > max {
			max = p.Value
		}
	}
	if max == 0 {
		return
	}

	const barWidth = 40
	fmt.Println("Chart:")
	for _, p := range points {
		n := int(p.Value * barWidth / max)
		fmt.Printf("  %-7s %s %s\n",
			p.Label,
			strings.Repeat("█", n),
			formatDurationShort(time.Duration(p.Value)*time.Millisecond))
	}
}
