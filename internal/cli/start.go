package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// startCmd initializes the "start" command for beginning a new timer.
//
// This command starts a timer against the specified client, with an optional
// task description and tags.
//
//   - args can include a client name prefixed with "@", one or more tags
//     prefixed with "+", and remaining words form the task.
//   - An omitted client or task falls back to the configured defaults.
//
// If a timer is already running it is stopped and recorded before the new one
// starts, so at most one timer runs at a time.
var startCmd = &cobra.Command{
	Use:   "start [@client] [\"task\"] [+tag1] [+tag2]...",
	Short: "Start a new timer",
	Long: `Start a new timer. A running timer is stopped and recorded first.

Examples:
  workpulse start @acme
  workpulse start @acme "Fixing bugs"
  workpulse start @acme "Fixing bugs" +backend +urgent
  workpulse start "Quick call" --description "Weekly sync with the team"`,
	RunE: runStart,
}

var startDescription string

func init() {
	startCmd.Flags().StringVarP(&startDescription, "description", "d", "", "longer description for the entry")
}

// runStart parses the positional arguments, stops any running timer, and
// starts a new one.
//
// - cmd: The current [cobra.Command] being executed.
// - args: The command-line arguments provided for the "start" operation.
//
// Returns an error only when persisting the new entry fails. If successful,
// details of the started timer are printed to the console, preceded by a note
// about the previously running timer when one was stopped.
func runStart(cmd *cobra.Command, args []string) error {
	client, task, tags := parseStartArgs(args)

	previous := session.ActiveEntry()

	entry, err := session.StartTimer(client, task, startDescription, tags)
	if err != nil {
		return fmt.Errorf("failed to start timer: %w", err)
	}

	if previous != nil {
		fmt.Printf("Stopped previous timer: @%s: %s\n", previous.Client, previous.Task)
	}

	fmt.Printf("Started timer for @%s: %s", entry.Client, entry.Task)
	if len(entry.Tags) > 0 {
		fmt.Printf(" [%s]", formatTags(entry.Tags))
	}
	fmt.Println()

	return nil
}

// parseStartArgs splits the positional arguments into a client name, a task,
// and tags.
//
// Arguments prefixed with "@" name the client (the last one wins), arguments
// prefixed with "+" are tags, and everything else is joined into the task.
// All three may be empty: the session fills in configured defaults for client
// and task.
func parseStartArgs(args []string) (client, task string, tags []string) {
	var words []string
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "@"):
			client = strings.TrimPrefix(arg, "@")
		case strings.HasPrefix(arg, "+"):
			tags = append(tags, strings.TrimPrefix(arg, "+"))
		default:
			words = append(words, arg)
		}
	}
	task = strings.Join(words, " ")
	return client, task, tags
}

// formatTags formats a slice of tags as a single string with each tag prefixed
// by a "+" and separated by a space.
func formatTags(tags []string) string {
	result := make([]string, len(tags))
	for i, t := range tags {
		result[i] = "+" + t
	}
	return strings.Join(result, " ")
}
