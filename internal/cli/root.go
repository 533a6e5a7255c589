package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/store"
	"github.com/workpulse/workpulse/internal/tracker"
)

var Version = "dev"

// db and session are initialized once per invocation in PersistentPreRunE
// and shared by every command.
var (
	db      *store.Store
	session *tracker.Session
)

var rootCmd = &cobra.Command{
	Use:   "workpulse",
	Short: "A personal time tracking utility",
	Long: `WorkPulse is a personal time tracker: start, pause, and stop timers
against a client and task, annotate entries with tags and descriptions,
review aggregated statistics, and export your data.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		dir, err := store.DefaultDir()
		if err != nil {
			return fmt.Errorf("failed to locate data directory: %w", err)
		}
		db, err = store.Open(dir)
		if err != nil {
			// Degraded mode: the session still works, it just will not
			// survive this invocation.
			fmt.Fprintf(os.Stderr, "Warning: %v; changes will not be saved\n", err)
		}
		session = tracker.New(db)

		// Idle check: a long-idle running timer gets auto-paused before the
		// command runs, so status and reports never count idle time as work.
		if !skipAutoPause(cmd) {
			if paused, err := session.CheckAutoPause(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			} else if paused {
				fmt.Fprintf(os.Stderr, "Timer auto-paused after %d minutes of inactivity\n",
					session.Settings().AutoPauseMinutes)
			}
			// Running a command is user activity; record it after the idle
			// check so the check measured the gap before this invocation.
			session.Touch()
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

// skipAutoPause reports whether the idle check should be skipped for this
// command. Inspecting state must not mutate it, so status and the settings
// subcommands run without the check.
func skipAutoPause(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "status" || c.Name() == "settings" {
			return true
		}
	}
	return false
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(webhookCmd)
	rootCmd.AddCommand(watchCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("workpulse %s\n", Version)
	},
}

// notifier routes watch-loop notifications to stderr.
type notifier struct{}

func (notifier) Notify(title, body string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, body)
}
