package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/workpulse/workpulse/internal/webhook"
)

var webhookDev bool

var webhookCmd = &cobra.Command{
	Use:   "webhook <url>",
	Short: "Send a tracking snapshot to a webhook",
	Long: `Send a snapshot of the current tracking state to a webhook URL as a
JSON POST. The payload carries the running timer (if any), the latest
completed entry, and the total entry count.

Only known webhook hosts are accepted (Zapier, webhook.site, requestbin);
use --dev to allow any URL while testing locally.

Examples:
  workpulse webhook https://hooks.zapier.com/hooks/catch/123/abc
  workpulse webhook --dev http://localhost:8080/hook`,
	Args: cobra.ExactArgs(1),
	RunE: runWebhook,
}

func init() {
	webhookCmd.Flags().BoolVar(&webhookDev, "dev", false, "Allow any webhook URL")
}

func runWebhook(cmd *cobra.Command, args []string) error {
	url := args[0]

	payload := webhook.BuildPayload(session.Entries(), session.ActiveEntry(), "cli", time.Now())

	ctx, cancel := context.WithTimeout(context.Background(), webhook.Timeout)
	defer cancel()

	if err := webhook.Trigger(ctx, url, payload, webhookDev); err != nil {
		return fmt.Errorf("webhook failed: %w", err)
	}

	fmt.Printf("Webhook sent (%d entries", payload.TotalEntries)
	if payload.ActiveTimer != nil {
		fmt.Printf(", timer running")
	}
	fmt.Println(")")
	return nil
}
