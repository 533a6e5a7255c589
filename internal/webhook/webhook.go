// Package webhook triggers an outbound integration hook with a summary of
// the tracker state. The call is best-effort: one POST, bounded by a
// timeout, no retries.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/workpulse/workpulse/internal/model"
	"github.com/workpulse/workpulse/internal/validate"
)

// Timeout bounds the outbound call so a slow hook never blocks the caller
// indefinitely.
const Timeout = 10 * time.Second

// ActiveSummary describes the running timer in the payload.
type ActiveSummary struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Client    string    `json:"client"`
	StartedAt time.Time `json:"started_at"`
	IsPaused  bool      `json:"is_paused"`
}

// LatestSummary describes the most recently started entry in the payload.
type LatestSummary struct {
	ID         string `json:"id"`
	Task       string `json:"task"`
	Client     string `json:"client"`
	DurationMs int64  `json:"duration_ms"`
}

// Payload is the JSON body sent to the hook.
type Payload struct {
	Timestamp     time.Time      `json:"timestamp"`
	TriggeredFrom string         `json:"triggered_from"`
	ActiveTimer   *ActiveSummary `json:"active_timer"`
	LatestEntry   *LatestSummary `json:"latest_entry"`
	TotalEntries  int            `json:"total_entries"`
}

// BuildPayload summarizes the tracker state. entries must be sorted by start
// time descending, the order the session hands out. All free text passes
// through sanitization before leaving the process.
func BuildPayload(entries []model.TimeEntry, active *model.TimeEntry, origin string, now time.Time) Payload {
	p := Payload{
		Timestamp:     now,
		TriggeredFrom: validate.SanitizeString(origin, validate.MaxTextLen),
		TotalEntries:  len(entries),
	}

	if active != nil {
		p.ActiveTimer = &ActiveSummary{
			ID:        active.ID,
			Task:      validate.SanitizeString(active.Task, validate.MaxTextLen),
			Client:    validate.SanitizeString(active.Client, validate.MaxTextLen),
			StartedAt: active.StartTime,
			IsPaused:  active.IsPaused,
		}
	}

	if len(entries) > 0 {
		latest := entries[0]
		p.LatestEntry = &LatestSummary{
			ID:         latest.ID,
			Task:       validate.SanitizeString(latest.Task, validate.MaxTextLen),
			Client:     validate.SanitizeString(latest.Client, validate.MaxTextLen),
			DurationMs: latest.Duration(),
		}
	}
	return p
}

// Trigger validates the URL and POSTs the payload as JSON. The context plus
// the package timeout bound the call; the result is reported once, with no
// retries.
func Trigger(ctx context.Context, url string, payload Payload, development bool) error {
	if err := validate.WebhookURL(url, development); err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
