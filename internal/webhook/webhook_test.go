package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workpulse/workpulse/internal/model"
)

func TestBuildPayload(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	entries := []model.TimeEntry{
		{ID: "latest", Client: " Acme\x00 ", Task: "Design", StartTime: start.Add(2 * time.Hour), EndTime: nil, IsActive: true},
		{ID: "older", Client: "Globex", Task: "Review", StartTime: start, EndTime: &end},
	}
	active := &entries[0]

	p := BuildPayload(entries, active, "workpulse-cli", start.Add(3*time.Hour))

	require.Equal(t, 2, p.TotalEntries)
	require.NotNil(t, p.ActiveTimer)
	require.Equal(t, "latest", p.ActiveTimer.ID)
	require.Equal(t, "Acme", p.ActiveTimer.Client) // sanitized
	require.NotNil(t, p.LatestEntry)
	require.Equal(t, "latest", p.LatestEntry.ID)
	require.EqualValues(t, 0, p.LatestEntry.DurationMs) // in progress
}

func TestBuildPayloadIdle(t *testing.T) {
	p := BuildPayload(nil, nil, "workpulse-cli", time.Now())
	require.Nil(t, p.ActiveTimer)
	require.Nil(t, p.LatestEntry)
	require.Equal(t, 0, p.TotalEntries)
}

func TestTriggerPostsJSON(t *testing.T) {
	var received Payload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p := BuildPayload(nil, nil, "workpulse-cli", time.Now())
	// Development mode skips the provider allow-list so the test server is
	// reachable.
	require.NoError(t, Trigger(context.Background(), srv.URL, p, true))
	require.Equal(t, "application/json", contentType)
	require.Equal(t, "workpulse-cli", received.TriggeredFrom)
}

func TestTriggerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := BuildPayload(nil, nil, "workpulse-cli", time.Now())
	require.Error(t, Trigger(context.Background(), srv.URL, p, true))
}

func TestTriggerRejectsUntrustedURL(t *testing.T) {
	p := BuildPayload(nil, nil, "workpulse-cli", time.Now())
	err := Trigger(context.Background(), "https://evil.example.com/hook", p, false)
	require.Error(t, err)
}
