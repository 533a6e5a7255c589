package view

import (
	"testing"
	"time"

	"github.com/workpulse/workpulse/internal/model"
)

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

// entry builds a completed entry of the given working duration starting at
// day+offset, with paused time already folded in.
func entry(client, task string, offset, working time.Duration, pausedMs int64, tags ...string) model.TimeEntry {
	start := day.Add(offset)
	end := start.Add(working + time.Duration(pausedMs)*time.Millisecond)
	return model.TimeEntry{
		ID:         model.NewULID(),
		Client:     client,
		Task:       task,
		StartTime:  start,
		EndTime:    &end,
		PausedTime: pausedMs,
		Tags:       tags,
	}
}

func TestFilterSearch(t *testing.T) {
	entries := []model.TimeEntry{
		entry("Acme", "Design review", 9*time.Hour, time.Hour, 0),
		entry("Globex", "Billing", 10*time.Hour, time.Hour, 0),
	}

	got := Filter(entries, Criteria{Search: "design"})
	if len(got) != 1 || got[0].Client != "Acme" {
		t.Fatalf("Filter(search=design) = %d entries, want the Acme one", len(got))
	}

	if got := Filter(entries, Criteria{Search: "GLOBEX"}); len(got) != 1 {
		t.Errorf("search should be case-insensitive, got %d entries", len(got))
	}
}

func TestFilterTagsSanitized(t *testing.T) {
	entries := []model.TimeEntry{
		entry("Acme", "Design", 9*time.Hour, time.Hour, 0, "deep-work"),
		entry("Acme", "Email", 11*time.Hour, time.Hour, 0, "admin"),
	}

	// Raw user input matches after normalization.
	got := Filter(entries, Criteria{Tags: []string{"  Deep Work!! "}})
	if len(got) != 1 || got[0].Task != "Design" {
		t.Fatalf("tag filter should normalize before matching, got %d entries", len(got))
	}
}

func TestFilterDateRangeAndSort(t *testing.T) {
	entries := []model.TimeEntry{
		entry("Acme", "Old", -48*time.Hour, time.Hour, 0),
		entry("Acme", "A", 9*time.Hour, time.Hour, 0),
		entry("Acme", "B", 14*time.Hour, time.Hour, 0),
	}

	from := day
	got := Filter(entries, Criteria{From: &from})
	if len(got) != 2 {
		t.Fatalf("Filter(from) = %d entries, want 2", len(got))
	}
	// Sorted by start time descending.
	if got[0].Task != "B" || got[1].Task != "A" {
		t.Errorf("order = [%s %s], want [B A]", got[0].Task, got[1].Task)
	}
}

func TestPaginate(t *testing.T) {
	var entries []model.TimeEntry
	for i := 0; i < 25; i++ {
		entries = append(entries, entry("Acme", "T", time.Duration(i)*time.Minute, time.Minute, 0))
	}

	page, total := Paginate(entries, 1, 10)
	if len(page) != 10 || total != 3 {
		t.Errorf("page 1: len=%d total=%d, want 10/3", len(page), total)
	}

	page, _ = Paginate(entries, 3, 10)
	if len(page) != 5 {
		t.Errorf("page 3: len=%d, want 5", len(page))
	}

	// Out-of-range pages clamp.
	page, _ = Paginate(entries, 99, 10)
	if len(page) != 5 {
		t.Errorf("clamped page: len=%d, want 5", len(page))
	}

	page, total = Paginate(nil, 1, 10)
	if len(page) != 0 || total != 1 {
		t.Errorf("empty: len=%d total=%d, want 0/1", len(page), total)
	}
}

func TestDailyTotal(t *testing.T) {
	entries := []model.TimeEntry{
		entry("Acme", "A", 9*time.Hour, time.Hour, 0),
		entry("Acme", "B", 13*time.Hour, 30*time.Minute, 0),
		entry("Acme", "Other day", 30*time.Hour, time.Hour, 0),
	}
	// An in-progress entry contributes nothing.
	entries = append(entries, model.TimeEntry{
		ID: model.NewULID(), Client: "Acme", Task: "Live",
		StartTime: day.Add(15 * time.Hour), IsActive: true,
	})

	want := int64((time.Hour + 30*time.Minute) / time.Millisecond)
	if got := DailyTotal(entries, day); got != want {
		t.Errorf("DailyTotal = %d, want %d", got, want)
	}
}

func TestFocusMetrics(t *testing.T) {
	entries := []model.TimeEntry{
		// 30 minutes, uninterrupted.
		entry("Acme", "A", 9*time.Hour, 30*time.Minute, 0),
		// 10 minutes with 6 minutes paused: interrupted.
		entry("Acme", "B", 11*time.Hour, 10*time.Minute, 6*60*1000),
	}

	m := Focus(entries, day)
	if m.Sessions != 2 {
		t.Fatalf("Sessions = %d, want 2", m.Sessions)
	}
	wantTotal := int64(40 * 60 * 1000)
	if m.TotalTracked != wantTotal {
		t.Errorf("TotalTracked = %d, want %d", m.TotalTracked, wantTotal)
	}
	if m.AvgSession != wantTotal/2 {
		t.Errorf("AvgSession = %d, want %d", m.AvgSession, wantTotal/2)
	}
	// 20-minute average out of a 30-minute target: 66.
	if m.Score != 66 {
		t.Errorf("Score = %d, want 66", m.Score)
	}
	if m.LongestSession != int64(30*60*1000) {
		t.Errorf("LongestSession = %d, want %d", m.LongestSession, 30*60*1000)
	}
	if m.UninterruptedPct != 50 {
		t.Errorf("UninterruptedPct = %d, want 50", m.UninterruptedPct)
	}
}

func TestFocusScoreCapsAt100(t *testing.T) {
	entries := []model.TimeEntry{
		entry("Acme", "Long", 9*time.Hour, 2*time.Hour, 0),
	}
	if m := Focus(entries, day); m.Score != 100 {
		t.Errorf("Score = %d, want 100", m.Score)
	}
}

func TestFocusEmptyDay(t *testing.T) {
	m := Focus(nil, day)
	if m.Score != 0 || m.Sessions != 0 || m.UninterruptedPct != 0 {
		t.Errorf("empty day metrics = %+v, want zeros", m)
	}
}

func TestPeriodRange(t *testing.T) {
	// 2026-03-14 is a Saturday.
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	start, end := PeriodRange(PeriodToday, now)
	if !start.Equal(day) || !end.Equal(day.AddDate(0, 0, 1)) {
		t.Errorf("today = [%v, %v)", start, end)
	}

	start, _ = PeriodRange(PeriodWeek, now)
	if start.Weekday() != time.Monday {
		t.Errorf("week start = %v, want Monday", start.Weekday())
	}

	start, end = PeriodRange(PeriodLastMonth, now)
	if start.Month() != time.February || end.Month() != time.March {
		t.Errorf("lastMonth = [%v, %v)", start, end)
	}
}

func TestChartWeekBuckets(t *testing.T) {
	entries := []model.TimeEntry{
		entry("Acme", "A", 9*time.Hour, time.Hour, 0),
	}
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	points := Chart(entries, PeriodWeek, now)
	if len(points) != 6 { // Monday through Saturday of the current week
		t.Fatalf("points = %d, want 6", len(points))
	}

	var sum int64
	for _, p := range points {
		sum += p.Value
	}
	if sum != int64(time.Hour/time.Millisecond) {
		t.Errorf("total = %d, want one hour", sum)
	}
}

func TestClientAndTagTotals(t *testing.T) {
	entries := []model.TimeEntry{
		entry("Acme", "A", 9*time.Hour, time.Hour, 0, "deep-work"),
		entry("Acme", "B", 11*time.Hour, time.Hour, 0, "deep-work", "urgent"),
		entry("Globex", "C", 13*time.Hour, 30*time.Minute, 0),
	}
	start, end := PeriodRange(PeriodToday, day.Add(12*time.Hour))

	clients := ClientTotals(entries, start, end)
	if clients["Acme"] != int64(2*time.Hour/time.Millisecond) {
		t.Errorf("Acme total = %d", clients["Acme"])
	}
	if clients["Globex"] != int64(30*time.Minute/time.Millisecond) {
		t.Errorf("Globex total = %d", clients["Globex"])
	}

	tags := TagTotals(entries, start, end)
	if tags["deep-work"] != int64(2*time.Hour/time.Millisecond) {
		t.Errorf("deep-work total = %d", tags["deep-work"])
	}
	if tags["urgent"] != int64(time.Hour/time.Millisecond) {
		t.Errorf("urgent total = %d", tags["urgent"])
	}
}
