// Package view computes read-only projections over the entry collection:
// daily totals, focus metrics, chart buckets, and filtered/paginated entry
// lists. Everything here is a pure function of its inputs; no state.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/workpulse/workpulse/internal/model"
	"github.com/workpulse/workpulse/internal/validate"
)

// Period names a reporting date range relative to now.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodWeek      Period = "week"
	PeriodLastWeek  Period = "lastWeek"
	PeriodMonth     Period = "month"
	PeriodLastMonth Period = "lastMonth"
	PeriodYear      Period = "year"
)

var AllPeriods = []Period{
	PeriodToday,
	PeriodYesterday,
	PeriodWeek,
	PeriodLastWeek,
	PeriodMonth,
	PeriodLastMonth,
	PeriodYear,
}

// PeriodRange returns the [start, end) range for a period relative to now.
func PeriodRange(period Period, now time.Time) (start, end time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case PeriodYesterday:
		start = today.AddDate(0, 0, -1)
		end = today

	case PeriodWeek:
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = today.AddDate(0, 0, -(weekday - 1))
		end = today.AddDate(0, 0, 1)

	case PeriodLastWeek:
		weekday := int(today.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		thisWeekStart := today.AddDate(0, 0, -(weekday - 1))
		start = thisWeekStart.AddDate(0, 0, -7)
		end = thisWeekStart

	case PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = today.AddDate(0, 0, 1)

	case PeriodLastMonth:
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		start = firstOfThisMonth.AddDate(0, -1, 0)
		end = firstOfThisMonth

	case PeriodYear:
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = today.AddDate(0, 0, 1)

	default: // today
		start = today
		end = today.AddDate(0, 0, 1)
	}

	return start, end
}

// Criteria filters the entry list. Zero values mean "no constraint". Search
// matches client, task, and description case-insensitively; tags are
// compared in sanitized form, so filtering is case- and punctuation-
// insensitive.
type Criteria struct {
	Search string
	Client string
	Tags   []string
	From   *time.Time
	To     *time.Time
}

// Filter returns the entries matching the criteria, sorted by start time
// descending.
func Filter(entries []model.TimeEntry, c Criteria) []model.TimeEntry {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	client := strings.ToLower(strings.TrimSpace(c.Client))
	tags := validate.SanitizeTags(c.Tags)

	var out []model.TimeEntry
	for _, e := range entries {
		if search != "" && !matchesSearch(e, search) {
			continue
		}
		if client != "" && strings.ToLower(e.Client) != client {
			continue
		}
		if len(tags) > 0 && !hasAllTags(e, tags) {
			continue
		}
		if c.From != nil && e.StartTime.Before(*c.From) {
			continue
		}
		if c.To != nil && !e.StartTime.Before(*c.To) {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}

func matchesSearch(e model.TimeEntry, search string) bool {
	return strings.Contains(strings.ToLower(e.Client), search) ||
		strings.Contains(strings.ToLower(e.Task), search) ||
		strings.Contains(strings.ToLower(e.Description), search)
}

func hasAllTags(e model.TimeEntry, want []string) bool {
	have := make(map[string]bool, len(e.Tags))
	for _, t := range e.Tags {
		have[validate.SanitizeTag(t)] = true
	}
	for _, t := range want {
		if !have[t] {
			return false
		}
	}
	return true
}

// Paginate returns the given page of entries (1-based) and the total page
// count. Out-of-range pages clamp to the nearest valid page.
func Paginate(entries []model.TimeEntry, page, perPage int) ([]model.TimeEntry, int) {
	if perPage < 1 {
		perPage = 10
	}
	totalPages := (len(entries) + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(entries) {
		return nil, totalPages
	}
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end], totalPages
}

// DailyTotal sums tracked milliseconds of completed entries started on the
// given day.
func DailyTotal(entries []model.TimeEntry, day time.Time) int64 {
	var total int64
	for _, e := range entries {
		if e.Completed() && sameDay(e.StartTime, day) {
			total += e.Duration()
		}
	}
	return total
}

// FocusMetrics summarizes one day's completed sessions.
type FocusMetrics struct {
	// Score rates focus 0-100 from the average session length; a 30-minute
	// average or longer scores 100.
	Score int
	// TotalTracked is the day's tracked working time in milliseconds.
	TotalTracked int64
	// AvgSession and LongestSession are in milliseconds.
	AvgSession     int64
	LongestSession int64
	Sessions       int
	// UninterruptedPct is the share of sessions with under five minutes of
	// paused time.
	UninterruptedPct int
}

const (
	focusTargetMs      = 30 * 60 * 1000
	uninterruptedMaxMs = 5 * 60 * 1000
)

// Focus computes focus metrics over the completed entries started on the
// given day.
func Focus(entries []model.TimeEntry, day time.Time) FocusMetrics {
	var m FocusMetrics
	var uninterrupted int

	for _, e := range entries {
		if !e.Completed() || !sameDay(e.StartTime, day) {
			continue
		}
		d := e.Duration()
		m.TotalTracked += d
		m.Sessions++
		if d > m.LongestSession {
			m.LongestSession = d
		}
		if e.PausedTime < uninterruptedMaxMs {
			uninterrupted++
		}
	}

	if m.Sessions == 0 {
		return m
	}

	m.AvgSession = m.TotalTracked / int64(m.Sessions)
	score := int(m.AvgSession * 100 / focusTargetMs)
	if score > 100 {
		score = 100
	}
	m.Score = score
	m.UninterruptedPct = uninterrupted * 100 / m.Sessions
	return m
}

// ChartPoint is one bucket of aggregated tracked time.
type ChartPoint struct {
	Label string
	Start time.Time
	Value int64 // milliseconds
}

// Chart buckets completed entries over the period ending at now: hourly-free
// day buckets for a week and last-week view, and day buckets otherwise. The
// bucket count mirrors the dashboard: 7 days for week views, calendar days
// for month views, 12 months for the year.
func Chart(entries []model.TimeEntry, period Period, now time.Time) []ChartPoint {
	start, end := PeriodRange(period, now)

	var points []ChartPoint
	switch period {
	case PeriodYear:
		for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
			next := m.AddDate(0, 1, 0)
			points = append(points, ChartPoint{
				Label: m.Format("Jan"),
				Start: m,
				Value: totalBetween(entries, m, next),
			})
		}
	default:
		for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
			next := d.AddDate(0, 0, 1)
			points = append(points, ChartPoint{
				Label: d.Format("Mon 02"),
				Start: d,
				Value: totalBetween(entries, d, next),
			})
		}
	}
	return points
}

func totalBetween(entries []model.TimeEntry, start, end time.Time) int64 {
	var total int64
	for _, e := range entries {
		if !e.Completed() {
			continue
		}
		if e.StartTime.Before(start) || !e.StartTime.Before(end) {
			continue
		}
		total += e.Duration()
	}
	return total
}

// ClientTotals aggregates completed tracked time per client over a range.
func ClientTotals(entries []model.TimeEntry, start, end time.Time) map[string]int64 {
	totals := make(map[string]int64)
	for _, e := range entries {
		if !e.Completed() {
			continue
		}
		if e.StartTime.Before(start) || !e.StartTime.Before(end) {
			continue
		}
		totals[e.Client] += e.Duration()
	}
	return totals
}

// TagTotals aggregates completed tracked time per sanitized tag over a range.
func TagTotals(entries []model.TimeEntry, start, end time.Time) map[string]int64 {
	totals := make(map[string]int64)
	for _, e := range entries {
		if !e.Completed() {
			continue
		}
		if e.StartTime.Before(start) || !e.StartTime.Before(end) {
			continue
		}
		for _, t := range e.Tags {
			totals[validate.SanitizeTag(t)] += e.Duration()
		}
	}
	return totals
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
