// Package validate schema-checks and cleans entry, settings, and URL data at
// every trust boundary: load-from-storage, data-file import, and webhook
// payload construction. Invalid entries produce a typed *Error that callers
// treat as "skip this record"; settings repair themselves field by field.
package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/workpulse/workpulse/internal/model"
)

const (
	// MaxTextLen bounds client and task names.
	MaxTextLen = 200
	// MaxDescriptionLen bounds the free-text description.
	MaxDescriptionLen = 1000
	// MaxTagLen bounds a single tag.
	MaxTagLen = 50
	// MaxTags bounds the tag list on one entry.
	MaxTags = 20
)

// Error is a structural validation failure on a single record. Callers log
// and drop the record rather than aborting the surrounding operation.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func newError(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// Entry validates the structural shape of a time entry. It checks types and
// bounds only; it deliberately does not check EndTime ordering against
// StartTime, matching the stored-record contract.
func Entry(e model.TimeEntry) error {
	if strings.TrimSpace(e.ID) == "" {
		return newError("id", "must not be empty")
	}
	if client := strings.TrimSpace(e.Client); client == "" {
		return newError("client", "is required")
	} else if len(client) > MaxTextLen {
		return newError("client", "name is too long")
	}
	if task := strings.TrimSpace(e.Task); task == "" {
		return newError("task", "is required")
	} else if len(task) > MaxTextLen {
		return newError("task", "name is too long")
	}
	if e.StartTime.IsZero() {
		return newError("startTime", "must be a valid date")
	}
	if e.EndTime != nil && e.EndTime.IsZero() {
		return newError("endTime", "must be null or a valid date")
	}
	if e.PausedTime < 0 {
		return newError("pausedTime", "must not be negative")
	}
	if len(e.Description) > MaxDescriptionLen {
		return newError("description", "is too long")
	}
	if len(e.Tags) > MaxTags {
		return newError("tags", "too many tags")
	}
	for _, tag := range e.Tags {
		if len(tag) > MaxTagLen {
			return newError("tags", fmt.Sprintf("tag %q is too long", tag))
		}
	}
	return nil
}

// ActiveEntry validates an entry destined for the active-entry slot: it must
// pass Entry and additionally be active with no end time.
func ActiveEntry(e model.TimeEntry) error {
	if err := Entry(e); err != nil {
		return err
	}
	if !e.IsActive {
		return newError("isActive", "active entry must be active")
	}
	if e.EndTime != nil {
		return newError("endTime", "active entry must not have an end time")
	}
	return nil
}

// Settings repairs a settings record field by field: any missing or
// out-of-range value is replaced by its default. It never fails; a fully
// corrupt record degrades to DefaultSettings.
func Settings(s model.Settings) model.Settings {
	def := model.DefaultSettings()

	if s.IdleTimeout < 1 || s.IdleTimeout > 1440 {
		s.IdleTimeout = def.IdleTimeout
	}
	if s.AutoStopMinutes < 1 || s.AutoStopMinutes > 1440 {
		s.AutoStopMinutes = def.AutoStopMinutes
	}
	if len(s.DefaultClient) > MaxTextLen {
		s.DefaultClient = def.DefaultClient
	}
	if len(s.DefaultTask) > MaxTextLen {
		s.DefaultTask = def.DefaultTask
	}
	switch s.DateFormat {
	case "MM/DD/YYYY", "DD/MM/YYYY", "YYYY-MM-DD":
	default:
		s.DateFormat = def.DateFormat
	}
	switch s.Theme {
	case "light", "dark", "system":
	default:
		s.Theme = def.Theme
	}
	switch s.WeekStart {
	case "monday", "sunday", "saturday":
	default:
		s.WeekStart = def.WeekStart
	}
	if s.AutoPauseMinutes < 1 || s.AutoPauseMinutes > 1440 {
		s.AutoPauseMinutes = def.AutoPauseMinutes
	}
	switch s.NotificationSound {
	case "default", "subtle", "none":
	default:
		s.NotificationSound = def.NotificationSound
	}
	switch s.BackupFrequency {
	case "hourly", "daily", "weekly", "never":
	default:
		s.BackupFrequency = def.BackupFrequency
	}
	if s.ArchivePeriod == "" {
		s.ArchivePeriod = def.ArchivePeriod
	}
	return s
}

var (
	controlChars    = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	tagDisallowed   = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	allowedWebhooks = []string{
		"hooks.zapier.com",
		"zapier.com",
		"webhook.site",
		"requestbin.com",
	}
)

// SanitizeString trims, truncates to maxLen bytes, and strips control
// characters. Applied to every free-text field before it is persisted or
// transmitted.
func SanitizeString(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return controlChars.ReplaceAllString(s, "")
}

// SanitizeTag normalizes a tag label: sanitize to 50 chars, drop characters
// other than word characters, whitespace, and hyphens, collapse whitespace
// runs to single hyphens, and lowercase. Tag identity is normalized this way
// everywhere, so filtering is case- and punctuation-insensitive.
func SanitizeTag(tag string) string {
	tag = SanitizeString(tag, MaxTagLen)
	tag = tagDisallowed.ReplaceAllString(tag, "")
	tag = strings.TrimSpace(tag)
	tag = whitespaceRuns.ReplaceAllString(tag, "-")
	return strings.ToLower(tag)
}

// SanitizeTags applies SanitizeTag to each label, dropping any that
// normalize to the empty string and truncating to the per-entry limit.
func SanitizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		if clean := SanitizeTag(t); clean != "" {
			out = append(out, clean)
		}
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// WebhookURL checks that u is an absolute http/https URL and, unless
// development mode is enabled, that its host belongs to a known webhook
// provider. The returned error messages are user-facing.
func WebhookURL(u string, development bool) error {
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must use HTTP or HTTPS protocol")
	}
	if development {
		return nil
	}
	host := parsed.Hostname()
	for _, domain := range allowedWebhooks {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}
	return fmt.Errorf("webhook URL must be from a trusted domain")
}
