package model

import (
	"strings"
	"time"
)

// Timestamps travel as strings in two shapes: full ISO instants carrying a
// zone marker ("2026-01-01T09:00:00Z", "...+02:00") and bare local stamps
// ("2026-01-01T09:00"). The shape is preserved across every transformation;
// display code downstream relies on it.

const LayoutLocal = "2006-01-02T15:04"

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	LayoutLocal,
	"2006-01-02",
}

// HasZone reports whether the stamp carries an explicit timezone marker
// (a trailing Z or a ±HH:MM offset).
func HasZone(s string) bool {
	if strings.HasSuffix(s, "Z") {
		return true
	}
	if len(s) < 6 {
		return false
	}
	tail := s[len(s)-6:]
	if tail[0] != '+' && tail[0] != '-' {
		return false
	}
	// Offsets only occur after the time portion, never inside a bare date.
	if !strings.Contains(s, "T") {
		return false
	}
	return tail[3] == ':'
}

// ParseStamp parses either stamp shape. Bare stamps are interpreted in UTC so
// calendar arithmetic stays deterministic regardless of host timezone.
func ParseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if HasZone(s) {
		for _, layout := range zonedLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatLike renders t in the same shape as the source stamp: full ISO
// instant when the source was zoned, bare local otherwise.
func FormatLike(t time.Time, source string) string {
	if HasZone(source) {
		return t.UTC().Format(time.RFC3339)
	}
	return t.Format(LayoutLocal)
}

// ShiftStamp adds a calendar offset to the stamp, preserving its shape.
// Unparseable stamps come back unchanged.
func ShiftStamp(s string, years, months, days int) string {
	t, ok := ParseStamp(s)
	if !ok {
		return s
	}
	return FormatLike(t.AddDate(years, months, days), s)
}

// NowStamp is the zoned ISO instant used for createdAt/updatedAt/completedAt.
func NowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
