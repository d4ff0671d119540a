package model

import (
	"testing"
	"time"
)

func TestHasZone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2026-01-01T09:00:00Z", true},
		{"2026-01-01T09:00:00+02:00", true},
		{"2026-01-01T09:00:00-05:00", true},
		{"2026-01-01T09:00", false},
		{"2026-01-01", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := HasZone(tc.in); got != tc.want {
			t.Fatalf("HasZone(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseStampLocal(t *testing.T) {
	got, ok := ParseStamp("2026-01-01T09:00")
	if !ok {
		t.Fatal("expected bare local stamp to parse")
	}
	want := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("parsed %s, want %s", got, want)
	}
}

func TestParseStampZoned(t *testing.T) {
	got, ok := ParseStamp("2026-01-01T09:00:00+02:00")
	if !ok {
		t.Fatal("expected zoned stamp to parse")
	}
	if !got.Equal(time.Date(2026, 1, 1, 7, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected instant: %s", got)
	}
}

func TestShiftStampPreservesShape(t *testing.T) {
	if got := ShiftStamp("2026-01-01T09:00", 0, 0, 1); got != "2026-01-02T09:00" {
		t.Fatalf("bare shift = %q", got)
	}
	if got := ShiftStamp("2026-01-31T09:00", 0, 1, 0); got != "2026-03-03T09:00" {
		// AddDate normalizes Feb 31 forward; calendar-unit arithmetic, not clamping.
		t.Fatalf("month shift = %q", got)
	}
	if got := ShiftStamp("2026-01-01T09:00:00Z", 0, 0, 1); got != "2026-01-02T09:00:00Z" {
		t.Fatalf("zoned shift = %q", got)
	}
}

func TestShiftStampUnparseable(t *testing.T) {
	if got := ShiftStamp("not-a-date", 0, 0, 1); got != "not-a-date" {
		t.Fatalf("unparseable stamp should pass through, got %q", got)
	}
}
