package model

import "testing"

func recurringTask(rule RecurrenceRule) Task {
	return Task{
		ID:         "task-1",
		Title:      "water plants",
		Status:     StatusNext,
		DueDate:    "2026-01-01T09:00",
		Recurrence: &Recurrence{Rule: rule},
		CreatedAt:  "2025-12-01T08:00:00Z",
		UpdatedAt:  "2025-12-01T08:00:00Z",
	}
}

func TestNextOccurrenceDailyLocalFormat(t *testing.T) {
	next, ok := NextOccurrence(recurringTask(RecurDaily), "2026-01-01T10:30:00Z", StatusDone)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if next.DueDate != "2026-01-02T09:00" {
		t.Fatalf("due date = %q, want bare local 2026-01-02T09:00", next.DueDate)
	}
	if next.ID == "task-1" {
		t.Fatal("next occurrence must get a fresh id")
	}
	if next.Rev != 0 || next.RevBy != "" {
		t.Fatalf("rev stamp must be left to the caller, got rev=%d revBy=%q", next.Rev, next.RevBy)
	}
	if next.CreatedAt != "2026-01-01T10:30:00Z" || next.UpdatedAt != "2026-01-01T10:30:00Z" {
		t.Fatalf("timestamps should equal the completion instant, got %q/%q", next.CreatedAt, next.UpdatedAt)
	}
}

func TestNextOccurrenceZonedFormat(t *testing.T) {
	task := recurringTask(RecurWeekly)
	task.DueDate = "2026-01-01T09:00:00Z"
	next, ok := NextOccurrence(task, "2026-01-01T10:30:00Z", StatusDone)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if next.DueDate != "2026-01-08T09:00:00Z" {
		t.Fatalf("due date = %q, want full ISO 2026-01-08T09:00:00Z", next.DueDate)
	}
}

func TestNextOccurrenceFallsBackToCompletion(t *testing.T) {
	task := recurringTask(RecurMonthly)
	task.DueDate = ""
	next, ok := NextOccurrence(task, "2026-01-15T10:00:00Z", StatusNext)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if next.DueDate != "2026-02-15T10:00:00Z" {
		t.Fatalf("due date = %q, want completion + 1 month", next.DueDate)
	}
	if next.Status != StatusNext {
		t.Fatalf("non-complete previous status must be kept, got %q", next.Status)
	}
}

func TestNextOccurrenceShiftsStartAndReview(t *testing.T) {
	task := recurringTask(RecurYearly)
	task.StartTime = "2026-01-01T08:00"
	task.ReviewAt = "2026-06-01T08:00:00Z"
	next, ok := NextOccurrence(task, "2026-01-02T00:00:00Z", StatusDone)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if next.StartTime != "2027-01-01T08:00" {
		t.Fatalf("start time = %q", next.StartTime)
	}
	if next.ReviewAt != "2027-06-01T08:00:00Z" {
		t.Fatalf("review at = %q", next.ReviewAt)
	}
}

func TestNextOccurrenceResetsChecklist(t *testing.T) {
	task := recurringTask(RecurDaily)
	task.Checklist = []ChecklistItem{
		{ID: "c1", Title: "fill can", IsCompleted: true},
		{ID: "c2", Title: "check soil", IsCompleted: false},
	}
	next, ok := NextOccurrence(task, "2026-01-01T10:00:00Z", StatusDone)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	if len(next.Checklist) != 2 {
		t.Fatalf("checklist length = %d", len(next.Checklist))
	}
	for i, item := range next.Checklist {
		if item.IsCompleted {
			t.Fatalf("checklist[%d] must be reset to incomplete", i)
		}
		if item.ID == task.Checklist[i].ID {
			t.Fatalf("checklist[%d] must get a fresh id", i)
		}
		if item.Title != task.Checklist[i].Title {
			t.Fatalf("checklist[%d] title changed: %q", i, item.Title)
		}
	}
}

func TestNextOccurrenceStatusMapping(t *testing.T) {
	for _, prev := range []TaskStatus{StatusDone, StatusArchived} {
		next, ok := NextOccurrence(recurringTask(RecurDaily), "2026-01-01T10:00:00Z", prev)
		if !ok {
			t.Fatalf("prev %q: expected occurrence", prev)
		}
		if next.Status != StatusNext {
			t.Fatalf("prev %q: status = %q, want next", prev, next.Status)
		}
	}
	next, _ := NextOccurrence(recurringTask(RecurDaily), "2026-01-01T10:00:00Z", StatusWaiting)
	if next.Status != StatusWaiting {
		t.Fatalf("waiting must be kept, got %q", next.Status)
	}
}

func TestNextOccurrenceWithoutRule(t *testing.T) {
	task := recurringTask(RecurDaily)
	task.Recurrence = nil
	if _, ok := NextOccurrence(task, "2026-01-01T10:00:00Z", StatusDone); ok {
		t.Fatal("task without recurrence must not spawn")
	}
	task.Recurrence = &Recurrence{Rule: "fortnightly"}
	if _, ok := NextOccurrence(task, "2026-01-01T10:00:00Z", StatusDone); ok {
		t.Fatal("invalid rule must not spawn")
	}
}
