package model

import (
	"errors"
	"testing"
)

func TestTaskValidate(t *testing.T) {
	task := Task{ID: "t1", Title: "file taxes", Status: StatusInbox, CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-01T00:00:00Z"}
	if err := task.Validate(); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	task.Title = "   "
	if err := task.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}

	task.Title = "file taxes"
	task.Status = "doing"
	if err := task.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	task.Status = StatusInbox
	task.Recurrence = &Recurrence{Rule: "hourly"}
	if err := task.Validate(); !errors.Is(err, ErrInvalidRecurrenceRule) {
		t.Fatalf("expected ErrInvalidRecurrenceRule, got %v", err)
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	order := 3
	src := Task{
		ID:         "t1",
		Title:      "pack bags",
		Status:     StatusNext,
		OrderNum:   &order,
		Tags:       []string{"travel"},
		Contexts:   []string{"@home"},
		Recurrence: &Recurrence{Rule: RecurWeekly},
		Checklist:  []ChecklistItem{{ID: "c1", Title: "passport"}},
	}
	dup := src.Clone()
	*dup.OrderNum = 9
	dup.Tags[0] = "work"
	dup.Contexts[0] = "@office"
	dup.Recurrence.Rule = RecurDaily
	dup.Checklist[0].IsCompleted = true

	if *src.OrderNum != 3 || src.Tags[0] != "travel" || src.Contexts[0] != "@home" {
		t.Fatal("clone aliases scalar or slice state")
	}
	if src.Recurrence.Rule != RecurWeekly || src.Checklist[0].IsCompleted {
		t.Fatal("clone aliases nested state")
	}
}

func TestStatusIsComplete(t *testing.T) {
	if !StatusDone.IsComplete() || !StatusArchived.IsComplete() {
		t.Fatal("done and archived are complete")
	}
	for _, s := range []TaskStatus{StatusInbox, StatusNext, StatusWaiting, StatusSomeday, StatusReference} {
		if s.IsComplete() {
			t.Fatalf("%q must not be complete", s)
		}
	}
}
