package model

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRecurrenceRule = errors.New("model: invalid recurrence rule")

type RecurrenceRule string

const (
	RecurDaily   RecurrenceRule = "daily"
	RecurWeekly  RecurrenceRule = "weekly"
	RecurMonthly RecurrenceRule = "monthly"
	RecurYearly  RecurrenceRule = "yearly"
)

func (r RecurrenceRule) IsValid() bool {
	switch r {
	case RecurDaily, RecurWeekly, RecurMonthly, RecurYearly:
		return true
	default:
		return false
	}
}

// step returns the calendar offset of one period of the rule.
func (r RecurrenceRule) step() (years, months, days int) {
	switch r {
	case RecurDaily:
		return 0, 0, 1
	case RecurWeekly:
		return 0, 0, 7
	case RecurMonthly:
		return 0, 1, 0
	case RecurYearly:
		return 1, 0, 0
	default:
		return 0, 0, 0
	}
}

// NextOccurrence derives the follow-up instance of a recurring task that was
// just completed. The returned record has a fresh id, a reset checklist, and
// no revision stamp; the caller assigns rev/revBy when inserting it.
//
// The projection base is the task's due date when parseable, otherwise the
// completion instant. One calendar unit is added, and the source stamp's
// shape (zoned vs bare local) is kept. startTime and reviewAt are shifted by
// the same unit independently of the due date.
func NextOccurrence(t Task, completedAt string, prevStatus TaskStatus) (Task, bool) {
	if t.Recurrence == nil || !t.Recurrence.Rule.IsValid() {
		return Task{}, false
	}
	years, months, days := t.Recurrence.Rule.step()

	next := t.Clone()
	next.ID = uuid.NewString()
	next.Rev = 0
	next.RevBy = ""
	next.CompletedAt = ""
	next.IsFocusedToday = false
	next.PushCount = 0
	next.OrderNum = nil
	next.DeletedAt = ""
	next.PurgedAt = ""
	next.CreatedAt = completedAt
	next.UpdatedAt = completedAt

	if base, ok := ParseStamp(t.DueDate); ok {
		next.DueDate = FormatLike(base.AddDate(years, months, days), t.DueDate)
	} else if base, ok := ParseStamp(completedAt); ok {
		next.DueDate = FormatLike(base.AddDate(years, months, days), completedAt)
	} else {
		return Task{}, false
	}
	if t.StartTime != "" {
		next.StartTime = ShiftStamp(t.StartTime, years, months, days)
	}
	if t.ReviewAt != "" {
		next.ReviewAt = ShiftStamp(t.ReviewAt, years, months, days)
	}

	for i := range next.Checklist {
		next.Checklist[i].ID = uuid.NewString()
		next.Checklist[i].IsCompleted = false
	}

	if prevStatus == StatusDone || prevStatus == StatusArchived || prevStatus == "in-progress" {
		next.Status = StatusNext
	} else {
		next.Status = prevStatus
	}
	return next, true
}
