package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidStatus = errors.New("model: invalid task status")
	ErrEmptyTitle    = errors.New("model: title is required")
)

type TaskStatus string

const (
	StatusInbox     TaskStatus = "inbox"
	StatusNext      TaskStatus = "next"
	StatusWaiting   TaskStatus = "waiting"
	StatusSomeday   TaskStatus = "someday"
	StatusReference TaskStatus = "reference"
	StatusDone      TaskStatus = "done"
	StatusArchived  TaskStatus = "archived"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusInbox, StatusNext, StatusWaiting, StatusSomeday, StatusReference, StatusDone, StatusArchived:
		return true
	default:
		return false
	}
}

// IsComplete reports whether the status marks a finished task.
func (s TaskStatus) IsComplete() bool {
	return s == StatusDone || s == StatusArchived
}

type ChecklistItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

type Recurrence struct {
	Rule     RecurrenceRule `json:"rule"`
	Strategy string         `json:"strategy,omitempty"`
}

// Task is a single actionable record. Timestamp fields keep the exact string
// shape they were captured with (zoned ISO or bare local); see timestamp.go.
type Task struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Status         TaskStatus      `json:"status"`
	Priority       string          `json:"priority,omitempty"`
	Tags           []string        `json:"tags,omitempty"`
	Contexts       []string        `json:"contexts,omitempty"`
	ProjectID      string          `json:"projectId,omitempty"`
	SectionID      string          `json:"sectionId,omitempty"`
	AreaID         string          `json:"areaId,omitempty"`
	OrderNum       *int            `json:"orderNum,omitempty"`
	DueDate        string          `json:"dueDate,omitempty"`
	StartTime      string          `json:"startTime,omitempty"`
	ReviewAt       string          `json:"reviewAt,omitempty"`
	TimeEstimate   string          `json:"timeEstimate,omitempty"`
	Recurrence     *Recurrence     `json:"recurrence,omitempty"`
	Checklist      []ChecklistItem `json:"checklist,omitempty"`
	Attachments    []Attachment    `json:"attachments,omitempty"`
	PushCount      int             `json:"pushCount,omitempty"`
	IsFocusedToday bool            `json:"isFocusedToday,omitempty"`
	CompletedAt    string          `json:"completedAt,omitempty"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
	DeletedAt      string          `json:"deletedAt,omitempty"`
	PurgedAt       string          `json:"purgedAt,omitempty"`
	Rev            int             `json:"rev,omitempty"`
	RevBy          string          `json:"revBy,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: task %s", ErrEmptyTitle, t.ID)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if t.Recurrence != nil && !t.Recurrence.Rule.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidRecurrenceRule, t.Recurrence.Rule)
	}
	return nil
}

func (t Task) IsDeleted() bool {
	return t.DeletedAt != ""
}

// Clone returns a deep copy so callers can patch a record without aliasing
// the slices and pointers held by the stored one.
func (t Task) Clone() Task {
	out := t
	if t.OrderNum != nil {
		v := *t.OrderNum
		out.OrderNum = &v
	}
	if t.Recurrence != nil {
		r := *t.Recurrence
		out.Recurrence = &r
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.Contexts != nil {
		out.Contexts = append([]string(nil), t.Contexts...)
	}
	if t.Checklist != nil {
		out.Checklist = append([]ChecklistItem(nil), t.Checklist...)
	}
	if t.Attachments != nil {
		out.Attachments = append([]Attachment(nil), t.Attachments...)
	}
	return out
}
