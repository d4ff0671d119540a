package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/flowtide/flowtide/internal/model"
)

// TaskPatch describes a partial update. Nil pointer fields are untouched; a
// pointer to the zero value clears the field. Recurrence removal is explicit
// because a nil Recurrence already means "no change".
type TaskPatch struct {
	Title           *string
	Description     *string
	Status          *model.TaskStatus
	Priority        *string
	Tags            *[]string
	Contexts        *[]string
	ProjectID       *string
	SectionID       *string
	AreaID          *string
	OrderNum        *int
	DueDate         *string
	StartTime       *string
	ReviewAt        *string
	TimeEstimate    *string
	Recurrence      *model.Recurrence
	ClearRecurrence bool
	Checklist       *[]model.ChecklistItem
	Attachments     *[]model.Attachment
	IsFocusedToday  *bool
}

func (s *Store) findTask(id string) (int, bool) {
	for i, t := range s.state.Tasks {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

func replaceTask(tasks []model.Task, i int, t model.Task) []model.Task {
	out := append([]model.Task(nil), tasks...)
	out[i] = t
	return out
}

// AddTask inserts a new task with rev=1. Missing id, status, timestamps and
// order position are filled in; a blank title is a validation error.
func (s *Store) AddTask(t model.Task) (model.Task, bool) {
	t.Title = strings.TrimSpace(t.Title)
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = model.StatusInbox
	}
	now := model.NowStamp()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.DeletedAt = ""
	t.PurgedAt = ""
	if err := t.Validate(); err != nil {
		s.setErr("add task: %v", err)
		return model.Task{}, false
	}
	if t.OrderNum == nil {
		t.OrderNum = orderPtr(s.NextTaskOrder(t.ProjectID))
	}
	t.Rev = 1
	t.RevBy = s.deviceID()
	s.state.Tasks = append(append([]model.Task(nil), s.state.Tasks...), t)
	s.commit()
	return t, true
}

// UpdateTask patches one task. Unknown ids are a silent no-op.
func (s *Store) UpdateTask(id string, patch TaskPatch) (model.Task, bool) {
	updated, ok := s.applyTaskUpdate(id, patch, model.NowStamp())
	if !ok {
		return model.Task{}, false
	}
	s.commit()
	return updated, true
}

// UpdateTasks patches every listed task and emits a single snapshot for the
// whole batch.
func (s *Store) UpdateTasks(ids []string, patch TaskPatch) []model.Task {
	now := model.NowStamp()
	updated := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.applyTaskUpdate(id, patch, now); ok {
			updated = append(updated, t)
		}
	}
	if len(updated) > 0 {
		s.commit()
	}
	return updated
}

// applyTaskUpdate mutates state without committing. Side effects run in a
// fixed order: status-transition effects first, then the field merge, then
// the due-date reschedule layer, and reference clearing last so it wins over
// anything else supplied in the same call.
func (s *Store) applyTaskUpdate(id string, patch TaskPatch, now string) (model.Task, bool) {
	i, ok := s.findTask(id)
	if !ok {
		return model.Task{}, false
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		s.setErr("update task: %v: %q", model.ErrInvalidStatus, *patch.Status)
		return model.Task{}, false
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		s.setErr("update task: %v", model.ErrEmptyTitle)
		return model.Task{}, false
	}

	cur := s.state.Tasks[i].Clone()
	prevStatus := cur.Status

	if patch.Status != nil && *patch.Status != prevStatus {
		switch *patch.Status {
		case model.StatusDone:
			cur.CompletedAt = now
			cur.IsFocusedToday = false
		case model.StatusArchived:
			if cur.CompletedAt == "" {
				cur.CompletedAt = now
			}
			cur.IsFocusedToday = false
		default:
			if prevStatus.IsComplete() {
				cur.CompletedAt = ""
			}
		}
		cur.Status = *patch.Status
	}

	if patch.Title != nil {
		cur.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		cur.Description = *patch.Description
	}
	if patch.Priority != nil {
		cur.Priority = *patch.Priority
	}
	if patch.Tags != nil {
		cur.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Contexts != nil {
		cur.Contexts = append([]string(nil), (*patch.Contexts)...)
	}
	if patch.ProjectID != nil {
		cur.ProjectID = *patch.ProjectID
	}
	if patch.SectionID != nil {
		cur.SectionID = *patch.SectionID
	}
	if patch.AreaID != nil {
		cur.AreaID = *patch.AreaID
	}
	if patch.OrderNum != nil {
		cur.OrderNum = orderPtr(*patch.OrderNum)
	}
	if patch.StartTime != nil {
		cur.StartTime = *patch.StartTime
	}
	if patch.ReviewAt != nil {
		cur.ReviewAt = *patch.ReviewAt
	}
	if patch.TimeEstimate != nil {
		cur.TimeEstimate = *patch.TimeEstimate
	}
	if patch.ClearRecurrence {
		cur.Recurrence = nil
	} else if patch.Recurrence != nil {
		r := *patch.Recurrence
		cur.Recurrence = &r
	}
	if patch.Checklist != nil {
		cur.Checklist = append([]model.ChecklistItem(nil), (*patch.Checklist)...)
	}
	if patch.Attachments != nil {
		cur.Attachments = append([]model.Attachment(nil), (*patch.Attachments)...)
	}
	if patch.IsFocusedToday != nil {
		cur.IsFocusedToday = *patch.IsFocusedToday
	}

	if patch.DueDate != nil && cur.Status != model.StatusReference {
		newDue := *patch.DueDate
		if newDue == "" {
			cur.DueDate = ""
			cur.PushCount = 0
		} else {
			if oldAt, okOld := model.ParseStamp(cur.DueDate); okOld {
				if newAt, okNew := model.ParseStamp(newDue); okNew && newAt.After(oldAt) {
					cur.PushCount++
				}
			}
			cur.DueDate = newDue
		}
	}

	if cur.Status == model.StatusReference {
		cur.StartTime = ""
		cur.DueDate = ""
		cur.ReviewAt = ""
		cur.Recurrence = nil
		cur.Priority = ""
		cur.TimeEstimate = ""
		cur.Checklist = nil
		cur.PushCount = 0
		cur.IsFocusedToday = false
	}

	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = now
	s.state.Tasks = replaceTask(s.state.Tasks, i, cur)

	if prevStatus != model.StatusDone && cur.Status == model.StatusDone && cur.Recurrence != nil {
		if next, ok := model.NextOccurrence(cur, cur.CompletedAt, prevStatus); ok {
			next.OrderNum = orderPtr(s.NextTaskOrder(next.ProjectID))
			next.Rev = 1
			next.RevBy = cur.RevBy
			s.state.Tasks = append(s.state.Tasks, next)
		}
	}
	return cur, true
}

// DeleteTask tombstones a task. It stays in the all collection until purged.
func (s *Store) DeleteTask(id string) bool {
	if !s.applyTaskDelete(id, model.NowStamp()) {
		return false
	}
	s.commit()
	return true
}

// DeleteTasks tombstones every listed task in one snapshot.
func (s *Store) DeleteTasks(ids []string) int {
	now := model.NowStamp()
	deleted := 0
	for _, id := range ids {
		if s.applyTaskDelete(id, now) {
			deleted++
		}
	}
	if deleted > 0 {
		s.commit()
	}
	return deleted
}

func (s *Store) applyTaskDelete(id, now string) bool {
	i, ok := s.findTask(id)
	if !ok || s.state.Tasks[i].IsDeleted() {
		return false
	}
	cur := s.state.Tasks[i].Clone()
	cur.DeletedAt = now
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = now
	s.state.Tasks = replaceTask(s.state.Tasks, i, cur)
	return true
}

// RestoreTask clears a tombstone.
func (s *Store) RestoreTask(id string) (model.Task, bool) {
	i, ok := s.findTask(id)
	if !ok || !s.state.Tasks[i].IsDeleted() {
		return model.Task{}, false
	}
	now := model.NowStamp()
	cur := s.state.Tasks[i].Clone()
	cur.DeletedAt = ""
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = now
	s.state.Tasks = replaceTask(s.state.Tasks, i, cur)
	s.commit()
	return cur, true
}

// PurgeTask stamps purgedAt, after which storage is free to discard the
// record on its next save. This is the one mutation that does not bump rev:
// nothing is merged after a purge.
func (s *Store) PurgeTask(id string) bool {
	i, ok := s.findTask(id)
	if !ok || s.state.Tasks[i].PurgedAt != "" {
		return false
	}
	cur := s.state.Tasks[i].Clone()
	cur.PurgedAt = model.NowStamp()
	s.state.Tasks = replaceTask(s.state.Tasks, i, cur)
	s.commit()
	return true
}

// DuplicateTask copies a task's descriptive content into a fresh record:
// new ids throughout, scheduling and completion state reset.
func (s *Store) DuplicateTask(id string) (model.Task, bool) {
	i, ok := s.findTask(id)
	if !ok {
		return model.Task{}, false
	}
	now := model.NowStamp()
	dup := s.state.Tasks[i].Clone()
	dup.ID = uuid.NewString()
	for j := range dup.Checklist {
		dup.Checklist[j].ID = uuid.NewString()
		dup.Checklist[j].IsCompleted = false
	}
	for j := range dup.Attachments {
		dup.Attachments[j].ID = uuid.NewString()
	}
	dup.DueDate = ""
	dup.StartTime = ""
	dup.ReviewAt = ""
	dup.CompletedAt = ""
	dup.PushCount = 0
	dup.IsFocusedToday = false
	dup.DeletedAt = ""
	dup.PurgedAt = ""
	if dup.Status.IsComplete() {
		dup.Status = model.StatusInbox
	}
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.OrderNum = orderPtr(s.NextTaskOrder(dup.ProjectID))
	dup.Rev = 1
	dup.RevBy = s.deviceID()
	s.state.Tasks = append(append([]model.Task(nil), s.state.Tasks...), dup)
	s.commit()
	return dup, true
}

// MoveTask re-parents a task. Changing project invalidates the section
// unless the caller names a new one, and the position is reallocated in the
// new scope unless an explicit orderNum is supplied.
func (s *Store) MoveTask(id, projectID, sectionID string, orderNum *int) (model.Task, bool) {
	i, ok := s.findTask(id)
	if !ok {
		return model.Task{}, false
	}
	now := model.NowStamp()
	cur := s.state.Tasks[i].Clone()
	reparented := cur.ProjectID != projectID
	if reparented {
		cur.SectionID = ""
	}
	cur.ProjectID = projectID
	if sectionID != "" {
		cur.SectionID = sectionID
	}
	switch {
	case orderNum != nil:
		cur.OrderNum = orderPtr(*orderNum)
	case reparented:
		cur.OrderNum = orderPtr(s.NextTaskOrder(projectID))
	}
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = now
	s.state.Tasks = replaceTask(s.state.Tasks, i, cur)
	s.commit()
	return cur, true
}
