package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/flowtide/flowtide/internal/model"
)

// DefaultProjectColor is assigned when a project is created without one.
const DefaultProjectColor = "#6B7280"

// maxFocusedProjects caps how many projects may be focused at once.
const maxFocusedProjects = 5

type ProjectPatch struct {
	Title       *string
	Color       *string
	Status      *model.ProjectStatus
	AreaID      *string
	Order       *int
	TagIDs      *[]string
	Attachments *[]model.Attachment
}

func (s *Store) findProject(id string) (int, bool) {
	for i, p := range s.state.Projects {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

func replaceProject(projects []model.Project, i int, p model.Project) []model.Project {
	out := append([]model.Project(nil), projects...)
	out[i] = p
	return out
}

// AddProject is an idempotent create-or-get: a live project with the same
// case-insensitive trimmed title is returned instead of creating a twin.
func (s *Store) AddProject(p model.Project) (model.Project, bool) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		s.setErr("add project: %v", model.ErrEmptyTitle)
		return model.Project{}, false
	}
	for _, existing := range s.state.Projects {
		if !existing.IsDeleted() && existing.PurgedAt == "" && strings.EqualFold(existing.Title, p.Title) {
			return existing, true
		}
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Color == "" {
		p.Color = DefaultProjectColor
	}
	if p.Status == "" {
		p.Status = model.ProjectActive
	}
	now := model.NowStamp()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.DeletedAt = ""
	p.PurgedAt = ""
	p.IsFocused = false
	if err := p.Validate(); err != nil {
		s.setErr("add project: %v", err)
		return model.Project{}, false
	}
	if p.Order == nil {
		p.Order = orderPtr(s.NextProjectOrder(p.AreaID))
	}
	p.Rev = 1
	p.RevBy = s.deviceID()
	s.state.Projects = append(append([]model.Project(nil), s.state.Projects...), p)
	s.commit()
	return p, true
}

func (s *Store) UpdateProject(id string, patch ProjectPatch) (model.Project, bool) {
	i, ok := s.findProject(id)
	if !ok {
		return model.Project{}, false
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		s.setErr("update project: %v", model.ErrEmptyTitle)
		return model.Project{}, false
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		s.setErr("update project: %v: %q", model.ErrInvalidProjectStatus, *patch.Status)
		return model.Project{}, false
	}
	cur := s.state.Projects[i].Clone()
	if patch.Title != nil {
		cur.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Color != nil {
		cur.Color = *patch.Color
	}
	if patch.Status != nil {
		cur.Status = *patch.Status
	}
	if patch.AreaID != nil {
		cur.AreaID = *patch.AreaID
	}
	if patch.Order != nil {
		cur.Order = orderPtr(*patch.Order)
	}
	if patch.TagIDs != nil {
		cur.TagIDs = append([]string(nil), (*patch.TagIDs)...)
	}
	if patch.Attachments != nil {
		cur.Attachments = append([]model.Attachment(nil), (*patch.Attachments)...)
	}
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = model.NowStamp()
	s.state.Projects = replaceProject(s.state.Projects, i, cur)
	s.commit()
	return cur, true
}

// ArchiveProject archives the project and cascades to its live children:
// every non-deleted task not already archived is forced to archived, with
// completedAt backfilled and today-focus cleared, one revision bump each,
// all in a single mutation and snapshot.
func (s *Store) ArchiveProject(id string) (model.Project, bool) {
	i, ok := s.findProject(id)
	if !ok {
		return model.Project{}, false
	}
	now := model.NowStamp()
	device := s.deviceID()

	cur := s.state.Projects[i].Clone()
	cur.Status = model.ProjectArchived
	cur.IsFocused = false
	cur.Rev++
	cur.RevBy = device
	cur.UpdatedAt = now
	s.state.Projects = replaceProject(s.state.Projects, i, cur)

	tasks := append([]model.Task(nil), s.state.Tasks...)
	for j, t := range tasks {
		if t.ProjectID != id || t.IsDeleted() || t.Status == model.StatusArchived {
			continue
		}
		child := t.Clone()
		child.Status = model.StatusArchived
		if child.CompletedAt == "" {
			child.CompletedAt = now
		}
		child.IsFocusedToday = false
		child.Rev++
		child.RevBy = device
		child.UpdatedAt = now
		tasks[j] = child
	}
	s.state.Tasks = tasks
	s.commit()
	return cur, true
}

// SetProjectFocus toggles the focus flag. Focusing beyond the cap is
// silently rejected: state is left untouched and no error is raised.
func (s *Store) SetProjectFocus(id string, focused bool) (model.Project, bool) {
	i, ok := s.findProject(id)
	if !ok {
		return model.Project{}, false
	}
	cur := s.state.Projects[i]
	if cur.IsFocused == focused {
		return cur, true
	}
	if focused {
		count := 0
		for _, p := range s.state.Projects {
			if p.IsFocused && !p.IsDeleted() && p.PurgedAt == "" {
				count++
			}
		}
		if count >= maxFocusedProjects {
			return cur, false
		}
	}
	next := cur.Clone()
	next.IsFocused = focused
	next.Rev++
	next.RevBy = s.deviceID()
	next.UpdatedAt = model.NowStamp()
	s.state.Projects = replaceProject(s.state.Projects, i, next)
	s.commit()
	return next, true
}

func (s *Store) DeleteProject(id string) bool {
	i, ok := s.findProject(id)
	if !ok || s.state.Projects[i].IsDeleted() {
		return false
	}
	now := model.NowStamp()
	cur := s.state.Projects[i].Clone()
	cur.DeletedAt = now
	cur.IsFocused = false
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = now
	s.state.Projects = replaceProject(s.state.Projects, i, cur)
	s.commit()
	return true
}

func (s *Store) RestoreProject(id string) (model.Project, bool) {
	i, ok := s.findProject(id)
	if !ok || !s.state.Projects[i].IsDeleted() {
		return model.Project{}, false
	}
	now := model.NowStamp()
	cur := s.state.Projects[i].Clone()
	cur.DeletedAt = ""
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = now
	s.state.Projects = replaceProject(s.state.Projects, i, cur)
	s.commit()
	return cur, true
}

// PurgeProject stamps purgedAt without a revision bump; storage discards
// the record on its next save. Child tasks and sections are left in place;
// they still carry their own tombstones or live state.
func (s *Store) PurgeProject(id string) bool {
	i, ok := s.findProject(id)
	if !ok || s.state.Projects[i].PurgedAt != "" {
		return false
	}
	cur := s.state.Projects[i].Clone()
	cur.PurgedAt = model.NowStamp()
	s.state.Projects = replaceProject(s.state.Projects, i, cur)
	s.commit()
	return true
}

// DuplicateProject deep-copies a project with its live sections and tasks.
// Every record gets a fresh id and rev=1; section references inside copied
// tasks are remapped to the new section ids.
func (s *Store) DuplicateProject(id string) (model.Project, bool) {
	i, ok := s.findProject(id)
	if !ok {
		return model.Project{}, false
	}
	now := model.NowStamp()
	device := s.deviceID()

	dup := s.state.Projects[i].Clone()
	dup.ID = uuid.NewString()
	for j := range dup.Attachments {
		dup.Attachments[j].ID = uuid.NewString()
	}
	dup.IsFocused = false
	dup.DeletedAt = ""
	dup.PurgedAt = ""
	dup.CreatedAt = now
	dup.UpdatedAt = now
	dup.Order = orderPtr(s.NextProjectOrder(dup.AreaID))
	dup.Rev = 1
	dup.RevBy = device

	sectionIDs := make(map[string]string)
	newSections := make([]model.Section, 0)
	for _, sec := range s.state.Sections {
		if sec.ProjectID != id || sec.IsDeleted() || sec.PurgedAt != "" {
			continue
		}
		copySec := sec
		copySec.ID = uuid.NewString()
		copySec.ProjectID = dup.ID
		copySec.CreatedAt = now
		copySec.UpdatedAt = now
		copySec.Rev = 1
		copySec.RevBy = device
		sectionIDs[sec.ID] = copySec.ID
		newSections = append(newSections, copySec)
	}

	newTasks := make([]model.Task, 0)
	for _, t := range s.state.Tasks {
		if t.ProjectID != id || t.IsDeleted() || t.PurgedAt != "" {
			continue
		}
		copyTask := t.Clone()
		copyTask.ID = uuid.NewString()
		copyTask.ProjectID = dup.ID
		copyTask.SectionID = sectionIDs[t.SectionID]
		for j := range copyTask.Checklist {
			copyTask.Checklist[j].ID = uuid.NewString()
			copyTask.Checklist[j].IsCompleted = false
		}
		for j := range copyTask.Attachments {
			copyTask.Attachments[j].ID = uuid.NewString()
		}
		copyTask.CompletedAt = ""
		copyTask.PushCount = 0
		copyTask.IsFocusedToday = false
		if copyTask.Status.IsComplete() {
			copyTask.Status = model.StatusInbox
		}
		copyTask.CreatedAt = now
		copyTask.UpdatedAt = now
		copyTask.Rev = 1
		copyTask.RevBy = device
		newTasks = append(newTasks, copyTask)
	}

	s.state.Projects = append(append([]model.Project(nil), s.state.Projects...), dup)
	s.state.Sections = append(append([]model.Section(nil), s.state.Sections...), newSections...)
	s.state.Tasks = append(append([]model.Task(nil), s.state.Tasks...), newTasks...)
	s.commit()
	return dup, true
}
