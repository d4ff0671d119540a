package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/flowtide/flowtide/internal/model"
)

type SectionPatch struct {
	Title       *string
	Order       *int
	IsCollapsed *bool
}

func (s *Store) findSection(id string) (int, bool) {
	for i, sec := range s.state.Sections {
		if sec.ID == id {
			return i, true
		}
	}
	return 0, false
}

func replaceSection(sections []model.Section, i int, sec model.Section) []model.Section {
	out := append([]model.Section(nil), sections...)
	out[i] = sec
	return out
}

func (s *Store) AddSection(projectID, title string) (model.Section, bool) {
	sec := model.Section{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     strings.TrimSpace(title),
		Order:     s.nextSectionOrder(projectID),
	}
	now := model.NowStamp()
	sec.CreatedAt = now
	sec.UpdatedAt = now
	if err := sec.Validate(); err != nil {
		s.setErr("add section: %v", err)
		return model.Section{}, false
	}
	sec.Rev = 1
	sec.RevBy = s.deviceID()
	s.state.Sections = append(append([]model.Section(nil), s.state.Sections...), sec)
	s.commit()
	return sec, true
}

func (s *Store) UpdateSection(id string, patch SectionPatch) (model.Section, bool) {
	i, ok := s.findSection(id)
	if !ok {
		return model.Section{}, false
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		s.setErr("update section: %v", model.ErrEmptyTitle)
		return model.Section{}, false
	}
	cur := s.state.Sections[i]
	if patch.Title != nil {
		cur.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Order != nil {
		cur.Order = *patch.Order
	}
	if patch.IsCollapsed != nil {
		cur.IsCollapsed = *patch.IsCollapsed
	}
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = model.NowStamp()
	s.state.Sections = replaceSection(s.state.Sections, i, cur)
	s.commit()
	return cur, true
}

// DeleteSection tombstones the section and detaches its tasks: each task
// keeps its project but loses the sectionId, with its own revision bump, all
// in one mutation.
func (s *Store) DeleteSection(id string) bool {
	i, ok := s.findSection(id)
	if !ok || s.state.Sections[i].IsDeleted() {
		return false
	}
	now := model.NowStamp()
	device := s.deviceID()

	cur := s.state.Sections[i]
	cur.DeletedAt = now
	cur.Rev++
	cur.RevBy = device
	cur.UpdatedAt = now
	s.state.Sections = replaceSection(s.state.Sections, i, cur)

	tasks := append([]model.Task(nil), s.state.Tasks...)
	for j, t := range tasks {
		if t.SectionID != id || t.IsDeleted() {
			continue
		}
		child := t.Clone()
		child.SectionID = ""
		child.Rev++
		child.RevBy = device
		child.UpdatedAt = now
		tasks[j] = child
	}
	s.state.Tasks = tasks
	s.commit()
	return true
}

func (s *Store) RestoreSection(id string) (model.Section, bool) {
	i, ok := s.findSection(id)
	if !ok || !s.state.Sections[i].IsDeleted() {
		return model.Section{}, false
	}
	now := model.NowStamp()
	cur := s.state.Sections[i]
	cur.DeletedAt = ""
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = now
	s.state.Sections = replaceSection(s.state.Sections, i, cur)
	s.commit()
	return cur, true
}

// PurgeSection stamps purgedAt without a revision bump; storage discards
// the record on its next save.
func (s *Store) PurgeSection(id string) bool {
	i, ok := s.findSection(id)
	if !ok || s.state.Sections[i].PurgedAt != "" {
		return false
	}
	cur := s.state.Sections[i]
	cur.PurgedAt = model.NowStamp()
	s.state.Sections = replaceSection(s.state.Sections, i, cur)
	s.commit()
	return true
}
