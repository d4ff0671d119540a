package store

import (
	"strings"

	"github.com/google/uuid"

	"github.com/flowtide/flowtide/internal/model"
)

type AreaPatch struct {
	Name  *string
	Color *string
	Icon  *string
	Order *int
}

func (s *Store) findArea(id string) (int, bool) {
	for i, a := range s.state.Areas {
		if a.ID == id {
			return i, true
		}
	}
	return 0, false
}

// AddArea creates an area. Names are unique case-insensitively; an existing
// area with the same name is returned unchanged.
func (s *Store) AddArea(name string) (model.Area, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.setErr("add area: %v", model.ErrEmptyTitle)
		return model.Area{}, false
	}
	for _, a := range s.state.Areas {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	now := model.NowStamp()
	order := 0
	for _, a := range s.state.Areas {
		if a.Order >= order {
			order = a.Order + 1
		}
	}
	area := model.Area{
		ID:        uuid.NewString(),
		Name:      name,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
		Rev:       1,
		RevBy:     s.deviceID(),
	}
	s.state.Areas = append(append([]model.Area(nil), s.state.Areas...), area)
	s.commit()
	return area, true
}

func (s *Store) UpdateArea(id string, patch AreaPatch) (model.Area, bool) {
	i, ok := s.findArea(id)
	if !ok {
		return model.Area{}, false
	}
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			s.setErr("update area: %v", model.ErrEmptyTitle)
			return model.Area{}, false
		}
		for j, a := range s.state.Areas {
			if j != i && strings.EqualFold(a.Name, trimmed) {
				s.setErr("update area: name %q already in use", trimmed)
				return model.Area{}, false
			}
		}
	}
	cur := s.state.Areas[i]
	if patch.Name != nil {
		cur.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Color != nil {
		cur.Color = *patch.Color
	}
	if patch.Icon != nil {
		cur.Icon = *patch.Icon
	}
	if patch.Order != nil {
		cur.Order = *patch.Order
	}
	cur.Rev++
	cur.RevBy = s.deviceID()
	cur.UpdatedAt = model.NowStamp()
	areas := append([]model.Area(nil), s.state.Areas...)
	areas[i] = cur
	s.state.Areas = areas
	s.commit()
	return cur, true
}

// DeleteArea hard-removes an area: there is no tombstone, so child projects
// and tasks are detached in the same mutation, each with a revision bump.
func (s *Store) DeleteArea(id string) bool {
	i, ok := s.findArea(id)
	if !ok {
		return false
	}
	now := model.NowStamp()
	device := s.deviceID()

	areas := append([]model.Area(nil), s.state.Areas[:i]...)
	areas = append(areas, s.state.Areas[i+1:]...)
	s.state.Areas = areas

	projects := append([]model.Project(nil), s.state.Projects...)
	for j, p := range projects {
		if p.AreaID != id {
			continue
		}
		next := p.Clone()
		next.AreaID = ""
		next.Rev++
		next.RevBy = device
		next.UpdatedAt = now
		projects[j] = next
	}
	s.state.Projects = projects

	tasks := append([]model.Task(nil), s.state.Tasks...)
	for j, t := range tasks {
		if t.AreaID != id {
			continue
		}
		next := t.Clone()
		next.AreaID = ""
		next.Rev++
		next.RevBy = device
		next.UpdatedAt = now
		tasks[j] = next
	}
	s.state.Tasks = tasks
	s.commit()
	return true
}
