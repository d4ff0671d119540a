package store

import (
	"github.com/flowtide/flowtide/internal/model"
	"github.com/flowtide/flowtide/internal/storage"
)

// State holds the full "all records" collections, tombstones included.
// Mutations replace slices rather than editing records in place, so a
// snapshot scheduled for persistence can safely share the old backing
// arrays.
type State struct {
	Tasks    []model.Task
	Projects []model.Project
	Sections []model.Section
	Areas    []model.Area
	Settings model.Settings
}

func stateFromSnapshot(snap storage.Snapshot) State {
	return State{
		Tasks:    snap.Tasks,
		Projects: snap.Projects,
		Sections: snap.Sections,
		Areas:    snap.Areas,
		Settings: snap.Settings,
	}
}

func (st State) snapshot() storage.Snapshot {
	return storage.Snapshot{
		Tasks:    st.Tasks,
		Projects: st.Projects,
		Sections: st.Sections,
		Areas:    st.Areas,
		Settings: st.Settings,
	}
}

// visibleState is the UI-facing projection, recomputed once per commit.
type visibleState struct {
	Tasks    []model.Task
	Projects []model.Project
	Sections []model.Section
}

func project(st State) visibleState {
	var v visibleState
	for _, t := range st.Tasks {
		if taskVisible(t) {
			v.Tasks = append(v.Tasks, t)
		}
	}
	for _, p := range st.Projects {
		if projectVisible(p) {
			v.Projects = append(v.Projects, p)
		}
	}
	for _, sec := range st.Sections {
		if sectionVisible(sec) {
			v.Sections = append(v.Sections, sec)
		}
	}
	return v
}

// AllSnapshot returns the full persisted state: every collection with
// tombstones included, plus settings. This is the same shape the
// persistence gate writes.
func (s *Store) AllSnapshot() storage.Snapshot { return s.state.snapshot() }

// AllTasks returns every task record, tombstones included.
func (s *Store) AllTasks() []model.Task { return s.state.Tasks }

func (s *Store) AllProjects() []model.Project { return s.state.Projects }

func (s *Store) AllSections() []model.Section { return s.state.Sections }

// Areas have no tombstones, so the all and visible views coincide.
func (s *Store) Areas() []model.Area { return s.state.Areas }

// VisibleTasks returns the non-deleted, non-archived tasks.
func (s *Store) VisibleTasks() []model.Task { return s.visible.Tasks }

func (s *Store) VisibleProjects() []model.Project { return s.visible.Projects }

func (s *Store) VisibleSections() []model.Section { return s.visible.Sections }
