package store

import (
	"time"

	"github.com/flowtide/flowtide/internal/model"
	"github.com/flowtide/flowtide/internal/search"
	"github.com/flowtide/flowtide/internal/storage"
)

// QueryTasks lists tasks matching opts. Adapters that implement the
// TaskQuerier pushdown answer directly; otherwise the in-memory collections
// are filtered here. A failing pushdown falls back to memory and surfaces
// the error.
func (s *Store) QueryTasks(opts storage.QueryOptions) []model.Task {
	if q, ok := s.stg.(storage.TaskQuerier); ok {
		tasks, err := q.QueryTasks(opts)
		if err == nil {
			return tasks
		}
		s.setErr("query failed: %v", err)
	}
	out := make([]model.Task, 0)
	for _, t := range s.state.Tasks {
		if matchQuery(t, opts) {
			out = append(out, t)
		}
	}
	return out
}

func matchQuery(t model.Task, opts storage.QueryOptions) bool {
	if t.PurgedAt != "" {
		return false
	}
	if !opts.IncludeDeleted && t.IsDeleted() {
		return false
	}
	if opts.Status != "" {
		if t.Status != opts.Status {
			return false
		}
	} else if !opts.IncludeArchived && t.Status == model.StatusArchived {
		return false
	}
	for _, st := range opts.ExcludeStatuses {
		if t.Status == st {
			return false
		}
	}
	if opts.ProjectID != "" && t.ProjectID != opts.ProjectID {
		return false
	}
	return true
}

// Search evaluates the structured query language over tasks and projects,
// preferring the adapter's Searcher pushdown when present.
func (s *Store) Search(query string) ([]model.Task, []model.Project) {
	if sr, ok := s.stg.(storage.Searcher); ok {
		tasks, projects, err := sr.SearchAll(query)
		if err == nil {
			return tasks, projects
		}
		s.setErr("search failed: %v", err)
	}
	return search.Search(s.state.Tasks, s.state.Projects, query)
}

// SearchAt is Search with an explicit anchor for relative date expressions.
// It always runs in memory.
func (s *Store) SearchAt(query string, now time.Time) ([]model.Task, []model.Project) {
	q := search.Parse(query)
	m := search.Matcher{Now: now, ProjectTitles: make(map[string]string, len(s.state.Projects))}
	for _, p := range s.state.Projects {
		m.ProjectTitles[p.ID] = p.Title
	}
	tasks := make([]model.Task, 0)
	for _, t := range s.state.Tasks {
		if m.MatchTask(q, t) {
			tasks = append(tasks, t)
		}
	}
	projects := make([]model.Project, 0)
	for _, p := range s.state.Projects {
		if m.MatchProject(q, p) {
			projects = append(projects, p)
		}
	}
	return tasks, projects
}
