package storage

import (
	"github.com/flowtide/flowtide/internal/model"
)

// Snapshot is the full persisted state: every record including tombstones,
// never the visible projection.
type Snapshot struct {
	Tasks    []model.Task    `json:"tasks"`
	Projects []model.Project `json:"projects"`
	Sections []model.Section `json:"sections"`
	Areas    []model.Area    `json:"areas"`
	Settings model.Settings  `json:"settings"`
}

// compact drops purged records from a snapshot. Purging stamps purgedAt in
// memory; the save is the point where the record actually leaves storage.
func compact(snap Snapshot) Snapshot {
	out := snap
	out.Tasks = nil
	for _, t := range snap.Tasks {
		if t.PurgedAt == "" {
			out.Tasks = append(out.Tasks, t)
		}
	}
	out.Projects = nil
	for _, p := range snap.Projects {
		if p.PurgedAt == "" {
			out.Projects = append(out.Projects, p)
		}
	}
	out.Sections = nil
	for _, sec := range snap.Sections {
		if sec.PurgedAt == "" {
			out.Sections = append(out.Sections, sec)
		}
	}
	return out
}

// QueryOptions narrows a task listing. Zero value means "all live tasks".
type QueryOptions struct {
	Status          model.TaskStatus
	ExcludeStatuses []model.TaskStatus
	ProjectID       string
	IncludeArchived bool
	IncludeDeleted  bool
}

// Storage loads and saves full snapshots.
type Storage interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// TaskQuerier is an optional pushdown: adapters that can filter tasks closer
// to the data implement it, and the store prefers it over in-memory scans.
type TaskQuerier interface {
	QueryTasks(QueryOptions) ([]model.Task, error)
}

// Searcher is an optional full-search pushdown with the same query language
// as the in-memory engine.
type Searcher interface {
	SearchAll(query string) ([]model.Task, []model.Project, error)
}
