package store

import "github.com/flowtide/flowtide/internal/model"

// Visibility predicates decide whether a record belongs to the UI-facing
// projection. Tombstoned records stay in the all collection for sync but
// never appear here; archived tasks are hidden while archived projects are
// still shown (the UI renders them dimmed).

func taskVisible(t model.Task) bool {
	return t.DeletedAt == "" && t.PurgedAt == "" && t.Status != model.StatusArchived
}

func projectVisible(p model.Project) bool {
	return p.DeletedAt == "" && p.PurgedAt == ""
}

func sectionVisible(s model.Section) bool {
	return s.DeletedAt == "" && s.PurgedAt == ""
}
