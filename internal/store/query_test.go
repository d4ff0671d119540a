package store

import (
	"testing"

	"github.com/flowtide/flowtide/internal/model"
	"github.com/flowtide/flowtide/internal/storage"
)

func TestQueryTasksFallbackFilters(t *testing.T) {
	s, _ := newTestStore(t, storage.Snapshot{})
	p, _ := s.AddProject(model.Project{Title: "Reading"})
	s.AddTask(model.Task{Title: "inbox item"})
	next, _ := s.AddTask(model.Task{Title: "read chapter", Status: model.StatusNext, ProjectID: p.ID})
	archived, _ := s.AddTask(model.Task{Title: "old", Status: model.StatusNext})
	s.UpdateTask(archived.ID, TaskPatch{Status: statusPtr(model.StatusArchived)})
	deleted, _ := s.AddTask(model.Task{Title: "gone", Status: model.StatusNext})
	s.DeleteTask(deleted.ID)

	got := s.QueryTasks(storage.QueryOptions{Status: model.StatusNext})
	if len(got) != 1 || got[0].ID != next.ID {
		t.Fatalf("status filter = %v", got)
	}

	got = s.QueryTasks(storage.QueryOptions{})
	if len(got) != 2 {
		t.Fatalf("default listing must hide archived and deleted, got %d", len(got))
	}

	got = s.QueryTasks(storage.QueryOptions{IncludeArchived: true, IncludeDeleted: true})
	if len(got) != 4 {
		t.Fatalf("inclusive listing = %d, want 4", len(got))
	}

	got = s.QueryTasks(storage.QueryOptions{ProjectID: p.ID})
	if len(got) != 1 || got[0].ID != next.ID {
		t.Fatalf("project filter = %v", got)
	}

	got = s.QueryTasks(storage.QueryOptions{ExcludeStatuses: []model.TaskStatus{model.StatusInbox, model.StatusNext}})
	if len(got) != 0 {
		t.Fatalf("exclude filter = %v", got)
	}
}

func TestStoreSearchStatusAndContext(t *testing.T) {
	s, _ := newTestStore(t, storage.Snapshot{})
	match, _ := s.AddTask(model.Task{Title: "mop floor", Status: model.StatusNext, Contexts: []string{"@home/kitchen"}})
	s.AddTask(model.Task{Title: "email boss", Status: model.StatusNext, Contexts: []string{"@office"}})
	s.AddTask(model.Task{Title: "clean gutters", Status: model.StatusSomeday, Contexts: []string{"@home"}})
	dead, _ := s.AddTask(model.Task{Title: "wash car", Status: model.StatusNext, Contexts: []string{"@home"}})
	s.DeleteTask(dead.ID)

	tasks, _ := s.Search("status:next context:@home")
	if len(tasks) != 1 || tasks[0].ID != match.ID {
		t.Fatalf("search = %v", tasks)
	}

	tasks, projects := s.Search("")
	if len(tasks) != 0 || len(projects) != 0 {
		t.Fatal("empty query must match nothing")
	}
}
