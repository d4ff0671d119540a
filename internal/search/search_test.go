package search

import (
	"testing"
	"time"

	"github.com/flowtide/flowtide/internal/model"
)

func testMatcher() Matcher {
	return Matcher{
		Now:           time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		ProjectTitles: map[string]string{"p1": "Spring Cleaning"},
	}
}

func TestTokenizeQuoting(t *testing.T) {
	got := tokenize(`status:next "call the plumber" -tag:home OR water`)
	want := []token{
		{text: "status:next"},
		{text: "call the plumber", quoted: true},
		{text: "-tag:home"},
		{text: "OR"},
		{text: "water"},
	}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestQuotedSeparatorIsText(t *testing.T) {
	q := Parse(`review "OR" draft`)
	if len(q.Clauses) != 1 {
		t.Fatalf("quoted OR must not split clauses, got %d", len(q.Clauses))
	}
	terms := q.Clauses[0].Terms
	if len(terms) != 3 || terms[1].Field != "" || terms[1].Value != "OR" {
		t.Fatalf("terms = %+v", terms)
	}
	m := testMatcher()
	task := model.Task{ID: "t1", Title: "draft OR review decision", Status: model.StatusNext}
	if !m.MatchTask(q, task) {
		t.Fatal("literal OR must be searchable when quoted")
	}
}

func TestQuotedFilterSyntaxIsText(t *testing.T) {
	q := Parse(`"status:next"`)
	term := q.Clauses[0].Terms[0]
	if term.Field != "" || term.Value != "status:next" {
		t.Fatalf("quoted filter must stay literal, got %+v", term)
	}
}

func TestParseClausesAndComparators(t *testing.T) {
	q := Parse("status:next due:<=3d | -tag:errand buy")
	if len(q.Clauses) != 2 {
		t.Fatalf("clauses = %d, want 2", len(q.Clauses))
	}
	first := q.Clauses[0].Terms
	if first[0].Field != "status" || first[0].Value != "next" || first[0].Cmp != CmpEq {
		t.Fatalf("term 0 = %+v", first[0])
	}
	if first[1].Field != "due" || first[1].Cmp != CmpLe || first[1].Value != "3d" {
		t.Fatalf("term 1 = %+v", first[1])
	}
	second := q.Clauses[1].Terms
	if !second[0].Negated || second[0].Field != "tag" {
		t.Fatalf("negated term = %+v", second[0])
	}
	if second[1].Field != "" || second[1].Value != "buy" {
		t.Fatalf("text term = %+v", second[1])
	}
}

func TestParseUnknownFieldIsText(t *testing.T) {
	q := Parse("re:meeting")
	term := q.Clauses[0].Terms[0]
	if term.Field != "" || term.Value != "re:meeting" {
		t.Fatalf("unknown field must fall back to text, got %+v", term)
	}
}

func TestEmptyQueryMatchesNothing(t *testing.T) {
	m := testMatcher()
	task := model.Task{ID: "t1", Title: "anything", Status: model.StatusNext}
	if m.MatchTask(Parse(""), task) {
		t.Fatal("empty query must not match")
	}
	tasks, projects := Search([]model.Task{task}, []model.Project{{ID: "p1", Title: "x", Status: model.ProjectActive}}, "")
	if len(tasks) != 0 || len(projects) != 0 {
		t.Fatalf("empty query returned %d tasks, %d projects", len(tasks), len(projects))
	}
}

func TestStatusAndContextClause(t *testing.T) {
	m := testMatcher()
	q := Parse("status:next context:@home")
	match := model.Task{ID: "t1", Title: "mop floor", Status: model.StatusNext, Contexts: []string{"@home/kitchen"}}
	if !m.MatchTask(q, match) {
		t.Fatal("hierarchical context prefix must match")
	}
	wrongStatus := match
	wrongStatus.Status = model.StatusSomeday
	if m.MatchTask(q, wrongStatus) {
		t.Fatal("status term must filter")
	}
}

func TestBareContextTokenFiltersContexts(t *testing.T) {
	tagged := model.Task{ID: "t1", Title: "mop floor", Status: model.StatusNext, Contexts: []string{"@home/kitchen"}}
	mention := model.Task{ID: "t2", Title: "errand near @home depot", Status: model.StatusNext}

	tasks, _ := Search([]model.Task{tagged, mention}, nil, "status:next @home")
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Fatalf("bare @home must filter contexts hierarchically, got %v", tasks)
	}

	// Negated shorthand excludes the context-tagged task.
	tasks, _ = Search([]model.Task{tagged, mention}, nil, "status:next -@home")
	if len(tasks) != 1 || tasks[0].ID != "t2" {
		t.Fatalf("-@home must exclude context matches, got %v", tasks)
	}
}

func TestHierarchicalPrefixBoundary(t *testing.T) {
	if anyHierarchical([]string{"@homestead"}, "@home") {
		t.Fatal("@home must not match @homestead")
	}
	if !anyHierarchical([]string{"@home"}, "@home") {
		t.Fatal("exact context must match")
	}
	if !anyHierarchical([]string{"@Home/Kitchen"}, "@home") {
		t.Fatal("matching must be case-insensitive")
	}
}

func TestNegation(t *testing.T) {
	m := testMatcher()
	q := Parse("-status:done")
	if m.MatchTask(q, model.Task{ID: "t1", Title: "x", Status: model.StatusDone}) {
		t.Fatal("negated status must exclude done")
	}
	if !m.MatchTask(q, model.Task{ID: "t2", Title: "x", Status: model.StatusNext}) {
		t.Fatal("negated status must keep others")
	}
}

func TestOrClauses(t *testing.T) {
	m := testMatcher()
	q := Parse("status:waiting OR status:someday")
	if !m.MatchTask(q, model.Task{ID: "t1", Title: "x", Status: model.StatusSomeday}) {
		t.Fatal("second clause must match")
	}
	if m.MatchTask(q, model.Task{ID: "t2", Title: "x", Status: model.StatusNext}) {
		t.Fatal("no clause matches next")
	}
}

func TestDateComparators(t *testing.T) {
	m := testMatcher()
	task := model.Task{ID: "t1", Title: "renew passport", Status: model.StatusNext, DueDate: "2026-03-12T09:00"}
	cases := []struct {
		query string
		want  bool
	}{
		{"due:=2026-03-12", true},
		{"due:2026-03-12", true},
		{"due:=2026-03-13", false},
		{"due:<=3d", true},
		{"due:<2d", false},
		{"due:>today", true},
		{"due:>1w", false},
		{"due:=tomorrow", false},
	}
	for _, tc := range cases {
		if got := m.MatchTask(Parse(tc.query), task); got != tc.want {
			t.Fatalf("%q = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestDeletedNeverMatches(t *testing.T) {
	m := testMatcher()
	q := Parse("status:next")
	task := model.Task{ID: "t1", Title: "x", Status: model.StatusNext, DeletedAt: "2026-03-01T00:00:00Z"}
	if m.MatchTask(q, task) {
		t.Fatal("tombstone must never match")
	}
	project := model.Project{ID: "p1", Title: "x", Status: model.ProjectActive, DeletedAt: "2026-03-01T00:00:00Z"}
	if m.MatchProject(Parse("x"), project) {
		t.Fatal("deleted project must never match")
	}
}

func TestProjectMatching(t *testing.T) {
	m := testMatcher()
	p := model.Project{ID: "p1", Title: "Spring Cleaning", Status: model.ProjectActive, TagIDs: []string{"home/garage"}}
	if !m.MatchProject(Parse("spring"), p) {
		t.Fatal("text must match project title")
	}
	if !m.MatchProject(Parse("status:active"), p) {
		t.Fatal("status must match project status")
	}
	if !m.MatchProject(Parse("tag:home"), p) {
		t.Fatal("tag must match tagIds hierarchically")
	}
	if m.MatchProject(Parse("due:today"), p) {
		t.Fatal("task-only fields never match projects")
	}
}

func TestProjectFieldOnTasks(t *testing.T) {
	m := testMatcher()
	task := model.Task{ID: "t1", Title: "wash windows", Status: model.StatusNext, ProjectID: "p1"}
	if !m.MatchTask(Parse("project:cleaning"), task) {
		t.Fatal("project term must match the parent title")
	}
	orphan := model.Task{ID: "t2", Title: "wash windows", Status: model.StatusNext}
	if m.MatchTask(Parse("project:cleaning"), orphan) {
		t.Fatal("task without project must not match")
	}
}
