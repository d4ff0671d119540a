package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/flowtide/flowtide/internal/model"
)

// Matcher evaluates a parsed query against records. Now anchors the relative
// date expressions; ProjectTitles resolves project: terms on tasks.
type Matcher struct {
	Now           time.Time
	ProjectTitles map[string]string
}

// Search runs query over both collections and returns the matches. Deleted
// records never match, and an empty query returns empty sets.
func Search(tasks []model.Task, projects []model.Project, query string) ([]model.Task, []model.Project) {
	q := Parse(query)
	m := Matcher{Now: time.Now(), ProjectTitles: make(map[string]string, len(projects))}
	for _, p := range projects {
		m.ProjectTitles[p.ID] = p.Title
	}
	matchedTasks := make([]model.Task, 0)
	for _, t := range tasks {
		if m.MatchTask(q, t) {
			matchedTasks = append(matchedTasks, t)
		}
	}
	matchedProjects := make([]model.Project, 0)
	for _, p := range projects {
		if m.MatchProject(q, p) {
			matchedProjects = append(matchedProjects, p)
		}
	}
	return matchedTasks, matchedProjects
}

func (m Matcher) MatchTask(q Query, t model.Task) bool {
	if q.Empty() || t.IsDeleted() || t.PurgedAt != "" {
		return false
	}
	for _, clause := range q.Clauses {
		if m.taskClause(clause, t) {
			return true
		}
	}
	return false
}

func (m Matcher) MatchProject(q Query, p model.Project) bool {
	if q.Empty() || p.IsDeleted() || p.PurgedAt != "" {
		return false
	}
	for _, clause := range q.Clauses {
		if m.projectClause(clause, p) {
			return true
		}
	}
	return false
}

func (m Matcher) taskClause(c Clause, t model.Task) bool {
	for _, term := range c.Terms {
		if m.taskTerm(term, t) == term.Negated {
			return false
		}
	}
	return true
}

func (m Matcher) projectClause(c Clause, p model.Project) bool {
	for _, term := range c.Terms {
		if m.projectTerm(term, p) == term.Negated {
			return false
		}
	}
	return true
}

func (m Matcher) taskTerm(term Term, t model.Task) bool {
	switch term.Field {
	case "":
		return containsFold(t.Title, term.Value) || containsFold(t.Description, term.Value)
	case "status":
		return strings.EqualFold(string(t.Status), term.Value)
	case "context":
		return anyHierarchical(t.Contexts, term.Value)
	case "tag":
		return anyHierarchical(t.Tags, term.Value)
	case "project":
		if t.ProjectID == "" {
			return false
		}
		return containsFold(m.ProjectTitles[t.ProjectID], term.Value)
	case "due":
		return m.dateTerm(term, t.DueDate)
	case "start":
		return m.dateTerm(term, t.StartTime)
	case "review":
		return m.dateTerm(term, t.ReviewAt)
	case "created":
		return m.dateTerm(term, t.CreatedAt)
	default:
		return false
	}
}

// Projects expose fewer fields: text matches the title, status matches the
// project status, tag matches tagIds. Task-only fields never match.
func (m Matcher) projectTerm(term Term, p model.Project) bool {
	switch term.Field {
	case "":
		return containsFold(p.Title, term.Value)
	case "status":
		return strings.EqualFold(string(p.Status), term.Value)
	case "tag":
		return anyHierarchical(p.TagIDs, term.Value)
	default:
		return false
	}
}

func (m Matcher) dateTerm(term Term, stamp string) bool {
	recordAt, ok := model.ParseStamp(stamp)
	if !ok {
		return false
	}
	target, ok := m.resolveDate(term.Value)
	if !ok {
		return false
	}
	switch term.Cmp {
	case CmpLt:
		return recordAt.Before(target)
	case CmpLe:
		return !recordAt.After(target)
	case CmpGt:
		return recordAt.After(target)
	case CmpGe:
		return !recordAt.Before(target)
	default:
		// Day granularity: the record falls on the target's calendar day.
		dayStart := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		return !recordAt.Before(dayStart) && recordAt.Before(dayEnd)
	}
}

// resolveDate evaluates a date expression: today, tomorrow, a relative
// offset like 3d/2w/1m/1y, or an absolute yyyy-MM-dd.
func (m Matcher) resolveDate(expr string) (time.Time, bool) {
	now := m.Now
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch strings.ToLower(expr) {
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}
	if t, err := time.Parse("2006-01-02", expr); err == nil {
		return t, true
	}
	if len(expr) < 2 {
		return time.Time{}, false
	}
	n, err := strconv.Atoi(expr[:len(expr)-1])
	if err != nil {
		return time.Time{}, false
	}
	switch expr[len(expr)-1] {
	case 'd', 'D':
		return today.AddDate(0, 0, n), true
	case 'w', 'W':
		return today.AddDate(0, 0, 7*n), true
	case 'm', 'M':
		return today.AddDate(0, n, 0), true
	case 'y', 'Y':
		return today.AddDate(n, 0, 0), true
	}
	return time.Time{}, false
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// anyHierarchical reports whether any value equals the query or sits below
// it in the slash hierarchy, so "@home" covers "@home/kitchen".
func anyHierarchical(values []string, query string) bool {
	q := strings.ToLower(query)
	for _, v := range values {
		lv := strings.ToLower(v)
		if lv == q || strings.HasPrefix(lv, q+"/") {
			return true
		}
	}
	return false
}
