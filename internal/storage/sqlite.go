package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flowtide/flowtide/internal/model"
	"github.com/flowtide/flowtide/internal/search"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  status TEXT NOT NULL,
  priority TEXT,
  tags TEXT,
  contexts TEXT,
  projectId TEXT,
  sectionId TEXT,
  areaId TEXT,
  orderNum INTEGER,
  dueDate TEXT,
  startTime TEXT,
  reviewAt TEXT,
  timeEstimate TEXT,
  recurrence TEXT,
  checklist TEXT,
  attachments TEXT,
  pushCount INTEGER NOT NULL DEFAULT 0,
  isFocusedToday INTEGER NOT NULL DEFAULT 0,
  completedAt TEXT,
  createdAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL,
  deletedAt TEXT,
  purgedAt TEXT,
  rev INTEGER NOT NULL DEFAULT 0,
  revBy TEXT
);

CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  color TEXT NOT NULL,
  status TEXT NOT NULL,
  orderNum INTEGER,
  isFocused INTEGER NOT NULL DEFAULT 0,
  areaId TEXT,
  tagIds TEXT,
  attachments TEXT,
  createdAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL,
  deletedAt TEXT,
  purgedAt TEXT,
  rev INTEGER NOT NULL DEFAULT 0,
  revBy TEXT
);

CREATE TABLE IF NOT EXISTS sections (
  id TEXT PRIMARY KEY,
  projectId TEXT NOT NULL,
  title TEXT NOT NULL,
  orderNum INTEGER NOT NULL DEFAULT 0,
  isCollapsed INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL,
  deletedAt TEXT,
  purgedAt TEXT,
  rev INTEGER NOT NULL DEFAULT 0,
  revBy TEXT
);

CREATE TABLE IF NOT EXISTS areas (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  color TEXT,
  icon TEXT,
  orderNum INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT,
  updatedAt TEXT,
  rev INTEGER NOT NULL DEFAULT 0,
  revBy TEXT
);

CREATE TABLE IF NOT EXISTS settings (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  data TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_projectId ON tasks(projectId);
CREATE INDEX IF NOT EXISTS idx_tasks_deletedAt ON tasks(deletedAt);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
CREATE INDEX IF NOT EXISTS idx_projects_areaId ON projects(areaId);
`

// SQLite persists snapshots into one table per record kind, with JSON text
// columns for the nested collections and a single-row settings blob.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(db *sql.DB) (*SQLite, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	s, err := NewSQLite(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// Save rewrites the whole snapshot in one transaction. Snapshots are
// full-state, so the previous contents are simply replaced; rows stamped
// purgedAt are dropped here.
func (s *SQLite) Save(snap Snapshot) error {
	snap = compact(snap)
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"tasks", "projects", "sections", "areas", "settings"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range snap.Tasks {
		if err := insertTask(tx, t); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	for _, p := range snap.Projects {
		if err := insertProject(tx, p); err != nil {
			return fmt.Errorf("insert project %s: %w", p.ID, err)
		}
	}
	for _, sec := range snap.Sections {
		if err := insertSection(tx, sec); err != nil {
			return fmt.Errorf("insert section %s: %w", sec.ID, err)
		}
	}
	for _, a := range snap.Areas {
		if err := insertArea(tx, a); err != nil {
			return fmt.Errorf("insert area %s: %w", a.ID, err)
		}
	}

	data, err := json.Marshal(snap.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO settings (id, data) VALUES (1, ?)`, string(data)); err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) Load() (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Tasks, err = s.loadTasks("", nil); err != nil {
		return Snapshot{}, err
	}
	if snap.Projects, err = s.loadProjects(); err != nil {
		return Snapshot{}, err
	}
	if snap.Sections, err = s.loadSections(); err != nil {
		return Snapshot{}, err
	}
	if snap.Areas, err = s.loadAreas(); err != nil {
		return Snapshot{}, err
	}
	if snap.Settings, err = s.loadSettings(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// QueryTasks is the filter pushdown used by the store when present.
func (s *SQLite) QueryTasks(opts QueryOptions) ([]model.Task, error) {
	clauses := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if !opts.IncludeDeleted {
		clauses = append(clauses, "deletedAt IS NULL")
	}
	if opts.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(opts.Status))
	} else if !opts.IncludeArchived {
		clauses = append(clauses, "status != ?")
		args = append(args, string(model.StatusArchived))
	}
	if len(opts.ExcludeStatuses) > 0 {
		marks := make([]string, len(opts.ExcludeStatuses))
		for i, st := range opts.ExcludeStatuses {
			marks[i] = "?"
			args = append(args, string(st))
		}
		clauses = append(clauses, "status NOT IN ("+strings.Join(marks, ", ")+")")
	}
	if opts.ProjectID != "" {
		clauses = append(clauses, "projectId = ?")
		args = append(args, opts.ProjectID)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}
	return s.loadTasks(where, args)
}

// SearchAll loads the live rows and runs the core matcher over them, so the
// adapter answers the same language as the in-memory engine.
func (s *SQLite) SearchAll(query string) ([]model.Task, []model.Project, error) {
	tasks, err := s.loadTasks("", nil)
	if err != nil {
		return nil, nil, err
	}
	projects, err := s.loadProjects()
	if err != nil {
		return nil, nil, err
	}
	matchedTasks, matchedProjects := search.Search(tasks, projects, query)
	return matchedTasks, matchedProjects, nil
}

const taskColumns = `id, title, description, status, priority, tags, contexts, projectId, sectionId, areaId,
	orderNum, dueDate, startTime, reviewAt, timeEstimate, recurrence, checklist, attachments,
	pushCount, isFocusedToday, completedAt, createdAt, updatedAt, deletedAt, purgedAt, rev, revBy`

func insertTask(tx *sql.Tx, t model.Task) error {
	tags, err := jsonCol(t.Tags)
	if err != nil {
		return err
	}
	contexts, err := jsonCol(t.Contexts)
	if err != nil {
		return err
	}
	recurrence, err := jsonCol(t.Recurrence)
	if err != nil {
		return err
	}
	checklist, err := jsonCol(t.Checklist)
	if err != nil {
		return err
	}
	attachments, err := jsonCol(t.Attachments)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, nullStr(t.Description), string(t.Status), nullStr(t.Priority), tags, contexts,
		nullStr(t.ProjectID), nullStr(t.SectionID), nullStr(t.AreaID), nullInt(t.OrderNum),
		nullStr(t.DueDate), nullStr(t.StartTime), nullStr(t.ReviewAt), nullStr(t.TimeEstimate),
		recurrence, checklist, attachments, t.PushCount, boolInt(t.IsFocusedToday),
		nullStr(t.CompletedAt), t.CreatedAt, t.UpdatedAt, nullStr(t.DeletedAt), nullStr(t.PurgedAt),
		t.Rev, nullStr(t.RevBy),
	)
	return err
}

func (s *SQLite) loadTasks(where string, args []any) ([]model.Task, error) {
	rows, err := s.db.Query(`SELECT `+taskColumns+` FROM tasks`+where+` ORDER BY createdAt ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	var description, priority, tags, contexts, projectID, sectionID, areaID sql.NullString
	var dueDate, startTime, reviewAt, timeEstimate, recurrence, checklist, attachments sql.NullString
	var completedAt, deletedAt, purgedAt, revBy sql.NullString
	var orderNum sql.NullInt64
	var focused int
	var status string
	if err := s.Scan(&t.ID, &t.Title, &description, &status, &priority, &tags, &contexts,
		&projectID, &sectionID, &areaID, &orderNum, &dueDate, &startTime, &reviewAt, &timeEstimate,
		&recurrence, &checklist, &attachments, &t.PushCount, &focused, &completedAt,
		&t.CreatedAt, &t.UpdatedAt, &deletedAt, &purgedAt, &t.Rev, &revBy); err != nil {
		return model.Task{}, err
	}
	t.Status = model.TaskStatus(status)
	t.Description = description.String
	t.Priority = priority.String
	t.ProjectID = projectID.String
	t.SectionID = sectionID.String
	t.AreaID = areaID.String
	t.DueDate = dueDate.String
	t.StartTime = startTime.String
	t.ReviewAt = reviewAt.String
	t.TimeEstimate = timeEstimate.String
	t.CompletedAt = completedAt.String
	t.DeletedAt = deletedAt.String
	t.PurgedAt = purgedAt.String
	t.RevBy = revBy.String
	t.IsFocusedToday = focused != 0
	if orderNum.Valid {
		v := int(orderNum.Int64)
		t.OrderNum = &v
	}
	if err := jsonParse(tags, &t.Tags); err != nil {
		return model.Task{}, fmt.Errorf("task %s tags: %w", t.ID, err)
	}
	if err := jsonParse(contexts, &t.Contexts); err != nil {
		return model.Task{}, fmt.Errorf("task %s contexts: %w", t.ID, err)
	}
	if err := jsonParse(recurrence, &t.Recurrence); err != nil {
		return model.Task{}, fmt.Errorf("task %s recurrence: %w", t.ID, err)
	}
	if err := jsonParse(checklist, &t.Checklist); err != nil {
		return model.Task{}, fmt.Errorf("task %s checklist: %w", t.ID, err)
	}
	if err := jsonParse(attachments, &t.Attachments); err != nil {
		return model.Task{}, fmt.Errorf("task %s attachments: %w", t.ID, err)
	}
	return t, nil
}

const projectColumns = `id, title, color, status, orderNum, isFocused, areaId, tagIds, attachments,
	createdAt, updatedAt, deletedAt, purgedAt, rev, revBy`

func insertProject(tx *sql.Tx, p model.Project) error {
	tagIDs, err := jsonCol(p.TagIDs)
	if err != nil {
		return err
	}
	attachments, err := jsonCol(p.Attachments)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Color, string(p.Status), nullInt(p.Order), boolInt(p.IsFocused),
		nullStr(p.AreaID), tagIDs, attachments, p.CreatedAt, p.UpdatedAt,
		nullStr(p.DeletedAt), nullStr(p.PurgedAt), p.Rev, nullStr(p.RevBy),
	)
	return err
}

func (s *SQLite) loadProjects() ([]model.Project, error) {
	rows, err := s.db.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY createdAt ASC`)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	out := make([]model.Project, 0)
	for rows.Next() {
		var p model.Project
		var areaID, tagIDs, attachments, deletedAt, purgedAt, revBy sql.NullString
		var orderNum sql.NullInt64
		var focused int
		var status string
		if err := rows.Scan(&p.ID, &p.Title, &p.Color, &status, &orderNum, &focused, &areaID,
			&tagIDs, &attachments, &p.CreatedAt, &p.UpdatedAt, &deletedAt, &purgedAt, &p.Rev, &revBy); err != nil {
			return nil, err
		}
		p.Status = model.ProjectStatus(status)
		p.AreaID = areaID.String
		p.DeletedAt = deletedAt.String
		p.PurgedAt = purgedAt.String
		p.RevBy = revBy.String
		p.IsFocused = focused != 0
		if orderNum.Valid {
			v := int(orderNum.Int64)
			p.Order = &v
		}
		if err := jsonParse(tagIDs, &p.TagIDs); err != nil {
			return nil, fmt.Errorf("project %s tagIds: %w", p.ID, err)
		}
		if err := jsonParse(attachments, &p.Attachments); err != nil {
			return nil, fmt.Errorf("project %s attachments: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func insertSection(tx *sql.Tx, sec model.Section) error {
	_, err := tx.Exec(`INSERT INTO sections (id, projectId, title, orderNum, isCollapsed, createdAt, updatedAt, deletedAt, purgedAt, rev, revBy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sec.ID, sec.ProjectID, sec.Title, sec.Order, boolInt(sec.IsCollapsed),
		sec.CreatedAt, sec.UpdatedAt, nullStr(sec.DeletedAt), nullStr(sec.PurgedAt), sec.Rev, nullStr(sec.RevBy),
	)
	return err
}

func (s *SQLite) loadSections() ([]model.Section, error) {
	rows, err := s.db.Query(`SELECT id, projectId, title, orderNum, isCollapsed, createdAt, updatedAt, deletedAt, purgedAt, rev, revBy
		FROM sections ORDER BY orderNum ASC`)
	if err != nil {
		return nil, fmt.Errorf("query sections: %w", err)
	}
	defer rows.Close()

	out := make([]model.Section, 0)
	for rows.Next() {
		var sec model.Section
		var deletedAt, purgedAt, revBy sql.NullString
		var collapsed int
		if err := rows.Scan(&sec.ID, &sec.ProjectID, &sec.Title, &sec.Order, &collapsed,
			&sec.CreatedAt, &sec.UpdatedAt, &deletedAt, &purgedAt, &sec.Rev, &revBy); err != nil {
			return nil, err
		}
		sec.IsCollapsed = collapsed != 0
		sec.DeletedAt = deletedAt.String
		sec.PurgedAt = purgedAt.String
		sec.RevBy = revBy.String
		out = append(out, sec)
	}
	return out, rows.Err()
}

func insertArea(tx *sql.Tx, a model.Area) error {
	_, err := tx.Exec(`INSERT INTO areas (id, name, color, icon, orderNum, createdAt, updatedAt, rev, revBy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, nullStr(a.Color), nullStr(a.Icon), a.Order,
		nullStr(a.CreatedAt), nullStr(a.UpdatedAt), a.Rev, nullStr(a.RevBy),
	)
	return err
}

func (s *SQLite) loadAreas() ([]model.Area, error) {
	rows, err := s.db.Query(`SELECT id, name, color, icon, orderNum, createdAt, updatedAt, rev, revBy
		FROM areas ORDER BY orderNum ASC`)
	if err != nil {
		return nil, fmt.Errorf("query areas: %w", err)
	}
	defer rows.Close()

	out := make([]model.Area, 0)
	for rows.Next() {
		var a model.Area
		var color, icon, createdAt, updatedAt, revBy sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &color, &icon, &a.Order, &createdAt, &updatedAt, &a.Rev, &revBy); err != nil {
			return nil, err
		}
		a.Color = color.String
		a.Icon = icon.String
		a.CreatedAt = createdAt.String
		a.UpdatedAt = updatedAt.String
		a.RevBy = revBy.String
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLite) loadSettings() (model.Settings, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Settings{}, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("query settings: %w", err)
	}
	var out model.Settings
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return model.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func nullStr(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func jsonCol(v any) (any, error) {
	switch typed := v.(type) {
	case []string:
		if typed == nil {
			return nil, nil
		}
	case []model.ChecklistItem:
		if typed == nil {
			return nil, nil
		}
	case []model.Attachment:
		if typed == nil {
			return nil, nil
		}
	case *model.Recurrence:
		if typed == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func jsonParse(raw sql.NullString, dest any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dest)
}
