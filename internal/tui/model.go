// Package tui is the terminal shell over the record store: a task list with
// quick capture, structured search, and a detail pane. All business logic
// lives in the store; this layer only translates keys into mutations.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/flowtide/flowtide/internal/model"
	"github.com/flowtide/flowtide/internal/store"
)

type Mode string

const (
	ModeBrowse  Mode = "browse"
	ModeCapture Mode = "capture"
	ModeSearch  Mode = "search"
)

type Model struct {
	Store *store.Store

	Mode     Mode
	Quitting bool

	taskList  list.Model
	quickAdd  textinput.Model
	searchBox textinput.Model

	searchActive  bool
	searchResults []model.Task

	width  int
	height int
}

func NewModel(s *store.Store) Model {
	quickAdd := textinput.New()
	quickAdd.Placeholder = "capture a task..."
	quickAdd.CharLimit = 200

	searchBox := textinput.New()
	searchBox.Placeholder = "status:next context:@home ..."
	searchBox.CharLimit = 200

	taskList := list.New(nil, list.NewDefaultDelegate(), 56, 18)
	taskList.Title = "Tasks"
	taskList.SetShowStatusBar(false)
	taskList.SetFilteringEnabled(false)
	taskList.SetShowHelp(false)

	m := Model{
		Store:     s,
		Mode:      ModeBrowse,
		taskList:  taskList,
		quickAdd:  quickAdd,
		searchBox: searchBox,
	}
	m.refreshList()
	return m
}

// visibleForList returns what the list shows: search results while a search
// is active, the visible projection otherwise.
func (m Model) visibleForList() []model.Task {
	if m.searchActive {
		return m.searchResults
	}
	return m.Store.VisibleTasks()
}

func (m *Model) refreshList() {
	tasks := m.visibleForList()
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = taskItem{task: t}
	}
	m.taskList.SetItems(items)
}

func (m Model) selectedTask() (model.Task, bool) {
	item, ok := m.taskList.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.task, true
}

type taskItem struct {
	task model.Task
}

func (i taskItem) Title() string {
	marker := " "
	if i.task.Status == model.StatusDone {
		marker = "x"
	}
	if i.task.IsFocusedToday {
		marker = "*"
	}
	return fmt.Sprintf("[%s] %s", marker, i.task.Title)
}

func (i taskItem) Description() string {
	desc := string(i.task.Status)
	if i.task.DueDate != "" {
		desc += " | due " + i.task.DueDate
	}
	for _, c := range i.task.Contexts {
		desc += " " + c
	}
	return desc
}

func (i taskItem) FilterValue() string {
	return i.task.Title
}
