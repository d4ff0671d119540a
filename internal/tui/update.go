package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowtide/flowtide/internal/model"
	"github.com/flowtide/flowtide/internal/store"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.taskList.SetSize(typed.Width-4, typed.Height-8)
		return m, nil
	case tea.KeyMsg:
		switch m.Mode {
		case ModeCapture:
			return m.handleCaptureKey(typed)
		case ModeSearch:
			return m.handleSearchKey(typed)
		default:
			return m.handleBrowseKey(typed)
		}
	}
	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func (m Model) handleBrowseKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c", "q":
		m.Quitting = true
		m.Store.Close()
		return m, tea.Quit
	case "a":
		m.Mode = ModeCapture
		m.quickAdd.SetValue("")
		m.quickAdd.Focus()
		m.Store.BeginEdit()
		return m, nil
	case "/":
		m.Mode = ModeSearch
		m.searchBox.SetValue("")
		m.searchBox.Focus()
		return m, nil
	case "esc":
		if m.searchActive {
			m.searchActive = false
			m.searchResults = nil
			m.refreshList()
		}
		return m, nil
	case "d":
		if t, ok := m.selectedTask(); ok {
			next := model.StatusDone
			if t.Status == model.StatusDone {
				next = model.StatusNext
			}
			m.Store.UpdateTask(t.ID, store.TaskPatch{Status: &next})
			m.refreshList()
		}
		return m, nil
	case "x":
		if t, ok := m.selectedTask(); ok {
			m.Store.DeleteTask(t.ID)
			m.refreshList()
		}
		return m, nil
	case "f":
		if t, ok := m.selectedTask(); ok {
			focused := !t.IsFocusedToday
			m.Store.UpdateTask(t.ID, store.TaskPatch{IsFocusedToday: &focused})
			m.refreshList()
		}
		return m, nil
	case "r":
		if m.Store.Reload() {
			m.searchActive = false
			m.searchResults = nil
			m.refreshList()
		}
		return m, nil
	case "e":
		m.Store.ClearErr()
		return m, nil
	}
	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(key)
	return m, cmd
}

func (m Model) handleCaptureKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		title := strings.TrimSpace(m.quickAdd.Value())
		if title != "" {
			m.Store.AddTask(model.Task{Title: title})
		}
		m.quickAdd.SetValue("")
		m.quickAdd.Blur()
		m.Mode = ModeBrowse
		m.Store.EndEdit()
		m.refreshList()
		return m, nil
	case "esc":
		m.quickAdd.Blur()
		m.Mode = ModeBrowse
		m.Store.EndEdit()
		return m, nil
	case "ctrl+c":
		m.Quitting = true
		m.Store.EndEdit()
		m.Store.Close()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.quickAdd, cmd = m.quickAdd.Update(key)
	return m, cmd
}

func (m Model) handleSearchKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "enter":
		query := m.searchBox.Value()
		tasks, _ := m.Store.Search(query)
		m.searchActive = true
		m.searchResults = tasks
		m.searchBox.Blur()
		m.Mode = ModeBrowse
		m.refreshList()
		return m, nil
	case "esc":
		m.searchBox.Blur()
		m.Mode = ModeBrowse
		return m, nil
	case "ctrl+c":
		m.Quitting = true
		m.Store.Close()
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.searchBox, cmd = m.searchBox.Update(key)
	return m, cmd
}
