package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	header := fmt.Sprintf("flowtide | %d tasks", len(m.visibleForList()))
	if m.searchActive {
		header += " | search results (esc to clear)"
	}

	left := panelStyle.Width(58).Render(m.taskList.View())
	right := panelStyle.Width(58).Render(m.renderDetailPane())
	row := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var input string
	switch m.Mode {
	case ModeCapture:
		input = "add: " + m.quickAdd.View()
	case ModeSearch:
		input = "search: " + m.searchBox.View()
	}

	status := ""
	if err := m.Store.Err(); err != "" {
		status = errorStyle.Render("error: " + err + " (e to dismiss)")
	} else if input == "" {
		status = statusStyle.Render("ready")
	}

	lines := []string{headerStyle.Render(header), row}
	if input != "" {
		lines = append(lines, input)
	}
	if status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, footerStyle.Render("keys: a add | / search | d done | x delete | f focus | r reload | q quit"))
	return strings.Join(lines, "\n")
}

func (m Model) renderDetailPane() string {
	t, ok := m.selectedTask()
	if !ok {
		return "no task selected"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nstatus: %s", t.Title, t.Status)
	if t.DueDate != "" {
		fmt.Fprintf(&b, "\ndue: %s", t.DueDate)
	}
	if t.Recurrence != nil {
		fmt.Fprintf(&b, "\nrepeats: %s", t.Recurrence.Rule)
	}
	if t.PushCount > 0 {
		fmt.Fprintf(&b, "\npushed: %d times", t.PushCount)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "\ntags: %s", strings.Join(t.Tags, ", "))
	}
	if len(t.Contexts) > 0 {
		fmt.Fprintf(&b, "\ncontexts: %s", strings.Join(t.Contexts, ", "))
	}
	if len(t.Checklist) > 0 {
		done := 0
		for _, item := range t.Checklist {
			if item.IsCompleted {
				done++
			}
		}
		fmt.Fprintf(&b, "\nchecklist: %d/%d", done, len(t.Checklist))
	}
	if t.Description != "" {
		b.WriteString("\n\n" + renderMarkdown(t.Description))
	}
	return b.String()
}

func renderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
