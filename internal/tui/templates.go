package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timemanager/internal/store"
)

type templatesModel struct {
	store  *store.Store
	width  int
	height int

	weekKey   string // week that new templates are captured from and applied to
	templates []store.Template
	cursor    int

	formActive bool
	form       *huh.Form
	renamingID string // empty when creating from the week

	formName *string
}

func newTemplatesModel(s *store.Store) templatesModel {
	name := ""
	return templatesModel{store: s, formName: &name}
}

func (t *templatesModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

type templatesDataMsg struct {
	templates []store.Template
}

func (t templatesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		data, err := t.store.LoadAppData()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return templatesDataMsg{templates: data.Templates}
	}
}

func (t templatesModel) update(msg tea.Msg) (templatesModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case templatesDataMsg:
		t.templates = msg.templates
		if t.cursor >= len(t.templates) {
			t.cursor = max(0, len(t.templates)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.templates)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.New):
			return t.showForm("", "")
		case key.Matches(msg, keys.Edit):
			if len(t.templates) > 0 {
				sel := t.templates[t.cursor]
				return t.showForm(sel.ID, sel.Name)
			}
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Apply):
			if len(t.templates) > 0 {
				return t, t.apply(t.templates[t.cursor])
			}
		case key.Matches(msg, keys.Delete):
			if len(t.templates) > 0 {
				return t.deleteSelected()
			}
		}
	}
	return t, nil
}

func (t templatesModel) showForm(id, name string) (templatesModel, tea.Cmd) {
	t.renamingID = id
	*t.formName = name

	title := "Template name"
	if id == "" {
		title = "Save " + t.weekKey + " as template"
	}
	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title(title).Value(t.formName).
				Validate(func(s string) error {
					if err := validate.Var(strings.TrimSpace(s), "required,max=64"); err != nil {
						return fmt.Errorf("name is required (max 64 characters)")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t templatesModel) updateForm(msg tea.Msg) (templatesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		name := strings.TrimSpace(*t.formName)
		if t.renamingID != "" {
			return t.rename(t.renamingID, name)
		}
		return t, t.captureWeek(name)
	}

	return t, cmd
}

// captureWeek reads the stored week and appends it to the templates as one
// write, so the template reflects what is on disk rather than a stale view.
func (t templatesModel) captureWeek(name string) tea.Cmd {
	weekKey := t.weekKey
	return func() tea.Msg {
		data, err := t.store.LoadAppData()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		week, ok := data.FindWeek(weekKey)
		if !ok || len(week.Blocks) == 0 {
			return statusMsg{text: "Week " + weekKey + " has nothing planned", isError: true}
		}
		next := append(data.Templates, store.TemplateFromWeek(newID(), name, week))
		if err := t.store.SaveTemplates(next); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return templatesDataMsg{templates: next}
	}
}

func (t templatesModel) rename(id, name string) (templatesModel, tea.Cmd) {
	next := make([]store.Template, len(t.templates))
	for i, tpl := range t.templates {
		next[i] = tpl.Clone()
		if tpl.ID == id {
			next[i].Name = name
		}
	}
	t.templates = next
	return t, opCmd(func() error { return t.store.SaveTemplates(next) }, "Renamed template to "+name)
}

// apply overwrites the current week with the template layout.
func (t templatesModel) apply(tpl store.Template) tea.Cmd {
	weekKey := t.weekKey
	return func() tea.Msg {
		monday, err := store.ParseWeekKey(weekKey)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		base := store.NewWeek(monday)
		week := store.ApplyTemplate(tpl, base.WeekKey, base.StartDate, newID)
		if err := t.store.SaveWeek(week); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: fmt.Sprintf("Applied %q to %s", tpl.Name, weekKey)}
	}
}

func (t templatesModel) deleteSelected() (templatesModel, tea.Cmd) {
	gone := t.templates[t.cursor]
	next := make([]store.Template, 0, len(t.templates))
	for i, tpl := range t.templates {
		if i != t.cursor {
			next = append(next, tpl)
		}
	}
	t.templates = next
	if t.cursor >= len(next) {
		t.cursor = max(0, len(next)-1)
	}
	return t, opCmd(func() error { return t.store.SaveTemplates(next) }, "Deleted template "+gone.Name)
}

func (t templatesModel) view() string {
	w := t.width - 4
	if t.formActive && t.form != nil {
		title := titleStyle.Render("New Template")
		if t.renamingID != "" {
			title = titleStyle.Render("Rename Template")
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", t.form.View()))
	}

	title := titleStyle.Render("Templates") + mutedStyle.Render("  target week "+t.weekKey)
	if len(t.templates) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No templates yet. Press n to save the current week as one."),
		))
	}

	rows := []string{title, ""}
	for i, tpl := range t.templates {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-32s %3d slots", cursor, truncate(tpl.Name, 32), len(tpl.Blocks))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: save week  e: rename  enter: apply to week  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
