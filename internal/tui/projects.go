package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timemanager/internal/store"
)

type projectsModel struct {
	store  *store.Store
	width  int
	height int

	projects []store.Project
	cursor   int

	formActive bool
	form       *huh.Form
	editingID  string // empty for a new project

	// Form field pointers (survive value copies)
	formName     *string
	formTarget   *string
	formPriority *string
	formColor    *string
	formSplits   *string
}

func newProjectsModel(s *store.Store) projectsModel {
	name, target, prio, color, splits := "", "", "", "", ""
	return projectsModel{
		store:        s,
		formName:     &name,
		formTarget:   &target,
		formPriority: &prio,
		formColor:    &color,
		formSplits:   &splits,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []store.Project
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		data, err := p.store.LoadAppData()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return projectsDataMsg{projects: data.Projects}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
		case key.Matches(msg, keys.Down):
			if p.cursor < len(p.projects)-1 {
				p.cursor++
			}
		case key.Matches(msg, keys.New):
			return p.showForm(nil)
		case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
			if len(p.projects) > 0 {
				proj := p.projects[p.cursor]
				return p.showForm(&proj)
			}
		case key.Matches(msg, keys.Delete):
			if len(p.projects) > 0 {
				return p.deleteSelected()
			}
		}
	}
	return p, nil
}

func (p projectsModel) showForm(proj *store.Project) (projectsModel, tea.Cmd) {
	if proj == nil {
		p.editingID = ""
		*p.formName = ""
		*p.formTarget = ""
		*p.formPriority = string(store.PriorityMedium)
		*p.formColor = strconv.Itoa(len(p.projects) % len(projectPalette))
		*p.formSplits = ""
	} else {
		p.editingID = proj.ID
		*p.formName = proj.Name
		*p.formTarget = strconv.FormatFloat(proj.WeeklyHourTarget, 'f', -1, 64)
		*p.formPriority = string(proj.Priority)
		*p.formColor = strconv.Itoa(int(proj.ColorIndex) % len(projectPalette))
		*p.formSplits = formatSplits(proj.ChargeCodeSplits)
	}

	prioOptions := make([]huh.Option[string], len(store.Priorities))
	for i, pr := range store.Priorities {
		prioOptions[i] = huh.NewOption(string(pr), string(pr))
	}
	colorOptions := make([]huh.Option[string], len(projectPalette))
	for i := range projectPalette {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("%s %d", colorDot(uint32(i)), i), strconv.Itoa(i))
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(p.formName).
				Validate(func(s string) error {
					if err := validate.Var(strings.TrimSpace(s), "required,max=64"); err != nil {
						return fmt.Errorf("name is required (max 64 characters)")
					}
					return nil
				}),
			huh.NewInput().Title("Weekly hour target").Placeholder("0").Value(p.formTarget).
				Validate(func(s string) error {
					_, err := parseHours(s)
					return err
				}),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(p.formPriority),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
			huh.NewInput().Title("Charge codes").Placeholder("ACME-1=60, ACME-2=40").Value(p.formSplits).
				Validate(func(s string) error {
					_, err := parseSplits(s)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		proj, err := p.projectFromForm()
		if err != nil {
			return p, statusCmd(err.Error(), true)
		}
		return p.saveProject(proj)
	}

	return p, cmd
}

func (p projectsModel) projectFromForm() (store.Project, error) {
	target, err := parseHours(*p.formTarget)
	if err != nil {
		return store.Project{}, fmt.Errorf("target: %w", err)
	}
	splits, err := parseSplits(*p.formSplits)
	if err != nil {
		return store.Project{}, fmt.Errorf("charge codes: %w", err)
	}
	color, _ := strconv.Atoi(*p.formColor)

	id := p.editingID
	if id == "" {
		id = newID()
	}
	// An explicitly empty list stays empty rather than becoming unset.
	if splits == nil {
		for _, existing := range p.projects {
			if existing.ID == id && existing.ChargeCodeSplits != nil {
				splits = []store.ChargeCodeSplit{}
			}
		}
	}
	return store.Project{
		ID:               id,
		Name:             strings.TrimSpace(*p.formName),
		WeeklyHourTarget: target,
		Priority:         store.Priority(*p.formPriority),
		ColorIndex:       uint32(color),
		ChargeCodeSplits: splits,
	}, nil
}

// saveProject replaces the project with the same id, or appends a new one.
func (p projectsModel) saveProject(proj store.Project) (projectsModel, tea.Cmd) {
	next := make([]store.Project, 0, len(p.projects)+1)
	replaced := false
	for _, existing := range p.projects {
		if existing.ID == proj.ID {
			next = append(next, proj)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, proj)
		p.cursor = len(next) - 1
	}
	p.projects = next
	return p, opCmd(func() error { return p.store.SaveProjects(next) }, "Saved project "+proj.Name)
}

// deleteSelected removes the project. Its planned blocks stay in their weeks
// and show up as Unknown.
func (p projectsModel) deleteSelected() (projectsModel, tea.Cmd) {
	gone := p.projects[p.cursor]
	next := make([]store.Project, 0, len(p.projects))
	for i, proj := range p.projects {
		if i != p.cursor {
			next = append(next, proj)
		}
	}
	p.projects = next
	if p.cursor >= len(next) {
		p.cursor = max(0, len(next)-1)
	}
	return p, opCmd(func() error { return p.store.SaveProjects(next) }, "Deleted project "+gone.Name)
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		if p.editingID != "" {
			title = titleStyle.Render("Edit Project")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-2s %-24s %-8s %8s  %s", "", "Name", "Priority", "Target", "Charge codes"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		codes := formatSplits(proj.ChargeCodeSplits)
		if codes == "" {
			codes = "-"
		}
		row := style.Render(cursor) + colorDot(proj.ColorIndex) + style.Render(fmt.Sprintf(" %-24s %-8s %8s  %s",
			truncate(proj.Name, 24), proj.Priority, formatHours(proj.WeeklyHourTarget), codes))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
