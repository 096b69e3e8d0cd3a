package tui

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-homedir"
	"github.com/sadopc/timemanager/internal/export"
	"github.com/sadopc/timemanager/internal/store"
)

type exportFormat int

const (
	exportCSV exportFormat = iota
	exportCharges
	exportJSON
	exportSQLite
)

var exportFormats = []string{"Week CSV", "Charge codes CSV", "Week JSON", "All data (SQLite)"}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	grid   store.Grid
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     func() (string, error)

	week      weekModel
	projects  projectsModel
	templates templatesModel
	reports   reportsModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, grid store.Grid) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		store:      s,
		grid:       grid,
		activeView: viewWeek,
		exportDir:  homedir.Dir,
		week:       newWeekModel(s, grid),
		projects:   newProjectsModel(s),
		templates:  newTemplatesModel(s),
		reports:    newReportsModel(s, grid),
		settings:   newSettingsModel(s),
		help:       h,
	}
	if n := len(s.Diagnostics()); n > 0 {
		a.status = fmt.Sprintf("%d load warning(s), see Settings", n)
		a.statusError = true
	}
	return a
}

func (a App) Init() tea.Cmd {
	return a.week.load()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.week.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.templates.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewWeek)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewProjects)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewTemplates)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// switchView activates v and reloads it. Templates and Reports follow the
// week shown in the Week view.
func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewTemplates:
		a.templates.weekKey = a.week.weekKey
	case viewReports:
		a.reports.weekKey = a.week.weekKey
	}
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewWeek:
		a.week, cmd = a.week.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewTemplates:
		a.templates, cmd = a.templates.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewWeek:
		return a.week.capturing()
	case viewProjects:
		return a.projects.formActive
	case viewTemplates:
		return a.templates.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewWeek:
		return a.week.load()
	case viewProjects:
		return a.projects.refresh()
	case viewTemplates:
		return a.templates.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewWeek:
		content = a.week.view()
	case viewProjects:
		content = a.projects.view()
	case viewTemplates:
		content = a.templates.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("timemanager")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := statusBarStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export " + a.week.weekKey)
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormat(a.exportCursor))
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format exportFormat) tea.Cmd {
	weekKey := a.week.weekKey
	return func() tea.Msg {
		dir, err := a.exportDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		data, err := a.store.LoadAppData()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		if format == exportSQLite {
			path := filepath.Join(dir, "timemanager-export.db")
			if err := export.ToSQLite(data, a.grid, path); err != nil {
				return statusMsg{text: fmt.Sprintf("SQLite error: %v", err), isError: true}
			}
			return exportDoneMsg{path: path}
		}

		sums, err := export.Summaries(data, a.grid, weekKey)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		var path string
		switch format {
		case exportCharges:
			path = filepath.Join(dir, fmt.Sprintf("timemanager-%s-charges.csv", weekKey))
			err = export.ChargesToCSV(sums, path)
		case exportJSON:
			path = filepath.Join(dir, fmt.Sprintf("timemanager-%s.json", weekKey))
			err = export.ToJSON(sums, path)
		default:
			path = filepath.Join(dir, fmt.Sprintf("timemanager-%s.csv", weekKey))
			err = export.ToCSV(sums, path)
		}
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
