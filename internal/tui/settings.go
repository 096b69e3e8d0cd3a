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

type settingsForm int

const (
	formNone settingsForm = iota
	formLocation
	formReset
	formGoal
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	dataDir    string
	customPath *string
	goal       float64
	diags      []store.Diagnostic

	formActive bool
	formKind   settingsForm
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dirInput  *string
	copyData  *bool
	goalInput *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dir, goal := "", ""
	copyData := true
	return settingsModel{
		store:     s,
		dirInput:  &dir,
		copyData:  &copyData,
		goalInput: &goal,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	dataDir    string
	customPath *string
	goal       float64
	diags      []store.Diagnostic
}

type locationChangedMsg struct {
	err error
}

type goalSavedMsg struct {
	goal float64
	err  error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		dir, err := s.store.DataLocation()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		data, err := s.store.LoadAppData()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsDataMsg{
			dataDir:    dir,
			customPath: s.store.State().Settings().CustomDataPath,
			goal:       data.WeeklyHourGoal,
			diags:      s.store.Diagnostics(),
		}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.dataDir = msg.dataDir
		s.customPath = msg.customPath
		s.goal = msg.goal
		s.diags = msg.diags
		return s, nil

	case locationChangedMsg:
		if msg.err != nil {
			return s, statusCmd(fmt.Sprintf("Location not changed: %v", msg.err), true)
		}
		return s, tea.Batch(statusCmd("Data location changed", false), s.refresh())

	case goalSavedMsg:
		if msg.err != nil {
			return s, statusCmd(fmt.Sprintf("Error: %v", msg.err), true)
		}
		s.goal = msg.goal
		return s, statusCmd("Weekly goal set to "+formatHours(msg.goal), false)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Location), key.Matches(msg, keys.Enter):
			return s.showLocationForm()
		case key.Matches(msg, keys.Reset):
			return s.showResetForm()
		case key.Matches(msg, keys.Goal):
			return s.showGoalForm()
		}
	}
	return s, nil
}

func (s settingsModel) showLocationForm() (settingsModel, tea.Cmd) {
	*s.dirInput = s.dataDir
	*s.copyData = true
	s.formKind = formLocation

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Data directory").
				Description("Must already exist and be writable").
				Value(s.dirInput).
				Validate(func(v string) error {
					if err := validate.Var(strings.TrimSpace(v), "required"); err != nil {
						return fmt.Errorf("directory is required")
					}
					return nil
				}),
			huh.NewConfirm().Title("Copy current data there?").
				Description("An existing data file in the new directory is never overwritten").
				Value(s.copyData),
		).Title("Change data location"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showResetForm() (settingsModel, tea.Cmd) {
	*s.copyData = true
	s.formKind = formReset

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Copy current data to the default directory?").
				Value(s.copyData),
		).Title("Reset data location to " + s.store.Paths().DefaultDataDir),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showGoalForm() (settingsModel, tea.Cmd) {
	*s.goalInput = strconv.FormatFloat(s.goal, 'f', -1, 64)
	s.formKind = formGoal

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Weekly hour goal").Value(s.goalInput).
				Validate(func(v string) error {
					_, err := parseGoal(v)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func parseGoal(v string) (float64, error) {
	h, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if err := validate.Var(h, "gt=0,lte=168"); err != nil {
		return 0, fmt.Errorf("must be between 0 and 168")
	}
	return h, nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.submit()
	}

	return s, cmd
}

func (s settingsModel) submit() tea.Cmd {
	st := s.store
	copyData := *s.copyData
	switch s.formKind {
	case formLocation:
		dir := strings.TrimSpace(*s.dirInput)
		return func() tea.Msg {
			return locationChangedMsg{err: st.SetDataLocation(dir, copyData)}
		}
	case formReset:
		return func() tea.Msg {
			return locationChangedMsg{err: st.ResetToDefaultLocation(copyData)}
		}
	case formGoal:
		goal, err := parseGoal(*s.goalInput)
		if err != nil {
			return statusCmd(err.Error(), true)
		}
		return func() tea.Msg {
			data, err := st.LoadAppData()
			if err == nil {
				data.WeeklyHourGoal = goal
				err = st.SaveAppData(data)
			}
			return goalSavedMsg{goal: goal, err: err}
		}
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	paths := s.store.Paths()
	source := "default"
	if s.customPath != nil {
		source = "custom"
	}

	rows := []string{titleStyle.Render("Settings"), ""}
	rows = append(rows, settingRow("Data directory", s.dataDir+mutedStyle.Render(" ("+source+")")))
	rows = append(rows, settingRow("Default directory", paths.DefaultDataDir))
	rows = append(rows, settingRow("Config directory", paths.ConfigDir))
	rows = append(rows, settingRow("Weekly goal", formatHours(s.goal)))

	if len(s.diags) > 0 {
		rows = append(rows, "", warningStyle.Render(fmt.Sprintf("  %d load warning(s):", len(s.diags))))
		for _, d := range s.diags {
			rows = append(rows, mutedStyle.Render("    "+truncate(d.String(), max(w-8, 10))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  c: change location  r: reset to default  g: weekly goal"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label, value string) string {
	return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(20).Render(label), highlightStyle.Render(value))
}
