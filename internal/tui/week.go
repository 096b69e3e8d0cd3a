package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timemanager/internal/store"
)

type pickerKind int

const (
	pickNone pickerKind = iota
	pickProject
	pickTemplate
)

type weekModel struct {
	store  *store.Store
	grid   store.Grid
	width  int
	height int
	now    func() time.Time

	weekKey   string
	week      store.WeekData
	projects  []store.Project
	templates []store.Template
	goal      float64

	day  int
	slot int
	top  int // first visible slot row

	picker       pickerKind
	pickerCursor int
}

func newWeekModel(s *store.Store, grid store.Grid) weekModel {
	m := weekModel{store: s, grid: grid, now: time.Now}
	m.weekKey = store.WeekKey(m.now())
	m.week = store.NewWeek(m.now())
	return m
}

func (w *weekModel) setSize(width, height int) {
	w.width = width
	w.height = height
	w.scrollToCursor()
}

type weekDataMsg struct {
	week      store.WeekData
	projects  []store.Project
	templates []store.Template
	goal      float64
}

func (w weekModel) load() tea.Cmd {
	weekKey := w.weekKey
	return func() tea.Msg {
		data, err := w.store.LoadAppData()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		week, ok := data.FindWeek(weekKey)
		if !ok {
			monday, err := store.ParseWeekKey(weekKey)
			if err != nil {
				return statusMsg{text: err.Error(), isError: true}
			}
			week = store.NewWeek(monday)
		}
		return weekDataMsg{week: week, projects: data.Projects, templates: data.Templates, goal: data.WeeklyHourGoal}
	}
}

func (w weekModel) capturing() bool { return w.picker != pickNone }

func (w weekModel) update(msg tea.Msg) (weekModel, tea.Cmd) {
	switch msg := msg.(type) {
	case weekDataMsg:
		// A late load for a week we already navigated away from is dropped.
		if msg.week.WeekKey != w.weekKey {
			return w, nil
		}
		w.week = msg.week
		w.projects = msg.projects
		w.templates = msg.templates
		w.goal = msg.goal
		return w, nil

	case tea.KeyMsg:
		if w.picker != pickNone {
			return w.updatePicker(msg)
		}
		return w.updateGrid(msg)
	}
	return w, nil
}

func (w weekModel) updateGrid(msg tea.KeyMsg) (weekModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if w.slot > 0 {
			w.slot--
		}
	case key.Matches(msg, keys.Down):
		if w.slot < w.grid.SlotsPerDay-1 {
			w.slot++
		}
	case key.Matches(msg, keys.Left):
		if w.day > 0 {
			w.day--
		}
	case key.Matches(msg, keys.Right):
		if w.day < len(store.Days)-1 {
			w.day++
		}
	case key.Matches(msg, keys.Assign), key.Matches(msg, keys.Enter):
		if len(w.projects) == 0 {
			return w, statusCmd("No projects yet. Press 2 to go to Projects and create one.", true)
		}
		w.picker = pickProject
		w.pickerCursor = w.currentProjectIndex()
	case key.Matches(msg, keys.Clear):
		if !w.week.Clear(store.Days[w.day], uint32(w.slot)) {
			return w, nil
		}
		return w, w.save("Slot cleared")
	case key.Matches(msg, keys.PrevWeek):
		return w.shift(-1)
	case key.Matches(msg, keys.NextWeek):
		return w.shift(1)
	case key.Matches(msg, keys.ThisWeek):
		w.weekKey = store.WeekKey(w.now())
		w.week = store.NewWeek(w.now())
		return w, w.load()
	case key.Matches(msg, keys.Apply):
		if len(w.templates) == 0 {
			return w, statusCmd("No templates yet. Save one from the Templates view.", true)
		}
		w.picker = pickTemplate
		w.pickerCursor = 0
	}
	w.scrollToCursor()
	return w, nil
}

func (w weekModel) updatePicker(msg tea.KeyMsg) (weekModel, tea.Cmd) {
	n := len(w.projects)
	if w.picker == pickTemplate {
		n = len(w.templates)
	}
	switch {
	case key.Matches(msg, keys.Up):
		if w.pickerCursor > 0 {
			w.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if w.pickerCursor < n-1 {
			w.pickerCursor++
		}
	case key.Matches(msg, keys.Back):
		w.picker = pickNone
	case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Assign):
		kind := w.picker
		w.picker = pickNone
		if w.pickerCursor >= n {
			return w, nil
		}
		if kind == pickTemplate {
			t := w.templates[w.pickerCursor]
			w.week = store.ApplyTemplate(t, w.week.WeekKey, w.week.StartDate, newID)
			return w, w.save(fmt.Sprintf("Applied template %q", t.Name))
		}
		p := w.projects[w.pickerCursor]
		w.week.Assign(store.Days[w.day], uint32(w.slot), p.ID, newID())
		if w.slot < w.grid.SlotsPerDay-1 {
			w.slot++
			w.scrollToCursor()
		}
		return w, w.save("Assigned " + p.Name)
	}
	return w, nil
}

func (w weekModel) shift(n int) (weekModel, tea.Cmd) {
	next, err := store.ShiftWeek(w.weekKey, n)
	if err != nil {
		return w, statusCmd(err.Error(), true)
	}
	w.weekKey = next
	if monday, err := store.ParseWeekKey(next); err == nil {
		w.week = store.NewWeek(monday)
	}
	return w, w.load()
}

// save persists the week as shown. On failure the grid keeps the change so
// the user can retry.
func (w weekModel) save(done string) tea.Cmd {
	week := w.week.Clone()
	return opCmd(func() error { return w.store.SaveWeek(week) }, done)
}

func (w weekModel) currentProjectIndex() int {
	b, ok := w.week.BlockAt(store.Days[w.day], uint32(w.slot))
	if !ok {
		return 0
	}
	for i, p := range w.projects {
		if p.ID == b.ProjectID {
			return i
		}
	}
	return 0
}

// visibleSlots is how many slot rows fit below the title and day header.
func (w weekModel) visibleSlots() int {
	n := w.height - 8
	if n < 1 {
		n = 1
	}
	if n > w.grid.SlotsPerDay {
		n = w.grid.SlotsPerDay
	}
	return n
}

func (w *weekModel) scrollToCursor() {
	if w.height == 0 {
		return
	}
	vis := w.visibleSlots()
	if w.slot < w.top {
		w.top = w.slot
	}
	if w.slot >= w.top+vis {
		w.top = w.slot - vis + 1
	}
}

func (w weekModel) plannedHours() float64 {
	return float64(len(w.week.Blocks)) * w.grid.SlotHours()
}

func (w weekModel) view() string {
	if w.width < 40 {
		return "Terminal too small"
	}
	contentWidth := w.width - 4

	title := titleStyle.Render("Week " + w.week.WeekKey)
	sub := mutedStyle.Render(fmt.Sprintf("  from %s  ·  %s of %s planned",
		w.week.StartDate, formatHours(w.plannedHours()), formatHours(w.goal)))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, sub)

	var body string
	switch w.picker {
	case pickProject:
		body = w.renderProjectPicker()
	case pickTemplate:
		body = w.renderTemplatePicker()
	default:
		body = w.renderGrid(contentWidth - 6)
	}

	return panelStyle.Width(contentWidth).Padding(0, 1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body),
	)
}

func (w weekModel) renderGrid(width int) string {
	cellWidth := (width - 6) / len(store.Days)
	if cellWidth < 4 {
		cellWidth = 4
	}

	names := make(map[string]store.Project, len(w.projects))
	for _, p := range w.projects {
		names[p.ID] = p
	}

	var rows []string
	head := slotLabelStyle.Render("")
	for _, d := range store.Days {
		head += dayHeaderStyle.Width(cellWidth).Render(truncate(d, cellWidth-1))
	}
	rows = append(rows, head)

	end := w.top + w.visibleSlots()
	for slot := w.top; slot < end; slot++ {
		line := slotLabelStyle.Render(w.grid.SlotLabel(slot))
		for di, d := range store.Days {
			line += w.renderCell(d, slot, cellWidth, names, di == w.day && slot == w.slot)
		}
		rows = append(rows, line)
	}

	return strings.Join(rows, "\n")
}

func (w weekModel) renderCell(day string, slot, width int, projects map[string]store.Project, selected bool) string {
	style := emptySlotStyle.Width(width)
	text := "·"
	if b, ok := w.week.BlockAt(day, uint32(slot)); ok {
		p, known := projects[b.ProjectID]
		if known {
			text = p.Name
			style = lipgloss.NewStyle().Width(width).Foreground(colorBg).Background(projectColor(p.ColorIndex))
		} else {
			text = store.UnknownProjectName
			style = lipgloss.NewStyle().Width(width).Foreground(colorMuted)
		}
	}
	if selected {
		style = style.Inherit(cursorSlotStyle)
	}
	return style.Render(truncate(text, width-1))
}

func (w weekModel) renderProjectPicker() string {
	rows := []string{
		titleStyle.Render(fmt.Sprintf("Assign %s %s", store.Days[w.day], w.grid.SlotLabel(w.slot))),
		"",
	}
	for i, p := range w.projects {
		cursor := "  "
		style := normalItemStyle
		if i == w.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor)+colorDot(p.ColorIndex)+style.Render(" "+p.Name))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: assign  esc: cancel"))
	return strings.Join(rows, "\n")
}

func (w weekModel) renderTemplatePicker() string {
	rows := []string{titleStyle.Render("Apply template to " + w.week.WeekKey), ""}
	for i, t := range w.templates {
		cursor := "  "
		style := normalItemStyle
		if i == w.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s (%d slots)", cursor, t.Name, len(t.Blocks))))
	}
	rows = append(rows, "", warningStyle.Render("  Applying replaces every slot in this week."))
	rows = append(rows, mutedStyle.Render("  enter: apply  esc: cancel"))
	return strings.Join(rows, "\n")
}
