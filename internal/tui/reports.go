package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/timemanager/internal/store"
)

type reportsModel struct {
	store  *store.Store
	grid   store.Grid
	width  int
	height int

	weekKey string
	summary store.WeekSummary

	chart barchart.Model
}

func newReportsModel(s *store.Store, grid store.Grid) reportsModel {
	return reportsModel{
		store: s,
		grid:  grid,
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	summary store.WeekSummary
}

func (r reportsModel) refresh() tea.Cmd {
	weekKey := r.weekKey
	return func() tea.Msg {
		data, err := r.store.LoadAppData()
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
		return reportsDataMsg{summary: store.Summarize(data, week, r.grid)}
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.summary.WeekKey != r.weekKey {
			return r, nil
		}
		r.summary = msg.summary
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		n := 0
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevWeek):
			n = -1
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextWeek):
			n = 1
		default:
			return r, nil
		}
		next, err := store.ShiftWeek(r.weekKey, n)
		if err != nil {
			return r, statusCmd(err.Error(), true)
		}
		r.weekKey = next
		return r, r.refresh()
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	// One stacked bar per project: planned hours, then what is left of the
	// target in a muted color.
	var bars []barchart.BarData
	for _, p := range r.summary.Projects {
		values := []barchart.BarValue{{
			Name:  p.Name,
			Value: p.Hours,
			Style: lipgloss.NewStyle().Foreground(projectColor(p.ColorIndex)),
		}}
		if p.Orphaned {
			values[0].Style = lipgloss.NewStyle().Foreground(colorMuted)
		}
		if rest := p.Remaining(); rest > 0 {
			values = append(values, barchart.BarValue{
				Name:  "remaining",
				Value: rest,
				Style: lipgloss.NewStyle().Foreground(colorSubtle),
			})
		}
		bars = append(bars, barchart.BarData{
			Label:  truncate(p.Name, 8),
			Values: values,
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	dateLabel := mutedStyle.Render(fmt.Sprintf("  %s  from %s", r.weekKey, r.summary.StartDate))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, titleStyle.Render("Reports"), dateLabel)

	if len(r.summary.Projects) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No projects for this week"), "",
			mutedStyle.Render("  ←/→: navigate weeks"),
		))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			r.chart.View(), "",
			r.renderProjectTable(w), "",
			r.renderCharges(), "",
			r.renderTotals(), "",
			mutedStyle.Render("  ←/→: navigate weeks"),
		),
	)
}

func (r reportsModel) renderProjectTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-2s %-22s %8s %8s %9s", "", "Project", "Planned", "Target", "Remaining")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, p := range r.summary.Projects {
		remaining := formatHours(p.Remaining())
		style := normalItemStyle
		switch {
		case p.Orphaned:
			remaining = "-"
			style = mutedStyle
		case p.Target > 0 && p.Remaining() < 0:
			style = warningStyle
		case p.Target > 0 && p.Remaining() == 0:
			style = successStyle
		}
		rows = append(rows, "  "+colorDot(p.ColorIndex)+style.Render(fmt.Sprintf("  %-22s %8s %8s %9s",
			truncate(p.Name, 22), formatHours(p.Hours), formatHours(p.Target), remaining)))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderCharges() string {
	if len(r.summary.Charges) == 0 && r.summary.Unallocated == 0 {
		return mutedStyle.Render("  No charge codes")
	}
	var items []string
	for _, c := range r.summary.Charges {
		items = append(items, fmt.Sprintf("%s %s", highlightStyle.Render(c.Code), formatHours(c.Hours)))
	}
	if r.summary.Unallocated > 0 {
		items = append(items, mutedStyle.Render("unallocated "+formatHours(r.summary.Unallocated)))
	}
	return "  " + strings.Join(items, "  ")
}

func (r reportsModel) renderTotals() string {
	total := fmt.Sprintf("  Total %s of %s goal", formatHours(r.summary.TotalHours), formatHours(r.summary.Goal))
	if r.summary.Goal > 0 && r.summary.TotalHours >= r.summary.Goal {
		return successStyle.Render(total)
	}
	return titleStyle.Render(total)
}
