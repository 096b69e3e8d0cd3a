package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sadopc/timemanager/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewWeek viewState = iota
	viewProjects
	viewTemplates
	viewReports
	viewSettings
)

var viewNames = []string{"Week", "Projects", "Templates", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

var validate = validator.New()

func newID() string { return uuid.NewString() }

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

// opCmd runs op off the UI loop and reports the outcome in the status bar.
func opCmd(op func() error, done string) tea.Cmd {
	return func() tea.Msg {
		if err := op(); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: done}
	}
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

// parseHours reads a non-negative hour count no larger than a week.
func parseHours(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if err := validate.Var(h, "gte=0,lte=168"); err != nil {
		return 0, fmt.Errorf("must be between 0 and 168")
	}
	return h, nil
}

// parseSplits reads "CODE=60, OTHER=40" into charge code splits.
func parseSplits(s string) ([]store.ChargeCodeSplit, error) {
	var out []store.ChargeCodeSplit
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, pct, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%q: expected CODE=PERCENT", part)
		}
		code = strings.TrimSpace(code)
		if err := validate.Var(code, "required,max=32,printascii"); err != nil {
			return nil, fmt.Errorf("%q: invalid charge code", code)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(pct), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: percentage is not a number", part)
		}
		if err := validate.Var(p, "gt=0,lte=100"); err != nil {
			return nil, fmt.Errorf("%q: percentage must be in (0, 100]", part)
		}
		out = append(out, store.ChargeCodeSplit{Code: code, Percentage: p})
	}
	return out, nil
}

func formatSplits(splits []store.ChargeCodeSplit) string {
	parts := make([]string, len(splits))
	for i, s := range splits {
		parts[i] = s.Code + "=" + strconv.FormatFloat(s.Percentage, 'f', -1, 64)
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return string(r[:1])
	}
	return string(r[:n-1]) + "…"
}
