package store

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Days are the day labels used by blocks, Monday first.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Grid describes how slot indexes map to times of day.
type Grid struct {
	SlotMinutes  int
	DayStartHour int
	SlotsPerDay  int
}

var DefaultGrid = Grid{SlotMinutes: 30, DayStartHour: 8, SlotsPerDay: 20}

// SlotHours is the length of one slot in hours.
func (g Grid) SlotHours() float64 {
	return float64(g.SlotMinutes) / 60
}

// SlotLabel returns the start time of slot i, e.g. "09:30".
func (g Grid) SlotLabel(i int) string {
	m := g.DayStartHour*60 + i*g.SlotMinutes
	return fmt.Sprintf("%02d:%02d", (m/60)%24, m%60)
}

// WeekKey returns the ISO week key for t, e.g. "2026-W42".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// WeekStart returns midnight of the Monday of t's ISO week.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// ShiftWeek returns the key n weeks after key (before, when n is negative).
func ShiftWeek(key string, n int) (string, error) {
	monday, err := ParseWeekKey(key)
	if err != nil {
		return "", err
	}
	return WeekKey(monday.AddDate(0, 0, 7*n)), nil
}

// ParseWeekKey returns the Monday of the ISO week named by key.
func ParseWeekKey(key string) (time.Time, error) {
	y, w, ok := strings.Cut(key, "-W")
	if !ok {
		return time.Time{}, fmt.Errorf("parse week key %q: missing -W", key)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week key %q: %w", key, err)
	}
	week, err := strconv.Atoi(w)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week key %q: %w", key, err)
	}
	// Jan 4th is always in ISO week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	monday := WeekStart(jan4).AddDate(0, 0, 7*(week-1))
	if WeekKey(monday) != key {
		return time.Time{}, fmt.Errorf("parse week key %q: no such week", key)
	}
	return monday, nil
}

// NewWeek returns an empty week for the ISO week containing t.
func NewWeek(t time.Time) WeekData {
	return WeekData{
		WeekKey:   WeekKey(t),
		StartDate: WeekStart(t).Format("2006-01-02"),
		Blocks:    []TimeBlock{},
	}
}

// BlockAt returns the block placed at day/slot, if any.
func (w WeekData) BlockAt(day string, slot uint32) (TimeBlock, bool) {
	for _, b := range w.Blocks {
		if b.Day == day && b.SlotIndex == slot {
			return b, true
		}
	}
	return TimeBlock{}, false
}

// Assign puts projectID at day/slot, replacing whatever was there.
func (w *WeekData) Assign(day string, slot uint32, projectID, id string) {
	for i := range w.Blocks {
		if w.Blocks[i].Day == day && w.Blocks[i].SlotIndex == slot {
			w.Blocks[i].ProjectID = projectID
			return
		}
	}
	w.Blocks = append(w.Blocks, TimeBlock{ID: id, ProjectID: projectID, Day: day, SlotIndex: slot})
}

// Clear removes every block at day/slot and reports whether one was removed.
func (w *WeekData) Clear(day string, slot uint32) bool {
	kept := w.Blocks[:0]
	removed := false
	for _, b := range w.Blocks {
		if b.Day == day && b.SlotIndex == slot {
			removed = true
			continue
		}
		kept = append(kept, b)
	}
	w.Blocks = kept
	return removed
}
