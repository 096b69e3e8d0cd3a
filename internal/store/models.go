package store

import "encoding/json"

// DefaultWeeklyHourGoal is used when the data file carries no weeklyHourGoal.
const DefaultWeeklyHourGoal = 40.0

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the known priorities, highest first.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ChargeCodeSplit assigns a share of a project's hours to a billing code.
// Percentages are not required to sum to 100.
type ChargeCodeSplit struct {
	Code       string  `json:"code"`
	Percentage float64 `json:"percentage"`
}

// Validate tags describe what a well-formed record looks like for callers that
// accept records from outside. The data file itself is loaded leniently.

// Project is a unit of planned work. A nil ChargeCodeSplits is left out of the
// data file; an empty list is written as [].
type Project struct {
	ID               string            `json:"id" validate:"required"`
	Name             string            `json:"name" validate:"required"`
	WeeklyHourTarget float64           `json:"weeklyHourTarget" validate:"gte=0"`
	Priority         Priority          `json:"priority" validate:"omitempty,oneof=High Medium Low"`
	ColorIndex       uint32            `json:"colorIndex"`
	ChargeCodeSplits []ChargeCodeSplit `json:"chargeCodeSplits"`
}

func (p Project) MarshalJSON() ([]byte, error) {
	type plain Project
	out := struct {
		plain
		ChargeCodeSplits *[]ChargeCodeSplit `json:"chargeCodeSplits,omitempty"`
	}{plain: plain(p)}
	if p.ChargeCodeSplits != nil {
		out.ChargeCodeSplits = &p.ChargeCodeSplits
	}
	return json.Marshal(out)
}

// TimeBlock places a project in one slot of one day. ProjectID is not
// checked against the project list; deleting a project leaves its blocks.
type TimeBlock struct {
	ID        string `json:"id" validate:"required"`
	ProjectID string `json:"projectId" validate:"required"`
	Day       string `json:"day" validate:"oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	SlotIndex uint32 `json:"slotIndex"`
}

type WeekData struct {
	WeekKey   string      `json:"weekKey" validate:"required"`
	StartDate string      `json:"startDate"`
	Blocks    []TimeBlock `json:"blocks" validate:"dive"`
}

type TemplateBlock struct {
	ProjectID string `json:"projectId" validate:"required"`
	Day       string `json:"day" validate:"oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	SlotIndex uint32 `json:"slotIndex"`
}

type Template struct {
	ID     string          `json:"id" validate:"required"`
	Name   string          `json:"name"`
	Blocks []TemplateBlock `json:"blocks" validate:"dive"`
}

// AppData is the root record persisted to the data file. It is replaced as a
// whole on every save.
type AppData struct {
	Projects       []Project  `json:"projects"`
	Weeks          []WeekData `json:"weeks"`
	Templates      []Template `json:"templates"`
	WeeklyHourGoal float64    `json:"weeklyHourGoal"`
}

// DefaultAppData returns the record used when no data file can be loaded.
func DefaultAppData() AppData {
	return AppData{
		Projects:       []Project{},
		Weeks:          []WeekData{},
		Templates:      []Template{},
		WeeklyHourGoal: DefaultWeeklyHourGoal,
	}
}

// Settings holds user preferences stored next to the application config.
// A nil CustomDataPath means the default data directory is used.
type Settings struct {
	CustomDataPath *string `json:"customDataPath,omitempty"`
}

// Clone returns a deep copy so callers can mutate it outside the state lock.
func (d AppData) Clone() AppData {
	out := AppData{
		Projects:       make([]Project, len(d.Projects)),
		Weeks:          make([]WeekData, len(d.Weeks)),
		Templates:      make([]Template, len(d.Templates)),
		WeeklyHourGoal: d.WeeklyHourGoal,
	}
	for i, p := range d.Projects {
		out.Projects[i] = p.Clone()
	}
	for i, w := range d.Weeks {
		out.Weeks[i] = w.Clone()
	}
	for i, t := range d.Templates {
		out.Templates[i] = t.Clone()
	}
	return out
}

func (p Project) Clone() Project {
	if p.ChargeCodeSplits != nil {
		p.ChargeCodeSplits = append(make([]ChargeCodeSplit, 0, len(p.ChargeCodeSplits)), p.ChargeCodeSplits...)
	}
	return p
}

func (w WeekData) Clone() WeekData {
	w.Blocks = append(make([]TimeBlock, 0, len(w.Blocks)), w.Blocks...)
	return w
}

func (t Template) Clone() Template {
	t.Blocks = append(make([]TemplateBlock, 0, len(t.Blocks)), t.Blocks...)
	return t
}

func (s Settings) Clone() Settings {
	if s.CustomDataPath != nil {
		p := *s.CustomDataPath
		s.CustomDataPath = &p
	}
	return s
}

// ProjectByID returns the project with the given id, if any.
func (d AppData) ProjectByID(id string) (Project, bool) {
	for _, p := range d.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
