package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DataFileName is the name of the data file inside the data directory.
const DataFileName = "time_manager_data.json"

// appDataFile mirrors AppData with presence tracking for the required lists.
type appDataFile struct {
	Projects       *[]Project  `json:"projects"`
	Weeks          *[]WeekData `json:"weeks"`
	Templates      *[]Template `json:"templates"`
	WeeklyHourGoal *float64    `json:"weeklyHourGoal"`
}

// LoadData reads the data file at path. It never fails: a missing file yields
// DefaultAppData, and an unreadable or malformed file yields DefaultAppData
// plus a diagnostic describing what went wrong.
func LoadData(path string) (AppData, *Diagnostic) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultAppData(), nil
	}
	if err != nil {
		return DefaultAppData(), readDiagnostic(path, err)
	}
	data, err := DecodeAppData(raw)
	if err != nil {
		return DefaultAppData(), parseDiagnostic(path, err)
	}
	return data, nil
}

// DecodeAppData parses a data record. The projects, weeks and templates lists
// are required, and so is every item field except colorIndex and
// chargeCodeSplits; a missing weeklyHourGoal defaults to 40.
func DecodeAppData(raw []byte) (AppData, error) {
	var f appDataFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return AppData{}, err
	}
	switch {
	case f.Projects == nil:
		return AppData{}, errors.New("missing field `projects`")
	case f.Weeks == nil:
		return AppData{}, errors.New("missing field `weeks`")
	case f.Templates == nil:
		return AppData{}, errors.New("missing field `templates`")
	}
	if err := checkRequiredKeys(raw); err != nil {
		return AppData{}, err
	}

	data := AppData{
		Projects:       *f.Projects,
		Weeks:          *f.Weeks,
		Templates:      *f.Templates,
		WeeklyHourGoal: DefaultWeeklyHourGoal,
	}
	if f.WeeklyHourGoal != nil {
		data.WeeklyHourGoal = *f.WeeklyHourGoal
	}
	normalize(&data)
	return data, nil
}

var (
	projectKeys       = []string{"id", "name", "weeklyHourTarget", "priority"}
	weekKeys          = []string{"weekKey", "startDate", "blocks"}
	blockKeys         = []string{"id", "projectId", "day", "slotIndex"}
	templateKeys      = []string{"id", "name", "blocks"}
	templateBlockKeys = []string{"projectId", "day", "slotIndex"}
)

type rawItem = map[string]json.RawMessage

// checkRequiredKeys rejects items that leave out, or null, a field that has no
// default. raw has already been decoded once, so the shapes are known to fit.
func checkRequiredKeys(raw []byte) error {
	var f struct {
		Projects  []rawItem `json:"projects"`
		Weeks     []rawItem `json:"weeks"`
		Templates []rawItem `json:"templates"`
	}
	if err := json.Unmarshal(raw, &f); err != nil {
		return err
	}
	if err := requireKeys("projects", f.Projects, projectKeys); err != nil {
		return err
	}
	if err := requireNested("weeks", f.Weeks, weekKeys, blockKeys); err != nil {
		return err
	}
	return requireNested("templates", f.Templates, templateKeys, templateBlockKeys)
}

func requireNested(what string, items []rawItem, keys, blockKeys []string) error {
	if err := requireKeys(what, items, keys); err != nil {
		return err
	}
	for i, item := range items {
		var blocks []rawItem
		if err := json.Unmarshal(item["blocks"], &blocks); err != nil {
			return err
		}
		if err := requireKeys(fmt.Sprintf("%s[%d].blocks", what, i), blocks, blockKeys); err != nil {
			return err
		}
	}
	return nil
}

func requireKeys(what string, items []rawItem, keys []string) error {
	for i, item := range items {
		for _, k := range keys {
			if v, ok := item[k]; !ok || string(v) == "null" {
				return fmt.Errorf("%s[%d]: missing field `%s`", what, i, k)
			}
		}
	}
	return nil
}

// normalize replaces nil slices so they serialize as [] rather than null.
func normalize(d *AppData) {
	if d.Projects == nil {
		d.Projects = []Project{}
	}
	if d.Weeks == nil {
		d.Weeks = []WeekData{}
	}
	if d.Templates == nil {
		d.Templates = []Template{}
	}
	for i := range d.Weeks {
		if d.Weeks[i].Blocks == nil {
			d.Weeks[i].Blocks = []TimeBlock{}
		}
	}
	for i := range d.Templates {
		if d.Templates[i].Blocks == nil {
			d.Templates[i].Blocks = []TemplateBlock{}
		}
	}
}

// SaveData writes the whole record to path as indented JSON, replacing any
// existing file.
func SaveData(path string, data AppData) error {
	normalize(&data)
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return writeErr("marshal data", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return writeErr(fmt.Sprintf("write data file %s", path), err)
	}
	return nil
}
