package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timemanager/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Weeks      []jsonWeek `json:"weeks"`
}

type jsonWeek struct {
	WeekKey     string        `json:"week_key"`
	StartDate   string        `json:"start_date"`
	TotalHours  float64       `json:"total_hours"`
	Goal        float64       `json:"goal_hours"`
	Unallocated float64       `json:"unallocated_hours"`
	Projects    []jsonProject `json:"projects"`
	Charges     []jsonCharge  `json:"charge_codes"`
}

type jsonProject struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Priority string  `json:"priority,omitempty"`
	Slots    int     `json:"slots"`
	Hours    float64 `json:"hours"`
	Target   float64 `json:"target_hours"`
	Orphaned bool    `json:"orphaned,omitempty"`
}

type jsonCharge struct {
	Code  string  `json:"code"`
	Hours float64 `json:"hours"`
}

func ToJSON(summaries []store.WeekSummary, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(summaries),
		Weeks:      []jsonWeek{},
	}

	for _, sum := range summaries {
		w := jsonWeek{
			WeekKey:     sum.WeekKey,
			StartDate:   sum.StartDate,
			TotalHours:  sum.TotalHours,
			Goal:        sum.Goal,
			Unallocated: sum.Unallocated,
			Projects:    []jsonProject{},
			Charges:     []jsonCharge{},
		}
		for _, p := range sum.Projects {
			w.Projects = append(w.Projects, jsonProject{
				ID:       p.ProjectID,
				Name:     p.Name,
				Priority: string(p.Priority),
				Slots:    p.Slots,
				Hours:    p.Hours,
				Target:   p.Target,
				Orphaned: p.Orphaned,
			})
		}
		for _, c := range sum.Charges {
			w.Charges = append(w.Charges, jsonCharge{Code: c.Code, Hours: c.Hours})
		}
		export.Weeks = append(export.Weeks, w)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
