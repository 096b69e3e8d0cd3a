package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/timemanager/internal/store"
)

var csvHeader = []string{"Week", "Start", "Project", "Priority", "Slots", "Hours", "Target"}

// ToCSV writes one row per project per week.
func ToCSV(summaries []store.WeekSummary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, sum := range summaries {
		for _, p := range sum.Projects {
			row := []string{
				sum.WeekKey,
				sum.StartDate,
				p.Name,
				string(p.Priority),
				strconv.Itoa(p.Slots),
				formatHours(p.Hours),
				formatHours(p.Target),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// ChargesToCSV writes the charge code allocation of each week, with the
// hours no code covers under an empty code.
func ChargesToCSV(summaries []store.WeekSummary, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Week", "Charge Code", "Hours"}); err != nil {
		return err
	}
	for _, sum := range summaries {
		for _, c := range sum.Charges {
			if err := w.Write([]string{sum.WeekKey, c.Code, formatHours(c.Hours)}); err != nil {
				return err
			}
		}
		if sum.Unallocated > 0 {
			if err := w.Write([]string{sum.WeekKey, "", formatHours(sum.Unallocated)}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}
