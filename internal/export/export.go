// Package export writes planned weeks to CSV, JSON and SQLite files.
package export

import (
	"fmt"
	"sort"

	"github.com/sadopc/timemanager/internal/store"
)

// Summaries summarizes the weeks named by keys, or every stored week in key
// order when keys is empty.
func Summaries(data store.AppData, grid store.Grid, keys ...string) ([]store.WeekSummary, error) {
	if len(keys) == 0 {
		for _, w := range data.Weeks {
			keys = append(keys, w.WeekKey)
		}
		sort.Strings(keys)
	}

	out := make([]store.WeekSummary, 0, len(keys))
	for _, k := range keys {
		week, ok := data.FindWeek(k)
		if !ok {
			return nil, fmt.Errorf("no week %q in data", k)
		}
		out = append(out, store.Summarize(data, week, grid))
	}
	return out, nil
}
