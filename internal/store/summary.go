package store

import "sort"

// UnknownProjectName labels blocks whose project no longer exists.
const UnknownProjectName = "Unknown"

type ProjectSummary struct {
	ProjectID  string   `json:"projectId"`
	Name       string   `json:"name"`
	Priority   Priority `json:"priority,omitempty"`
	ColorIndex uint32   `json:"colorIndex"`
	Slots      int      `json:"slots"`
	Hours      float64  `json:"hours"`
	Target     float64  `json:"target"`
	Orphaned   bool     `json:"orphaned,omitempty"`
}

// Remaining is the target minus planned hours; negative when over target.
func (p ProjectSummary) Remaining() float64 {
	return p.Target - p.Hours
}

type ChargeAllocation struct {
	Code  string  `json:"code"`
	Hours float64 `json:"hours"`
}

// WeekSummary totals the planned hours of one week.
type WeekSummary struct {
	WeekKey     string             `json:"weekKey"`
	StartDate   string             `json:"startDate"`
	Projects    []ProjectSummary   `json:"projects"`
	Charges     []ChargeAllocation `json:"charges"`
	Unallocated float64            `json:"unallocated"`
	TotalHours  float64            `json:"totalHours"`
	Goal        float64            `json:"goal"`
}

// Summarize counts the slots of week per project. Known projects come first
// in list order, blocks for missing projects follow sorted by id. Hours with
// no charge code split, or beyond 100% of splits, are reported as Unallocated.
func Summarize(data AppData, week WeekData, grid Grid) WeekSummary {
	slotHours := grid.SlotHours()
	counts := make(map[string]int)
	for _, b := range week.Blocks {
		counts[b.ProjectID]++
	}

	sum := WeekSummary{
		WeekKey:   week.WeekKey,
		StartDate: week.StartDate,
		Goal:      data.WeeklyHourGoal,
		Projects:  []ProjectSummary{},
		Charges:   []ChargeAllocation{},
	}
	charges := make(map[string]float64)

	for _, p := range data.Projects {
		ps := ProjectSummary{
			ProjectID:  p.ID,
			Name:       p.Name,
			Priority:   p.Priority,
			ColorIndex: p.ColorIndex,
			Slots:      counts[p.ID],
			Hours:      float64(counts[p.ID]) * slotHours,
			Target:     p.WeeklyHourTarget,
		}
		delete(counts, p.ID)
		sum.Projects = append(sum.Projects, ps)
		sum.TotalHours += ps.Hours

		allocated := 0.0
		for _, split := range p.ChargeCodeSplits {
			h := ps.Hours * split.Percentage / 100
			charges[split.Code] += h
			allocated += h
		}
		if rest := ps.Hours - allocated; rest > 1e-9 {
			sum.Unallocated += rest
		}
	}

	orphans := make([]string, 0, len(counts))
	for id := range counts {
		orphans = append(orphans, id)
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		ps := ProjectSummary{
			ProjectID: id,
			Name:      UnknownProjectName,
			Slots:     counts[id],
			Hours:     float64(counts[id]) * slotHours,
			Orphaned:  true,
		}
		sum.Projects = append(sum.Projects, ps)
		sum.TotalHours += ps.Hours
		sum.Unallocated += ps.Hours
	}

	for code, h := range charges {
		sum.Charges = append(sum.Charges, ChargeAllocation{Code: code, Hours: h})
	}
	sort.Slice(sum.Charges, func(i, j int) bool { return sum.Charges[i].Code < sum.Charges[j].Code })
	return sum
}
