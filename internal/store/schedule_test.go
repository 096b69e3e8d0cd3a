package store

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"
)

// ============================================================
// Week keys
// ============================================================

func TestWeekKey(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-10-15", "2026-W42"},
		{"2026-10-12", "2026-W42"},
		{"2026-10-18", "2026-W42"},
		{"2026-01-01", "2026-W01"},
		{"2026-12-31", "2026-W53"},
		{"2027-01-03", "2026-W53"},
		{"2027-01-04", "2027-W01"},
		{"2024-12-30", "2025-W01"},
	}
	for _, tt := range tests {
		d, _ := time.Parse("2006-01-02", tt.date)
		if got := WeekKey(d); got != tt.want {
			t.Errorf("WeekKey(%s) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestWeekStart(t *testing.T) {
	d := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)
	got := WeekStart(d)
	want := time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("WeekStart = %v, want %v", got, want)
	}
}

func TestParseWeekKey(t *testing.T) {
	monday, err := ParseWeekKey("2026-W42")
	if err != nil {
		t.Fatal(err)
	}
	if monday.Format("2006-01-02") != "2026-10-12" {
		t.Fatalf("monday = %s", monday.Format("2006-01-02"))
	}

	for _, bad := range []string{"", "2026", "2026-W", "2026-W54", "2025-W53", "abcd-W01", "2026-W00"} {
		if _, err := ParseWeekKey(bad); err == nil {
			t.Errorf("ParseWeekKey(%q) should fail", bad)
		}
	}
}

func TestShiftWeek(t *testing.T) {
	tests := []struct {
		key  string
		n    int
		want string
	}{
		{"2026-W42", 1, "2026-W43"},
		{"2026-W42", -1, "2026-W41"},
		{"2026-W53", 1, "2027-W01"},
		{"2027-W01", -1, "2026-W53"},
		{"2026-W42", 0, "2026-W42"},
	}
	for _, tt := range tests {
		got, err := ShiftWeek(tt.key, tt.n)
		if err != nil {
			t.Fatalf("ShiftWeek(%q, %d): %v", tt.key, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("ShiftWeek(%q, %d) = %q, want %q", tt.key, tt.n, got, tt.want)
		}
	}
}

func TestNewWeek(t *testing.T) {
	w := NewWeek(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))
	if w.WeekKey != "2026-W42" || w.StartDate != "2026-10-12" {
		t.Fatalf("unexpected week: %+v", w)
	}
	if w.Blocks == nil || len(w.Blocks) != 0 {
		t.Fatal("new week should have an empty block list")
	}
}

// ============================================================
// Grid and blocks
// ============================================================

func TestGridSlotLabel(t *testing.T) {
	g := DefaultGrid
	if got := g.SlotLabel(0); got != "08:00" {
		t.Fatalf("slot 0 = %q", got)
	}
	if got := g.SlotLabel(3); got != "09:30" {
		t.Fatalf("slot 3 = %q", got)
	}
	if g.SlotHours() != 0.5 {
		t.Fatalf("slot hours = %v", g.SlotHours())
	}
}

func TestAssignAndClear(t *testing.T) {
	w := WeekData{WeekKey: "k", Blocks: []TimeBlock{}}
	w.Assign("Monday", 2, "p1", "b1")
	w.Assign("Monday", 3, "p1", "b2")
	w.Assign("Monday", 2, "p2", "ignored")

	if len(w.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(w.Blocks))
	}
	b, ok := w.BlockAt("Monday", 2)
	if !ok || b.ProjectID != "p2" || b.ID != "b1" {
		t.Fatalf("reassign should keep the block id, got %+v", b)
	}

	if !w.Clear("Monday", 2) {
		t.Fatal("clear should report removal")
	}
	if w.Clear("Monday", 2) {
		t.Fatal("second clear should report nothing removed")
	}
	if _, ok := w.BlockAt("Monday", 2); ok {
		t.Fatal("block should be gone")
	}
	if _, ok := w.BlockAt("Monday", 3); !ok {
		t.Fatal("other block should remain")
	}
}

// ============================================================
// Templates
// ============================================================

func TestTemplateFromWeekAndApply(t *testing.T) {
	week := sampleData().Weeks[0]
	tpl := TemplateFromWeek("t9", "Copied", week)
	if len(tpl.Blocks) != len(week.Blocks) {
		t.Fatalf("template blocks = %d", len(tpl.Blocks))
	}
	if tpl.Blocks[1] != (TemplateBlock{ProjectID: "p2", Day: "Friday", SlotIndex: 7}) {
		t.Fatalf("unexpected template block %+v", tpl.Blocks[1])
	}

	n := 0
	newID := func() string { n++; return fmt.Sprintf("new-%d", n) }
	applied := ApplyTemplate(tpl, "2026-W43", "2026-10-19", newID)

	want := WeekData{WeekKey: "2026-W43", StartDate: "2026-10-19", Blocks: []TimeBlock{
		{ID: "new-1", ProjectID: "p1", Day: "Monday", SlotIndex: 0},
		{ID: "new-2", ProjectID: "p2", Day: "Friday", SlotIndex: 7},
	}}
	if !reflect.DeepEqual(applied, want) {
		t.Fatalf("applied = %+v", applied)
	}
}

// ============================================================
// Summary
// ============================================================

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSummarize(t *testing.T) {
	data := sampleData()
	week := data.Weeks[0]
	week.Blocks = append(week.Blocks,
		TimeBlock{ID: "b3", ProjectID: "p1", Day: "Monday", SlotIndex: 1},
		TimeBlock{ID: "b4", ProjectID: "gone", Day: "Tuesday", SlotIndex: 0},
	)

	sum := Summarize(data, week, DefaultGrid)
	if sum.WeekKey != "2026-W42" || sum.Goal != 37.5 {
		t.Fatalf("unexpected header: %+v", sum)
	}
	if len(sum.Projects) != 3 {
		t.Fatalf("expected 2 projects + 1 orphan, got %+v", sum.Projects)
	}

	p1 := sum.Projects[0]
	if p1.ProjectID != "p1" || p1.Slots != 2 || !approx(p1.Hours, 1) || !approx(p1.Remaining(), 19) {
		t.Fatalf("p1 summary = %+v", p1)
	}
	orphan := sum.Projects[2]
	if !orphan.Orphaned || orphan.Name != UnknownProjectName || !approx(orphan.Hours, 0.5) {
		t.Fatalf("orphan summary = %+v", orphan)
	}
	if !approx(sum.TotalHours, 2) {
		t.Fatalf("total = %v, want 2", sum.TotalHours)
	}

	wantCharges := []ChargeAllocation{{Code: "ACME-1", Hours: 0.6}, {Code: "ACME-2", Hours: 0.4}}
	if len(sum.Charges) != 2 {
		t.Fatalf("charges = %+v", sum.Charges)
	}
	for i, c := range wantCharges {
		if sum.Charges[i].Code != c.Code || !approx(sum.Charges[i].Hours, c.Hours) {
			t.Fatalf("charge %d = %+v, want %+v", i, sum.Charges[i], c)
		}
	}
	// p2 has no splits (0.5h) and the orphan is unallocated (0.5h).
	if !approx(sum.Unallocated, 1) {
		t.Fatalf("unallocated = %v, want 1", sum.Unallocated)
	}
}

func TestSummarizeSplitsOverHundred(t *testing.T) {
	data := AppData{Projects: []Project{{ID: "p", Name: "P", ChargeCodeSplits: []ChargeCodeSplit{
		{Code: "A", Percentage: 80}, {Code: "B", Percentage: 50},
	}}}}
	week := WeekData{Blocks: []TimeBlock{{ProjectID: "p", Day: "Monday", SlotIndex: 0}, {ProjectID: "p", Day: "Monday", SlotIndex: 1}}}

	sum := Summarize(data, week, DefaultGrid)
	if !approx(sum.Charges[0].Hours, 0.8) || !approx(sum.Charges[1].Hours, 0.5) {
		t.Fatalf("splits are applied as given, got %+v", sum.Charges)
	}
	if sum.Unallocated != 0 {
		t.Fatalf("over-allocated hours leave nothing unallocated, got %v", sum.Unallocated)
	}
}
