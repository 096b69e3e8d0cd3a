package export

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sadopc/timemanager/internal/store"
)

func sampleData() store.AppData {
	return store.AppData{
		Projects: []store.Project{
			{
				ID: "p1", Name: "Project Alpha", WeeklyHourTarget: 10, Priority: store.PriorityHigh,
				ChargeCodeSplits: []store.ChargeCodeSplit{{Code: "ACME-1", Percentage: 50}, {Code: "ACME-2", Percentage: 50}},
			},
			{ID: "p2", Name: "Project Beta", WeeklyHourTarget: 5, Priority: store.PriorityLow, ColorIndex: 3},
		},
		Weeks: []store.WeekData{
			{
				WeekKey: "2026-W42", StartDate: "2026-10-12",
				Blocks: []store.TimeBlock{
					{ID: "b1", ProjectID: "p1", Day: "Monday", SlotIndex: 0},
					{ID: "b2", ProjectID: "p1", Day: "Monday", SlotIndex: 1},
					{ID: "b3", ProjectID: "p2", Day: "Tuesday", SlotIndex: 4},
					{ID: "b4", ProjectID: "gone", Day: "Friday", SlotIndex: 2},
				},
			},
			{WeekKey: "2026-W41", StartDate: "2026-10-05", Blocks: []store.TimeBlock{}},
		},
		Templates: []store.Template{
			{ID: "t1", Name: "Standard", Blocks: []store.TemplateBlock{{ProjectID: "p1", Day: "Monday", SlotIndex: 0}}},
		},
		WeeklyHourGoal: 37.5,
	}
}

func sampleSummaries(t *testing.T) []store.WeekSummary {
	t.Helper()
	sums, err := Summaries(sampleData(), store.DefaultGrid, "2026-W42")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	return sums
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

// ============================================================
// Summaries
// ============================================================

func TestSummariesAllWeeksSorted(t *testing.T) {
	sums, err := Summaries(sampleData(), store.DefaultGrid)
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(sums))
	}
	if sums[0].WeekKey != "2026-W41" || sums[1].WeekKey != "2026-W42" {
		t.Errorf("unexpected order: %s, %s", sums[0].WeekKey, sums[1].WeekKey)
	}
}

func TestSummariesUnknownWeek(t *testing.T) {
	if _, err := Summaries(sampleData(), store.DefaultGrid, "2026-W01"); err == nil {
		t.Fatal("expected error for missing week")
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")
	if err := ToCSV(sampleSummaries(t), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	// header + 2 projects + 1 orphan
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
	if records[0][0] != "Week" || records[0][2] != "Project" || records[0][6] != "Target" {
		t.Errorf("unexpected header: %v", records[0])
	}

	alpha := records[1]
	if alpha[0] != "2026-W42" || alpha[1] != "2026-10-12" || alpha[2] != "Project Alpha" {
		t.Errorf("unexpected first row: %v", alpha)
	}
	if alpha[3] != "High" || alpha[4] != "2" || alpha[5] != "1.00" || alpha[6] != "10.00" {
		t.Errorf("unexpected alpha totals: %v", alpha)
	}

	orphan := records[3]
	if orphan[2] != store.UnknownProjectName || orphan[5] != "0.50" {
		t.Errorf("unexpected orphan row: %v", orphan)
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Errorf("expected only header, got %d rows", len(records))
	}
}

func TestChargesToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charges.csv")
	if err := ChargesToCSV(sampleSummaries(t), path); err != nil {
		t.Fatalf("ChargesToCSV: %v", err)
	}

	records := readCSV(t, path)
	// header + ACME-1 + ACME-2 + unallocated (p2 and orphan)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d: %v", len(records), records)
	}
	if records[1][1] != "ACME-1" || records[1][2] != "0.50" {
		t.Errorf("unexpected ACME-1 row: %v", records[1])
	}
	if records[2][1] != "ACME-2" || records[2][2] != "0.50" {
		t.Errorf("unexpected ACME-2 row: %v", records[2])
	}
	if records[3][1] != "" || records[3][2] != "1.00" {
		t.Errorf("unexpected unallocated row: %v", records[3])
	}
}

func TestToCSVBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	if err := ToCSV(sampleSummaries(t), path); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	if err := ToJSON(sampleSummaries(t), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out jsonExport
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Weeks) != 1 {
		t.Fatalf("expected one week, got count=%d weeks=%d", out.Count, len(out.Weeks))
	}
	if out.ExportedAt == "" {
		t.Error("exported_at should be set")
	}

	w := out.Weeks[0]
	if w.WeekKey != "2026-W42" || w.Goal != 37.5 {
		t.Errorf("unexpected week header: %+v", w)
	}
	if w.TotalHours != 2 {
		t.Errorf("expected 2 total hours, got %v", w.TotalHours)
	}
	if w.Unallocated != 1 {
		t.Errorf("expected 1 unallocated hour, got %v", w.Unallocated)
	}
	if len(w.Projects) != 3 || !w.Projects[2].Orphaned {
		t.Errorf("expected orphan as third project: %+v", w.Projects)
	}
	if len(w.Charges) != 2 {
		t.Errorf("expected 2 charge codes, got %d", len(w.Charges))
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}
	weeks, ok := out["weeks"].([]any)
	if !ok || len(weeks) != 0 {
		t.Errorf("expected empty weeks array, got %v", out["weeks"])
	}
}

// ============================================================
// SQLite
// ============================================================

func TestToSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.db")
	if err := ToSQLite(sampleData(), store.DefaultGrid, path); err != nil {
		t.Fatalf("ToSQLite: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != sqliteSchemaVersion {
		t.Errorf("expected user_version %d, got %d", sqliteSchemaVersion, version)
	}

	counts := map[string]int{
		"projects":           2,
		"charge_code_splits": 2,
		"weeks":              2,
		"blocks":             4,
		"templates":          1,
		"template_blocks":    1,
	}
	for table, want := range counts {
		var got int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Errorf("%s: expected %d rows, got %d", table, want, got)
		}
	}

	var start string
	var hours float64
	err = db.QueryRow(`SELECT start_time, hours FROM blocks WHERE id = 'b3'`).Scan(&start, &hours)
	if err != nil {
		t.Fatal(err)
	}
	if start != "10:00" || hours != 0.5 {
		t.Errorf("unexpected block b3: start=%s hours=%v", start, hours)
	}

	var planned float64
	err = db.QueryRow(`SELECT SUM(b.hours) FROM blocks b JOIN projects p ON p.id = b.project_id WHERE p.id = 'p1'`).Scan(&planned)
	if err != nil {
		t.Fatal(err)
	}
	if planned != 1 {
		t.Errorf("expected 1 planned hour for p1, got %v", planned)
	}
}

func TestToSQLiteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.db")
	if err := ToSQLite(sampleData(), store.DefaultGrid, path); err != nil {
		t.Fatalf("first export: %v", err)
	}

	data := sampleData()
	data.Projects = data.Projects[:1]
	if err := ToSQLite(data, store.DefaultGrid, path); err != nil {
		t.Fatalf("second export: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 project after re-export, got %d", n)
	}
}
