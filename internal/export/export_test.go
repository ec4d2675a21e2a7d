package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/focusboard/internal/report"
	"github.com/sadopc/focusboard/internal/task"
)

var today = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "a1", Title: "Slides", StartDate: "2025-01-01", EndDate: "2025-01-03", Status: task.Done, Description: "final deck"},
		{ID: "b2", Title: "Rehearse", StartDate: "2025-01-01", EndDate: "2025-01-01", Status: task.Pending},
		{ID: "c3", Title: "Book room", StartDate: "2024-12-20", EndDate: "2024-12-28", Status: task.InProgress},
	}
}

// ============================================================
// CSV
// ============================================================

func TestTasksToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")

	if err := TasksToCSV(sampleTasks(), today, path); err != nil {
		t.Fatalf("TasksToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "a1" || row[1] != "Slides" || row[4] != "Done" || row[6] != "final deck" {
		t.Fatalf("unexpected first row: %v", row)
	}
	if row[5] != "D-2" {
		t.Fatalf("Due = %q, want D-2", row[5])
	}
	if records[2][5] != "D-DAY" {
		t.Fatalf("Due = %q, want D-DAY", records[2][5])
	}
	if records[3][5] != "overdue" {
		t.Fatalf("Due = %q, want overdue", records[3][5])
	}
}

func TestTasksToCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTasksCSV(&buf, nil, today); err != nil {
		t.Fatal(err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestTasksToCSVBadPath(t *testing.T) {
	if err := TasksToCSV(nil, today, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestTasksToCSVSpecialCharacters(t *testing.T) {
	tasks := []task.Task{{
		ID:          "x",
		Title:       `Task "Special"`,
		StartDate:   "2025-01-01",
		EndDate:     "not a date",
		Description: "memo with, commas\nand a newline",
	}}
	var buf bytes.Buffer
	if err := WriteTasksCSV(&buf, tasks, today); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("CSV should be valid even with special chars: %v", err)
	}
	if records[1][1] != `Task "Special"` {
		t.Fatalf("title mangled: %q", records[1][1])
	}
	if records[1][6] != "memo with, commas\nand a newline" {
		t.Fatalf("memo mangled: %q", records[1][6])
	}
	if records[1][5] != "" {
		t.Fatalf("unparsable end date should have no due label, got %q", records[1][5])
	}
}

// ============================================================
// JSON
// ============================================================

func TestReportToJSON(t *testing.T) {
	snap := report.Aggregate(sampleTasks(), today)
	path := filepath.Join(t.TempDir(), "report.json")

	if err := ReportToJSON(snap, path); err != nil {
		t.Fatalf("ReportToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonReport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Total != 3 {
		t.Fatalf("total = %d, want 3", result.Total)
	}
	if result.CompletionRate != 33.3 {
		t.Fatalf("completion = %v, want 33.3", result.CompletionRate)
	}
	if result.Status.Pending != 1 || result.Status.InProgress != 1 || result.Status.Done != 1 {
		t.Fatalf("unexpected status counts: %+v", result.Status)
	}
	if result.Today != "2025-01-01" || result.WeekStart != "2024-12-30" {
		t.Fatalf("unexpected dates: %s / %s", result.Today, result.WeekStart)
	}
	if len(result.Week) != 7 {
		t.Fatalf("week has %d days, want 7", len(result.Week))
	}
	if result.Week[0].Day != "Mon" || result.Week[2].Count != 1 || result.Week[4].Count != 1 {
		t.Fatalf("unexpected week: %+v", result.Week)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}
}

func TestReportToJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReportJSON(&buf, report.Aggregate(nil, today)); err != nil {
		t.Fatal(err)
	}
	var result jsonReport
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.Total != 0 || result.CompletionRate != 0 {
		t.Fatalf("expected zeros, got %+v", result)
	}
	for _, d := range result.Week {
		if d.Count != 0 {
			t.Fatalf("expected empty week, got %+v", result.Week)
		}
	}
}

func TestReportToJSONBadPath(t *testing.T) {
	if err := ReportToJSON(report.Snapshot{}, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestReportToJSONPrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	WriteReportJSON(&buf, report.Aggregate(nil, today))
	if !strings.Contains(buf.String(), "\n  \"") {
		t.Fatal("JSON should be indented with spaces")
	}
}

// ============================================================
// Text
// ============================================================

func TestWriteReportText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReportText(&buf, report.Aggregate(sampleTasks(), today)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Report for 2025-01-01", "33.3%", "Overdue", "Mon", "Sun"} {
		if !strings.Contains(out, want) {
			t.Fatalf("text report missing %q:\n%s", want, out)
		}
	}
}
