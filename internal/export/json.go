package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/focusboard/internal/report"
	"github.com/sadopc/focusboard/internal/task"
)

type jsonReport struct {
	ExportedAt          string        `json:"exported_at"`
	Today               string        `json:"today"`
	WeekStart           string        `json:"week_start"`
	Total               int           `json:"total"`
	CompletionRate      float64       `json:"completion_rate_percent"`
	AverageDurationDays float64       `json:"average_duration_days"`
	DueSoon             int           `json:"due_soon"`
	Overdue             int           `json:"overdue"`
	Status              jsonStatus    `json:"status"`
	Week                []jsonWeekDay `json:"week"`
	SkippedDates        int           `json:"skipped_dates,omitempty"`
}

type jsonStatus struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

type jsonWeekDay struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// ReportToJSON writes snap to a new JSON file at path.
func ReportToJSON(snap report.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	return WriteReportJSON(f, snap)
}

// WriteReportJSON writes snap as indented JSON.
func WriteReportJSON(w io.Writer, snap report.Snapshot) error {
	out := jsonReport{
		ExportedAt:          time.Now().UTC().Format(time.RFC3339),
		Today:               task.FormatDate(snap.Today),
		WeekStart:           task.FormatDate(snap.WeekStart),
		Total:               snap.Total,
		CompletionRate:      snap.CompletionRate,
		AverageDurationDays: snap.AverageDurationDays,
		DueSoon:             snap.DueSoon,
		Overdue:             snap.Overdue,
		Status: jsonStatus{
			Pending:    snap.Pending,
			InProgress: snap.InProgress,
			Done:       snap.Done,
		},
		SkippedDates: snap.SkippedDates,
	}
	for i, n := range snap.Week {
		d := snap.WeekStart.AddDate(0, 0, i)
		out.Week = append(out.Week, jsonWeekDay{
			Date:  task.FormatDate(d),
			Day:   d.Weekday().String()[:3],
			Count: n,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
