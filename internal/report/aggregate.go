// Package report derives dashboard statistics from a task snapshot and keeps
// them fresh on a schedule.
package report

import (
	"math"
	"time"

	"github.com/sadopc/focusboard/internal/task"
)

// DueSoonDays is the inclusive look-ahead window for "due soon".
const DueSoonDays = 3

// Snapshot is one aggregation result. It is never persisted.
type Snapshot struct {
	CompletionRate      float64   `json:"completion_rate_percent"`
	AverageDurationDays float64   `json:"average_duration_days"`
	DueSoon             int       `json:"due_soon"`
	Overdue             int       `json:"overdue"`
	Pending             int       `json:"pending"`
	InProgress          int       `json:"in_progress"`
	Done                int       `json:"done"`
	Total               int       `json:"total"`
	Week                [7]int    `json:"week"`
	WeekStart           time.Time `json:"week_start"`
	Today               time.Time `json:"today"`
	SkippedDates        int       `json:"skipped_dates"` // tasks with a date that did not parse
}

// StatusCounts returns (pending, in progress, done).
func (s Snapshot) StatusCounts() (int, int, int) {
	return s.Pending, s.InProgress, s.Done
}

// Aggregate computes a Snapshot from tasks as of today. It never fails: a task
// with a malformed date is left out of the date-based metrics only.
func Aggregate(tasks []task.Task, today time.Time) Snapshot {
	weekStart := task.WeekStart(today)
	snap := Snapshot{
		Total:     len(tasks),
		WeekStart: weekStart,
		Today:     time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}

	var durationSum float64
	var durationN int

	for _, t := range tasks {
		status := t.Status.Normalize()
		switch status {
		case task.Pending:
			snap.Pending++
		case task.InProgress:
			snap.InProgress++
		case task.Done:
			snap.Done++
		}

		start, startErr := task.ParseDate(t.StartDate)
		end, endErr := task.ParseDate(t.EndDate)
		if startErr != nil || endErr != nil {
			snap.SkippedDates++
		}
		if endErr != nil {
			continue
		}

		if startErr == nil && !end.Before(start) {
			durationSum += float64(task.DaysBetween(start, end))
			durationN++
		}

		if status != task.Done {
			delta := task.DaysBetween(today, end)
			switch {
			case delta < 0:
				snap.Overdue++
			case delta <= DueSoonDays:
				snap.DueSoon++
			}
		}

		if offset := task.DaysBetween(weekStart, end); offset >= 0 && offset < len(snap.Week) {
			snap.Week[offset]++
		}
	}

	if snap.Total > 0 {
		snap.CompletionRate = round1(float64(snap.Done) / float64(snap.Total) * 100)
	}
	if durationN > 0 {
		snap.AverageDurationDays = durationSum / float64(durationN)
	}
	return snap
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
