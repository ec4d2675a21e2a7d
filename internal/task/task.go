package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the stored form of task dates.
const DateLayout = "2006-01-02"

// Status is the progress state of a task.
type Status int

const (
	Pending Status = iota
	InProgress
	Done
)

var statusNames = map[Status]string{
	Pending:    "Pending",
	InProgress: "In progress",
	Done:       "Done",
}

var statusIcons = map[Status]string{
	Pending:    "☐",
	InProgress: "⏳",
	Done:       "✔",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return statusNames[Pending]
}

func (s Status) Icon() string {
	if i, ok := statusIcons[s]; ok {
		return i
	}
	return statusIcons[Pending]
}

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	return s >= Pending && s <= Done
}

// Normalize maps unknown values to Pending.
func (s Status) Normalize() Status {
	if !s.Valid() {
		return Pending
	}
	return s
}

// Cycle returns the next state: Pending -> InProgress -> Done -> Pending.
func (s Status) Cycle() Status {
	return (s.Normalize() + 1) % 3
}

// Task is a single to-do item. Dates stay in their stored string form so a
// malformed value survives a round trip and can be reported on.
type Task struct {
	ID          string
	Title       string
	StartDate   string
	EndDate     string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	ErrTitleRequired  = errors.New("title is required")
	ErrEndBeforeStart = errors.New("end date is before start date")
)

// Validate applies the rules of the add/edit form.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrTitleRequired
	}
	start, err := ParseDate(t.StartDate)
	if err != nil {
		return fmt.Errorf("start date: %w", err)
	}
	end, err := ParseDate(t.EndDate)
	if err != nil {
		return fmt.Errorf("end date: %w", err)
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	return nil
}

// DueTag is the short deadline label shown next to a task in the list.
// It is empty when the end date cannot be parsed.
func (t Task) DueTag(today time.Time) string {
	end, err := ParseDate(t.EndDate)
	if err != nil {
		return ""
	}
	delta := DaysBetween(today, end)
	switch {
	case delta < 0:
		return "overdue"
	case delta == 0:
		return "D-DAY"
	default:
		return fmt.Sprintf("D-%d", delta)
	}
}

// Urgent reports whether the end date is within the next three days.
func (t Task) Urgent(today time.Time) bool {
	end, err := ParseDate(t.EndDate)
	if err != nil {
		return false
	}
	delta := DaysBetween(today, end)
	return delta >= 0 && delta <= 3
}

// Clone returns an independent copy of tasks.
func Clone(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	copy(out, tasks)
	return out
}
