package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/focusboard/internal/task"
)

var csvHeader = []string{"ID", "Title", "Start", "End", "Status", "Due", "Memo"}

// TasksToCSV writes tasks to a new CSV file at path.
func TasksToCSV(tasks []task.Task, today time.Time, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	return WriteTasksCSV(f, tasks, today)
}

// WriteTasksCSV writes tasks as CSV with a header row. The Due column holds
// the same label the task list shows.
func WriteTasksCSV(out io.Writer, tasks []task.Task, today time.Time) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range tasks {
		row := []string{
			t.ID,
			t.Title,
			t.StartDate,
			t.EndDate,
			t.Status.Normalize().String(),
			t.DueTag(today),
			t.Description,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
