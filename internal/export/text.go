package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sadopc/focusboard/internal/report"
	"github.com/sadopc/focusboard/internal/task"
)

// WriteReportText prints snap as two plain tables, one for the headline
// numbers and one for the week.
func WriteReportText(w io.Writer, snap report.Snapshot) error {
	summary := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Metric", "Value").
		Row("Tasks", strconv.Itoa(snap.Total)).
		Row("Completion", fmt.Sprintf("%.1f%%", snap.CompletionRate)).
		Row("Avg duration", fmt.Sprintf("%.1f days", snap.AverageDurationDays)).
		Row("Due soon (3d)", strconv.Itoa(snap.DueSoon)).
		Row("Overdue", strconv.Itoa(snap.Overdue)).
		Row("Pending", strconv.Itoa(snap.Pending)).
		Row("In progress", strconv.Itoa(snap.InProgress)).
		Row("Done", strconv.Itoa(snap.Done))

	days := make([]string, 0, len(snap.Week))
	counts := make([]string, 0, len(snap.Week))
	for i, n := range snap.Week {
		days = append(days, snap.WeekStart.AddDate(0, 0, i).Weekday().String()[:3])
		counts = append(counts, strconv.Itoa(n))
	}
	week := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(days...).
		Row(counts...)

	_, err := fmt.Fprintf(w, "Report for %s\n%s\nDue this week (from %s)\n%s\n",
		task.FormatDate(snap.Today), summary.Render(), task.FormatDate(snap.WeekStart), week.Render())
	return err
}
