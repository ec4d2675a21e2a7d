package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusboard/internal/render"
	"github.com/sadopc/focusboard/internal/report"
	"github.com/sadopc/focusboard/internal/task"
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func renderStats(snap report.Snapshot) string {
	tier := render.RateTier(snap.CompletionRate)
	rate := lipgloss.NewStyle().Bold(true).Foreground(tier.Color()).Render(fmt.Sprintf("%.1f%%", snap.CompletionRate))

	row := func(label, value string) string {
		return lipgloss.NewStyle().Width(18).Foreground(colorMuted).Render(label) + value
	}

	overdue := highlightStyle.Render(fmt.Sprint(snap.Overdue))
	if snap.Overdue > 0 {
		overdue = errorStyle.Bold(true).Render(fmt.Sprint(snap.Overdue))
	}
	dueSoon := highlightStyle.Render(fmt.Sprint(snap.DueSoon))
	if snap.DueSoon > 0 {
		dueSoon = warningStyle.Bold(true).Render(fmt.Sprint(snap.DueSoon))
	}

	rows := []string{
		row("Completion", rate),
		row("Tasks", highlightStyle.Render(fmt.Sprint(snap.Total))),
		row("Avg duration", highlightStyle.Render(formatDays(snap.AverageDurationDays))),
		row("Due in 3 days", dueSoon),
		row("Overdue", overdue),
	}
	if snap.SkippedDates > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("%d task(s) with unreadable dates", snap.SkippedDates)))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(rows, "\n"))
}

func renderStatusLegend(pending, inProgress, done int) string {
	var items []string
	for _, s := range render.StatusSegments(pending, inProgress, done, 0) {
		dot := lipgloss.NewStyle().Foreground(s.Color).Render("●")
		items = append(items, fmt.Sprintf("%s %s %d", dot, s.Status, s.Count))
	}
	return strings.Join(items, "   ")
}

// renderHeatmap draws one shaded cell per weekday, darker for busier days.
func renderHeatmap(snap report.Snapshot) string {
	cells := render.Heatmap(snap.Week)
	today := -1
	if off := task.DaysBetween(snap.WeekStart, snap.Today); off >= 0 && off < 7 {
		today = off
	}

	var labels, blocks []string
	for i, c := range cells {
		label := weekdayLabels[i]
		if i == today {
			label = highlightStyle.Bold(true).Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		labels = append(labels, lipgloss.NewStyle().Width(5).Render(label))

		fg := colorBg
		if c.Intensity >= 0.5 {
			fg = lipgloss.Color("#FFFFFF")
		}
		block := lipgloss.NewStyle().Background(c.Color).Foreground(fg).Width(4).Align(lipgloss.Center).Render(fmt.Sprint(c.Count))
		blocks = append(blocks, block+" ")
	}
	return strings.Join(labels, "") + "\n" + strings.Join(blocks, "")
}

// weekChart plots tasks due per weekday, each bar shaded like its heatmap
// cell.
func weekChart(snap report.Snapshot, width, height int) barchart.Model {
	cells := render.Heatmap(snap.Week)
	chart := barchart.New(width, height)

	bars := make([]barchart.BarData, len(cells))
	for i, c := range cells {
		color := c.Color
		if c.Count == 0 {
			color = colorSubtle
		}
		bars[i] = barchart.BarData{
			Label: weekdayLabels[i],
			Values: []barchart.BarValue{{
				Name:  weekdayLabels[i],
				Value: float64(c.Count),
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		}
	}
	chart.PushAll(bars)
	chart.Draw()
	return chart
}
