package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusboard/internal/task"
)

var statusColors = map[task.Status]lipgloss.Color{
	task.Pending:    ColorGray,
	task.InProgress: ColorOrange,
	task.Done:       ColorGreen,
}

// Segment is one status slice of the stacked bar.
type Segment struct {
	Status task.Status
	Count  int
	Exact  float64 // totalWidth * count / total
	Width  int     // whole cells
	Color  lipgloss.Color
}

// StatusSegments splits width between the three statuses in proportion to
// their counts. Whole-cell widths are assigned by largest remainder so they
// always add up to width when there is at least one task.
func StatusSegments(pending, inProgress, done, width int) []Segment {
	counts := []int{pending, inProgress, done}
	total := 0
	for _, c := range counts {
		total += max(c, 0)
	}
	denom := max(total, 1)
	width = max(width, 0)

	segs := make([]Segment, len(counts))
	used := 0
	for i, c := range counts {
		st := task.Status(i)
		c = max(c, 0)
		exact := float64(width) * float64(c) / float64(denom)
		segs[i] = Segment{Status: st, Count: c, Exact: exact, Width: int(exact), Color: statusColors[st]}
		used += segs[i].Width
	}
	if total == 0 {
		return segs
	}

	order := []int{0, 1, 2}
	sort.SliceStable(order, func(a, b int) bool {
		ra := segs[order[a]].Exact - float64(segs[order[a]].Width)
		rb := segs[order[b]].Exact - float64(segs[order[b]].Width)
		return ra > rb
	})
	for i := 0; used < width; i = (i + 1) % len(order) {
		segs[order[i]].Width++
		used++
	}
	return segs
}

// StackedBar draws the segments as one line of blocks.
func StackedBar(segs []Segment, width int) string {
	var b strings.Builder
	drawn := 0
	for _, s := range segs {
		if s.Width == 0 {
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(s.Color).Render(strings.Repeat("█", s.Width)))
		drawn += s.Width
	}
	if drawn < width {
		b.WriteString(lipgloss.NewStyle().Foreground(ColorTrack).Render(strings.Repeat("░", width-drawn)))
	}
	return b.String()
}
