package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Cell is one character of a rasterised ring.
type Cell int

const (
	CellEmpty Cell = iota
	CellTrack
	CellFill
)

// RingAngle is the swept angle in degrees for percent, clamped to [0,360].
func RingAngle(percent float64) float64 {
	return clampPercent(percent) * 3.6
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}

// RingCells rasterises a ring gauge of the given radius onto a character
// grid. Terminal cells are about twice as tall as wide, so the grid is
// 2r+1 rows by 4r+2 columns. The arc starts at twelve o'clock and sweeps
// clockwise.
func RingCells(radius int, percent float64) [][]Cell {
	if radius < 1 {
		radius = 1
	}
	rows, cols := 2*radius+1, 4*radius+2
	sweep := RingAngle(percent)
	r := float64(radius)

	grid := make([][]Cell, rows)
	for row := range grid {
		grid[row] = make([]Cell, cols)
		for col := range grid[row] {
			dy := float64(row - radius)
			dx := (float64(col) - 2*r - 0.5) / 2
			d := math.Hypot(dx, dy)
			if d < r-0.75 || d > r+0.5 {
				continue
			}
			theta := math.Atan2(dx, -dy) * 180 / math.Pi
			if theta < 0 {
				theta += 360
			}
			if sweep > 0 && (sweep >= 360 || theta < sweep) {
				grid[row][col] = CellFill
			} else {
				grid[row][col] = CellTrack
			}
		}
	}
	return grid
}

// Ring draws the gauge with the label centred inside it.
func Ring(radius int, percent float64, label string) string {
	cells := RingCells(radius, percent)
	fill := lipgloss.NewStyle().Foreground(RateTier(percent).Color())
	track := lipgloss.NewStyle().Foreground(ColorTrack)

	mid := len(cells) / 2
	var b strings.Builder
	for row, line := range cells {
		if row > 0 {
			b.WriteByte('\n')
		}
		if row == mid {
			b.WriteString(ringRowWithLabel(line, label, fill, track))
			continue
		}
		for _, c := range line {
			b.WriteString(paintCell(c, fill, track))
		}
	}
	return b.String()
}

func ringRowWithLabel(line []Cell, label string, fill, track lipgloss.Style) string {
	w := lipgloss.Width(label)
	start := (len(line) - w) / 2
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for col := 0; col < len(line); {
		if col == start && w > 0 {
			b.WriteString(fill.Bold(true).Render(label))
			col += w
			continue
		}
		b.WriteString(paintCell(line[col], fill, track))
		col++
	}
	return b.String()
}

func paintCell(c Cell, fill, track lipgloss.Style) string {
	switch c {
	case CellFill:
		return fill.Render("█")
	case CellTrack:
		return track.Render("░")
	default:
		return " "
	}
}
