package render

import (
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Heatmap endpoints, blended in Lab space.
var (
	HeatLight = lipgloss.Color("#DDE7C7")
	HeatDark  = lipgloss.Color("#1E6B34")
)

// HeatCell is one weekday of the heatmap.
type HeatCell struct {
	Count     int
	Intensity float64 // count / max(week), 0 when the week is empty
	Color     lipgloss.Color
}

// Heatmap shades each day of week between HeatLight and HeatDark by its
// share of the busiest day. An all-zero week is uniformly light.
func Heatmap(week [7]int) [7]HeatCell {
	peak := 1
	for _, c := range week {
		peak = max(peak, c)
	}

	var cells [7]HeatCell
	for i, c := range week {
		c = max(c, 0)
		t := float64(c) / float64(peak)
		cells[i] = HeatCell{Count: c, Intensity: t, Color: Blend(HeatLight, HeatDark, t)}
	}
	return cells
}

// Blend mixes two hex colors; t=0 gives from and t=1 gives to.
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	a, err := colorful.Hex(string(from))
	if err != nil {
		return from
	}
	b, err := colorful.Hex(string(to))
	if err != nil {
		return from
	}
	switch {
	case t <= 0:
		return from
	case t >= 1:
		return to
	}
	return lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
}
