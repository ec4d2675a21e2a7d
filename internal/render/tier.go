// Package render turns report numbers into terminal drawing primitives.
// Everything here is a pure function of its inputs, animations included:
// callers sample them at whatever frame rate they run.
package render

import "github.com/charmbracelet/lipgloss"

// Fixed palette shared by the gauges.
var (
	ColorRed    = lipgloss.Color("#E74C3C")
	ColorOrange = lipgloss.Color("#F39C12")
	ColorGreen  = lipgloss.Color("#2ECC71")
	ColorGray   = lipgloss.Color("#666666")
	ColorTrack  = lipgloss.Color("#414868")
)

// Tier bands a completion rate.
type Tier int

const (
	TierLow  Tier = iota // below 50
	TierMid              // 50 up to 80
	TierHigh             // 80 and above
)

// RateTier bands rate. Each band includes its lower bound.
func RateTier(rate float64) Tier {
	switch {
	case rate >= 80:
		return TierHigh
	case rate >= 50:
		return TierMid
	default:
		return TierLow
	}
}

func (t Tier) Color() lipgloss.Color {
	switch t {
	case TierHigh:
		return ColorGreen
	case TierMid:
		return ColorOrange
	default:
		return ColorRed
	}
}

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "green"
	case TierMid:
		return "orange"
	default:
		return "red"
	}
}
