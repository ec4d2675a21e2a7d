package render

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// BurstDuration is how long a celebration lasts.
const BurstDuration = 800 * time.Millisecond

const gravity = 9.0 // cells per second squared, downward

var (
	burstGlyphs = []rune{'*', '+', 'o', '•', '.'}
	burstColors = []lipgloss.Color{ColorGreen, ColorOrange, "#6C63FF", "#2EC4B6", "#FF6B6B"}
)

// Particle is one spark at a sampled instant, relative to the burst origin.
// Y grows downward like terminal rows.
type Particle struct {
	X, Y  float64
	Glyph rune
	Color lipgloss.Color
}

type spark struct {
	vx, vy float64
	glyph  rune
	color  lipgloss.Color
}

// Burst is a particle explosion. Positions depend only on the seed and the
// elapsed time, so a burst can be sampled at any rate and replayed exactly.
type Burst struct {
	sparks []spark
}

// NewBurst creates count sparks from seed.
func NewBurst(seed int64, count int) Burst {
	rng := rand.New(rand.NewSource(seed))
	sparks := make([]spark, max(count, 0))
	for i := range sparks {
		angle := rng.Float64() * 2 * math.Pi
		speed := 6 + rng.Float64()*10
		sparks[i] = spark{
			vx:    math.Cos(angle) * speed * 2, // cells are twice as tall as wide
			vy:    math.Sin(angle) * speed,
			glyph: burstGlyphs[rng.Intn(len(burstGlyphs))],
			color: burstColors[rng.Intn(len(burstColors))],
		}
	}
	return Burst{sparks: sparks}
}

// Done reports whether the burst is over after elapsed.
func (b Burst) Done(elapsed time.Duration) bool {
	return elapsed >= BurstDuration
}

// Particles samples every spark after elapsed. It returns nil once the burst
// is done.
func (b Burst) Particles(elapsed time.Duration) []Particle {
	if b.Done(elapsed) || elapsed < 0 {
		return nil
	}
	s := elapsed.Seconds()
	out := make([]Particle, len(b.sparks))
	for i, sp := range b.sparks {
		out[i] = Particle{
			X:     sp.vx * s,
			Y:     sp.vy*s + 0.5*gravity*s*s,
			Glyph: sp.glyph,
			Color: sp.color,
		}
	}
	return out
}

// Draw renders the burst centred on a width x height canvas. Sparks that
// leave the canvas are clipped.
func (b Burst) Draw(width, height int, elapsed time.Duration) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	grid := make([][]string, height)
	for i := range grid {
		grid[i] = make([]string, width)
		for j := range grid[i] {
			grid[i][j] = " "
		}
	}

	cx, cy := float64(width)/2, float64(height)/2
	for _, p := range b.Particles(elapsed) {
		col := int(math.Round(cx + p.X))
		row := int(math.Round(cy + p.Y))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		grid[row][col] = lipgloss.NewStyle().Foreground(p.Color).Render(string(p.Glyph))
	}

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}
