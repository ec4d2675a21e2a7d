package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewTimer
	viewDashboard
	viewSettings
)

var viewNames = []string{"Tasks", "Timer", "Dashboard", "Settings"}

// --- Messages ---

// tasksChangedMsg is sent after any task mutation so the list reloads and
// the dashboard re-aggregates immediately.
type tasksChangedMsg struct {
	note string
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func errStatus(prefix string, err error) tea.Msg {
	return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
}

// --- Helpers ---

// formatAgo renders "updated 3 seconds ago" style labels.
func formatAgo(then, now time.Time) string {
	if then.IsZero() {
		return "never"
	}
	if now.Sub(then) < time.Second {
		return "just now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}

func formatDays(d float64) string {
	if d == 1 {
		return "1.0 day"
	}
	return fmt.Sprintf("%.1f days", d)
}
