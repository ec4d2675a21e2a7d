package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusboard/internal/clock"
	"github.com/sadopc/focusboard/internal/logger"
	"github.com/sadopc/focusboard/internal/render"
	"github.com/sadopc/focusboard/internal/report"
	"github.com/sadopc/focusboard/internal/schedule"
	"go.uber.org/zap"
)

const ringRadius = 5

// dashboardModel shows the report. The completion gauge animates toward
// each new rate and a burst plays when a milestone is crossed; both are
// sampled by a frame loop that runs only while something is moving.
type dashboardModel struct {
	clock  clock.Clock
	log    *logger.Logger
	width  int
	height int

	scheduler report.Scheduler
	frames    schedule.Loop

	displayed  float64
	tween      render.Tween
	tweenStart time.Time

	milestones render.MilestoneTracker
	burst      render.Burst
	burstStart time.Time
	bursting   bool
	celebrated float64
}

func newDashboardModel(p report.Provider, c clock.Clock, log *logger.Logger, refreshEvery, frameEvery time.Duration) dashboardModel {
	return dashboardModel{
		clock:     c,
		log:       log,
		scheduler: report.NewScheduler(p, c, refreshEvery, log),
		frames:    schedule.New(frameEvery),
	}
}

// start runs the first refresh and arms the periodic one.
func (d *dashboardModel) start() tea.Cmd {
	return d.scheduler.Start()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

// trigger refreshes right away after the task list changed.
func (d *dashboardModel) trigger() tea.Cmd {
	return d.scheduler.Trigger()
}

func (d *dashboardModel) stopLoops() {
	d.scheduler.Stop()
	d.frames.Stop()
}

func (d dashboardModel) animating() bool { return d.frames.Running() }

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case report.RefreshedMsg:
		changed, cmd := d.scheduler.Update(msg)
		if !changed {
			return d, cmd
		}
		snap, _ := d.scheduler.Current()
		return d, tea.Batch(cmd, d.apply(snap))

	case schedule.TickMsg:
		if d.frames.Owns(msg) {
			return d.frame()
		}
		_, cmd := d.scheduler.Update(msg)
		return d, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Refresh) {
			return d, d.scheduler.Trigger()
		}
	}
	return d, nil
}

// apply retargets the gauge and checks milestones for a new snapshot.
func (d *dashboardModel) apply(snap report.Snapshot) tea.Cmd {
	now := d.clock.Now()

	d.tween = render.NewTween(d.displayed, snap.CompletionRate)
	d.tweenStart = now
	if d.tween.Steps == 0 {
		d.displayed = d.tween.To
	}

	if threshold, fired := d.milestones.Observe(snap.CompletionRate); fired {
		d.burst = render.NewBurst(now.UnixNano(), 24)
		d.burstStart = now
		d.bursting = true
		d.celebrated = threshold
		d.log.Info("completion milestone reached",
			zap.Float64("milestone", threshold),
			zap.Float64("completion_rate", snap.CompletionRate),
		)
	}

	if d.moving(now) && !d.frames.Running() {
		return d.frames.Start()
	}
	return nil
}

func (d dashboardModel) moving(now time.Time) bool {
	return !d.tween.Done(now.Sub(d.tweenStart)) || d.bursting
}

func (d dashboardModel) frame() (dashboardModel, tea.Cmd) {
	now := d.clock.Now()
	d.displayed = d.tween.Value(now.Sub(d.tweenStart))
	if d.bursting && d.burst.Done(now.Sub(d.burstStart)) {
		d.bursting = false
	}
	if !d.moving(now) {
		d.frames.Stop()
		return d, nil
	}
	return d, d.frames.Next()
}

func (d dashboardModel) view() string {
	w := d.width - 4
	title := titleStyle.Render("Dashboard")

	snap, ready := d.scheduler.Current()
	if !ready {
		msg := mutedStyle.Render("Collecting tasks...")
		if err := d.scheduler.Err(); err != nil {
			msg = errorStyle.Render("Report unavailable: " + err.Error())
		}
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", msg))
	}

	now := d.clock.Now()
	gauge := render.Ring(ringRadius, d.displayed, fmt.Sprintf("%.1f%%", d.displayed))
	if d.bursting {
		canvas := d.burst.Draw(lipgloss.Width(gauge), lipgloss.Height(gauge), now.Sub(d.burstStart))
		gauge = lipgloss.JoinVertical(lipgloss.Center, canvas, successStyle.Bold(true).Render(fmt.Sprintf("%.0f%% reached!", d.celebrated)))
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Padding(0, 2).Render(gauge),
		renderStats(snap),
	)

	barWidth := min(max(w-8, 10), 60)
	p, ip, done := snap.StatusCounts()
	statusBar := lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Status"),
		render.StackedBar(render.StatusSegments(p, ip, done, barWidth), barWidth),
		renderStatusLegend(p, ip, done),
	)

	week := lipgloss.JoinVertical(lipgloss.Left,
		subtitleStyle.Render("Due this week"),
		renderHeatmap(snap),
		weekChart(snap, min(max(w-8, 28), 70), 8).View(),
	)

	updated := mutedStyle.Render("updated " + formatAgo(d.scheduler.LastRefresh(), now))
	if err := d.scheduler.Err(); err != nil {
		updated += errorStyle.Render("  last refresh failed: " + err.Error())
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", top, "", statusBar, "", week, "", updated,
		mutedStyle.Render("  R: refresh now"),
	))
}
