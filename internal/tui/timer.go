package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusboard/internal/clock"
	"github.com/sadopc/focusboard/internal/countdown"
	"github.com/sadopc/focusboard/internal/logger"
	"github.com/sadopc/focusboard/internal/schedule"
	"github.com/sadopc/focusboard/internal/store"
	"go.uber.org/zap"
)

// timerModel is the countdown view. The engine owns the timing rules; this
// model drives it from two loops and records each run in the store.
type timerModel struct {
	store  *store.Store
	clock  clock.Clock
	log    *logger.Logger
	width  int
	height int

	engine *countdown.Engine
	tick   schedule.Loop
	blink  schedule.Loop

	runID        int64 // timer_runs.id of the live run, 0 if none
	expiredToday int
	recent       []store.TimerRun

	formActive  bool
	form        *huh.Form
	formMinutes *string
	formWarn    *string
}

func newTimerModel(s *store.Store, c clock.Clock, log *logger.Logger, alerter countdown.Alerter, tickEvery, blinkEvery time.Duration) timerModel {
	if alerter == nil {
		alerter = countdown.NopAlerter{}
	}
	minutes, warn := "", ""
	return timerModel{
		store:       s,
		clock:       c,
		log:         log,
		engine:      countdown.New(c, countdown.WithAlerter(alerter), countdown.WithLogger(log)),
		tick:        schedule.New(tickEvery),
		blink:       schedule.New(blinkEvery),
		formMinutes: &minutes,
		formWarn:    &warn,
	}
}

func (m *timerModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type timerStatsMsg struct {
	expired int
	recent  []store.TimerRun
}

const recentRuns = 3

// refreshStats counts the countdowns that expired today and loads the
// latest runs.
func (m timerModel) refreshStats() tea.Cmd {
	from := clock.Today(m.clock)
	to := from.AddDate(0, 0, 1)
	return func() tea.Msg {
		n, err := m.store.CountExpiredRuns(from, to)
		if err != nil {
			return errStatus("Timer stats", err)
		}
		recent, err := m.store.ListTimerRuns(recentRuns)
		if err != nil {
			return errStatus("Timer stats", err)
		}
		return timerStatsMsg{expired: n, recent: recent}
	}
}

func (m timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case schedule.TickMsg:
		return m.handleTick(msg)

	case timerStatsMsg:
		m.expiredToday = msg.expired
		m.recent = msg.recent
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start), key.Matches(msg, keys.Enter):
			return m.showForm()
		case key.Matches(msg, keys.Pause):
			return m.toggle()
		case key.Matches(msg, keys.Reset):
			return m.reset()
		}
	}
	return m, nil
}

// handleTick serves both loops. Ticks from other loops are ignored.
func (m timerModel) handleTick(msg schedule.TickMsg) (timerModel, tea.Cmd) {
	switch {
	case m.tick.Owns(msg):
		res := m.engine.Tick()
		if !res.Expired {
			return m, m.tick.Next()
		}
		m.tick.Stop()
		m.finishRun(store.RunExpired)
		m.expiredToday++
		return m, tea.Batch(m.blink.Start(), func() tea.Msg {
			return statusMsg{text: "Time's up!"}
		})

	case m.blink.Owns(msg):
		m.engine.ToggleBlink()
		return m, m.blink.Next()
	}
	return m, nil
}

func (m timerModel) showForm() (timerModel, tea.Cmd) {
	d, err := m.store.TimerDefaults()
	if err != nil {
		m.log.Warn("read timer defaults", zap.Error(err))
	}
	*m.formMinutes = strconv.FormatFloat(d.Minutes, 'f', -1, 64)
	*m.formWarn = strconv.Itoa(d.WarnSeconds)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Minutes").Value(m.formMinutes).Validate(validateMinutes),
			huh.NewInput().Title("Warn in the last (seconds)").Value(m.formWarn).Validate(validateWarn),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func validateMinutes(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return errors.New("enter a positive number of minutes")
	}
	return nil
}

func validateWarn(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return errors.New("enter a whole number of seconds, at least 1")
	}
	return nil
}

func (m timerModel) updateForm(msg tea.Msg) (timerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		return m.start(*m.formMinutes, *m.formWarn)
	}

	return m, cmd
}

// start (re)starts the countdown from form text. Bad input leaves the
// current countdown running untouched.
func (m timerModel) start(minutesText, warnText string) (timerModel, tea.Cmd) {
	if err := m.engine.ParseStart(minutesText, warnText); err != nil {
		return m, func() tea.Msg { return errStatus("Timer", err) }
	}
	m.finishRun(store.RunReplaced)
	m.blink.Stop()

	run, err := m.store.StartTimerRun(m.engine.Total(), m.engine.WarnThreshold())
	if err != nil {
		m.log.Warn("record timer run", zap.Error(err))
	} else {
		m.runID = run.ID
	}

	return m, tea.Batch(m.tick.Restart(), func() tea.Msg {
		return statusMsg{text: "Timer started: " + m.engine.Display()}
	})
}

func (m timerModel) toggle() (timerModel, tea.Cmd) {
	if !m.engine.Toggle() {
		return m, nil
	}
	if m.engine.Running() {
		return m, m.tick.Start()
	}
	m.tick.Stop()
	return m, nil
}

func (m timerModel) reset() (timerModel, tea.Cmd) {
	if m.engine.Phase() == countdown.Idle {
		return m, nil
	}
	m.finishRun(store.RunReset)
	m.engine.Reset()
	m.stopLoops()
	return m, func() tea.Msg { return statusMsg{text: "Timer reset"} }
}

// finishRun closes the live timer_runs row, if any.
func (m *timerModel) finishRun(outcome string) {
	if m.runID == 0 {
		return
	}
	if err := m.store.FinishTimerRun(m.runID, outcome); err != nil {
		m.log.Warn("finish timer run", zap.Int64("run_id", m.runID), zap.Error(err))
	}
	m.runID = 0
}

func (m *timerModel) stopLoops() {
	schedule.Group{&m.tick, &m.blink}.StopAll()
}

// shutdown stops both loops and abandons a countdown still in progress.
func (m *timerModel) shutdown() {
	m.stopLoops()
	m.finishRun(store.RunReset)
}

func (m timerModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Countdown")

	phase := m.engine.Phase()
	digits := tierStyle(m.engine.Tier()).Render(bigDigits(m.engine.Display()))

	var label string
	switch phase {
	case countdown.Idle:
		label = mutedStyle.Render("Press s to set a timer")
	case countdown.Running:
		label = successStyle.Bold(true).Render(phase.String())
		if m.engine.Tier() == countdown.TierWarning {
			label = errorStyle.Bold(true).Render("ALMOST DONE")
		}
	case countdown.Paused:
		label = timerPausedStyle.Render(phase.String())
	case countdown.Expired:
		label = errorStyle.Bold(true).Render(phase.String())
	}

	barWidth := min(max(w-10, 10), 60)
	bar := progressBar(m.engine.Progress(), barWidth, tierColor(m.engine.Tier()))

	info := mutedStyle.Render(fmt.Sprintf("%s total · warn at %ds · %d finished today",
		countdown.Format(m.engine.Total()), m.engine.WarnThreshold(), m.expiredToday))

	var controls string
	switch phase {
	case countdown.Idle:
		controls = mutedStyle.Render("s: set timer")
	case countdown.Expired:
		controls = mutedStyle.Render("s: new timer  r: reset")
	default:
		controls = mutedStyle.Render("space: pause/resume  r: reset  s: restart")
	}

	body := lipgloss.JoinVertical(lipgloss.Center, title, "", digits, "", label, "", bar, info, renderRecentRuns(m.recent), "", controls)
	if m.formActive && m.form != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Set Timer"), "", m.form.View())
	}
	return panelStyle.Width(w).Render(body)
}

func renderRecentRuns(runs []store.TimerRun) string {
	if len(runs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		parts = append(parts, countdown.Format(r.TotalSeconds)+" "+r.Outcome)
	}
	return mutedStyle.Render("recent: " + strings.Join(parts, " · "))
}

func tierStyle(t countdown.Tier) lipgloss.Style {
	switch t {
	case countdown.TierNormal:
		return timerRunningStyle
	case countdown.TierWarning:
		return timerWarningStyle
	case countdown.TierExpired:
		return timerExpiredStyle
	default:
		return timerNeutralStyle
	}
}

func tierColor(t countdown.Tier) lipgloss.Color {
	switch t {
	case countdown.TierNormal:
		return colorSuccess
	case countdown.TierWarning, countdown.TierExpired:
		return colorError
	default:
		return colorSubtle
	}
}

func progressBar(frac float64, width int, color lipgloss.Color) string {
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(colorSubtle).Render(strings.Repeat("░", width-filled))
}

// Three-row block font for MM:SS.
var digitFont = map[rune][3]string{
	'0': {"█▀█", "█ █", "▀▀▀"},
	'1': {" ▄█", "  █", "  ▀"},
	'2': {"▀▀█", "█▀▀", "▀▀▀"},
	'3': {"▀▀█", " ▀█", "▀▀▀"},
	'4': {"█ █", "▀▀█", "  ▀"},
	'5': {"█▀▀", "▀▀█", "▀▀▀"},
	'6': {"█▀▀", "█▀█", "▀▀▀"},
	'7': {"▀▀█", "  █", "  ▀"},
	'8': {"█▀█", "█▀█", "▀▀▀"},
	'9': {"█▀█", "▀▀█", "▀▀▀"},
	':': {" ", "▀", "▀"},
}

func bigDigits(s string) string {
	var rows [3][]string
	for _, r := range s {
		glyph, ok := digitFont[r]
		if !ok {
			glyph = [3]string{string(r), " ", " "}
		}
		for i := range rows {
			rows[i] = append(rows[i], glyph[i])
		}
	}
	lines := make([]string, len(rows))
	for i, parts := range rows {
		lines[i] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}
