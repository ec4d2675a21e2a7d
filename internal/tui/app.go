package tui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusboard/internal/clock"
	"github.com/sadopc/focusboard/internal/config"
	"github.com/sadopc/focusboard/internal/countdown"
	"github.com/sadopc/focusboard/internal/export"
	"github.com/sadopc/focusboard/internal/logger"
	"github.com/sadopc/focusboard/internal/report"
	"github.com/sadopc/focusboard/internal/schedule"
	"github.com/sadopc/focusboard/internal/store"
	"github.com/sadopc/focusboard/internal/task"
	"go.uber.org/zap"
)

// Deps are the collaborators the app is built from. Only Store is
// required.
type Deps struct {
	Store     *store.Store
	Clock     clock.Clock
	Config    *config.Config
	Logger    *logger.Logger
	Alerter   countdown.Alerter
	ExportDir string // defaults to the home directory
}

var exportFormats = []string{"Tasks (CSV)", "Report (JSON)"}

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	clock     clock.Clock
	log       *logger.Logger
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	tasks     tasksModel
	timer     timerModel
	dashboard dashboardModel
	settings  settingsModel

	startCmd tea.Cmd

	help        help.Model
	status      string
	statusError bool
}

func NewApp(d Deps) App {
	if d.Clock == nil {
		d.Clock = clock.Real{}
	}
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Logger == nil {
		d.Logger = logger.Default()
	}
	if d.Alerter == nil {
		d.Alerter = countdown.NopAlerter{}
	}

	h := help.New()
	h.ShowAll = false

	a := App{
		store:      d.Store,
		clock:      d.Clock,
		log:        d.Logger,
		exportDir:  d.ExportDir,
		activeView: viewTasks,
		tasks:      newTasksModel(d.Store, d.Clock, d.Logger.WithFields(zap.String("component", "tasks"))),
		timer:      newTimerModel(d.Store, d.Clock, d.Logger.WithFields(zap.String("component", "timer")), d.Alerter, d.Config.TimerTick, d.Config.BlinkInterval),
		dashboard:  newDashboardModel(d.Store, d.Clock, d.Logger.WithFields(zap.String("component", "report")), d.Config.ReportInterval, d.Config.FrameInterval()),
		settings:   newSettingsModel(d.Store, d.Config),
		help:       h,
	}
	// The scheduler is armed here rather than in Init, whose receiver is a
	// copy that Bubble Tea throws away.
	a.startCmd = a.dashboard.start()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.startCmd,
		a.tasks.refresh(),
		a.settings.refresh(),
		a.timer.refreshStats(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.tasks.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child form captures every key.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a.shutdown()
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewTasks)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewTimer)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case schedule.TickMsg:
		// Every loop checks ownership, so ticks can go to everyone.
		var timerCmd, dashCmd tea.Cmd
		a.timer, timerCmd = a.timer.update(msg)
		a.dashboard, dashCmd = a.dashboard.update(msg)
		return a, tea.Batch(timerCmd, dashCmd)

	case report.RefreshedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case tasksChangedMsg:
		a.setStatus(msg.note, false)
		return a, a.dashboard.trigger()

	case tasksDataMsg:
		var cmd tea.Cmd
		a.tasks, cmd = a.tasks.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case timerStatsMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusError = isError
	if isError {
		a.log.Warn("ui error", zap.String("status", text))
	}
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewTasks:
		return a, a.tasks.refresh()
	case viewTimer:
		return a, a.timer.refreshStats()
	case viewSettings:
		return a, a.settings.refresh()
	}
	return a, nil
}

// shutdown stops every loop before quitting so no tick outlives the
// program.
func (a App) shutdown() (tea.Model, tea.Cmd) {
	a.timer.shutdown()
	a.dashboard.stopLoops()
	a.log.Info("shutting down")
	return a, tea.Quit
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewTimer:
		return a.timer.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTasks:
		content = a.tasks.view()
	case viewTimer:
		content = a.timer.view()
	case viewDashboard:
		content = a.dashboard.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focusboard")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Countdown indicator, visible from every view.
	timerInfo := ""
	switch a.timer.engine.Phase() {
	case countdown.Running:
		timerInfo = successStyle.Render(" ● " + a.timer.engine.Display())
	case countdown.Paused:
		timerInfo = warningStyle.Render(" ⏸ " + a.timer.engine.Display())
	case countdown.Expired:
		timerInfo = errorStyle.Render(" ● 00:00")
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the tasks as CSV (format 0) or the report as JSON.
func (a App) doExport(format int) tea.Cmd {
	dir := a.exportDir
	today := clock.Today(a.clock)
	return func() tea.Msg {
		tasks, err := a.store.ListTasks()
		if err != nil {
			return errStatus("Export", err)
		}

		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return errStatus("Export", err)
			}
			dir = home
		}
		date := task.FormatDate(today)

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("focusboard-tasks-%s.csv", date))
			if err := export.TasksToCSV(tasks, today, path); err != nil {
				return errStatus("CSV export", err)
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("focusboard-report-%s.json", date))
			if err := export.ReportToJSON(report.Aggregate(task.Clone(tasks), today), path); err != nil {
				return errStatus("JSON export", err)
			}
		}
		return exportDoneMsg{path: path}
	}
}
