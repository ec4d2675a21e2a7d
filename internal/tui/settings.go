package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusboard/internal/config"
	"github.com/sadopc/focusboard/internal/store"
)

type settingsModel struct {
	store  *store.Store
	config *config.Config
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	timerMinutes *string
	timerWarn    *string
}

func newSettingsModel(s *store.Store, cfg *config.Config) settingsModel {
	minutes, warn := "", ""
	return settingsModel{
		store:        s,
		config:       cfg,
		timerMinutes: &minutes,
		timerWarn:    &warn,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		if err != nil {
			return errStatus("Load settings", err)
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	d, _ := s.store.TimerDefaults()
	*s.timerMinutes = strconv.FormatFloat(d.Minutes, 'f', -1, 64)
	*s.timerWarn = strconv.Itoa(d.WarnSeconds)

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Default minutes").Value(s.timerMinutes).Validate(validateMinutes),
			huh.NewInput().Title("Default warning (seconds)").Value(s.timerWarn).Validate(validateWarn),
		).Title("Timer"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		return s.save()
	}

	return s, cmd
}

func (s settingsModel) save() (settingsModel, tea.Cmd) {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(*s.timerMinutes), 64)
	if err != nil {
		return s, func() tea.Msg { return errStatus("Settings", err) }
	}
	warn, err := strconv.Atoi(strings.TrimSpace(*s.timerWarn))
	if err != nil {
		return s, func() tea.Msg { return errStatus("Settings", err) }
	}
	if err := s.store.SetTimerDefaults(store.TimerDefaults{Minutes: minutes, WarnSeconds: warn}); err != nil {
		return s, func() tea.Msg { return errStatus("Settings", err) }
	}
	return s, tea.Batch(s.refresh(), func() tea.Msg { return statusMsg{text: "Settings saved"} })
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	if s.config != nil {
		rows = append(rows, "", subtitleStyle.Render("Config (read-only)"))
		for _, kv := range [][2]string{
			{"database", s.config.DBPath},
			{"log file", s.config.Logging.OutputPath},
			{"log level", s.config.Logging.Level},
			{"report interval", s.config.ReportInterval.String()},
			{"timer tick", s.config.TimerTick.String()},
			{"frame rate", fmt.Sprintf("%d fps", s.config.FrameRate)},
		} {
			label := lipgloss.NewStyle().Width(24).Render(kv[0])
			rows = append(rows, fmt.Sprintf("  %s %s", label, mutedStyle.Render(kv[1])))
		}
	}

	rows = append(rows, "", mutedStyle.Render("Press enter to edit timer defaults"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingTimerMinutes:
		if m, err := strconv.ParseFloat(v, 64); err == nil {
			return strconv.FormatFloat(m, 'f', -1, 64) + " min"
		}
	case store.SettingTimerWarn:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d sec", secs)
		}
	}
	return v
}
