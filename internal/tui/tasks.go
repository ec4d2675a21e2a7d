package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/focusboard/internal/clock"
	"github.com/sadopc/focusboard/internal/logger"
	"github.com/sadopc/focusboard/internal/store"
	"github.com/sadopc/focusboard/internal/task"
	"go.uber.org/zap"
)

type tasksModel struct {
	store  *store.Store
	clock  clock.Clock
	log    *logger.Logger
	width  int
	height int

	tasks         []task.Task
	cursor        int
	confirmDelete bool
	detail        bool            // read-only panel for the selected task
	marked        map[string]bool // task IDs; delete and cycle act on these when set

	formActive bool
	form       *huh.Form
	editingID  string // empty while adding

	// Form field pointers (survive value copies)
	formTitle  *string
	formStart  *string
	formEnd    *string
	formMemo   *string
	formStatus *task.Status
}

func newTasksModel(s *store.Store, c clock.Clock, log *logger.Logger) tasksModel {
	title, start, end, memo := "", "", "", ""
	status := task.Pending
	return tasksModel{
		store:      s,
		clock:      c,
		log:        log,
		formTitle:  &title,
		formStart:  &start,
		formEnd:    &end,
		formMemo:   &memo,
		formStatus: &status,
		marked:     make(map[string]bool),
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks []task.Task
	err   error
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.ListTasks()
		return tasksDataMsg{tasks: tasks, err: err}
	}
}

func (m tasksModel) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return task.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func changed(note string) tea.Cmd {
	return func() tea.Msg { return tasksChangedMsg{note: note} }
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return errStatus("Load tasks", msg.err) }
		}
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		m.pruneMarks()
		if len(m.tasks) == 0 {
			m.detail = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirmDelete {
			m.confirmDelete = false
			if key.Matches(msg, keys.Confirm) {
				return m.deleteTargets()
			}
			return m, nil
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showForm(nil)
	case key.Matches(msg, keys.Edit):
		if t, ok := m.selected(); ok {
			return m.showForm(&t)
		}
	case key.Matches(msg, keys.Enter):
		if _, ok := m.selected(); ok {
			m.detail = true
		}
	case key.Matches(msg, keys.Mark):
		if t, ok := m.selected(); ok {
			if m.marked[t.ID] {
				delete(m.marked, t.ID)
			} else {
				m.marked[t.ID] = true
			}
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		}
	case key.Matches(msg, keys.Back):
		clear(m.marked)
	case key.Matches(msg, keys.Delete):
		if len(m.targets()) > 0 {
			m.confirmDelete = true
		}
	case key.Matches(msg, keys.Cycle):
		return m.cycleTargets()
	case key.Matches(msg, keys.MoveUp):
		return m.moveSelected(-1)
	case key.Matches(msg, keys.MoveDown):
		return m.moveSelected(1)
	}
	return m, nil
}

func (m tasksModel) updateDetail(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back), key.Matches(msg, keys.Enter):
		m.detail = false
	case key.Matches(msg, keys.Edit):
		m.detail = false
		if t, ok := m.selected(); ok {
			return m.showForm(&t)
		}
	}
	return m, nil
}

// targets are the marked tasks in list order, or the task under the cursor
// when nothing is marked.
func (m tasksModel) targets() []int {
	var idx []int
	for i, t := range m.tasks {
		if m.marked[t.ID] {
			idx = append(idx, i)
		}
	}
	if len(idx) > 0 {
		return idx
	}
	if _, ok := m.selected(); ok {
		return []int{m.cursor}
	}
	return nil
}

func (m *tasksModel) pruneMarks() {
	live := make(map[string]bool, len(m.tasks))
	for _, t := range m.tasks {
		live[t.ID] = true
	}
	for id := range m.marked {
		if !live[id] {
			delete(m.marked, id)
		}
	}
}

func (m tasksModel) cycleTargets() (tasksModel, tea.Cmd) {
	idx := m.targets()
	if len(idx) == 0 {
		return m, nil
	}
	for _, i := range idx {
		t := m.tasks[i]
		next, err := m.store.CycleTaskStatus(t.ID)
		if err != nil {
			return m, tea.Batch(m.refresh(), func() tea.Msg { return errStatus("Update status", err) })
		}
		m.tasks[i].Status = next
		m.log.Info("task status changed", zap.String("task_id", t.ID), zap.String("status", next.String()))
	}
	if len(idx) == 1 {
		t := m.tasks[idx[0]]
		return m, changed(fmt.Sprintf("%s: %s", t.Title, t.Status))
	}
	return m, changed(fmt.Sprintf("Updated %d tasks", len(idx)))
}

func (m tasksModel) moveSelected(delta int) (tasksModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	to := m.cursor + delta
	if to < 0 || to >= len(m.tasks) {
		return m, nil
	}
	if err := m.store.MoveTask(t.ID, delta); err != nil {
		return m, func() tea.Msg { return errStatus("Move task", err) }
	}
	m.cursor = to
	return m, m.refresh()
}

func (m tasksModel) deleteTargets() (tasksModel, tea.Cmd) {
	idx := m.targets()
	if len(idx) == 0 {
		return m, nil
	}
	gone := make(map[int]bool, len(idx))
	var failed error
	for _, i := range idx {
		t := m.tasks[i]
		if err := m.store.DeleteTask(t.ID); err != nil {
			failed = err
			break
		}
		gone[i] = true
		m.log.Info("task deleted", zap.String("task_id", t.ID))
	}

	note := "Deleted " + m.tasks[idx[0]].Title
	if len(idx) > 1 {
		note = fmt.Sprintf("Deleted %d tasks", len(gone))
	}
	kept := make([]task.Task, 0, len(m.tasks)-len(gone))
	for i, t := range m.tasks {
		if !gone[i] {
			kept = append(kept, t)
		}
	}
	m.tasks = kept
	m.pruneMarks()
	if m.cursor >= len(m.tasks) {
		m.cursor = max(0, len(m.tasks)-1)
	}

	if failed != nil {
		cmds := []tea.Cmd{func() tea.Msg { return errStatus("Delete task", failed) }}
		if len(gone) > 0 {
			cmds = append(cmds, changed(note))
		}
		return m, tea.Batch(cmds...)
	}
	return m, changed(note)
}

// showForm opens the add form, or the edit form when t is not nil.
func (m tasksModel) showForm(t *task.Task) (tasksModel, tea.Cmd) {
	today := task.FormatDate(clock.Today(m.clock))
	if t == nil {
		m.editingID = ""
		*m.formTitle = ""
		*m.formStart = today
		*m.formEnd = today
		*m.formMemo = ""
		*m.formStatus = task.Pending
	} else {
		m.editingID = t.ID
		*m.formTitle = t.Title
		*m.formStart = t.StartDate
		*m.formEnd = t.EndDate
		*m.formMemo = t.Description
		*m.formStatus = t.Status.Normalize()
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).Validate(validateTitle),
			huh.NewInput().Title("Start date").Placeholder(task.DateLayout).Value(m.formStart).Validate(validateDate),
			huh.NewInput().Title("End date").Placeholder(task.DateLayout).Value(m.formEnd).Validate(validateDate),
			huh.NewSelect[task.Status]().Title("Status").
				Options(
					huh.NewOption(task.Pending.String(), task.Pending),
					huh.NewOption(task.InProgress.String(), task.InProgress),
					huh.NewOption(task.Done.String(), task.Done),
				).Value(m.formStatus),
			huh.NewText().Title("Memo").Lines(3).Value(m.formMemo),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return task.ErrTitleRequired
	}
	return nil
}

func validateDate(s string) error {
	if _, err := task.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use %s", task.DateLayout)
	}
	return nil
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		return m.submit()
	}

	return m, cmd
}

// submit saves the form fields as a new or edited task.
func (m tasksModel) submit() (tasksModel, tea.Cmd) {
	t := task.Task{
		ID:          m.editingID,
		Title:       *m.formTitle,
		StartDate:   *m.formStart,
		EndDate:     *m.formEnd,
		Description: *m.formMemo,
		Status:      *m.formStatus,
	}

	if m.editingID == "" {
		created, err := m.store.CreateTask(t)
		if err != nil {
			return m, func() tea.Msg { return errStatus("Add task", err) }
		}
		m.log.Info("task created", zap.String("task_id", created.ID))
		return m, tea.Batch(m.refresh(), changed("Added "+created.Title))
	}

	if err := m.store.UpdateTask(t); err != nil {
		return m, func() tea.Msg { return errStatus("Save task", err) }
	}
	m.log.Info("task updated", zap.String("task_id", t.ID))
	return m, tea.Batch(m.refresh(), changed("Saved "+strings.TrimSpace(t.Title)))
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.editingID != "" {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	if m.detail {
		if t, ok := m.selected(); ok {
			return panelStyle.Width(w).Render(m.detailView(t))
		}
	}

	title := titleStyle.Render("Tasks")
	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	today := clock.Today(m.clock)
	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-32s %-10s %-10s %s", "Title", "Start", "End", "Due")))

	for i, t := range m.tasks {
		cursor, mark := " ", " "
		style := normalItemStyle
		if i == m.cursor {
			cursor = ">"
			style = selectedItemStyle
		}
		if m.marked[t.ID] {
			mark = "*"
		}
		if t.Status == task.Done {
			style = style.Foreground(colorMuted).Strikethrough(true)
		}
		row := style.Render(fmt.Sprintf("%s%s%s %-32s", cursor, mark, t.Status.Icon(), truncate(t.Title, 32)))
		dates := mutedStyle.Render(fmt.Sprintf(" %-10s %-10s ", t.StartDate, t.EndDate))
		rows = append(rows, row+dates+renderDueTag(t, today))
	}

	rows = append(rows, "")
	switch idx := m.targets(); {
	case m.confirmDelete && len(idx) > 1:
		rows = append(rows, errorStyle.Render(fmt.Sprintf("  Delete %d marked tasks? y: confirm  any key: cancel", len(idx))))
	case m.confirmDelete:
		t, _ := m.selected()
		rows = append(rows, errorStyle.Render(fmt.Sprintf("  Delete %q? y: confirm  any key: cancel", t.Title)))
	case len(m.marked) > 0:
		rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %d marked  d: delete marked  space: cycle marked  esc: clear marks", len(m.marked))))
	default:
		rows = append(rows, mutedStyle.Render("  n: new  enter: details  e: edit  d: delete  space: cycle status  m: mark  K/J: move"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) detailView(t task.Task) string {
	today := clock.Today(m.clock)
	period := t.StartDate + " ~ " + t.EndDate
	start, errStart := task.ParseDate(t.StartDate)
	end, errEnd := task.ParseDate(t.EndDate)
	if errStart == nil && errEnd == nil && !end.Before(start) {
		days := task.DaysBetween(start, end)
		unit := "days"
		if days == 1 {
			unit = "day"
		}
		period += fmt.Sprintf(" (%d %s)", days, unit)
	}
	memo := t.Description
	if strings.TrimSpace(memo) == "" {
		memo = mutedStyle.Render("(no memo)")
	}
	due := renderDueTag(t, today)
	if t.DueTag(today) == "" {
		due = mutedStyle.Render("-")
	}

	label := func(s string) string { return subtitleStyle.Render(fmt.Sprintf("%-8s", s)) }
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(t.Title),
		"",
		label("Period")+" "+period,
		label("Status")+" "+t.Status.Normalize().Icon()+" "+t.Status.Normalize().String(),
		label("Due")+" "+due,
		"",
		label("Memo"),
		memo,
		"",
		mutedStyle.Render("e: edit  esc: back"),
	)
}

func renderDueTag(t task.Task, today time.Time) string {
	tag := t.DueTag(today)
	switch {
	case tag == "" || t.Status == task.Done:
		return mutedStyle.Render(tag)
	case tag == "overdue":
		return errorStyle.Bold(true).Render(tag)
	case t.Urgent(today):
		return warningStyle.Render(tag)
	default:
		return mutedStyle.Render(tag)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
