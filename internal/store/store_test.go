package store

import (
	"errors"
	"testing"
	"time"

	"github.com/sadopc/focusboard/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreate(t *testing.T, s *Store, title, start, end string) *task.Task {
	t.Helper()
	created, err := s.CreateTask(task.Task{Title: title, StartDate: start, EndDate: end})
	if err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return created
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/focusboard.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	mustCreate(t, s, "Persist me", "2025-01-01", "2025-01-02")
	s.Close()

	// Reopen: data survives and migration is not re-run.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	tasks, err := s2.ListTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Persist me" {
		t.Fatalf("expected persisted task, got %+v", tasks)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestPragmasConfigured(t *testing.T) {
	s := newTestStore(t)

	var fk int
	s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if fk != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fk)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Tasks
// ============================================================

func TestCreateAndGetTask(t *testing.T) {
	s := newTestStore(t)

	created, err := s.CreateTask(task.Task{
		Title:       "  Write slides ",
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-03",
		Description: "ten minutes max",
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("expected an id")
	}
	if created.Title != "Write slides" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if created.Status != task.Pending {
		t.Fatalf("expected Pending, got %v", created.Status)
	}
	if created.CreatedAt.IsZero() {
		t.Fatal("expected created_at")
	}

	got, err := s.GetTask(created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "ten minutes max" || got.EndDate != "2025-01-03" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateTask(task.Task{Title: "  ", StartDate: "2025-01-01", EndDate: "2025-01-01"})
	if !errors.Is(err, task.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	_, err = s.CreateTask(task.Task{Title: "x", StartDate: "2025-01-05", EndDate: "2025-01-01"})
	if !errors.Is(err, task.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
	_, err = s.CreateTask(task.Task{Title: "x", StartDate: "tomorrow", EndDate: "2025-01-01"})
	if err == nil {
		t.Fatal("expected date parse error")
	}

	tasks, _ := s.ListTasks()
	if len(tasks) != 0 {
		t.Fatalf("invalid tasks must not be stored, got %d", len(tasks))
	}
}

func TestGetTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetTask("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListTasksOrder(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "first", "2025-01-01", "2025-01-01")
	mustCreate(t, s, "second", "2025-01-01", "2025-01-01")
	mustCreate(t, s, "third", "2025-01-01", "2025-01-01")

	tasks, err := s.ListTasks()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if tasks[i].Title != w {
			t.Fatalf("position %d: expected %q, got %q", i, w, tasks[i].Title)
		}
	}
}

func TestListTasksEmpty(t *testing.T) {
	s := newTestStore(t)
	tasks, err := s.ListTasks()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected 0 tasks, got %d", len(tasks))
	}
}

func TestUpdateTask(t *testing.T) {
	s := newTestStore(t)
	created := mustCreate(t, s, "Draft", "2025-01-01", "2025-01-02")

	created.Title = "Final"
	created.EndDate = "2025-01-09"
	created.Status = task.Done
	if err := s.UpdateTask(*created); err != nil {
		t.Fatal(err)
	}

	got, _ := s.GetTask(created.ID)
	if got.Title != "Final" || got.EndDate != "2025-01-09" || got.Status != task.Done {
		t.Fatalf("update not applied: %+v", got)
	}
}

func TestUpdateTaskRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	created := mustCreate(t, s, "Draft", "2025-01-01", "2025-01-02")

	created.EndDate = "2024-12-01"
	if err := s.UpdateTask(*created); !errors.Is(err, task.ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
	got, _ := s.GetTask(created.ID)
	if got.EndDate != "2025-01-02" {
		t.Fatalf("rejected update must not be stored, got %q", got.EndDate)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.UpdateTask(task.Task{ID: "nope", Title: "x", StartDate: "2025-01-01", EndDate: "2025-01-01"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	s := newTestStore(t)
	created := mustCreate(t, s, "Gone", "2025-01-01", "2025-01-01")

	if err := s.DeleteTask(created.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTask(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteTask(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCycleTaskStatus(t *testing.T) {
	s := newTestStore(t)
	created := mustCreate(t, s, "Cycle", "2025-01-01", "2025-01-01")

	want := []task.Status{task.InProgress, task.Done, task.Pending}
	for _, w := range want {
		got, err := s.CycleTaskStatus(created.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Fatalf("expected %v, got %v", w, got)
		}
	}
}

func TestStatusCheckConstraint(t *testing.T) {
	s := newTestStore(t)
	_, err := s.db.Exec(`INSERT INTO tasks (id, title, status) VALUES ('bad', 'x', 7)`)
	if err == nil {
		t.Fatal("expected CHECK constraint failure")
	}
}

func TestMalformedStoredDatesStillList(t *testing.T) {
	s := newTestStore(t)
	_, err := s.db.Exec(`INSERT INTO tasks (id, title, start_date, end_date) VALUES ('legacy', 'old row', '2025/01/01', '')`)
	if err != nil {
		t.Fatal(err)
	}
	tasks, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 || tasks[0].StartDate != "2025/01/01" {
		t.Fatalf("expected raw legacy row, got %+v", tasks)
	}
}

func TestMoveTask(t *testing.T) {
	s := newTestStore(t)
	a := mustCreate(t, s, "a", "2025-01-01", "2025-01-01")
	mustCreate(t, s, "b", "2025-01-01", "2025-01-01")
	c := mustCreate(t, s, "c", "2025-01-01", "2025-01-01")

	if err := s.MoveTask(c.ID, -1); err != nil {
		t.Fatal(err)
	}
	if err := s.MoveTask(a.ID, -1); err != nil { // already first
		t.Fatal(err)
	}
	tasks, _ := s.ListTasks()
	got := tasks[0].Title + tasks[1].Title + tasks[2].Title
	if got != "acb" {
		t.Fatalf("expected order acb, got %s", got)
	}

	if err := s.MoveTask("missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := newTestStore(t)
	mustCreate(t, s, "a", "2025-01-01", "2025-01-01")

	first, _ := s.Snapshot()
	first[0].Title = "mutated"
	second, _ := s.Snapshot()
	if second[0].Title != "a" {
		t.Fatalf("snapshots must not share memory, got %q", second[0].Title)
	}
}

// ============================================================
// Timer runs
// ============================================================

func TestTimerRunLifecycle(t *testing.T) {
	s := newTestStore(t)

	run, err := s.StartTimerRun(300, 30)
	if err != nil {
		t.Fatal(err)
	}
	if run.Outcome != RunRunning || run.FinishedAt != nil {
		t.Fatalf("unexpected new run: %+v", run)
	}

	if err := s.FinishTimerRun(run.ID, RunExpired); err != nil {
		t.Fatal(err)
	}
	// A second finish does not overwrite the first outcome.
	if err := s.FinishTimerRun(run.ID, RunReset); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTimerRun(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != RunExpired {
		t.Fatalf("expected expired, got %s", got.Outcome)
	}
	if got.FinishedAt == nil {
		t.Fatal("expected finished_at")
	}
}

func TestListTimerRuns(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 4; i++ {
		s.StartTimerRun(60*(i+1), 10)
	}
	runs, err := s.ListTimerRuns(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].TotalSeconds != 240 {
		t.Fatalf("expected newest first, got %d", runs[0].TotalSeconds)
	}
}

func TestCountExpiredRuns(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.StartTimerRun(60, 10)
	b, _ := s.StartTimerRun(60, 10)
	s.StartTimerRun(60, 10)
	s.FinishTimerRun(a.ID, RunExpired)
	s.FinishTimerRun(b.ID, RunReset)

	now := time.Now()
	n, err := s.CountExpiredRuns(now.Add(-time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 expired run, got %d", n)
	}
}

func TestGetTimerRunNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetTimerRun(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		SettingTimerMinutes: "5",
		SettingTimerWarn:    "30",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

func TestTimerDefaults(t *testing.T) {
	s := newTestStore(t)

	d, err := s.TimerDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if d.Minutes != 5 || d.WarnSeconds != 30 {
		t.Fatalf("unexpected defaults: %+v", d)
	}

	if err := s.SetTimerDefaults(TimerDefaults{Minutes: 7.5, WarnSeconds: 45}); err != nil {
		t.Fatal(err)
	}
	d, _ = s.TimerDefaults()
	if d.Minutes != 7.5 || d.WarnSeconds != 45 {
		t.Fatalf("unexpected saved defaults: %+v", d)
	}

	if err := s.SetTimerDefaults(TimerDefaults{Minutes: 0, WarnSeconds: 45}); err == nil {
		t.Fatal("expected range error")
	}
}

func TestTimerDefaultsFallBackOnGarbage(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting(SettingTimerMinutes, "lots")
	s.SetSetting(SettingTimerWarn, "-3")

	d, err := s.TimerDefaults()
	if err != nil {
		t.Fatal(err)
	}
	if d.Minutes != 5 || d.WarnSeconds != 30 {
		t.Fatalf("expected fallback defaults, got %+v", d)
	}
}

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	if err := s.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
}
