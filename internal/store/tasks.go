package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/focusboard/internal/task"
)

const taskColumns = `id, title, start_date, end_date, memo, status, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var t task.Task
	var status int
	var createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.Title, &t.StartDate, &t.EndDate, &t.Description, &status, &createdAt, &updatedAt); err != nil {
		return task.Task{}, err
	}
	t.Status = task.Status(status).Normalize()
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

// CreateTask validates t, assigns it a new id and appends it to the list.
func (s *Store) CreateTask(t task.Task) (*task.Task, error) {
	t = trimTask(t)
	if err := t.Validate(); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, title, start_date, end_date, memo, status, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM tasks), ?, ?)`,
		id, t.Title, t.StartDate, t.EndDate, t.Description, int(t.Status.Normalize()), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(id)
}

func (s *Store) GetTask(id string) (*task.Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return &t, nil
}

// ListTasks returns every task in list order.
func (s *Store) ListTasks() ([]task.Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks ORDER BY position, created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Snapshot returns a freshly read task list for the report scheduler.
func (s *Store) Snapshot() ([]task.Task, error) {
	return s.ListTasks()
}

// UpdateTask saves the editable fields of t.
func (s *Store) UpdateTask(t task.Task) error {
	t = trimTask(t)
	if err := t.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, start_date = ?, end_date = ?, memo = ?, status = ?, updated_at = ? WHERE id = ?`,
		t.Title, t.StartDate, t.EndDate, t.Description, int(t.Status.Normalize()), now, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", t.ID, err)
	}
	return expectOne(res, "update task", t.ID)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return expectOne(res, "delete task", id)
}

// CycleTaskStatus advances Pending -> InProgress -> Done -> Pending and
// returns the new status.
func (s *Store) CycleTaskStatus(id string) (task.Status, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return task.Pending, err
	}
	next := t.Status.Cycle()
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, int(next), now, id); err != nil {
		return t.Status, fmt.Errorf("cycle task %s: %w", id, err)
	}
	return next, nil
}

// MoveTask swaps a task with its neighbour. delta is -1 (up) or +1 (down).
// Moving past either end does nothing.
func (s *Store) MoveTask(id string, delta int) error {
	tasks, err := s.ListTasks()
	if err != nil {
		return err
	}
	from := -1
	for i, t := range tasks {
		if t.ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("move task %s: %w", id, ErrNotFound)
	}
	to := from + delta
	if to < 0 || to >= len(tasks) || delta == 0 {
		return nil
	}
	tasks[from], tasks[to] = tasks[to], tasks[from]

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin move: %w", err)
	}
	for i, t := range tasks {
		if _, err := tx.Exec(`UPDATE tasks SET position = ? WHERE id = ?`, i+1, t.ID); err != nil {
			tx.Rollback()
			return fmt.Errorf("reorder tasks: %w", err)
		}
	}
	return tx.Commit()
}

func trimTask(t task.Task) task.Task {
	t.Title = strings.TrimSpace(t.Title)
	t.StartDate = strings.TrimSpace(t.StartDate)
	t.EndDate = strings.TrimSpace(t.EndDate)
	t.Description = strings.TrimSpace(t.Description)
	return t
}

func expectOne(res sql.Result, op, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	return nil
}
