package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// StartTimerRun records that a countdown began.
func (s *Store) StartTimerRun(totalSeconds, warnSeconds int) (*TimerRun, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO timer_runs (total_seconds, warn_seconds, outcome, started_at) VALUES (?, ?, ?, ?)`,
		totalSeconds, warnSeconds, RunRunning, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start timer run: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTimerRun(id)
}

const runColumns = `id, total_seconds, warn_seconds, outcome, started_at, finished_at`

func scanRun(row scanner) (TimerRun, error) {
	var r TimerRun
	var startedAt string
	var finishedAt sql.NullString
	if err := row.Scan(&r.ID, &r.TotalSeconds, &r.WarnSeconds, &r.Outcome, &startedAt, &finishedAt); err != nil {
		return TimerRun{}, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if finishedAt.Valid {
		t, _ := time.Parse(time.RFC3339, finishedAt.String)
		r.FinishedAt = &t
	}
	return r, nil
}

func (s *Store) GetTimerRun(id int64) (*TimerRun, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM timer_runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get timer run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get timer run %d: %w", id, err)
	}
	return &r, nil
}

// FinishTimerRun closes a running record. A run that already finished keeps
// its first outcome.
func (s *Store) FinishTimerRun(id int64, outcome string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE timer_runs SET outcome = ?, finished_at = ? WHERE id = ? AND outcome = ?`,
		outcome, now, id, RunRunning,
	)
	if err != nil {
		return fmt.Errorf("finish timer run %d: %w", id, err)
	}
	return nil
}

// ListTimerRuns returns the most recent runs first.
func (s *Store) ListTimerRuns(limit int) ([]TimerRun, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM timer_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list timer runs: %w", err)
	}
	defer rows.Close()

	var runs []TimerRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// CountExpiredRuns counts countdowns that ran to zero in [from, to).
func (s *Store) CountExpiredRuns(from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM timer_runs
		WHERE outcome = ? AND started_at >= ? AND started_at < ?`,
		RunExpired, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count expired runs: %w", err)
	}
	return n, nil
}
