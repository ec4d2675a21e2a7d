package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// Setting keys.
const (
	SettingTimerMinutes = "timer_minutes"
	SettingTimerWarn    = "timer_warn"
)

type Setting struct {
	Key   string
	Value string
}

// TimerDefaults prefill the countdown setup form.
type TimerDefaults struct {
	Minutes     float64
	WarnSeconds int
}

// Run outcomes.
const (
	RunRunning  = "running"
	RunExpired  = "expired"
	RunReset    = "reset"
	RunReplaced = "replaced"
)

// TimerRun is one countdown from start until it expired or was abandoned.
type TimerRun struct {
	ID           int64
	TotalSeconds int
	WarnSeconds  int
	Outcome      string
	StartedAt    time.Time
	FinishedAt   *time.Time
}
