package report

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/focusboard/internal/clock"
	"github.com/sadopc/focusboard/internal/logger"
	"github.com/sadopc/focusboard/internal/schedule"
	"github.com/sadopc/focusboard/internal/task"
	"go.uber.org/zap"
)

// Provider supplies the current ordered task list.
type Provider interface {
	Snapshot() ([]task.Task, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() ([]task.Task, error)

func (f ProviderFunc) Snapshot() ([]task.Task, error) { return f() }

// RefreshedMsg carries the result of one aggregation cycle.
type RefreshedMsg struct {
	ID       int
	Seq      int
	Snapshot Snapshot
	Err      error
	At       time.Time
}

// Scheduler re-aggregates on a fixed cadence and on demand. It is driven by
// the Bubble Tea update loop and keeps at most one refresh tick pending.
type Scheduler struct {
	provider Provider
	clock    clock.Clock
	log      *logger.Logger
	loop     schedule.Loop

	seq     int // last issued refresh
	applied int // last refresh folded into current

	current Snapshot
	ready   bool
	lastAt  time.Time
	lastErr error
}

// NewScheduler returns a stopped scheduler refreshing every interval.
func NewScheduler(p Provider, c clock.Clock, interval time.Duration, log *logger.Logger) Scheduler {
	if log == nil {
		log = logger.Default()
	}
	return Scheduler{
		provider: p,
		clock:    c,
		log:      log,
		loop:     schedule.New(interval),
	}
}

// Start runs a refresh now and arms the periodic loop.
func (s *Scheduler) Start() tea.Cmd {
	return tea.Batch(s.Refresh(), s.loop.Start())
}

// Trigger is called after the task list changed. It refreshes immediately
// and pushes the next periodic refresh a full interval out, cancelling the
// one that was pending.
func (s *Scheduler) Trigger() tea.Cmd {
	if !s.loop.Running() {
		return s.Refresh()
	}
	return tea.Batch(s.Refresh(), s.loop.Restart())
}

// Stop cancels the periodic refresh. Results still in flight are dropped.
func (s *Scheduler) Stop() {
	s.loop.Stop()
	s.applied = s.seq
}

func (s Scheduler) Running() bool { return s.loop.Running() }

// Refresh returns a command that reads the provider and aggregates. The
// provider's slice is copied first so later mutation cannot leak into the
// computation.
func (s *Scheduler) Refresh() tea.Cmd {
	s.seq++
	id, seq := s.loop.ID(), s.seq
	p, c := s.provider, s.clock
	return func() tea.Msg {
		return collect(p, c, id, seq)
	}
}

func collect(p Provider, c clock.Clock, id, seq int) (msg RefreshedMsg) {
	msg = RefreshedMsg{ID: id, Seq: seq, At: c.Now()}
	defer func() {
		if r := recover(); r != nil {
			msg.Err = fmt.Errorf("snapshot provider panicked: %v", r)
		}
	}()
	tasks, err := p.Snapshot()
	if err != nil {
		msg.Err = fmt.Errorf("read tasks: %w", err)
		return msg
	}
	msg.Snapshot = Aggregate(task.Clone(tasks), clock.Today(c))
	return msg
}

// Update handles loop ticks and refresh results. It reports whether the
// current snapshot changed.
func (s *Scheduler) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case schedule.TickMsg:
		if !s.loop.Owns(msg) {
			return false, nil
		}
		return false, tea.Batch(s.Refresh(), s.loop.Next())

	case RefreshedMsg:
		if msg.ID != s.loop.ID() || msg.Seq <= s.applied {
			return false, nil
		}
		s.applied = msg.Seq
		if msg.Err != nil {
			s.lastErr = msg.Err
			s.log.Error("report refresh failed, keeping previous snapshot", zap.Error(msg.Err), zap.Int("seq", msg.Seq))
			return false, nil
		}
		s.current = msg.Snapshot
		s.ready = true
		s.lastAt = msg.At
		s.lastErr = nil
		s.log.Debug("report refreshed",
			zap.Int("seq", msg.Seq),
			zap.Int("tasks", msg.Snapshot.Total),
			zap.Float64("completion_rate", msg.Snapshot.CompletionRate),
		)
		return true, nil
	}
	return false, nil
}

// Current returns the latest snapshot and whether one has been produced.
func (s Scheduler) Current() (Snapshot, bool) { return s.current, s.ready }

// LastRefresh is when the current snapshot was computed.
func (s Scheduler) LastRefresh() time.Time { return s.lastAt }

// Err is the error of the most recent refresh, nil if it succeeded.
func (s Scheduler) Err() error { return s.lastErr }
