// Package schedule implements cancellable recurring callbacks on top of
// tea.Tick.
//
// A Bubble Tea tick cannot be withdrawn once issued, so cancellation works by
// tagging: every Start or Stop bumps the loop's tag and a tick carrying an
// old tag is ignored when it arrives. Stopping is therefore idempotent and a
// tick that already fired is harmless.
package schedule

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is delivered when a loop's interval elapses.
type TickMsg struct {
	ID   int
	Tag  int
	Time time.Time
}

// Loop is a recurring callback with a cancellation token. It is a value type
// so it can live inside a Bubble Tea model that is copied on every update.
type Loop struct {
	id       int
	tag      int
	interval time.Duration
	active   bool
}

// New returns a stopped loop firing every interval.
func New(interval time.Duration) Loop {
	return Loop{id: nextID(), interval: interval}
}

func (l Loop) ID() int                 { return l.id }
func (l Loop) Interval() time.Duration { return l.interval }
func (l Loop) Running() bool           { return l.active }

// Start arms the loop, invalidating any tick still pending from an earlier
// arm. Exactly one tick is outstanding afterwards.
func (l *Loop) Start() tea.Cmd {
	l.tag++
	l.active = true
	return l.tick()
}

// Stop cancels the loop. Calling it on a stopped loop does nothing.
func (l *Loop) Stop() {
	if !l.active {
		return
	}
	l.tag++
	l.active = false
}

// Restart cancels the pending tick and arms a fresh one.
func (l *Loop) Restart() tea.Cmd {
	l.Stop()
	return l.Start()
}

// Owns reports whether msg is the live tick of this loop.
func (l Loop) Owns(msg TickMsg) bool {
	return l.active && msg.ID == l.id && msg.Tag == l.tag
}

// Next re-arms the loop after its tick was handled. It returns nil when the
// loop is stopped.
func (l Loop) Next() tea.Cmd {
	if !l.active {
		return nil
	}
	return l.tick()
}

func (l Loop) tick() tea.Cmd {
	id, tag := l.id, l.tag
	return tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Tag: tag, Time: t}
	})
}

// Group stops several loops together on shutdown.
type Group []*Loop

// StopAll stops every loop in the group.
func (g Group) StopAll() {
	for _, l := range g {
		if l != nil {
			l.Stop()
		}
	}
}
