// Package countdown implements the presentation countdown timer.
//
// Remaining time is always derived from a deadline on the monotonic clock,
// never decremented per tick, so a late or skipped tick cannot make the
// display drift and a pause never eats into the countdown.
package countdown

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/focusboard/internal/clock"
	"github.com/sadopc/focusboard/internal/logger"
	"go.uber.org/zap"
)

// Phase is the timer lifecycle state.
type Phase int

const (
	Idle Phase = iota
	Running
	Paused
	Expired
)

var phaseNames = map[Phase]string{
	Idle:    "IDLE",
	Running: "RUNNING",
	Paused:  "PAUSED",
	Expired: "TIME UP",
}

func (p Phase) String() string { return phaseNames[p] }

// Tier is the color band of the display.
type Tier int

const (
	TierNeutral Tier = iota
	TierNormal
	TierWarning
	TierExpired
)

// ErrInvalidInput marks a rejected start request. The timer state is left
// untouched whenever it is returned.
var ErrInvalidInput = errors.New("invalid timer input")

// maxSeconds is the longest total a time.Duration deadline can hold.
const maxSeconds = math.MaxInt64 / int64(time.Second)

// State is the timer's owned state.
type State struct {
	TotalSeconds         int
	WarnThresholdSeconds int
	RemainingSeconds     int
	Deadline             time.Time
	Phase                Phase
	BlinkOn              bool
}

// TickResult is what one refresh produced.
type TickResult struct {
	Remaining int
	Tier      Tier
	Expired   bool // true only on the tick that reached zero
}

// Engine owns a single countdown.
type Engine struct {
	clock clock.Clock
	alert Alerter
	log   *logger.Logger
	state State
}

// Option configures an Engine.
type Option func(*Engine)

// WithAlerter sets the expiry alert. The default is silent.
func WithAlerter(a Alerter) Option {
	return func(e *Engine) { e.alert = a }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New returns an idle engine reading time from c.
func New(c clock.Clock, opts ...Option) *Engine {
	e := &Engine{
		clock: c,
		alert: NopAlerter{},
		log:   logger.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseStart validates free-text input and starts the timer.
func (e *Engine) ParseStart(minutesText, warnText string) error {
	minutes, err := strconv.ParseFloat(strings.TrimSpace(minutesText), 64)
	if err != nil {
		return fmt.Errorf("%w: minutes must be a number, got %q", ErrInvalidInput, minutesText)
	}
	warn, err := strconv.Atoi(strings.TrimSpace(warnText))
	if err != nil {
		return fmt.Errorf("%w: warning threshold must be a whole number of seconds, got %q", ErrInvalidInput, warnText)
	}
	return e.Start(minutes, warn)
}

// Start begins a countdown of minutes, restarting any current one.
func (e *Engine) Start(minutes float64, warnThresholdSeconds int) error {
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 {
		return fmt.Errorf("%w: minutes must be greater than 0", ErrInvalidInput)
	}
	if warnThresholdSeconds < 1 {
		return fmt.Errorf("%w: warning threshold must be at least 1 second", ErrInvalidInput)
	}
	total := math.Round(minutes * 60)
	if total < 1 {
		return fmt.Errorf("%w: %.4g minutes rounds to zero seconds", ErrInvalidInput, minutes)
	}
	if total > float64(maxSeconds) {
		return fmt.Errorf("%w: %.4g minutes overflows the timer", ErrInvalidInput, minutes)
	}

	totalSeconds := int(total)
	e.state = State{
		TotalSeconds:         totalSeconds,
		WarnThresholdSeconds: ClampThreshold(warnThresholdSeconds, totalSeconds),
		RemainingSeconds:     totalSeconds,
		Deadline:             e.clock.Now().Add(time.Duration(totalSeconds) * time.Second),
		Phase:                Running,
	}
	e.log.Info("timer started",
		zap.Int("total_seconds", totalSeconds),
		zap.Int("warn_seconds", e.state.WarnThresholdSeconds),
	)
	return nil
}

// ClampThreshold keeps the warning threshold below the total:
// min(requested, max(1, total-1)). With a one-second total the threshold
// equals the total and the warning tier shows from the first tick.
func ClampThreshold(requested, total int) int {
	return min(requested, max(1, total-1))
}

// Pause freezes the countdown. It only acts while running.
func (e *Engine) Pause() bool {
	if e.state.Phase != Running {
		return false
	}
	e.state.RemainingSeconds = min(e.state.RemainingSeconds, e.remainingAt(e.clock.Now()))
	e.state.Phase = Paused
	e.log.Info("timer paused", zap.Int("remaining_seconds", e.state.RemainingSeconds))
	return true
}

// Resume continues a paused countdown from exactly where it stopped.
func (e *Engine) Resume() bool {
	if e.state.Phase != Paused || e.state.RemainingSeconds <= 0 {
		return false
	}
	e.state.Deadline = e.clock.Now().Add(time.Duration(e.state.RemainingSeconds) * time.Second)
	e.state.Phase = Running
	e.log.Info("timer resumed", zap.Int("remaining_seconds", e.state.RemainingSeconds))
	return true
}

// Toggle pauses a running timer or resumes a paused one.
func (e *Engine) Toggle() bool {
	switch e.state.Phase {
	case Running:
		return e.Pause()
	case Paused:
		return e.Resume()
	}
	return false
}

// Reset returns to Idle from any phase and stops blinking.
func (e *Engine) Reset() {
	if e.state.Phase != Idle {
		e.log.Info("timer reset", zap.Stringer("phase", e.state.Phase))
	}
	e.state = State{}
}

// Tick recomputes the remaining time. It does nothing unless running.
func (e *Engine) Tick() TickResult {
	if e.state.Phase != Running {
		return TickResult{Remaining: e.state.RemainingSeconds, Tier: e.Tier()}
	}

	// Clamp to the previous value so the display never counts up.
	remaining := min(e.state.RemainingSeconds, e.remainingAt(e.clock.Now()))
	e.state.RemainingSeconds = remaining
	if remaining == 0 {
		e.expire()
		return TickResult{Remaining: 0, Tier: TierExpired, Expired: true}
	}
	return TickResult{Remaining: remaining, Tier: e.Tier()}
}

func (e *Engine) expire() {
	e.state.Phase = Expired
	e.state.BlinkOn = true
	e.log.Info("timer expired", zap.Int("total_seconds", e.state.TotalSeconds))
	if err := e.alert.Alert(); err != nil {
		e.log.Warn("expiry alert failed", zap.Error(err))
	}
}

// ToggleBlink flips the expiry blink. It returns the new blink state and is
// a no-op outside Expired.
func (e *Engine) ToggleBlink() bool {
	if e.state.Phase != Expired {
		return false
	}
	e.state.BlinkOn = !e.state.BlinkOn
	return e.state.BlinkOn
}

func (e *Engine) remainingAt(now time.Time) int {
	secs := math.Ceil(e.state.Deadline.Sub(now).Seconds())
	if secs < 0 {
		return 0
	}
	return int(secs)
}

// Tier is the display color band for the current state.
func (e *Engine) Tier() Tier {
	switch e.state.Phase {
	case Running, Paused:
		r := e.state.RemainingSeconds
		if r > 0 && r <= e.state.WarnThresholdSeconds {
			return TierWarning
		}
		return TierNormal
	case Expired:
		if e.state.BlinkOn {
			return TierExpired
		}
	}
	return TierNeutral
}

func (e *Engine) State() State       { return e.state }
func (e *Engine) Phase() Phase       { return e.state.Phase }
func (e *Engine) Remaining() int     { return e.state.RemainingSeconds }
func (e *Engine) Total() int         { return e.state.TotalSeconds }
func (e *Engine) WarnThreshold() int { return e.state.WarnThresholdSeconds }
func (e *Engine) BlinkOn() bool      { return e.state.BlinkOn }
func (e *Engine) Running() bool      { return e.state.Phase == Running }
func (e *Engine) Display() string    { return Format(e.state.RemainingSeconds) }

// Progress is the elapsed fraction of the countdown in [0,1].
func (e *Engine) Progress() float64 {
	if e.state.TotalSeconds == 0 {
		return 0
	}
	done := float64(e.state.TotalSeconds-e.state.RemainingSeconds) / float64(e.state.TotalSeconds)
	return math.Max(0, math.Min(1, done))
}

// Format renders seconds as MM:SS. Negative input shows as 00:00.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
