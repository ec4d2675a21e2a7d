package render

import (
	"math"
	"time"
)

const (
	// StepsPerSecond is the animation sampling rate the step count assumes.
	StepsPerSecond = 60
	// SnapThreshold is the smallest change, in percentage points, worth
	// animating.
	SnapThreshold = 0.2
	minSteps      = 8
)

// Tween moves a displayed value from From to To in discrete linear steps.
// It holds no clock; Value and Done take the time since the tween began.
type Tween struct {
	From  float64
	To    float64
	Steps int // 0 means the value snapped
}

// NewTween plans an animation from the currently displayed value to target.
func NewTween(from, target float64) Tween {
	delta := math.Abs(target - from)
	if delta < SnapThreshold {
		return Tween{From: target, To: target}
	}
	steps := int(math.Ceil(math.Max(minSteps, delta/2)))
	return Tween{From: from, To: target, Steps: steps}
}

// Duration is how long the animation runs, rounded up to the nanosecond.
func (t Tween) Duration() time.Duration {
	return (time.Duration(t.Steps)*time.Second + StepsPerSecond - 1) / StepsPerSecond
}

func (t Tween) step(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed * StepsPerSecond / time.Second)
}

// Value is the displayed value after elapsed.
func (t Tween) Value(elapsed time.Duration) float64 {
	if t.Steps == 0 {
		return t.To
	}
	n := t.step(elapsed)
	if n >= t.Steps {
		return t.To
	}
	return t.From + (t.To-t.From)*float64(n)/float64(t.Steps)
}

// Done reports whether the final value has been reached.
func (t Tween) Done(elapsed time.Duration) bool {
	return t.Steps == 0 || t.step(elapsed) >= t.Steps
}
