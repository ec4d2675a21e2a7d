package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewManual(start)

	c.Advance(1500 * time.Millisecond)
	assert.Equal(t, start.Add(1500*time.Millisecond), c.Now())

	c.Advance(-time.Hour)
	assert.Equal(t, start.Add(1500*time.Millisecond), c.Now(), "negative advance must be ignored")
}

func TestManualSetNeverGoesBack(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewManual(start)

	c.Set(start.Add(-time.Minute))
	assert.Equal(t, start, c.Now())

	c.Set(start.Add(time.Minute))
	assert.Equal(t, start.Add(time.Minute), c.Now())
}

func TestToday(t *testing.T) {
	c := NewManual(time.Date(2025, 3, 14, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), Today(c))
}

func TestRealIsMonotonic(t *testing.T) {
	var c Real
	a := c.Now()
	b := c.Now()
	assert.False(t, b.Sub(a) < 0)
}
