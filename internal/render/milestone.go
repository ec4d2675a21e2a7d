package render

// Milestones are the completion rates that earn a celebration.
var Milestones = []float64{50, 80, 100}

// MilestoneTracker watches successive completion rates for upward
// crossings. The zero value is ready to use.
type MilestoneTracker struct {
	prev   float64
	primed bool
}

// Observe records rate and returns the highest milestone crossed since the
// previous observation. The first observation only primes the tracker.
func (m *MilestoneTracker) Observe(rate float64) (float64, bool) {
	prev, primed := m.prev, m.primed
	m.prev, m.primed = rate, true
	if !primed {
		return 0, false
	}

	crossed, fired := 0.0, false
	for _, t := range Milestones {
		if prev < t && rate >= t {
			crossed, fired = t, true
		}
	}
	return crossed, fired
}
