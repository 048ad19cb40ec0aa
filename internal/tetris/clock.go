package tetris

// TickClock turns fixed simulation ticks into a monotonic reading in seconds.
// Driving gravity from ticks rather than wall time keeps runs reproducible.
type TickClock struct {
	tickRate int
	ticks    uint64
}

// NewTickClock creates a clock advancing 1/tickRate seconds per tick.
// Non-positive rates fall back to 60.
func NewTickClock(tickRate int) *TickClock {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &TickClock{tickRate: tickRate}
}

// Advance moves the clock forward one tick and returns the new reading.
func (c *TickClock) Advance() float64 {
	c.ticks++
	return c.Now()
}

// Now returns the current reading without advancing.
func (c *TickClock) Now() float64 {
	return float64(c.ticks) / float64(c.tickRate)
}

// Ticks returns the number of ticks elapsed.
func (c *TickClock) Ticks() uint64 {
	return c.ticks
}
