package tetris

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTickClock(t *testing.T) {
	c := NewTickClock(60)
	assert.Equal(t, 0.0, c.Now())

	for range 30 {
		c.Advance()
	}
	assert.InDelta(t, 0.5, c.Now(), 1e-9)
	assert.Equal(t, uint64(30), c.Ticks())

	assert.InDelta(t, 31.0/60.0, c.Advance(), 1e-9)
}

func TestTickClockDefaultRate(t *testing.T) {
	c := NewTickClock(0)
	for range 60 {
		c.Advance()
	}
	assert.InDelta(t, 1.0, c.Now(), 1e-9)
}
