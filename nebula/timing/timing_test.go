package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockCarriesRemainder(t *testing.T) {
	var c Clock

	assert.Equal(t, 0, c.Ticks(500*time.Nanosecond))
	assert.Equal(t, 500*time.Nanosecond, c.Remainder())

	assert.Equal(t, 1, c.Ticks(100*time.Nanosecond))
	assert.Equal(t, 41*time.Nanosecond, c.Remainder())

	assert.Equal(t, 2, c.Ticks(1100*time.Nanosecond))
	assert.Equal(t, 23*time.Nanosecond, c.Remainder())
	assert.Equal(t, uint64(3), c.Total())
}

func TestClockNoDriftOverManyCalls(t *testing.T) {
	var c Clock
	total := 0
	for range 1000 {
		total += c.Ticks(time.Microsecond)
	}
	// 1 ms / 559 ns = 1788.9
	assert.Equal(t, 1788, total)
}

func TestClockCapsElapsed(t *testing.T) {
	var c Clock

	ticks := c.Ticks(10 * time.Second)
	assert.Equal(t, int(MaxElapsed/CycleDuration), ticks)

	c.Reset()
	assert.Equal(t, 0, c.Ticks(-time.Second))
	assert.Equal(t, time.Duration(0), c.Remainder())
}

func TestTargetFPS(t *testing.T) {
	assert.InDelta(t, 60.0988, TargetFPS(), 0.0001)
	assert.InDelta(t, 16639, FrameDuration().Microseconds(), 1)
}

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		kind    LimiterKind
		wantErr bool
	}{
		{LimiterNone, false},
		{LimiterTicker, false},
		{LimiterAdaptive, false},
		{"", false},
		{"vsync", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			l, err := NewLimiter(tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
			if tl, ok := l.(*TickerLimiter); ok {
				tl.Stop()
			}
		})
	}
}

func TestAdaptiveLimiterPacesFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	l := NewAdaptiveLimiter()
	start := time.Now()
	for range 6 {
		l.WaitForNextFrame()
	}
	// first frame is due immediately
	assert.GreaterOrEqual(t, time.Since(start), 5*FrameDuration())
}
