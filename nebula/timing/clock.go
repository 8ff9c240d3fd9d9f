package timing

import (
	"log/slog"
	"time"
)

const (
	// CycleDuration is the fixed wall-clock length of one CPU cycle, in
	// whole nanoseconds (1 / 1.789773 MHz rounds to 559 ns).
	CycleDuration = 559 * time.Nanosecond

	// MaxElapsed caps a single conversion so a long stall (debugger, suspended
	// laptop) doesn't turn into a burst of catch-up emulation.
	MaxElapsed = 250 * time.Millisecond
)

// Clock converts wall-clock time into whole CPU cycle ticks, carrying the
// sub-cycle remainder to the next call.
type Clock struct {
	remainder time.Duration
	ticks     uint64
}

// Ticks returns how many CPU cycles fit in elapsed plus the carried remainder.
func (c *Clock) Ticks(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > MaxElapsed {
		slog.Debug("Clamping elapsed time", "elapsed", elapsed, "max", MaxElapsed)
		elapsed = MaxElapsed
	}

	total := elapsed + c.remainder
	n := total / CycleDuration
	c.remainder = total % CycleDuration
	c.ticks += uint64(n)
	return int(n)
}

// Remainder returns the carried sub-cycle time.
func (c *Clock) Remainder() time.Duration {
	return c.remainder
}

// Total returns the number of ticks handed out since the last Reset.
func (c *Clock) Total() uint64 {
	return c.ticks
}

func (c *Clock) Reset() {
	c.remainder = 0
	c.ticks = 0
}
