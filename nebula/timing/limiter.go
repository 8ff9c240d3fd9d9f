package timing

import (
	"fmt"
	"time"
)

// Limiter controls frame rate timing for emulation.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// LimiterKind selects a Limiter implementation from configuration.
type LimiterKind string

const (
	LimiterNone     LimiterKind = "none"
	LimiterTicker   LimiterKind = "ticker"
	LimiterAdaptive LimiterKind = "adaptive"
)

// NewLimiter builds the limiter named by kind.
func NewLimiter(kind LimiterKind) (Limiter, error) {
	switch kind {
	case LimiterNone:
		return NewNoOpLimiter(), nil
	case LimiterTicker:
		return NewTickerLimiter(), nil
	case LimiterAdaptive, "":
		return NewAdaptiveLimiter(), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q (want none, ticker or adaptive)", kind)
	}
}

// NTSC console timing
const (
	CPUFrequency = 1789773
	// DotsPerFrame averages the odd-frame dot skip: 341*262 - 0.5.
	DotsPerFrame = 89341.5
)

// TargetFPS calculates the exact NTSC frame rate (~60.0988 Hz).
func TargetFPS() float64 {
	return float64(CPUFrequency) * 3 / DotsPerFrame
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}
