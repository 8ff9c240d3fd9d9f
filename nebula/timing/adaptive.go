package timing

import (
	"log/slog"
	"time"
)

const (
	spinThreshold = 2 * time.Millisecond
	maxLag        = 5 * time.Millisecond
)

// AdaptiveLimiter sleeps until shortly before each frame deadline, then
// spins for the rest. Drift is corrected once per second of frames.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	startTime       time.Time
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	now := time.Now()
	return &AdaptiveLimiter{
		targetFrameTime: FrameDuration(),
		nextFrameTime:   now,
		startTime:       now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrameTime.Sub(now)

	if sleepTime > 0 {
		if sleepTime >= spinThreshold {
			time.Sleep(sleepTime - time.Millisecond)
		}
		for time.Now().Before(a.nextFrameTime) {
		}
	} else if sleepTime < -maxLag {
		// too far behind: drop the missed deadlines instead of racing
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		actualTime := time.Now()
		drift := actualTime.Sub(a.nextFrameTime)

		if drift.Abs() > 10*time.Millisecond {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("Frame timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"fps", a.FPS())
		}
	}
}

// FPS reports the average frame rate since the last Reset.
func (a *AdaptiveLimiter) FPS() float64 {
	elapsed := time.Since(a.startTime)
	if elapsed <= 0 {
		return 0
	}
	return float64(a.frameCounter) / elapsed.Seconds()
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrameTime = time.Now()
	a.startTime = a.nextFrameTime
	a.frameCounter = 0
}
