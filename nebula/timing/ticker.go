package timing

import "time"

// TickerLimiter paces frames off a time.Ticker. Late frames are not made up:
// the ticker drops ticks a slow consumer misses.
type TickerLimiter struct {
	period time.Duration
	ticker *time.Ticker
}

func NewTickerLimiter() *TickerLimiter {
	period := FrameDuration()
	return &TickerLimiter{period: period, ticker: time.NewTicker(period)}
}

func (t *TickerLimiter) WaitForNextFrame() {
	<-t.ticker.C
}

// Reset restarts the period from now, after a pause for example.
func (t *TickerLimiter) Reset() {
	t.ticker.Reset(t.period)
}

func (t *TickerLimiter) Stop() {
	t.ticker.Stop()
}
