package session

import "time"

// Progress defaults
const (
	DefaultProgressStep     = 10
	DefaultProgressInterval = 200 * time.Millisecond
)

// SimulatedProgress returns the cosmetic upload percentage after elapsed
// time. It advances by step every interval and stops at 100.
func SimulatedProgress(elapsed time.Duration, step int, interval time.Duration) int {
	if elapsed <= 0 || step <= 0 || interval <= 0 {
		return 0
	}

	ticks := elapsed / interval
	if ticks >= time.Duration(100/step+1) {
		return 100
	}
	return min(100, step*int(ticks))
}

// ProgressDone returns how long after selection the bar reaches 100
func ProgressDone(step int, interval time.Duration) time.Duration {
	if step <= 0 || interval <= 0 {
		return 0
	}
	ticks := (100 + step - 1) / step
	return time.Duration(ticks) * interval
}
