// Package timer provides the countdown primitive that drives emitter launch
// cooldowns and particle lifespans.
package timer

import "time"

// Timer 通用倒计时器
//
// A Timer counts elapsed time up to a duration while it is active. When the
// elapsed time reaches the duration the timer deactivates itself and reports
// finished for the observations made after that tick; the next Tick clears the
// finished edge again.
//
// The zero value is an inactive timer with zero duration.
type Timer struct {
	duration time.Duration
	elapsed  time.Duration
	active   bool
	finished bool
}

// New creates a timer with the given duration, optionally already counting.
func New(duration time.Duration, active bool) *Timer {
	return &Timer{
		duration: duration,
		active:   active,
	}
}

// Tick advances the timer by dt. Inactive timers do not accumulate time.
func (t *Timer) Tick(dt time.Duration) {
	// finished 是单帧边沿信号，下一次 Tick 时清除
	t.finished = false
	if !t.active {
		return
	}

	t.elapsed += dt
	if t.elapsed >= t.duration {
		t.elapsed = t.duration
		t.active = false
		t.finished = true
	}
}

// Reset zeroes the elapsed time, replaces the duration and optionally starts
// counting again.
func (t *Timer) Reset(start bool, duration time.Duration) {
	t.duration = duration
	t.elapsed = 0
	t.active = start
	t.finished = false
}

// Activate starts counting from the current elapsed time.
func (t *Timer) Activate() {
	t.active = true
}

// IsActive reports whether the timer is still counting.
func (t *Timer) IsActive() bool {
	return t.active
}

// IsFinished reports whether the last Tick completed the countdown.
func (t *Timer) IsFinished() bool {
	return t.finished
}

// Duration returns the configured duration.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Elapsed returns the time counted so far.
func (t *Timer) Elapsed() time.Duration {
	return t.elapsed
}

// Remaining returns duration minus elapsed.
func (t *Timer) Remaining() time.Duration {
	return t.duration - t.elapsed
}

// RemainingMillis returns the remaining time truncated to whole milliseconds.
// Particle fading divides this by the total lifespan.
func (t *Timer) RemainingMillis() int {
	return int(t.Remaining().Milliseconds())
}
