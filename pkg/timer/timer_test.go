package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer_InactiveDoesNotAdvance(t *testing.T) {
	tm := New(time.Second, false)

	tm.Tick(500 * time.Millisecond)

	assert.False(t, tm.IsActive())
	assert.False(t, tm.IsFinished())
	assert.Equal(t, time.Duration(0), tm.Elapsed())
}

func TestTimer_ResetThenFinishOnce(t *testing.T) {
	tm := New(1000*time.Millisecond, false)
	tm.Reset(true, 500*time.Millisecond)

	tm.Tick(500 * time.Millisecond)
	assert.True(t, tm.IsFinished(), "timer should finish on the tick reaching its duration")
	assert.True(t, tm.IsFinished(), "finished stays observable until the next tick")
	assert.False(t, tm.IsActive())

	tm.Tick(500 * time.Millisecond)
	assert.False(t, tm.IsFinished(), "finished is a one-shot edge")
	assert.False(t, tm.IsActive())
	assert.Equal(t, 500*time.Millisecond, tm.Elapsed())
}

func TestTimer_ElapsedNeverExceedsDuration(t *testing.T) {
	tm := New(100*time.Millisecond, true)

	tm.Tick(250 * time.Millisecond)

	assert.Equal(t, tm.Duration(), tm.Elapsed())
	assert.Equal(t, 0, tm.RemainingMillis())
}

func TestTimer_RemainingMillis(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		ticks    []time.Duration
		want     int
	}{
		{"untouched", 1500 * time.Millisecond, nil, 1500},
		{"partial", 1500 * time.Millisecond, []time.Duration{400 * time.Millisecond}, 1100},
		{"truncates sub-millisecond", time.Second, []time.Duration{1500 * time.Microsecond}, 998},
		{"two ticks", time.Second, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := New(tt.duration, true)
			for _, dt := range tt.ticks {
				tm.Tick(dt)
			}
			assert.Equal(t, tt.want, tm.RemainingMillis())
		})
	}
}

func TestTimer_ZeroDurationFinishesOnFirstTick(t *testing.T) {
	tm := New(0, true)

	tm.Tick(0)

	assert.True(t, tm.IsFinished())
	assert.False(t, tm.IsActive())
}

func TestTimer_ActivateResumes(t *testing.T) {
	tm := New(time.Second, false)
	tm.Activate()

	tm.Tick(300 * time.Millisecond)

	assert.True(t, tm.IsActive())
	assert.Equal(t, 700*time.Millisecond, tm.Remaining())
}
