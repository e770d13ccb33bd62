package debounce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleCoalescesIntoSingleRun(t *testing.T) {
	clock := NewManualClock()
	calls := 0
	task := New(func() { calls++ }, Options{Delay: 100 * time.Millisecond, Clock: clock})

	task.Schedule()
	clock.Advance(60 * time.Millisecond)
	task.Schedule()
	clock.Advance(60 * time.Millisecond)
	assert.Equal(t, 0, calls, "second schedule should push the deadline back")
	assert.True(t, task.Pending())

	clock.Advance(40 * time.Millisecond)
	assert.Equal(t, 1, calls)
	assert.False(t, task.Pending())
	assert.Equal(t, 0, clock.Waiting())
}

func TestFlushRunsImmediatelyAndCancelsTimer(t *testing.T) {
	clock := NewManualClock()
	calls := 0
	task := New(func() { calls++ }, Options{Delay: 100 * time.Millisecond, Clock: clock})

	task.Schedule()
	require.True(t, task.Flush())
	assert.Equal(t, 1, calls)

	clock.Advance(time.Second)
	assert.Equal(t, 1, calls, "flushed run must not fire again from the timer")
	assert.False(t, task.Flush(), "nothing pending after flush")
	assert.Equal(t, 1, task.Runs())
}

func TestCancelDropsPendingRun(t *testing.T) {
	clock := NewManualClock()
	calls := 0
	task := New(func() { calls++ }, Options{Delay: 100 * time.Millisecond, Clock: clock})

	task.Schedule()
	task.Cancel()
	clock.Advance(time.Second)
	assert.Equal(t, 0, calls)
	assert.False(t, task.Flush())
}

func TestTimerRunHoldsGuard(t *testing.T) {
	clock := NewManualClock()
	var guard sync.Mutex
	held := false
	task := New(func() {
		held = !guard.TryLock()
	}, Options{Delay: 10 * time.Millisecond, Clock: clock, Guard: &guard})

	guard.Lock()
	task.Schedule()
	guard.Unlock()

	clock.Advance(10 * time.Millisecond)
	assert.True(t, held, "run should execute while the guard is held")
}

func TestRealClockFires(t *testing.T) {
	done := make(chan struct{})
	task := New(func() { close(done) }, Options{Delay: time.Millisecond})
	task.Schedule()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real clock task never fired")
	}
}
