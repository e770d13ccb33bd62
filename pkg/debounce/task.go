// Package debounce provides a cancellable scheduled unit of work whose pending
// run can be forced synchronously at transition boundaries.
package debounce

import (
	"sync"
	"time"
)

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the runtime timers.
func RealClock() Clock {
	return realClock{}
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// Options configures a Task.
type Options struct {
	Delay time.Duration
	Clock Clock
	// Guard is held while run executes from the timer goroutine. Callers of
	// Schedule, Flush and Cancel are expected to already hold it.
	Guard sync.Locker
}

// Task coalesces repeated Schedule calls into a single deferred run.
type Task struct {
	delay time.Duration
	clock Clock
	guard sync.Locker
	run   func()

	mu         sync.Mutex
	pending    bool
	generation uint64
	timer      Timer
	runs       int
}

// New builds a Task that calls run after the configured delay.
func New(run func(), opts Options) *Task {
	if opts.Clock == nil {
		opts.Clock = RealClock()
	}
	if opts.Guard == nil {
		opts.Guard = noopLocker{}
	}
	return &Task{
		delay: opts.Delay,
		clock: opts.Clock,
		guard: opts.Guard,
		run:   run,
	}
}

// Schedule (re)arms the timer. An already pending run is pushed back.
func (t *Task) Schedule() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.pending = true
	gen := t.generation
	t.timer = t.clock.AfterFunc(t.delay, func() { t.fire(gen) })
}

// Flush runs a pending task immediately and cancels its timer. It reports
// whether anything ran.
func (t *Task) Flush() bool {
	t.mu.Lock()
	if !t.pending {
		t.mu.Unlock()
		return false
	}
	t.stopLocked()
	t.pending = false
	t.runs++
	t.mu.Unlock()

	t.run()
	return true
}

// Cancel drops a pending run without executing it.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.pending = false
}

// Pending reports whether a run is scheduled.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Runs returns how many times the task has executed.
func (t *Task) Runs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}

func (t *Task) stopLocked() {
	t.generation++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Task) fire(gen uint64) {
	t.guard.Lock()
	defer t.guard.Unlock()

	t.mu.Lock()
	if !t.pending || gen != t.generation {
		t.mu.Unlock()
		return
	}
	t.pending = false
	t.timer = nil
	t.runs++
	t.mu.Unlock()

	t.run()
}
