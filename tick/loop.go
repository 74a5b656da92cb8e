// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tick

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/offscreen/internal/logging"
)

// Phase orders tasks within one tick. Lower phases run first.
type Phase int

const (
	// PhasePump runs the browser runtime's message loop step.
	PhasePump Phase = iota
	// PhasePull copies the latest frames into host textures.
	PhasePull
	// PhaseLate runs after all frames of the tick were pulled.
	PhaseLate
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhasePump:
		return "pump"
	case PhasePull:
		return "pull"
	case PhaseLate:
		return "late"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Status is returned by a task step.
type Status int

const (
	// Continue keeps the task scheduled for the next tick.
	Continue Status = iota
	// Done removes the task after this step.
	Done
)

// Func is one step of a cooperative task. It runs on the tick goroutine
// and must return without blocking.
type Func func() Status

// Task is a handle to a scheduled Func.
type Task struct {
	name     string
	phase    Phase
	seq      uint64
	fn       Func
	finished atomic.Bool
}

// Name returns the task name given to Add.
func (t *Task) Name() string { return t.name }

// Phase returns the task phase.
func (t *Task) Phase() Phase { return t.phase }

// Active reports whether the task will run again.
func (t *Task) Active() bool { return !t.finished.Load() }

// Cancel stops the task. If called from inside a tick, a task that has not
// run yet in that tick is skipped. Cancel is idempotent.
func (t *Task) Cancel() { t.finished.Store(true) }

// Loop is a cooperative per-frame scheduler standing in for the host's main
// loop. Each Tick runs every active task exactly once, ordered by phase and
// then by registration order.
//
// Add and Cancel are safe from any goroutine. Tick must be called from one
// goroutine at a time and is not re-entrant.
type Loop struct {
	mu      sync.Mutex
	tasks   []*Task
	nextSeq uint64
	ticking atomic.Bool
	ticks   atomic.Uint64
}

// New creates an empty Loop.
func New() *Loop {
	return &Loop{}
}

// Add schedules fn in phase. A task added during a tick first runs on the
// next tick.
func (l *Loop) Add(phase Phase, name string, fn Func) *Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextSeq++
	t := &Task{name: name, phase: phase, seq: l.nextSeq, fn: fn}
	i, _ := slices.BinarySearchFunc(l.tasks, t, compareTasks)
	l.tasks = slices.Insert(l.tasks, i, t)
	return t
}

func compareTasks(a, b *Task) int {
	if c := cmp.Compare(a.phase, b.phase); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// Len returns the number of active tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, t := range l.tasks {
		if t.Active() {
			n++
		}
	}
	return n
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Tick runs one step of every active task and returns how many ran.
// A nested call from inside a task returns 0 without running anything.
func (l *Loop) Tick() int {
	if !l.ticking.CompareAndSwap(false, true) {
		logging.Logger().Warn("tick: nested Tick ignored")
		return 0
	}
	defer l.ticking.Store(false)

	l.mu.Lock()
	snapshot := slices.Clone(l.tasks)
	l.mu.Unlock()

	ran := 0
	for _, t := range snapshot {
		if !t.Active() {
			continue
		}
		ran++
		if l.step(t) == Done {
			t.finished.Store(true)
		}
	}

	l.mu.Lock()
	l.tasks = slices.DeleteFunc(l.tasks, func(t *Task) bool { return !t.Active() })
	l.mu.Unlock()

	l.ticks.Add(1)
	return ran
}

// step runs one task step, converting a panic into Done so one broken task
// cannot stall the host loop.
func (l *Loop) step(t *Task) (status Status) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("tick: task panicked", "task", t.name, "phase", t.phase, "panic", r)
			status = Done
		}
	}()
	return t.fn()
}

// Run calls Tick every interval until ctx is done, for hosts that have no
// frame loop of their own. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Tick()
		}
	}
}

// RunUntil calls Tick until cond returns true or limit ticks have run, and
// reports whether cond was met. It does not sleep between ticks.
func (l *Loop) RunUntil(limit int, cond func() bool) bool {
	for i := 0; i < limit; i++ {
		if cond() {
			return true
		}
		l.Tick()
	}
	return cond()
}
