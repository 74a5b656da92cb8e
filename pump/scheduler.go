// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pump

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/offscreen/internal/logging"
	"github.com/gogpu/offscreen/tick"
)

// Stepper performs one slice of runtime event processing.
// browser.Runtime satisfies it.
type Stepper interface {
	DoMessageLoopWork()
}

// Observer is notified of pump activity. Implementations must be cheap.
type Observer interface {
	PumpStepped()
	PumpLeases(active int)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver sets an activity observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// Scheduler runs a Stepper once per host tick while at least one lease is
// held and shutdown has not been signalled. Only one pump task exists per
// Scheduler no matter how many surfaces hold leases.
type Scheduler struct {
	step     Stepper
	loop     *tick.Loop
	stopped  func() bool
	observer Observer

	mu     sync.Mutex
	leases int
	task   *tick.Task
	halted bool

	steps atomic.Uint64
}

// New creates a Scheduler that pumps step on loop. stopped is polled at the
// start of every tick; once it returns true the pump exits without calling
// step. stopped may be nil.
func New(step Stepper, loop *tick.Loop, stopped func() bool, opts ...Option) *Scheduler {
	s := &Scheduler{
		step:    step,
		loop:    loop,
		stopped: stopped,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureStarted takes a lease on the pump, starting the pump task if it is
// not already running. The pump keeps running until every lease is released
// or Stop is called. After Stop, leases are still handed out but the pump
// stays stopped.
func (s *Scheduler) EnsureStarted() *Lease {
	s.mu.Lock()
	s.leases++
	active := s.leases
	if (s.task == nil || !s.task.Active()) && !s.halted {
		s.task = s.loop.Add(tick.PhasePump, "message-pump", s.run)
		logging.Logger().Debug("pump: started", "leases", active)
	}
	s.mu.Unlock()

	s.notifyLeases(active)
	return &Lease{s: s}
}

// Stop halts the pump permanently. It is idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.halted {
		return
	}
	s.halted = true
	if s.task != nil {
		s.task.Cancel()
		s.task = nil
	}
	logging.Logger().Debug("pump: stopped", "steps", s.steps.Load())
}

// Running reports whether the pump task is scheduled.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.task != nil && s.task.Active()
}

// Leases returns the number of outstanding leases.
func (s *Scheduler) Leases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leases
}

// Steps returns how many times the Stepper has been called.
func (s *Scheduler) Steps() uint64 {
	return s.steps.Load()
}

// run is the pump task body.
func (s *Scheduler) run() tick.Status {
	s.mu.Lock()
	if s.halted || s.leases == 0 || (s.stopped != nil && s.stopped()) {
		s.task = nil
		s.mu.Unlock()
		logging.Logger().Debug("pump: exiting", "steps", s.steps.Load())
		return tick.Done
	}
	s.mu.Unlock()

	s.stepOnce()
	return tick.Continue
}

// stepOnce runs the Stepper once. A panic is logged and counted as a step so
// that surfaces still holding leases keep being pumped on later ticks.
func (s *Scheduler) stepOnce() {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger().Error("pump: message loop step panicked", "panic", r)
		}
		s.steps.Add(1)
		if s.observer != nil {
			s.observer.PumpStepped()
		}
	}()
	s.step.DoMessageLoopWork()
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.leases--
	active := s.leases
	s.mu.Unlock()

	s.notifyLeases(active)
}

func (s *Scheduler) notifyLeases(active int) {
	if s.observer != nil {
		s.observer.PumpLeases(active)
	}
}

// Lease is one surface's claim on the pump.
type Lease struct {
	s    *Scheduler
	once sync.Once
}

// Release gives the lease back. Only the first call has an effect.
func (l *Lease) Release() {
	if l == nil {
		return
	}
	l.once.Do(l.s.release)
}
