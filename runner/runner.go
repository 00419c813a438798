// Package runner implements the common base for long-running
// computations: Froidure-Pin enumeration, Knuth-Bendix completion, and
// Todd-Coxeter coset enumeration all embed a *Runner and check it at
// their own suspension points instead of rolling their own
// cancellation state machine.
package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle a Runner passes through: created -> running ->
// {finished | stopped | timed-out | killed}.
type State int32

const (
	Created State = iota
	Running
	Finished
	Stopped
	TimedOut
	Killed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	case Finished:
		return "finished"
	case Stopped:
		return "stopped"
	case TimedOut:
		return "timed_out"
	case Killed:
		return "killed"
	default:
		return "unknown"
	}
}

// Runner is embedded by every long computation. Stop() is the cooperative
// cancellation token: writes of true are never revoked, and tight
// loops check ShouldStop() at chunk boundaries.
type Runner struct {
	id        string
	state     atomic.Int32
	stop      atomic.Bool
	deadline  atomic.Int64 // unix nanos; 0 means no deadline
	startedAt atomic.Int64 // unix nanos of the first Started(); 0 means not yet started

	mu       sync.Mutex
	reporter Reporter
}

// New constructs a Runner tagged with a fresh run ID and reporting to
// sink. A nil sink is replaced with NoopReporter{}, the library's
// default — pinned at construction rather than a mutable global toggle,
// so concurrent runs never race over it.
func New(sink Reporter) *Runner {
	if sink == nil {
		sink = NoopReporter{}
	}
	r := &Runner{id: uuid.NewString(), reporter: sink}
	r.state.Store(int32(Created))
	return r
}

// RunID returns the run's unique identifier, used by reporters to tag
// their output in lieu of an OS thread id.
func (r *Runner) RunID() string { return r.id }

// State returns the current lifecycle state.
func (r *Runner) State() State { return State(r.state.Load()) }

// Stop requests cooperative cancellation. Safe to call concurrently and
// more than once; later calls are no-ops.
func (r *Runner) Stop() {
	r.stop.Store(true)
	r.transition(Stopped)
}

// Kill is Stop with a harsher terminal state, for callers that want to
// distinguish "asked nicely" from "gave up waiting".
func (r *Runner) Kill() {
	r.stop.Store(true)
	r.transition(Killed)
}

// Resume clears a soft stop (Stopped/TimedOut/Finished) so the Runner
// can drive another Enumerate/Run call. A hard Kill is not resumable:
// once Killed, Resume is a no-op.
func (r *Runner) Resume() {
	for {
		cur := State(r.state.Load())
		if cur == Killed {
			return
		}
		if r.state.CompareAndSwap(int32(cur), int32(Created)) {
			r.stop.Store(false)
			r.deadline.Store(0)
			return
		}
	}
}

// ShouldStop is the suspension-point check every tight loop makes at
// its own chunk boundary.
func (r *Runner) ShouldStop() bool {
	if r.stop.Load() {
		return true
	}
	if d := r.deadline.Load(); d != 0 && time.Now().UnixNano() >= d {
		r.stop.Store(true)
		r.transition(TimedOut)
		return true
	}
	return false
}

// Started marks the Runner Running if it hasn't finished or stopped
// already, recording the wall-clock time of the first such transition.
func (r *Runner) Started() {
	if r.state.CompareAndSwap(int32(Created), int32(Running)) {
		r.startedAt.CompareAndSwap(0, time.Now().UnixNano())
	}
}

// Elapsed returns the wall-clock duration since the Runner first
// started, or zero if it never has. Unlike the deadline, this is not
// reset by Resume: it measures from the first start, including any time
// between resumed chunks, for reporter lines (spec §4.5 Reporters
// "timestamp output").
func (r *Runner) Elapsed() time.Duration {
	s := r.startedAt.Load()
	if s == 0 {
		return 0
	}
	return time.Duration(time.Now().UnixNano() - s)
}

// Finish marks the Runner Finished, unless it was already stopped,
// timed out, or killed — a terminal non-finished state is sticky.
func (r *Runner) Finish() {
	r.transition(Finished)
}

func (r *Runner) transition(to State) {
	for {
		cur := State(r.state.Load())
		if cur == Finished || cur == Stopped || cur == TimedOut || cur == Killed {
			return
		}
		if r.state.CompareAndSwap(int32(cur), int32(to)) {
			return
		}
	}
}

// RunFor runs fn until it returns, ShouldStop reports true, or d
// elapses, implemented with a wall-clock deadline comparison rather
// than a timer signal.
func (r *Runner) RunFor(d time.Duration, fn func() bool) {
	r.deadline.Store(time.Now().Add(d).UnixNano())
	defer r.deadline.Store(0)
	r.Started()
	for {
		if r.ShouldStop() {
			return
		}
		if done := fn(); done {
			r.Finish()
			return
		}
	}
}

// RunUntil runs fn until it returns, ShouldStop reports true, or
// predicate reports true.
func (r *Runner) RunUntil(predicate func() bool, fn func() bool) {
	r.Started()
	for {
		if r.ShouldStop() || predicate() {
			return
		}
		if done := fn(); done {
			r.Finish()
			return
		}
	}
}

// RunWhileRunning runs fn only while other is in the Running state.
func (r *Runner) RunWhileRunning(other *Runner, fn func() bool) {
	r.Started()
	for {
		if r.ShouldStop() || other.State() != Running {
			return
		}
		if done := fn(); done {
			r.Finish()
			return
		}
	}
}

// Run runs fn to completion or until ShouldStop reports true — the
// plain `run()` form.
func (r *Runner) Run(fn func() bool) {
	r.Started()
	for {
		if r.ShouldStop() {
			return
		}
		if done := fn(); done {
			r.Finish()
			return
		}
	}
}

// Context returns a context cancelled when the Runner stops, for
// components (the congruence supervisor) that compose Runners with
// goroutines and want a context.Context to pass down.
func (r *Runner) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		for !r.ShouldStop() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
		cancel()
	}()
	return ctx, cancel
}

// Report sends a line to the configured reporter, honouring the
// reporter's own throttling.
func (r *Runner) Report(format string, args ...any) {
	r.mu.Lock()
	rep := r.reporter
	r.mu.Unlock()
	rep.Report(r.id, format, args...)
}
