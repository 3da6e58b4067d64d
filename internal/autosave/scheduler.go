// Package autosave converts a burst of rapid edits into a single remote
// write. Each editing session owns one cancellable pending-write token; a new
// edit invalidates the previous token and arms a fresh one, so the commit
// only runs after a quiet period with no further edits.
package autosave

import (
	"sync"
	"time"
)

// Token is an armed-but-not-yet-fired delayed write. At most one token is
// outstanding per session; arming a new one invalidates the previous one.
type Token struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
}

// Cancel invalidates the token. It is safe to call more than once and safe
// to call concurrently with the timer firing: a fired-but-cancelled token
// never reaches the commit path.
func (t *Token) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelled = true

	if t.timer != nil {
		t.timer.Stop()
	}
}

// invalidated reports whether Cancel has been called.
func (t *Token) invalidated() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cancelled
}

// Scheduler owns the pending-write token and the saving barrier. The commit
// callback performs the actual remote write; the scheduler guarantees it is
// never invoked concurrently with itself, and that a commit arriving while a
// write is in flight is deferred until that write resolves (last writer
// wins, never out of order).
type Scheduler struct {
	quiet  time.Duration
	commit func()

	mu       sync.Mutex
	token    *Token
	inflight bool
	queued   bool
}

// New creates a scheduler with the given quiet period. The commit callback
// snapshots and writes the latest state; it must tolerate being a no-op when
// nothing is dirty.
func New(quiet time.Duration, commit func()) *Scheduler {
	return &Scheduler{
		quiet:  quiet,
		commit: commit,
	}
}

// OnUserEdit cancels any outstanding token and arms a new one. When the
// quiet period elapses without further cancellation the commit path runs.
func (s *Scheduler) OnUserEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		s.token.Cancel()
	}

	token := &Token{}
	token.timer = time.AfterFunc(s.quiet, func() {
		s.fire(token)
	})
	s.token = token
}

// CommitNow cancels any outstanding token and runs the commit path
// synchronously, bypassing the quiet period. Used for explicit manual save.
func (s *Scheduler) CommitNow() {
	s.Cancel()
	s.run()
}

// Cancel invalidates the outstanding token without flushing. Used when the
// active document changes or the session tears down: an in-flight quiet
// period for a document that is no longer active is simply discarded.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		s.token.Cancel()
		s.token = nil
	}
}

// Pending reports whether a token is armed. Test hook.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token != nil && !s.token.invalidated()
}

// fire is the timer callback. It ignores tokens that were cancelled or
// superseded between firing and acquiring the lock.
func (s *Scheduler) fire(token *Token) {
	s.mu.Lock()

	if s.token != token || token.invalidated() {
		s.mu.Unlock()

		return
	}

	s.token = nil
	s.mu.Unlock()

	s.run()
}

// run executes the commit path behind the saving barrier: while a write is
// in flight, further commits collapse into a single deferred re-run that
// picks up the latest state once the write resolves.
func (s *Scheduler) run() {
	s.mu.Lock()

	if s.inflight {
		s.queued = true
		s.mu.Unlock()

		return
	}

	s.inflight = true
	s.mu.Unlock()

	for {
		s.commit()

		s.mu.Lock()
		if !s.queued {
			s.inflight = false
			s.mu.Unlock()

			return
		}

		s.queued = false
		s.mu.Unlock()
	}
}
