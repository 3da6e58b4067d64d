// Package status tracks the save state of the active document as a small
// state machine: Clean, Dirty, Saving, Saved, Failed. The tracker is driven
// only by the autosave scheduler and remote write outcomes; the UI reads it,
// never writes it.
package status

import (
	"sync"
	"time"
)

// State is the visible save state of the active document.
type State int

const (
	StateClean State = iota
	StateDirty
	StateSaving
	StateSaved
	StateFailed
)

// String returns the wire name of the state.
func (s State) String() string {
	switch s {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is the queryable view of the tracker.
type Snapshot struct {
	State       State
	IsSaving    bool
	LastSavedAt time.Time // zero when nothing has been saved yet
}

// Tracker holds the save state for the currently active document. A failure
// is surfaced once through the notify callback; the visible state otherwise
// behaves like Dirty.
type Tracker struct {
	mu          sync.Mutex
	state       State
	lastSavedAt time.Time
	reason      error

	onFail func(error)
	now    func() time.Time
}

// New creates a tracker in the Clean state. onFail may be nil.
func New(onFail func(error)) *Tracker {
	return &Tracker{
		onFail: onFail,
		now:    time.Now,
	}
}

// SetClock overrides the clock used for Saved timestamps. Test hook.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.now = now
}

// MarkDirty records a user edit. Any state transitions to Dirty; a keystroke
// after a failed save simply makes the document Dirty again.
func (t *Tracker) MarkDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateDirty
	t.reason = nil
}

// BeginSave transitions to Saving when there is something to save. It
// reports whether the transition happened: a save attempted while Clean or
// Saved is a no-op.
func (t *Tracker) BeginSave() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateDirty && t.state != StateFailed {
		return false
	}

	t.state = StateSaving

	return true
}

// SaveSucceeded transitions Saving to Saved and stamps the save time. A user
// edit that arrived while the write was in flight has already moved the state
// back to Dirty; in that case the stamp is recorded but the state stays
// Dirty.
func (t *Tracker) SaveSucceeded() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.lastSavedAt = t.now()

	if t.state == StateSaving {
		t.state = StateSaved
	}
}

// SaveFailed transitions Saving to Failed and fires the one-shot failure
// notification. The document remains logically dirty.
func (t *Tracker) SaveFailed(err error) {
	t.mu.Lock()

	if t.state == StateSaving {
		t.state = StateFailed
	}

	t.reason = err
	notify := t.onFail
	t.mu.Unlock()

	if notify != nil {
		notify(err)
	}
}

// Reset returns the tracker to Clean. Called when the active document
// changes: the indicator never carries one document's status onto another.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state = StateClean
	t.reason = nil
	t.lastSavedAt = time.Time{}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state
}

// Dirty reports whether the active document has unsaved changes. Failed
// counts as dirty: the edit that failed to persist is still only in memory.
func (t *Tracker) Dirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.state == StateDirty || t.state == StateFailed
}

// Get returns the queryable snapshot.
func (t *Tracker) Get() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Snapshot{
		State:       t.state,
		IsSaving:    t.state == StateSaving,
		LastSavedAt: t.lastSavedAt,
	}
}
