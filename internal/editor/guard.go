package editor

import "sync"

// switchGuard distinguishes programmatic content loads from user edits.
// Replacing a window's displayed content emits the same content-changed
// notification as typing, and every window shown the load echoes once, so
// the guard counts expected echoes: one per window a load was pushed to.
// An observation consumes one expectation and is routed as a remote
// confirmation instead of a user edit. Expectations clear only by being
// observed, never on a timer, so a late-arriving load echo can not be
// mistaken for typing.
type switchGuard struct {
	mu      sync.Mutex
	pending int
}

// expect records that n windows are about to receive a programmatic load
// and will each echo one content-changed notification.
func (g *switchGuard) expect(n int) {
	if n <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.pending += n
}

// observe consumes one expected echo: it reports whether the notification
// belongs to a programmatic load.
func (g *switchGuard) observe() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == 0 {
		return false
	}

	g.pending--

	return true
}
