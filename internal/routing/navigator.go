// Package routing is the contract between the editor session and the
// external navigation mechanism: navigation supplies the document id the
// user intended to view at load time, and is told whenever the active
// pointer changes so the two stay in sync.
package routing

import "sync"

// Navigator is consumed by the editor session.
type Navigator interface {
	// IntendedDocumentID returns the document id navigation wants active,
	// or "" when it has no opinion.
	IntendedDocumentID() string

	// ActiveChanged notifies navigation that the active pointer moved.
	ActiveChanged(id string)
}

// Memory is an in-process Navigator: it remembers the last active document,
// so reloading the document list lands the user back where they were.
type Memory struct {
	mu sync.Mutex
	id string
}

// NewMemory creates a navigator seeded with an initial intended id, which
// may be empty.
func NewMemory(initial string) *Memory {
	return &Memory{id: initial}
}

// IntendedDocumentID implements Navigator.
func (m *Memory) IntendedDocumentID() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.id
}

// ActiveChanged implements Navigator.
func (m *Memory) ActiveChanged(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.id = id
}
