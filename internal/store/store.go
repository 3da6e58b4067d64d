// Package store owns the in-memory document list and the active-document
// pointer. The list is recency ordered: the front is the most recently edited
// document. All mutation funnels through the operations defined here; only
// ApplyUserEdit may reorder the list.
package store

import (
	"errors"
	"sync"
	"time"
)

// Common errors.
var (
	// ErrNotFound reports an operation referencing an id absent from the
	// list. Callers treat it as a contract violation: log and ignore.
	ErrNotFound = errors.New("document not found")

	// ErrLastDocument reports an attempt to delete the sole remaining
	// document. The list is left unchanged.
	ErrLastDocument = errors.New("cannot delete the last document")
)

// Store holds the ordered document list and the active pointer.
type Store struct {
	mu     sync.RWMutex
	docs   []Document
	active string

	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// SetClock overrides the clock used for UpdatedAt stamps. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.now = now
}

// Load replaces the list wholesale. The active pointer becomes routeID when
// that id is present in the new list, otherwise the first element, otherwise
// none. Load never reorders and never marks anything dirty.
func (s *Store) Load(docs []Document, routeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make([]Document, len(docs))
	copy(s.docs, docs)

	s.active = ""

	if routeID != "" && s.indexOf(routeID) >= 0 {
		s.active = routeID
	} else if len(s.docs) > 0 {
		s.active = s.docs[0].ID
	}
}

// SetActive changes the active pointer. The list order is untouched.
func (s *Store) SetActive(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return ErrNotFound
	}

	s.active = id

	return nil
}

// ApplyUserEdit merges the patch into the record, stamps UpdatedAt, and moves
// the record to the front of the list. This is the only operation permitted
// to reorder.
func (s *Store) ApplyUserEdit(id string, patch Patch) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Document{}, ErrNotFound
	}

	doc := s.docs[i]
	patch.apply(&doc)
	doc.UpdatedAt = s.now()

	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	s.docs = append([]Document{doc}, s.docs...)

	return doc, nil
}

// ApplyRemoteConfirmation refreshes a record's fields without treating the
// change as a user edit: no reorder, no dirty transition at the caller.
func (s *Store) ApplyRemoteConfirmation(id string, patch Patch) (Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Document{}, ErrNotFound
	}

	patch.apply(&s.docs[i])
	s.docs[i].UpdatedAt = s.now()

	return s.docs[i], nil
}

// Insert prepends a newly created document and makes it active.
func (s *Store) Insert(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = append([]Document{doc}, s.docs...)
	s.active = doc.ID
}

// Remove deletes the record. Deleting the sole remaining document fails with
// ErrLastDocument before anything is touched. If the removed record was
// active, the new active document is the post-removal front of the list.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.docs) == 1 {
		return ErrLastDocument
	}

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}

	s.docs = append(s.docs[:i], s.docs[i+1:]...)

	if s.active == id {
		if len(s.docs) > 0 {
			s.active = s.docs[0].ID
		} else {
			s.active = ""
		}
	}

	return nil
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Document{}, ErrNotFound
	}

	return s.docs[i], nil
}

// Active returns the active document, or false if the list is empty.
func (s *Store) Active() (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(s.active)
	if i < 0 {
		return Document{}, false
	}

	return s.docs[i], true
}

// ActiveID returns the id of the active document, or "" if none.
func (s *Store) ActiveID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.active
}

// Documents returns a copy of the list in recency order.
func (s *Store) Documents() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Document, len(s.docs))
	copy(result, s.docs)

	return result
}

// Len returns the number of documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.docs)
}

// indexOf returns the position of id in the list, or -1. Caller holds the
// lock.
func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}

	for i, doc := range s.docs {
		if doc.ID == id {
			return i
		}
	}

	return -1
}
