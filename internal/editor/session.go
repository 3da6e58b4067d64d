// Package editor coordinates a single editing session: the document list,
// the save-status tracker, the autosave scheduler, the switch guard, and the
// remote persistence client. Every operation the UI surface can perform
// funnels through the Session.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quillpad/quillpad/internal/autosave"
	"github.com/quillpad/quillpad/internal/content"
	"github.com/quillpad/quillpad/internal/routing"
	"github.com/quillpad/quillpad/internal/status"
	"github.com/quillpad/quillpad/internal/store"
)

// ErrSessionClosed reports an operation on a torn-down session.
var ErrSessionClosed = errors.New("session is closed")

// Client is the remote persistence boundary the session consumes.
type Client interface {
	List(ctx context.Context) ([]store.Document, error)
	Create(ctx context.Context, doc store.Document) error
	Update(ctx context.Context, id, title string, body content.Node) error
	Delete(ctx context.Context, id string) error
}

// Surface is the channel back to the editing surface and any other UI
// windows. A nil Surface disables notifications. All methods are called
// outside the session's lock except LoadContent, which runs with the lock
// held so the echoes it provokes can not outrun their registration; it must
// not call back into the session.
type Surface interface {
	// LoadContent asks the surface to replace its displayed content and
	// returns the number of windows it was pushed to. Each of those
	// windows echoes one content-changed notification, which the switch
	// guard absorbs.
	LoadContent(doc store.Document) int

	// StatusChanged pushes the current save status and counts.
	StatusChanged(s Status)

	// DocumentsChanged pushes the recency-ordered list and active id.
	DocumentsChanged(docs []store.Document, activeID string)

	// SaveFailed surfaces a failed remote write as a one-shot
	// notification. Editing is never blocked by it.
	SaveFailed(err error)
}

// Status is the queryable view of the session for the UI.
type Status struct {
	ActiveID    string
	State       status.State
	IsSaving    bool
	LastSavedAt time.Time
	Words       int
	Chars       int
}

// Session owns the editing state for one user against one remote store.
type Session struct {
	mu       sync.Mutex
	store    *store.Store
	counts   content.CountResult
	closed   bool
	deleting int // deletions past validation but not yet removed

	tracker *status.Tracker
	sched   *autosave.Scheduler
	guard   switchGuard

	client  Client
	nav     routing.Navigator
	surface Surface
	logger  *slog.Logger
}

// Config holds the session dependencies.
type Config struct {
	Client      Client
	Navigator   routing.Navigator
	Surface     Surface
	QuietPeriod time.Duration
	Logger      *slog.Logger
}

// NewSession creates a session. The quiet period defaults to five seconds
// when unset.
func NewSession(cfg Config) *Session {
	quiet := cfg.QuietPeriod
	if quiet == 0 {
		quiet = 5 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		store:   store.New(),
		client:  cfg.Client,
		nav:     cfg.Navigator,
		surface: cfg.Surface,
		logger:  logger,
	}

	s.tracker = status.New(func(err error) {
		if s.surface != nil {
			s.surface.SaveFailed(err)
		}
	})
	s.sched = autosave.New(quiet, s.commit)

	return s
}

// LoadDocuments fetches the remote list and replaces the local one
// wholesale. The active pointer honours the navigator's intended id when it
// is present in the list. Nothing is marked dirty.
func (s *Session) LoadDocuments(ctx context.Context) error {
	docs, err := s.client.List(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return ErrSessionClosed
	}

	route := ""
	if s.nav != nil {
		route = s.nav.IntendedDocumentID()
	}

	s.sched.Cancel()
	s.store.Load(docs, route)
	s.tracker.Reset()

	active, ok := s.store.Active()
	if ok {
		s.counts = content.Count(active.Content)
		s.loadSurfaceLocked(active)
	} else {
		s.counts = content.CountResult{}
	}

	s.mu.Unlock()

	if ok && s.nav != nil {
		s.nav.ActiveChanged(active.ID)
	}

	s.notifyDocuments()
	s.notifyStatus()

	return nil
}

// SetActive switches the active document. The pending write for the document
// being left is discarded without flushing, the status indicator resets to
// Clean, and the surface is asked to load the new content.
func (s *Session) SetActive(id string) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return ErrSessionClosed
	}

	if id == s.store.ActiveID() {
		s.mu.Unlock()

		return nil
	}

	if err := s.store.SetActive(id); err != nil {
		s.mu.Unlock()
		s.logger.Warn("set active on unknown document", "doc", id)

		return err
	}

	s.sched.Cancel()
	s.tracker.Reset()

	active, _ := s.store.Active()
	s.counts = content.Count(active.Content)
	s.loadSurfaceLocked(active)

	s.mu.Unlock()

	if s.nav != nil {
		s.nav.ActiveChanged(id)
	}

	s.notifyStatus()

	return nil
}

// WindowConnected registers a freshly attached window and returns the
// active document it should render. The window echoes that content once as
// a content-changed notification; the echo is registered here so it is
// absorbed as a programmatic load, not counted as a user edit.
func (s *Session) WindowConnected() (store.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.Document{}, false
	}

	active, ok := s.store.Active()
	if !ok {
		return store.Document{}, false
	}

	s.guard.expect(1)

	return active, true
}

// ContentChanged handles a content-changed notification from the editing
// surface. The switch guard classifies it: an echo of a programmatic load is
// recorded without reordering, dirty-marking, or scheduling; a user edit
// moves the document to the front, marks it dirty, and (re)arms the autosave
// timer. Word and character counts update on both paths.
func (s *Session) ContentChanged(node content.Node) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return
	}

	activeID := s.store.ActiveID()
	if activeID == "" {
		s.mu.Unlock()

		return
	}

	if s.guard.observe() {
		if _, err := s.store.ApplyRemoteConfirmation(activeID, store.ContentPatch(node)); err != nil {
			s.logger.Warn("remote confirmation on unknown document", "doc", activeID)
		}

		s.counts = content.Count(node)
		s.mu.Unlock()

		s.notifyStatus()

		return
	}

	if _, err := s.store.ApplyUserEdit(activeID, store.ContentPatch(node)); err != nil {
		s.mu.Unlock()
		s.logger.Warn("user edit on unknown document", "doc", activeID)

		return
	}

	s.tracker.MarkDirty()
	s.counts = content.Count(node)
	s.mu.Unlock()

	s.sched.OnUserEdit()

	s.notifyDocuments()
	s.notifyStatus()
}

// SetTitle renames a document. A title edit is a user edit: the document
// moves to the front. The active document persists through the normal commit
// path immediately; a rename of a background document is written directly.
func (s *Session) SetTitle(ctx context.Context, id, title string) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return ErrSessionClosed
	}

	doc, err := s.store.ApplyUserEdit(id, store.TitlePatch(title))
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("title edit on unknown document", "doc", id)

		return err
	}

	isActive := id == s.store.ActiveID()
	if isActive {
		s.tracker.MarkDirty()
	}

	s.mu.Unlock()

	s.notifyDocuments()

	if isActive {
		s.sched.CommitNow()

		return nil
	}

	if err := s.client.Update(ctx, doc.ID, doc.Title, doc.Content); err != nil {
		s.logger.Error("title update failed", "doc", id, "error", err)

		if s.surface != nil {
			s.surface.SaveFailed(err)
		}

		return err
	}

	return nil
}

// Create persists a new empty document remotely, inserts it at the front of
// the list, and makes it active. When title is empty it defaults to
// "Untitled N".
func (s *Session) Create(ctx context.Context, title string) (store.Document, error) {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return store.Document{}, ErrSessionClosed
	}

	if title == "" {
		title = fmt.Sprintf("Untitled %d", s.store.Len()+1)
	}

	s.mu.Unlock()

	now := time.Now()
	doc := store.Document{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content.EmptyDoc(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.client.Create(ctx, doc); err != nil {
		s.logger.Error("create failed", "error", err)

		return store.Document{}, err
	}

	s.mu.Lock()

	// Leaving the previous document: its quiet period is discarded.
	s.sched.Cancel()
	s.store.Insert(doc)
	s.tracker.Reset()
	s.counts = content.CountResult{}
	s.loadSurfaceLocked(doc)

	s.mu.Unlock()

	if s.nav != nil {
		s.nav.ActiveChanged(doc.ID)
	}

	s.notifyDocuments()
	s.notifyStatus()

	return doc, nil
}

// Delete removes a document. Deleting the last remaining document is
// rejected before any remote call. When the active document is deleted, the
// new front of the list becomes active.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return ErrSessionClosed
	}

	// In-flight deletions count against the list length, so two concurrent
	// deletes on a two-document list can not both pass this check.
	if s.store.Len()-s.deleting <= 1 {
		s.mu.Unlock()

		return store.ErrLastDocument
	}

	if _, err := s.store.Get(id); err != nil {
		s.mu.Unlock()
		s.logger.Warn("delete on unknown document", "doc", id)

		return err
	}

	s.deleting++
	s.mu.Unlock()

	err := s.client.Delete(ctx, id)

	s.mu.Lock()
	s.deleting--

	if err != nil {
		s.mu.Unlock()
		s.logger.Error("delete failed", "doc", id, "error", err)

		if s.surface != nil {
			s.surface.SaveFailed(err)
		}

		return err
	}

	wasActive := id == s.store.ActiveID()
	if err := s.store.Remove(id); err != nil {
		s.mu.Unlock()

		return err
	}

	var (
		active store.Document
		ok     bool
	)

	if wasActive {
		s.sched.Cancel()
		s.tracker.Reset()

		active, ok = s.store.Active()
		if ok {
			s.counts = content.Count(active.Content)
			s.loadSurfaceLocked(active)
		}
	}

	s.mu.Unlock()

	if wasActive && ok && s.nav != nil {
		s.nav.ActiveChanged(active.ID)
	}

	s.notifyDocuments()
	s.notifyStatus()

	return nil
}

// Save commits the active document immediately, bypassing the quiet period.
// A no-op when nothing is dirty.
func (s *Session) Save() {
	if !s.tracker.Dirty() {
		return
	}

	s.sched.CommitNow()
}

// Documents returns the recency-ordered list.
func (s *Session) Documents() ([]store.Document, string) {
	return s.store.Documents(), s.store.ActiveID()
}

// Status returns the current save status and counts.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.statusLocked()
}

// Close tears the session down: the pending write token is cancelled
// synchronously and no flush is attempted.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	s.sched.Cancel()

	return nil
}

// commit is the scheduler's commit path: snapshot the active document,
// transition to Saving, perform the remote write, and resolve to Saved or
// Failed. The in-memory state is never rolled back on failure; the user's
// edit stays and the next keystroke or manual save retries.
func (s *Session) commit() {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()

		return
	}

	active, ok := s.store.Active()
	if !ok || !s.tracker.BeginSave() {
		s.mu.Unlock()

		return
	}

	id, title, body := active.ID, active.Title, active.Content
	s.mu.Unlock()

	s.notifyStatus()

	if err := s.client.Update(context.Background(), id, title, body); err != nil {
		s.logger.Error("save failed", "doc", id, "error", err)
		s.tracker.SaveFailed(err)
	} else {
		s.tracker.SaveSucceeded()
	}

	s.notifyStatus()
}

// loadSurfaceLocked pushes a programmatic content load at the surface and
// registers the expected echoes. Caller holds the lock, which keeps any
// echo from being classified before its registration.
func (s *Session) loadSurfaceLocked(doc store.Document) {
	if s.surface == nil {
		return
	}

	s.guard.expect(s.surface.LoadContent(doc))
}

// statusLocked builds a Status. Caller holds the lock.
func (s *Session) statusLocked() Status {
	snap := s.tracker.Get()

	return Status{
		ActiveID:    s.store.ActiveID(),
		State:       snap.State,
		IsSaving:    snap.IsSaving,
		LastSavedAt: snap.LastSavedAt,
		Words:       s.counts.Words,
		Chars:       s.counts.Chars,
	}
}

func (s *Session) notifyStatus() {
	if s.surface == nil {
		return
	}

	s.mu.Lock()
	st := s.statusLocked()
	s.mu.Unlock()

	s.surface.StatusChanged(st)
}

func (s *Session) notifyDocuments() {
	if s.surface == nil {
		return
	}

	s.surface.DocumentsChanged(s.store.Documents(), s.store.ActiveID())
}
