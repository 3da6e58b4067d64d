package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/quillpad/quillpad/internal/content"
	"github.com/quillpad/quillpad/internal/store"
	"github.com/stretchr/testify/require"
)

func doc(id, title string) store.Document {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return store.Document{
		ID:        id,
		Title:     title,
		Content:   content.EmptyDoc(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ids(docs []store.Document) []string {
	result := make([]string, len(docs))
	for i, d := range docs {
		result[i] = d.ID
	}

	return result
}

func TestStore_Load_ActivatesFirst(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B")}, "")

	if got := s.ActiveID(); got != "a" {
		t.Errorf("expected active 'a', got %q", got)
	}

	require.Equal(t, []string{"a", "b"}, ids(s.Documents()))
}

func TestStore_Load_RoutedID(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B")}, "b")

	if got := s.ActiveID(); got != "b" {
		t.Errorf("expected active 'b', got %q", got)
	}

	// Load never reorders.
	require.Equal(t, []string{"a", "b"}, ids(s.Documents()))
}

func TestStore_Load_UnknownRouteFallsBack(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B")}, "gone")

	if got := s.ActiveID(); got != "a" {
		t.Errorf("expected fallback to first, got %q", got)
	}
}

func TestStore_Load_Empty(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load(nil, "")

	if got := s.ActiveID(); got != "" {
		t.Errorf("expected no active document, got %q", got)
	}

	if _, ok := s.Active(); ok {
		t.Error("expected Active to report no document")
	}
}

func TestStore_ApplyUserEdit_MovesToFront(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B"), doc("c", "C")}, "")

	node := content.FromText("edited")
	updated, err := s.ApplyUserEdit("c", store.ContentPatch(node))
	require.NoError(t, err)

	if updated.ID != "c" {
		t.Errorf("expected updated doc 'c', got %q", updated.ID)
	}

	require.Equal(t, []string{"c", "a", "b"}, ids(s.Documents()))
}

func TestStore_ApplyUserEdit_StampsUpdatedAt(t *testing.T) {
	t.Parallel()

	s := store.New()
	stamp := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return stamp })
	s.Load([]store.Document{doc("a", "A")}, "")

	updated, err := s.ApplyUserEdit("a", store.TitlePatch("renamed"))
	require.NoError(t, err)

	if updated.Title != "renamed" {
		t.Errorf("expected title merged, got %q", updated.Title)
	}

	if !updated.UpdatedAt.Equal(stamp) {
		t.Errorf("expected UpdatedAt %v, got %v", stamp, updated.UpdatedAt)
	}
}

func TestStore_ApplyUserEdit_NotFound(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A")}, "")

	_, err := s.ApplyUserEdit("nope", store.TitlePatch("x"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ApplyRemoteConfirmation_NeverReorders(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B")}, "")

	_, err := s.ApplyRemoteConfirmation("b", store.ContentPatch(content.FromText("loaded")))
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b"}, ids(s.Documents()))

	got, err := s.Get("b")
	require.NoError(t, err)

	if content.Text(got.Content) != "loaded" {
		t.Errorf("expected content merged, got %q", content.Text(got.Content))
	}
}

func TestStore_SetActive_DoesNotReorder(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B")}, "")

	require.NoError(t, s.SetActive("b"))

	if got := s.ActiveID(); got != "b" {
		t.Errorf("expected active 'b', got %q", got)
	}

	require.Equal(t, []string{"a", "b"}, ids(s.Documents()))
}

func TestStore_SetActive_NotFound(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A")}, "")

	if err := s.SetActive("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if got := s.ActiveID(); got != "a" {
		t.Errorf("active pointer changed on failed SetActive: %q", got)
	}
}

func TestStore_Insert_PrependsAndActivates(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A")}, "")

	s.Insert(doc("b", "B"))

	require.Equal(t, []string{"b", "a"}, ids(s.Documents()))

	if got := s.ActiveID(); got != "b" {
		t.Errorf("expected new document active, got %q", got)
	}
}

// Scenario from the save semantics: create A, create B, edit A.
func TestStore_CreateCreateEditOrdering(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load(nil, "")

	s.Insert(doc("a", "A"))
	s.Insert(doc("b", "B"))

	require.Equal(t, []string{"b", "a"}, ids(s.Documents()))

	_, err := s.ApplyUserEdit("a", store.ContentPatch(content.FromText("hi")))
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b"}, ids(s.Documents()))
}

func TestStore_Remove_LastDocumentRejected(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A")}, "")

	err := s.Remove("a")
	if !errors.Is(err, store.ErrLastDocument) {
		t.Fatalf("expected ErrLastDocument, got %v", err)
	}

	// List unchanged.
	require.Equal(t, []string{"a"}, ids(s.Documents()))

	if got := s.ActiveID(); got != "a" {
		t.Errorf("active pointer changed on rejected delete: %q", got)
	}
}

func TestStore_Remove_ActiveFallsToFront(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B"), doc("c", "C")}, "")

	require.NoError(t, s.Remove("a"))

	if got := s.ActiveID(); got != "b" {
		t.Errorf("expected active to fall to front, got %q", got)
	}

	require.Equal(t, []string{"b", "c"}, ids(s.Documents()))
}

func TestStore_Remove_InactiveKeepsActive(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B")}, "")

	require.NoError(t, s.Remove("b"))

	if got := s.ActiveID(); got != "a" {
		t.Errorf("expected active unchanged, got %q", got)
	}
}

func TestStore_Remove_NotFound(t *testing.T) {
	t.Parallel()

	s := store.New()
	s.Load([]store.Document{doc("a", "A"), doc("b", "B")}, "")

	if err := s.Remove("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
