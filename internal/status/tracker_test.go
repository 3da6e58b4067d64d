package status_test

import (
	"errors"
	"testing"
	"time"

	"github.com/quillpad/quillpad/internal/status"
	"github.com/stretchr/testify/require"
)

func TestTracker_SuccessfulSaveSequence(t *testing.T) {
	t.Parallel()

	tracker := status.New(nil)
	stamp := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tracker.SetClock(func() time.Time { return stamp })

	// Clean -> Dirty -> Saving -> Saved(t)
	if got := tracker.State(); got != status.StateClean {
		t.Fatalf("expected Clean initially, got %v", got)
	}

	tracker.MarkDirty()
	require.Equal(t, status.StateDirty, tracker.State())

	if !tracker.BeginSave() {
		t.Fatal("expected BeginSave to transition from Dirty")
	}

	snap := tracker.Get()
	if !snap.IsSaving {
		t.Error("expected IsSaving during Saving")
	}

	tracker.SaveSucceeded()

	snap = tracker.Get()
	require.Equal(t, status.StateSaved, snap.State)

	if snap.IsSaving {
		t.Error("expected IsSaving false after save")
	}

	if !snap.LastSavedAt.Equal(stamp) {
		t.Errorf("expected LastSavedAt %v, got %v", stamp, snap.LastSavedAt)
	}
}

func TestTracker_FailureSequence(t *testing.T) {
	t.Parallel()

	var notified []error

	tracker := status.New(func(err error) {
		notified = append(notified, err)
	})

	// Dirty -> Saving -> Failed, then a keystroke returns to Dirty.
	tracker.MarkDirty()
	require.True(t, tracker.BeginSave())

	cause := errors.New("connection refused")
	tracker.SaveFailed(cause)

	require.Equal(t, status.StateFailed, tracker.State())

	if !tracker.Dirty() {
		t.Error("expected Failed to count as dirty")
	}

	require.Len(t, notified, 1)
	require.ErrorIs(t, notified[0], cause)

	tracker.MarkDirty()
	require.Equal(t, status.StateDirty, tracker.State())
}

func TestTracker_BeginSave_NoopWhenClean(t *testing.T) {
	t.Parallel()

	tracker := status.New(nil)

	if tracker.BeginSave() {
		t.Error("expected BeginSave to refuse from Clean")
	}

	tracker.MarkDirty()
	require.True(t, tracker.BeginSave())
	tracker.SaveSucceeded()

	if tracker.BeginSave() {
		t.Error("expected BeginSave to refuse from Saved")
	}
}

func TestTracker_BeginSave_AllowedFromFailed(t *testing.T) {
	t.Parallel()

	tracker := status.New(nil)
	tracker.MarkDirty()
	require.True(t, tracker.BeginSave())
	tracker.SaveFailed(errors.New("boom"))

	// Manual retry from Failed is a save of logically-dirty content.
	if !tracker.BeginSave() {
		t.Error("expected BeginSave to transition from Failed")
	}
}

func TestTracker_EditDuringSaveStaysDirty(t *testing.T) {
	t.Parallel()

	tracker := status.New(nil)
	tracker.MarkDirty()
	require.True(t, tracker.BeginSave())

	// Keystroke lands while the write is in flight.
	tracker.MarkDirty()

	tracker.SaveSucceeded()

	require.Equal(t, status.StateDirty, tracker.State())

	if tracker.Get().LastSavedAt.IsZero() {
		t.Error("expected the completed write to still stamp LastSavedAt")
	}
}

func TestTracker_ResetClearsEverything(t *testing.T) {
	t.Parallel()

	tracker := status.New(nil)
	tracker.MarkDirty()
	require.True(t, tracker.BeginSave())
	tracker.SaveSucceeded()

	tracker.Reset()

	snap := tracker.Get()
	require.Equal(t, status.StateClean, snap.State)

	if !snap.LastSavedAt.IsZero() {
		t.Error("expected LastSavedAt cleared on document switch")
	}
}
