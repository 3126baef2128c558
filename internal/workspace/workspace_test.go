package workspace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	"github.com/kirinyoku/deskgo/internal/uow"
)

var key = domain.FloorKey{Building: "campus30", Office: "IN10", Floor: "Floor8", Date: "2024-01-15"}

func plan() domain.FloorPlan {
	return domain.FloorPlan{
		Seats: []domain.Seat{
			{ID: "D1", X: 10, Y: 10, Status: domain.SeatAvailable, Kind: domain.SeatDesk},
			{ID: "D2", X: 30, Y: 10, Status: domain.SeatOccupied, Kind: domain.SeatDesk},
		},
		OfficeLayout: domain.OfficeLayout{Width: 105, Height: 55},
	}
}

func TestStateSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	w := New("s1", key, plan(), SourceAPI, "")
	require.NoError(t, s.Create(ctx, w))

	_, err := s.Update(ctx, w.ID, "s1", func(_ context.Context, w *Workspace, _ func(uow.AfterCommit)) error {
		w.Editor.SetEditMode(true)
		ref := floorplan.Ref{Class: floorplan.ClassSeat, ID: "D1"}
		require.NoError(t, w.Editor.Select(ref, false))
		w.Editor.ApplyDelta(ref, 2.5, -1)
		w.Editor.Zoom.In()
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(ctx, w.ID, "s1")
	require.NoError(t, err)

	assert.Equal(t, key, got.Key)
	assert.True(t, got.Editor.EditMode)
	assert.Equal(t, []string{"D1"}, got.Editor.Selection.IDs(floorplan.ClassSeat))
	p := got.Editor.Effective(floorplan.Ref{Class: floorplan.ClassSeat, ID: "D1"})
	assert.InDelta(t, 12.5, p.X, 1e-9)
	assert.InDelta(t, 9, p.Y, 1e-9)
	assert.InDelta(t, 1.2, got.Editor.Zoom.Factor, 1e-9)
}

func TestFailedUpdateIsDiscarded(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	w := New("s1", key, plan(), SourceAPI, "")
	require.NoError(t, s.Create(ctx, w))

	boom := errors.New("boom")
	hookRan := false
	_, err := s.Update(ctx, w.ID, "s1", func(_ context.Context, w *Workspace, after func(uow.AfterCommit)) error {
		w.Editor.SetEditMode(true)
		after(func(context.Context) { hookRan = true })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, hookRan)

	got, err := s.Get(ctx, w.ID, "s1")
	require.NoError(t, err)
	assert.False(t, got.Editor.EditMode)
}

func TestHooksRunAfterCommit(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	w := New("s1", key, plan(), SourceAPI, "")
	require.NoError(t, s.Create(ctx, w))

	var seen bool
	_, err := s.Update(ctx, w.ID, "s1", func(_ context.Context, w *Workspace, after func(uow.AfterCommit)) error {
		w.Notice = "hello"
		after(func(ctx context.Context) {
			got, err := s.Get(ctx, w.ID, "s1")
			seen = err == nil && got.Notice == "hello"
		})
		return nil
	})
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestWorkspacesAreScopedToSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	w := New("s1", key, plan(), SourceAPI, "")
	require.NoError(t, s.Create(ctx, w))

	_, err := s.Get(ctx, w.ID, "s2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, w.ID, "s2"), ErrNotFound)
	_, err = s.Get(ctx, uuid.New(), "s1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, w.ID, "s1"))
	_, err = s.Get(ctx, w.ID, "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkStale(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	saver := New("s1", key, plan(), SourceAPI, "")
	viewer := New("s2", key, plan(), SourceAPI, "")
	other := New("s3", domain.FloorKey{Building: "campus30", Office: "IN10", Floor: "Floor9"}, plan(), SourceAPI, "")
	for _, w := range []*Workspace{saver, viewer, other} {
		require.NoError(t, s.Create(ctx, w))
	}

	n, err := s.MarkStale(ctx, key, saver.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, _ := s.Get(ctx, viewer.ID, "s2")
	assert.True(t, got.Stale)
	got, _ = s.Get(ctx, saver.ID, "s1")
	assert.False(t, got.Stale)
	got, _ = s.Get(ctx, other.ID, "s3")
	assert.False(t, got.Stale)

	// Reloading clears the flag.
	got, err = s.Update(ctx, viewer.ID, "s2", func(_ context.Context, w *Workspace, _ func(uow.AfterCommit)) error {
		w.Load(key, plan(), SourceAPI, "")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, got.Stale)
}

func TestDeleteIdle(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	w := New("s1", key, plan(), SourceAPI, "")
	require.NoError(t, s.Create(ctx, w))

	n, err := s.DeleteIdle(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DeleteIdle(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewClonesPlan(t *testing.T) {
	p := plan()
	w := New("s1", key, p, SourceFallback, "sample")
	w.Editor.Plan.Seats[0].Status = domain.SeatOccupied
	assert.Equal(t, domain.SeatAvailable, p.Seats[0].Status)
}
