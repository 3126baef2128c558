// Package workspace holds the per-user state of one open floor plan: the
// editor (plan, offsets, selection, zoom), the booking dialog and where the
// plan came from. Workspaces outlive a single HTTP request, so every
// interaction loads one, mutates it and stores it back.
package workspace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/booking"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	"github.com/kirinyoku/deskgo/internal/uow"
)

var ErrNotFound = errors.New("workspace not found")

// Source says where the current plan came from.
type Source string

const (
	SourceAPI      Source = "api"
	SourceFallback Source = "fallback"
)

type Workspace struct {
	ID        uuid.UUID
	SessionID string
	Key       domain.FloorKey
	Editor    *floorplan.Editor
	Dialog    booking.Dialog
	Source    Source
	// Notice is an inline message for the user, e.g. that sample data is shown.
	Notice string
	// Stale is set when another workspace saved the same floor.
	Stale     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func New(sessionID string, key domain.FloorKey, plan domain.FloorPlan, src Source, notice string) *Workspace {
	now := time.Now().UTC()
	return &Workspace{
		ID:        uuid.New(),
		SessionID: sessionID,
		Key:       key,
		Editor:    floorplan.NewEditor(plan.Clone()),
		Dialog:    booking.Dialog{State: booking.Closed},
		Source:    src,
		Notice:    notice,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Load replaces the plan with a freshly fetched one and clears the stale flag.
func (w *Workspace) Load(key domain.FloorKey, plan domain.FloorPlan, src Source, notice string) {
	w.Key = key
	w.Editor.Reset(plan.Clone())
	w.Source = src
	w.Notice = notice
	w.Stale = false
}

// UpdateFunc mutates w inside a transaction. Returning an error discards the
// mutation. Hooks passed to after run once the change is committed.
type UpdateFunc func(ctx context.Context, w *Workspace, after func(uow.AfterCommit)) error

type Store interface {
	Create(ctx context.Context, w *Workspace) error
	Get(ctx context.Context, id uuid.UUID, sessionID string) (*Workspace, error)
	Update(ctx context.Context, id uuid.UUID, sessionID string, fn UpdateFunc) (*Workspace, error)
	Delete(ctx context.Context, id uuid.UUID, sessionID string) error
	MarkStale(ctx context.Context, key domain.FloorKey, except uuid.UUID) (int64, error)
	DeleteIdle(ctx context.Context, before time.Time) (int64, error)
}
