package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/domain"
	postgresrepo "github.com/kirinyoku/deskgo/internal/repository/postgres"
	"github.com/kirinyoku/deskgo/internal/uow"
)

// MemStore keeps workspaces in process memory, encoded the same way PGStore
// stores them. It backs single-instance deployments without Postgres.
type MemStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]postgresrepo.WorkspaceRecord
}

func NewMemStore() *MemStore {
	return &MemStore{rows: make(map[uuid.UUID]postgresrepo.WorkspaceRecord)}
}

func (s *MemStore) Create(_ context.Context, w *Workspace) error {
	rec, err := toRecord(w)
	if err != nil {
		return fmt.Errorf("workspace.MemStore.Create: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[w.ID] = rec
	return nil
}

func (s *MemStore) Get(_ context.Context, id uuid.UUID, sessionID string) (*Workspace, error) {
	s.mu.Lock()
	rec, ok := s.rows[id]
	s.mu.Unlock()
	if !ok || rec.SessionID != sessionID {
		return nil, fmt.Errorf("workspace.MemStore.Get: %w", ErrNotFound)
	}
	return fromRecord(rec)
}

// Update holds the store lock for the whole of fn, so updates are serialized
// across all workspaces, not just per workspace.
func (s *MemStore) Update(ctx context.Context, id uuid.UUID, sessionID string, fn UpdateFunc) (*Workspace, error) {
	const op = "workspace.MemStore.Update"

	var hooks []uow.AfterCommit
	w, err := func() (*Workspace, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		rec, ok := s.rows[id]
		if !ok || rec.SessionID != sessionID {
			return nil, ErrNotFound
		}
		w, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		if err := fn(ctx, w, func(h uow.AfterCommit) { hooks = append(hooks, h) }); err != nil {
			return nil, err
		}
		w.UpdatedAt = time.Now().UTC()
		rec, err = toRecord(w)
		if err != nil {
			return nil, err
		}
		s.rows[id] = rec
		return w, nil
	}()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, h := range hooks {
		h(ctx)
	}
	return w, nil
}

func (s *MemStore) Delete(_ context.Context, id uuid.UUID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok || rec.SessionID != sessionID {
		return fmt.Errorf("workspace.MemStore.Delete: %w", ErrNotFound)
	}
	delete(s.rows, id)
	return nil
}

func (s *MemStore) MarkStale(_ context.Context, key domain.FloorKey, except uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, rec := range s.rows {
		if id == except || rec.Stale {
			continue
		}
		if rec.Building == key.Building && rec.Office == key.Office && rec.Floor == key.Floor {
			rec.Stale = true
			s.rows[id] = rec
			n++
		}
	}
	return n, nil
}

func (s *MemStore) DeleteIdle(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, rec := range s.rows {
		if rec.UpdatedAt.Before(before) {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}
