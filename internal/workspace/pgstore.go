package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/repository"
	postgresrepo "github.com/kirinyoku/deskgo/internal/repository/postgres"
	"github.com/kirinyoku/deskgo/internal/uow"
)

// PGStore keeps workspaces in Postgres. Update locks the row, so concurrent
// interactions with one workspace are applied one after another.
type PGStore struct {
	store *postgresrepo.Store
	uow   *uow.UoW
}

func NewPGStore(store *postgresrepo.Store) *PGStore {
	return &PGStore{store: store, uow: uow.NewUoW(store)}
}

func (s *PGStore) Create(ctx context.Context, w *Workspace) error {
	const op = "workspace.PGStore.Create"

	rec, err := toRecord(w)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.store.Workspaces().Insert(ctx, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID, sessionID string) (*Workspace, error) {
	const op = "workspace.PGStore.Get"

	rec, err := s.store.Workspaces().Get(ctx, id, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFound(err))
	}
	w, err := fromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func (s *PGStore) Update(ctx context.Context, id uuid.UUID, sessionID string, fn UpdateFunc) (*Workspace, error) {
	const op = "workspace.PGStore.Update"

	var out *Workspace
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		repo := s.store.Workspaces().With(tx)

		rec, err := repo.GetForUpdate(ctx, id, sessionID)
		if err != nil {
			return notFound(err)
		}
		w, err := fromRecord(rec)
		if err != nil {
			return err
		}

		if err := fn(ctx, w, after); err != nil {
			return err
		}

		rec, err = toRecord(w)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, rec); err != nil {
			return err
		}
		w.UpdatedAt = time.Now().UTC()
		out = w
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *PGStore) Delete(ctx context.Context, id uuid.UUID, sessionID string) error {
	const op = "workspace.PGStore.Delete"

	if err := s.store.Workspaces().Delete(ctx, id, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, notFound(err))
	}
	return nil
}

func (s *PGStore) MarkStale(ctx context.Context, key domain.FloorKey, except uuid.UUID) (int64, error) {
	const op = "workspace.PGStore.MarkStale"

	n, err := s.store.Workspaces().MarkStale(ctx, key.Building, key.Office, key.Floor, except)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (s *PGStore) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	const op = "workspace.PGStore.DeleteIdle"

	n, err := s.store.Workspaces().DeleteIdle(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
