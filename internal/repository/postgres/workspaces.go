package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kirinyoku/deskgo/internal/repository"
)

// WorkspaceRecord is one row of the workspaces table. State is the
// workspace's editor and dialog, stored as jsonb.
type WorkspaceRecord struct {
	ID        uuid.UUID
	SessionID string
	Building  string
	Office    string
	Floor     string
	Date      string
	State     []byte
	Stale     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WorkspaceRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *WorkspaceRepo) With(db DB) *WorkspaceRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *WorkspaceRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const workspaceColumns = `id, session_id, building, office, floor, date, state, stale, created_at, updated_at`

func scanWorkspace(row pgx.Row) (WorkspaceRecord, error) {
	var w WorkspaceRecord
	err := row.Scan(
		&w.ID, &w.SessionID, &w.Building, &w.Office, &w.Floor, &w.Date,
		&w.State, &w.Stale, &w.CreatedAt, &w.UpdatedAt,
	)
	return w, err
}

func (r *WorkspaceRepo) Insert(ctx context.Context, w WorkspaceRecord) error {
	const op = "postgres.WorkspaceRepo.Insert"

	_, err := r.handle().Exec(ctx, `
		INSERT INTO workspaces (id, session_id, building, office, floor, date, state, stale)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.SessionID, w.Building, w.Office, w.Floor, w.Date, w.State, w.Stale,
	)
	return wrapDBErr(op, err)
}

// Get returns the workspace owned by sessionID. Someone else's workspace is
// reported as repository.ErrNotFound.
func (r *WorkspaceRepo) Get(ctx context.Context, id uuid.UUID, sessionID string) (WorkspaceRecord, error) {
	const op = "postgres.WorkspaceRepo.Get"

	w, err := scanWorkspace(r.handle().QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1 AND session_id = $2`,
		id, sessionID,
	))
	if err != nil {
		return WorkspaceRecord{}, wrapDBErr(op, err)
	}
	return w, nil
}

// GetForUpdate is Get with the row locked until the surrounding transaction
// ends. It must run inside a transaction.
func (r *WorkspaceRepo) GetForUpdate(ctx context.Context, id uuid.UUID, sessionID string) (WorkspaceRecord, error) {
	const op = "postgres.WorkspaceRepo.GetForUpdate"

	w, err := scanWorkspace(r.handle().QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1 AND session_id = $2 FOR UPDATE`,
		id, sessionID,
	))
	if err != nil {
		return WorkspaceRecord{}, wrapDBErr(op, err)
	}
	return w, nil
}

func (r *WorkspaceRepo) Update(ctx context.Context, w WorkspaceRecord) error {
	const op = "postgres.WorkspaceRepo.Update"

	tag, err := r.handle().Exec(ctx, `
		UPDATE workspaces
		   SET building = $2, office = $3, floor = $4, date = $5,
		       state = $6, stale = $7, updated_at = now()
		 WHERE id = $1`,
		w.ID, w.Building, w.Office, w.Floor, w.Date, w.State, w.Stale,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}
	return nil
}

func (r *WorkspaceRepo) Delete(ctx context.Context, id uuid.UUID, sessionID string) error {
	const op = "postgres.WorkspaceRepo.Delete"

	tag, err := r.handle().Exec(ctx,
		`DELETE FROM workspaces WHERE id = $1 AND session_id = $2`, id, sessionID)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}
	return nil
}

// MarkStale flags every open workspace of a floor except the one that caused
// the change.
func (r *WorkspaceRepo) MarkStale(ctx context.Context, building, office, floor string, except uuid.UUID) (int64, error) {
	const op = "postgres.WorkspaceRepo.MarkStale"

	tag, err := r.handle().Exec(ctx, `
		UPDATE workspaces
		   SET stale = true
		 WHERE building = $1 AND office = $2 AND floor = $3
		   AND id <> $4 AND NOT stale`,
		building, office, floor, except,
	)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteIdle removes workspaces not touched since before.
func (r *WorkspaceRepo) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	const op = "postgres.WorkspaceRepo.DeleteIdle"

	tag, err := r.handle().Exec(ctx, `DELETE FROM workspaces WHERE updated_at < $1`, before)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}
	return tag.RowsAffected(), nil
}
