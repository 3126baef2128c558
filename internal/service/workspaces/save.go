package workspaces

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/events"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	redisrepo "github.com/kirinyoku/deskgo/internal/repository/redis"
	"github.com/kirinyoku/deskgo/internal/session"
	"github.com/kirinyoku/deskgo/internal/uow"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

const (
	saveLockTTL = time.Minute

	NoticeReloadFailed = "Floor plan saved, but the updated plan could not be loaded. Reload to see the latest version."
)

// Save sends the merged document to the API, then reloads the plan and
// leaves edit mode.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sess: an administrator's session.
//   - id: the workspace to save.
//
// Returns:
//   - *workspace.Workspace: the workspace after the reload.
//   - error: ErrForbidden, ErrSaveInProgress, floorplan.ErrNotEditing or
//     the API's rejection. On error the edits are kept.
func (s *Service) Save(ctx context.Context, sess *session.Session, id uuid.UUID) (*workspace.Workspace, error) {
	const op = "service.workspaces.Save"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.deps.Locks != nil {
		lockKey := redisrepo.KeyIdemSave(id.String())
		ok, err := s.deps.Locks.AcquireLock(ctx, lockKey, saveLockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, ErrSaveInProgress)
		}
		defer func() {
			if err := s.deps.Locks.Release(context.WithoutCancel(ctx), lockKey); err != nil {
				s.logger.WarnContext(ctx, "release save lock", slog.String("error", err.Error()))
			}
		}()
	}

	cur, err := s.store.Get(ctx, id, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !cur.Editor.EditMode {
		return nil, fmt.Errorf("%s: %w", op, floorplan.ErrNotEditing)
	}

	payload, err := cur.Editor.SavePayload(cur.Key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	doc := cur.Editor.Document()

	if err := s.api.SaveFloorPlan(ctx, sess, payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, cur.Key)

	plan, src, notice, fetchErr := s.fetch(ctx, sess, cur.Key, true)
	if fetchErr != nil {
		s.logger.WarnContext(ctx, "reload after save failed",
			slog.String("workspace_id", id.String()),
			slog.String("error", fetchErr.Error()),
		)
	}

	w, err := s.store.Update(ctx, id, sess.ID, func(_ context.Context, w *workspace.Workspace, after func(uow.AfterCommit)) error {
		w.Editor.Commit()
		w.Editor.SetEditMode(false)
		w.Dialog.Close()
		if fetchErr == nil {
			w.Load(w.Key, plan, src, notice)
		} else {
			w.Notice = NoticeReloadFailed
		}

		key := w.Key
		after(func(ctx context.Context) {
			if s.deps.Notifier != nil {
				if err := s.deps.Notifier.PublishFloorPlanChanged(ctx, key, id.String()); err != nil {
					s.logger.WarnContext(ctx, "publish floor plan change", slog.String("error", err.Error()))
				}
			}
			if s.deps.Events != nil {
				ev := events.FloorPlanSaved{
					WorkspaceID: id.String(),
					UserID:      sess.User.ID,
					Building:    key.Building,
					Office:      key.Office,
					Floor:       key.Floor,
					Seats:       len(doc.Seats),
					DeskAreas:   len(doc.DeskAreas),
					Symbols:     len(doc.FloorSymbols),
					At:          s.now().UTC(),
				}
				if err := s.deps.Events.FloorPlanSaved(ctx, ev); err != nil {
					s.logger.WarnContext(ctx, "publish floor plan saved event", slog.String("error", err.Error()))
				}
			}
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.InfoContext(ctx, "floor plan saved",
		slog.String("workspace_id", id.String()),
		slog.String("user_id", sess.User.ID),
		slog.Int("seats", len(doc.Seats)),
	)
	return w, nil
}
