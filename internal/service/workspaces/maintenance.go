package workspaces

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/domain"
	redisrepo "github.com/kirinyoku/deskgo/internal/repository/redis"
)

// FloorPlanChanged marks every other workspace showing the saved floor as
// stale. It is the handler for the floor-plan change channel.
func (s *Service) FloorPlanChanged(ctx context.Context, msg redisrepo.FloorPlanChanged) {
	origin, err := uuid.Parse(msg.Origin)
	if err != nil {
		origin = uuid.Nil
	}

	key := domain.FloorKey{Building: msg.Building, Office: msg.Office, Floor: msg.Floor}
	n, err := s.store.MarkStale(ctx, key, origin)
	if err != nil {
		s.logger.ErrorContext(ctx, "mark workspaces stale", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "workspaces marked stale",
			slog.String("building", key.Building),
			slog.String("floor", key.Floor),
			slog.Int64("count", n),
		)
	}
}

// PurgeIdle deletes workspaces untouched for longer than the idle TTL.
func (s *Service) PurgeIdle(ctx context.Context) (int64, error) {
	const op = "service.workspaces.PurgeIdle"

	n, err := s.store.DeleteIdle(ctx, s.now().Add(-s.cfg.IdleTTL))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// RunJanitor calls PurgeIdle every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n, err := s.PurgeIdle(ctx)
			if err != nil {
				s.logger.ErrorContext(ctx, "purge idle workspaces", slog.String("error", err.Error()))
				continue
			}
			if n > 0 {
				s.logger.InfoContext(ctx, "purged idle workspaces", slog.Int64("count", n))
			}
		}
	}
}
