// Package workspaces drives open floor plans on behalf of signed-in users:
// loading plans from the API (or the bundled fallback), applying editor and
// booking-dialog interactions, and saving edits back.
package workspaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/events"
	"github.com/kirinyoku/deskgo/internal/fallback"
	"github.com/kirinyoku/deskgo/internal/session"
	"github.com/kirinyoku/deskgo/internal/uow"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

const dateLayout = "2006-01-02"

type API interface {
	FloorPlan(ctx context.Context, ts backend.TokenSource, key domain.FloorKey) (*domain.FloorPlan, error)
	SaveFloorPlan(ctx context.Context, ts backend.TokenSource, payload domain.SavePayload) error
	CreateBooking(ctx context.Context, ts backend.TokenSource, in domain.BookingRequest) (domain.Booking, error)
}

type PlanCache interface {
	FloorPlan(
		ctx context.Context,
		k domain.FloorKey,
		ttl time.Duration,
		loader func(ctx context.Context) (*domain.FloorPlan, error),
	) (*domain.FloorPlan, error)
	InvalidateFloor(ctx context.Context, k domain.FloorKey) error
}

// Notifier tells other instances that a floor's plan changed.
type Notifier interface {
	PublishFloorPlanChanged(ctx context.Context, k domain.FloorKey, origin string) error
}

type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

type Events interface {
	BookingCreated(ctx context.Context, ev events.BookingCreated) error
	FloorPlanSaved(ctx context.Context, ev events.FloorPlanSaved) error
}

type Config struct {
	// FloorPlanCacheTTL is how long fetched plans are shared between users.
	FloorPlanCacheTTL time.Duration
	// IdleTTL is how long an untouched workspace survives the janitor.
	IdleTTL time.Duration
}

// Deps groups the optional collaborators. Nil fields disable the feature.
type Deps struct {
	Cache    PlanCache
	Notifier Notifier
	Locks    Locker
	Events   Events
}

type Service struct {
	api    API
	store  workspace.Store
	deps   Deps
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

func New(api API, store workspace.Store, deps Deps, cfg Config, logger *slog.Logger) *Service {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}

	return &Service{
		api:    api,
		store:  store,
		deps:   deps,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// NormalizeKey checks k and fills in today's date when it has none.
func (s *Service) NormalizeKey(k domain.FloorKey) (domain.FloorKey, error) {
	if k.Building == "" || k.Office == "" || k.Floor == "" {
		return k, ErrInvalidFloor
	}
	if k.Date == "" {
		k.Date = s.now().Format(dateLayout)
		return k, nil
	}
	if _, err := time.Parse(dateLayout, k.Date); err != nil {
		return k, ErrInvalidDate
	}
	return k, nil
}

// Open loads the plan for key and starts a new workspace for the session.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sess: the caller's session, used for API credentials and ownership.
//   - key: building, office, floor and date to show.
//
// Returns:
//   - *workspace.Workspace: the stored workspace.
//   - error: ErrInvalidFloor, ErrInvalidDate, backend.ErrSessionExpired.
func (s *Service) Open(ctx context.Context, sess *session.Session, key domain.FloorKey) (*workspace.Workspace, error) {
	const op = "service.workspaces.Open"

	key, err := s.NormalizeKey(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plan, src, notice, err := s.fetch(ctx, sess, key, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w := workspace.New(sess.ID, key, plan, src, notice)
	if err := s.store.Create(ctx, w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.InfoContext(ctx, "workspace opened",
		slog.String("workspace_id", w.ID.String()),
		slog.String("building", key.Building),
		slog.String("floor", key.Floor),
		slog.String("source", string(src)),
	)
	return w, nil
}

func (s *Service) Get(ctx context.Context, sess *session.Session, id uuid.UUID) (*workspace.Workspace, error) {
	const op = "service.workspaces.Get"

	w, err := s.store.Get(ctx, id, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

// Reload fetches the plan again from the API, bypassing the shared cache,
// optionally for a different key. Fields of change that are empty keep their
// current value. Edits that were not saved
// are discarded and the dialog is closed.
func (s *Service) Reload(ctx context.Context, sess *session.Session, id uuid.UUID, change domain.FloorKey) (*workspace.Workspace, error) {
	const op = "service.workspaces.Reload"

	cur, err := s.store.Get(ctx, id, sess.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := merge(cur.Key, change)
	if key, err = s.NormalizeKey(key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plan, src, notice, err := s.fetch(ctx, sess, key, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w, err := s.store.Update(ctx, id, sess.ID, func(_ context.Context, w *workspace.Workspace, _ func(uow.AfterCommit)) error {
		w.Load(key, plan, src, notice)
		w.Dialog.Close()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func (s *Service) Close(ctx context.Context, sess *session.Session, id uuid.UUID) error {
	const op = "service.workspaces.Close"

	if err := s.store.Delete(ctx, id, sess.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// fetch loads the plan for key. When every API endpoint fails the bundled
// sample plan is returned together with a notice. Session expiry is never
// masked by the fallback.
func (s *Service) fetch(
	ctx context.Context,
	sess *session.Session,
	key domain.FloorKey,
	fresh bool,
) (domain.FloorPlan, workspace.Source, string, error) {
	var ran bool
	loader := func(ctx context.Context) (*domain.FloorPlan, error) {
		ran = true
		return s.api.FloorPlan(ctx, sess, key)
	}

	var (
		plan *domain.FloorPlan
		err  error
	)
	if s.deps.Cache != nil && !fresh {
		plan, err = s.deps.Cache.FloorPlan(ctx, key, s.cfg.FloorPlanCacheTTL, loader)
		// A concurrent load made with another user's credentials says nothing
		// about this session.
		if !ran && sessionScoped(err) {
			plan, err = loader(ctx)
		}
	} else {
		plan, err = loader(ctx)
	}

	switch {
	case err == nil:
		return *plan, workspace.SourceAPI, "", nil
	case errors.Is(err, backend.ErrUnavailable):
		s.logger.WarnContext(ctx, "floor plan unavailable, using fallback",
			slog.String("building", key.Building),
			slog.String("floor", key.Floor),
			slog.String("error", err.Error()),
		)
		fb, ferr := fallback.Load()
		if ferr != nil {
			return domain.FloorPlan{}, "", "", errors.Join(err, ferr)
		}
		return *fb, workspace.SourceFallback, fallback.Notice, nil
	default:
		return domain.FloorPlan{}, "", "", err
	}
}

func sessionScoped(err error) bool {
	return errors.Is(err, backend.ErrSessionExpired) || errors.Is(err, backend.ErrNoSession)
}

func (s *Service) invalidate(ctx context.Context, key domain.FloorKey) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.InvalidateFloor(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "floor plan cache invalidation failed", slog.String("error", err.Error()))
	}
}

// mutate applies fn to the stored workspace.
func (s *Service) mutate(
	ctx context.Context,
	op string,
	sess *session.Session,
	id uuid.UUID,
	fn func(w *workspace.Workspace) error,
) (*workspace.Workspace, error) {
	w, err := s.store.Update(ctx, id, sess.ID, func(_ context.Context, w *workspace.Workspace, _ func(uow.AfterCommit)) error {
		return fn(w)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

func requireAdmin(sess *session.Session) error {
	if !sess.User.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func merge(cur, change domain.FloorKey) domain.FloorKey {
	if change.Building != "" {
		cur.Building = change.Building
	}
	if change.Office != "" {
		cur.Office = change.Office
	}
	if change.Floor != "" {
		cur.Floor = change.Floor
	}
	if change.Date != "" {
		cur.Date = change.Date
	}
	return cur
}
