package bookings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/booking"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/session"
)

var ErrEmptyUpdate = errors.New("nothing to update")

type API interface {
	Bookings(ctx context.Context, ts backend.TokenSource, f domain.BookingFilter) ([]domain.Booking, error)
	MyBookings(ctx context.Context, ts backend.TokenSource) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, ts backend.TokenSource, id string, in domain.BookingUpdate) (domain.Booking, error)
	DeleteBooking(ctx context.Context, ts backend.TokenSource, id string) error
}

// PlanCache drops shared floor plans whose seat status a booking change made
// stale.
type PlanCache interface {
	InvalidateFloorPlans(ctx context.Context) error
}

type Service struct {
	api    API
	plans  PlanCache
	logger *slog.Logger
	now    func() time.Time
}

// New returns the bookings service. plans may be nil.
func New(api API, plans PlanCache, logger *slog.Logger) *Service {
	return &Service{api: api, plans: plans, logger: logger, now: time.Now}
}

func (s *Service) Mine(ctx context.Context, sess *session.Session) ([]domain.Booking, error) {
	const op = "service.bookings.Mine"

	bs, err := s.api.MyBookings(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bs, nil
}

// Dashboard groups the user's bookings into today, upcoming and history.
func (s *Service) Dashboard(ctx context.Context, sess *session.Session) (domain.Dashboard, error) {
	const op = "service.bookings.Dashboard"

	bs, err := s.api.MyBookings(ctx, sess)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("%s: %w", op, err)
	}
	return booking.GroupDashboard(bs, s.now()), nil
}

// List returns every booking matching f. Only administrators see bookings
// of other users; the API enforces this.
func (s *Service) List(ctx context.Context, sess *session.Session, f domain.BookingFilter) ([]domain.Booking, error) {
	const op = "service.bookings.List"

	bs, err := s.api.Bookings(ctx, sess, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bs, nil
}

func (s *Service) Update(ctx context.Context, sess *session.Session, id string, in domain.BookingUpdate) (domain.Booking, error) {
	const op = "service.bookings.Update"

	if in == (domain.BookingUpdate{}) {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, ErrEmptyUpdate)
	}

	b, err := s.api.UpdateBooking(ctx, sess, id, in)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidatePlans(ctx)
	return b, nil
}

func (s *Service) Cancel(ctx context.Context, sess *session.Session, id string) error {
	const op = "service.bookings.Cancel"

	if err := s.api.DeleteBooking(ctx, sess, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidatePlans(ctx)
	s.logger.InfoContext(ctx, "booking cancelled",
		slog.String("booking_id", id),
		slog.String("user_id", sess.User.ID),
	)
	return nil
}

func (s *Service) invalidatePlans(ctx context.Context) {
	if s.plans == nil {
		return
	}
	if err := s.plans.InvalidateFloorPlans(ctx); err != nil {
		s.logger.WarnContext(ctx, "floor plan cache invalidation failed", slog.String("error", err.Error()))
	}
}
