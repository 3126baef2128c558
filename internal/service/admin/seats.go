package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/session"
)

// Seat maintenance outside the floor-plan editor. Every change drops the
// cached plans of the floor and notifies open workspaces.

func (s *Service) Seats(ctx context.Context, sess *session.Session, key domain.FloorKey) ([]domain.Seat, error) {
	const op = "service.admin.Seats"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	seats, err := s.api.Seats(ctx, sess, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return seats, nil
}

func (s *Service) CreateSeat(ctx context.Context, sess *session.Session, key domain.FloorKey, seat domain.Seat) (domain.Seat, error) {
	const op = "service.admin.CreateSeat"

	if err := requireAdmin(sess); err != nil {
		return domain.Seat{}, fmt.Errorf("%s: %w", op, err)
	}
	if key.Building == "" || key.Office == "" || key.Floor == "" {
		return domain.Seat{}, fmt.Errorf("%s: %w: building, office and floor are required", op, ErrInvalidInput)
	}
	if seat.Status == "" {
		seat.Status = domain.SeatAvailable
	}
	if seat.Kind == "" {
		seat.Kind = domain.SeatDesk
	}

	out, err := s.api.CreateSeat(ctx, sess, key, seat)
	if err != nil {
		return domain.Seat{}, fmt.Errorf("%s: %w", op, err)
	}
	s.floorChanged(ctx, key)
	return out, nil
}

func (s *Service) UpdateSeat(ctx context.Context, sess *session.Session, key domain.FloorKey, seat domain.Seat) (domain.Seat, error) {
	const op = "service.admin.UpdateSeat"

	if err := requireAdmin(sess); err != nil {
		return domain.Seat{}, fmt.Errorf("%s: %w", op, err)
	}
	out, err := s.api.UpdateSeat(ctx, sess, seat)
	if err != nil {
		return domain.Seat{}, fmt.Errorf("%s: %w", op, err)
	}
	s.floorChanged(ctx, key)
	return out, nil
}

func (s *Service) DeleteSeat(ctx context.Context, sess *session.Session, key domain.FloorKey, id string) error {
	const op = "service.admin.DeleteSeat"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.api.DeleteSeat(ctx, sess, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.floorChanged(ctx, key)
	return nil
}

func (s *Service) SeatAvailability(ctx context.Context, sess *session.Session, key domain.FloorKey) ([]domain.Seat, error) {
	const op = "service.admin.SeatAvailability"

	seats, err := s.api.SeatAvailability(ctx, sess, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return seats, nil
}

func (s *Service) SearchSeats(ctx context.Context, sess *session.Session, q string, key domain.FloorKey) ([]domain.Seat, error) {
	const op = "service.admin.SearchSeats"

	seats, err := s.api.SearchSeats(ctx, sess, q, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return seats, nil
}

func (s *Service) SeatStats(ctx context.Context, sess *session.Session, key domain.FloorKey) (domain.Stats, error) {
	const op = "service.admin.SeatStats"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st, err := s.api.SeatStats(ctx, sess, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

func (s *Service) floorChanged(ctx context.Context, key domain.FloorKey) {
	if s.floors == nil || key.Building == "" || key.Floor == "" {
		return
	}
	if err := s.floors.InvalidateFloor(ctx, key); err != nil {
		s.logger.WarnContext(ctx, "invalidate floor plan cache", slog.String("error", err.Error()))
	}
	if err := s.floors.PublishFloorPlanChanged(ctx, key, ""); err != nil {
		s.logger.WarnContext(ctx, "publish floor plan change", slog.String("error", err.Error()))
	}
}
