package workspaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/booking"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/events"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	"github.com/kirinyoku/deskgo/internal/session"
	"github.com/kirinyoku/deskgo/internal/uow"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

// OpenDialog opens the booking dialog for a seat, or the seat editor in edit
// mode.
func (s *Service) OpenDialog(ctx context.Context, sess *session.Session, id uuid.UUID, seatID string) (*workspace.Workspace, error) {
	const op = "service.workspaces.OpenDialog"

	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		seat, ok := w.Editor.Seat(seatID)
		if !ok {
			return floorplan.ErrUnknownEntity
		}
		return w.Dialog.Open(seat, w.Key.Date, w.Editor.EditMode)
	})
}

func (s *Service) UpdateDialog(ctx context.Context, sess *session.Session, id uuid.UUID, f booking.Form) (*workspace.Workspace, error) {
	const op = "service.workspaces.UpdateDialog"

	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		return w.Dialog.Update(f)
	})
}

func (s *Service) CloseDialog(ctx context.Context, sess *session.Session, id uuid.UUID) (*workspace.Workspace, error) {
	const op = "service.workspaces.CloseDialog"

	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		w.Dialog.Close()
		return nil
	})
}

// SubmitDialog books the dialog's seat. The dialog is Submitting while the API
// call runs, so a second submit is refused. On success the dialog closes and
// the plan is reloaded to show the new seat status; on failure the dialog
// stays open with the API's message and the error is returned.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sess: the caller's session.
//   - id: the workspace whose dialog is submitted.
//
// Returns:
//   - *workspace.Workspace: the workspace after the attempt.
//   - domain.Booking: the created booking on success.
//   - error: booking.ValidationError, booking.ErrSubmitting, or the API error.
func (s *Service) SubmitDialog(ctx context.Context, sess *session.Session, id uuid.UUID) (*workspace.Workspace, domain.Booking, error) {
	const op = "service.workspaces.SubmitDialog"

	var (
		req domain.BookingRequest
		key domain.FloorKey
	)
	_, err := s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		var err error
		req, err = w.Dialog.Begin(w.Key, sess.User.ID)
		key = w.Key
		return err
	})
	if err != nil {
		return nil, domain.Booking{}, err
	}

	created, bookErr := s.api.CreateBooking(ctx, sess, req)

	var (
		plan   domain.FloorPlan
		src    workspace.Source
		notice string
		reload error
	)
	if bookErr == nil {
		s.invalidate(ctx, key)
		plan, src, notice, reload = s.fetch(ctx, sess, key, true)
		if reload != nil {
			s.logger.WarnContext(ctx, "reload after booking failed",
				slog.String("workspace_id", id.String()),
				slog.String("error", reload.Error()),
			)
		}
	}

	// The API call is not bound to the request once it has been made.
	ctx = context.WithoutCancel(ctx)
	w, err := s.store.Update(ctx, id, sess.ID, func(_ context.Context, w *workspace.Workspace, after func(uow.AfterCommit)) error {
		// The dialog may have been closed, or the plan reloaded, meanwhile.
		if w.Dialog.State != booking.Submitting || w.Dialog.SeatID != req.SubType {
			return nil
		}
		if bookErr != nil {
			w.Dialog.Fail(backend.Message(bookErr))
			return nil
		}

		w.Dialog.Succeed()
		if reload == nil && w.Key == key {
			w.Load(key, plan, src, notice)
		}
		after(func(ctx context.Context) {
			s.bookingCreated(ctx, created, req)
		})
		return nil
	})
	if err != nil {
		return nil, domain.Booking{}, fmt.Errorf("%s: %w", op, errors.Join(bookErr, err))
	}
	if bookErr != nil {
		return w, domain.Booking{}, fmt.Errorf("%s: %w", op, bookErr)
	}

	s.logger.InfoContext(ctx, "seat booked",
		slog.String("booking_id", created.ID),
		slog.String("seat_id", req.SubType),
		slog.String("user_id", sess.User.ID),
	)
	return w, created, nil
}

func (s *Service) bookingCreated(ctx context.Context, b domain.Booking, req domain.BookingRequest) {
	if s.deps.Events == nil {
		return
	}
	ev := events.BookingCreated{
		BookingID: b.ID,
		UserID:    req.UserID,
		SeatID:    req.SubType,
		Building:  req.Building,
		Office:    req.Office,
		Floor:     req.Floor,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		At:        s.now().UTC(),
	}
	if err := s.deps.Events.BookingCreated(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "publish booking created event", slog.String("error", err.Error()))
	}
}
