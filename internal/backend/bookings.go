package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kirinyoku/deskgo/internal/domain"
)

func (c *Client) CreateBooking(ctx context.Context, ts TokenSource, in domain.BookingRequest) (domain.Booking, error) {
	const op = "backend.Client.CreateBooking"

	raw, err := c.do(ctx, ts, request{method: http.MethodPost, path: "/api/bookings", body: in})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	b, err := decodeBooking(raw)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	if b.SeatID == "" {
		b.SeatID = in.SubType
	}
	return b, nil
}

// Bookings lists all bookings visible to the caller. Admins see everyone's.
func (c *Client) Bookings(ctx context.Context, ts TokenSource, f domain.BookingFilter) ([]domain.Booking, error) {
	const op = "backend.Client.Bookings"

	raw, err := c.do(ctx, ts, request{
		method: http.MethodGet,
		path:   "/api/bookings",
		query:  []param{{"date", f.Date}, {"seatId", f.SeatID}, {"status", f.Status}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeList[domain.Booking](raw, "bookings")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (c *Client) MyBookings(ctx context.Context, ts TokenSource) ([]domain.Booking, error) {
	const op = "backend.Client.MyBookings"

	raw, err := c.do(ctx, ts, request{method: http.MethodGet, path: "/api/bookings/my-bookings"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeList[domain.Booking](raw, "bookings")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (c *Client) UpdateBooking(ctx context.Context, ts TokenSource, id string, in domain.BookingUpdate) (domain.Booking, error) {
	const op = "backend.Client.UpdateBooking"

	raw, err := c.do(ctx, ts, request{method: http.MethodPut, path: "/api/bookings/" + escape(id), body: in})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	b, err := decodeBooking(raw)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (c *Client) DeleteBooking(ctx context.Context, ts TokenSource, id string) error {
	const op = "backend.Client.DeleteBooking"

	if _, err := c.do(ctx, ts, request{method: http.MethodDelete, path: "/api/bookings/" + escape(id)}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func decodeBooking(raw json.RawMessage) (domain.Booking, error) {
	return decode[domain.Booking](unwrap(raw, "booking"))
}
