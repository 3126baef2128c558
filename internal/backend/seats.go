package backend

import (
	"context"
	"net/http"

	"github.com/kirinyoku/deskgo/internal/domain"
)

type seatBody struct {
	domain.Seat
	Building string `json:"building,omitempty"`
	Office   string `json:"office,omitempty"`
	Floor    string `json:"floor,omitempty"`
}

func floorParams(key domain.FloorKey) []param {
	return []param{
		{"building", key.Building},
		{"office", key.Office},
		{"floor", key.Floor},
		{"date", key.Date},
	}
}

func (c *Client) Seats(ctx context.Context, ts TokenSource, key domain.FloorKey) ([]domain.Seat, error) {
	return getList[domain.Seat](ctx, c, ts, "backend.Client.Seats", request{
		method: http.MethodGet,
		path:   "/api/seats",
		query:  floorParams(key),
	}, "seats")
}

func (c *Client) CreateSeat(ctx context.Context, ts TokenSource, key domain.FloorKey, s domain.Seat) (domain.Seat, error) {
	return getOne[domain.Seat](ctx, c, ts, "backend.Client.CreateSeat", request{
		method: http.MethodPost,
		path:   "/api/seats",
		body:   seatBody{Seat: s, Building: key.Building, Office: key.Office, Floor: key.Floor},
	}, "seat")
}

func (c *Client) UpdateSeat(ctx context.Context, ts TokenSource, s domain.Seat) (domain.Seat, error) {
	return getOne[domain.Seat](ctx, c, ts, "backend.Client.UpdateSeat", request{
		method: http.MethodPut,
		path:   "/api/seats/" + escape(s.ID),
		body:   s,
	}, "seat")
}

func (c *Client) DeleteSeat(ctx context.Context, ts TokenSource, id string) error {
	return exec(ctx, c, ts, "backend.Client.DeleteSeat", request{
		method: http.MethodDelete,
		path:   "/api/seats/" + escape(id),
	})
}

// SeatAvailability lists the seats of a floor with their status on key.Date.
func (c *Client) SeatAvailability(ctx context.Context, ts TokenSource, key domain.FloorKey) ([]domain.Seat, error) {
	return getList[domain.Seat](ctx, c, ts, "backend.Client.SeatAvailability", request{
		method: http.MethodGet,
		path:   "/api/seats/availability",
		query:  floorParams(key),
	}, "seats")
}

func (c *Client) SearchSeats(ctx context.Context, ts TokenSource, q string, key domain.FloorKey) ([]domain.Seat, error) {
	return getList[domain.Seat](ctx, c, ts, "backend.Client.SearchSeats", request{
		method: http.MethodGet,
		path:   "/api/seats/search",
		query:  append([]param{{"q", q}}, floorParams(key)...),
	}, "seats")
}

func (c *Client) SeatStats(ctx context.Context, ts TokenSource, key domain.FloorKey) (domain.Stats, error) {
	return getOne[domain.Stats](ctx, c, ts, "backend.Client.SeatStats", request{
		method: http.MethodGet,
		path:   "/api/seats/stats",
		query:  floorParams(key),
	}, "stats")
}
