package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// floorPlanCandidates lists the endpoints a floor plan may be served from, in
// the order they are tried.
func floorPlanCandidates(key domain.FloorKey) []request {
	return []request{
		{
			method: http.MethodGet,
			path:   "/api/floorplan",
			query: []param{
				{"building", key.Building},
				{"office", key.Office},
				{"floor", key.Floor},
				{"date", key.Date},
			},
		},
		{
			method: http.MethodGet,
			path:   "/api/floorplan/" + escape(key.Building) + "/" + escape(key.Office) + "/" + escape(key.Floor),
			query:  []param{{"date", key.Date}},
		},
	}
}

// FloorPlan fetches the plan for key, trying each candidate endpoint in turn
// with its own timeout. When none of them yields a plan it returns an error
// wrapping ErrUnavailable. ErrSessionExpired is returned as is.
func (c *Client) FloorPlan(ctx context.Context, ts TokenSource, key domain.FloorKey) (*domain.FloorPlan, error) {
	const op = "backend.Client.FloorPlan"

	var lastErr error
	for _, r := range floorPlanCandidates(key) {
		r.timeout = c.floorPlanTimeout

		raw, err := c.do(ctx, ts, r)
		if err == nil {
			var plan *domain.FloorPlan
			if plan, err = decodeFloorPlan(raw); err == nil {
				return plan, nil
			}
		}
		if errors.Is(err, ErrSessionExpired) || ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		c.log.Warn("floor plan candidate failed", "path", r.path, "error", err)
		lastErr = err
	}

	return nil, fmt.Errorf("%s: %w: %w", op, ErrUnavailable, lastErr)
}

func (c *Client) SaveFloorPlan(ctx context.Context, ts TokenSource, payload domain.SavePayload) error {
	const op = "backend.Client.SaveFloorPlan"

	if _, err := c.do(ctx, ts, request{
		method: http.MethodPost,
		path:   "/api/floorplan",
		body:   payload,
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
