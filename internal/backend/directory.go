package backend

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// Buildings, floors and desks.

func (c *Client) Buildings(ctx context.Context, ts TokenSource) ([]domain.Building, error) {
	return getList[domain.Building](ctx, c, ts, "backend.Client.Buildings", request{
		method: http.MethodGet,
		path:   "/api/buildings",
	}, "buildings")
}

func (c *Client) CreateBuilding(ctx context.Context, ts TokenSource, b domain.Building) (domain.Building, error) {
	return getOne[domain.Building](ctx, c, ts, "backend.Client.CreateBuilding", request{
		method: http.MethodPost,
		path:   "/api/buildings",
		body:   b,
	}, "building")
}

func (c *Client) UpdateBuilding(ctx context.Context, ts TokenSource, b domain.Building) (domain.Building, error) {
	return getOne[domain.Building](ctx, c, ts, "backend.Client.UpdateBuilding", request{
		method: http.MethodPut,
		path:   "/api/buildings/" + escape(b.ID),
		body:   b,
	}, "building")
}

func (c *Client) DeleteBuilding(ctx context.Context, ts TokenSource, id string) error {
	return exec(ctx, c, ts, "backend.Client.DeleteBuilding", request{
		method: http.MethodDelete,
		path:   "/api/buildings/" + escape(id),
	})
}

func (c *Client) Floors(ctx context.Context, ts TokenSource, buildingID string) ([]domain.Floor, error) {
	return getList[domain.Floor](ctx, c, ts, "backend.Client.Floors", request{
		method: http.MethodGet,
		path:   "/api/floors",
		query:  []param{{"buildingId", buildingID}},
	}, "floors")
}

func (c *Client) CreateFloor(ctx context.Context, ts TokenSource, f domain.Floor) (domain.Floor, error) {
	return getOne[domain.Floor](ctx, c, ts, "backend.Client.CreateFloor", request{
		method: http.MethodPost,
		path:   "/api/floors",
		body:   f,
	}, "floor")
}

func (c *Client) UpdateFloor(ctx context.Context, ts TokenSource, f domain.Floor) (domain.Floor, error) {
	return getOne[domain.Floor](ctx, c, ts, "backend.Client.UpdateFloor", request{
		method: http.MethodPut,
		path:   "/api/floors/" + escape(f.ID),
		body:   f,
	}, "floor")
}

func (c *Client) DeleteFloor(ctx context.Context, ts TokenSource, id string) error {
	return exec(ctx, c, ts, "backend.Client.DeleteFloor", request{
		method: http.MethodDelete,
		path:   "/api/floors/" + escape(id),
	})
}

func (c *Client) FloorLayout(ctx context.Context, ts TokenSource, floorID string) (*domain.FloorPlan, error) {
	const op = "backend.Client.FloorLayout"

	raw, err := c.do(ctx, ts, request{method: http.MethodGet, path: "/api/floors/" + escape(floorID) + "/layout"})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := decodeFloorPlan(unwrap(raw, "layout"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}

func (c *Client) SaveFloorLayout(ctx context.Context, ts TokenSource, floorID string, plan domain.FloorPlan) error {
	return exec(ctx, c, ts, "backend.Client.SaveFloorLayout", request{
		method: http.MethodPut,
		path:   "/api/floors/" + escape(floorID) + "/layout",
		body:   plan,
	})
}

func (c *Client) FloorStats(ctx context.Context, ts TokenSource, floorID string) (domain.Stats, error) {
	return getOne[domain.Stats](ctx, c, ts, "backend.Client.FloorStats", request{
		method: http.MethodGet,
		path:   "/api/floors/" + escape(floorID) + "/stats",
	}, "stats")
}

func (c *Client) FloorVersions(ctx context.Context, ts TokenSource, floorID string) ([]domain.FloorVersion, error) {
	return getList[domain.FloorVersion](ctx, c, ts, "backend.Client.FloorVersions", request{
		method: http.MethodGet,
		path:   "/api/floors/" + escape(floorID) + "/versions",
	}, "versions")
}

func (c *Client) RestoreFloorVersion(ctx context.Context, ts TokenSource, floorID string, version int) error {
	return exec(ctx, c, ts, "backend.Client.RestoreFloorVersion", request{
		method: http.MethodPost,
		path:   "/api/floors/" + escape(floorID) + "/versions/" + strconv.Itoa(version) + "/restore",
	})
}

func (c *Client) Desks(ctx context.Context, ts TokenSource, floorID string) ([]domain.Desk, error) {
	return getList[domain.Desk](ctx, c, ts, "backend.Client.Desks", request{
		method: http.MethodGet,
		path:   "/api/desks",
		query:  []param{{"floorId", floorID}},
	}, "desks")
}

func (c *Client) CreateDesk(ctx context.Context, ts TokenSource, d domain.Desk) (domain.Desk, error) {
	return getOne[domain.Desk](ctx, c, ts, "backend.Client.CreateDesk", request{
		method: http.MethodPost,
		path:   "/api/desks",
		body:   d,
	}, "desk")
}

func (c *Client) UpdateDesk(ctx context.Context, ts TokenSource, d domain.Desk) (domain.Desk, error) {
	return getOne[domain.Desk](ctx, c, ts, "backend.Client.UpdateDesk", request{
		method: http.MethodPut,
		path:   "/api/desks/" + escape(d.ID),
		body:   d,
	}, "desk")
}

func (c *Client) DeleteDesk(ctx context.Context, ts TokenSource, id string) error {
	return exec(ctx, c, ts, "backend.Client.DeleteDesk", request{
		method: http.MethodDelete,
		path:   "/api/desks/" + escape(id),
	})
}
