package backend

import (
	"context"
	"net/http"

	"github.com/kirinyoku/deskgo/internal/domain"
)

type ResourceQuery struct {
	Category string
	Location string
}

func (c *Client) Resources(ctx context.Context, ts TokenSource, q ResourceQuery) ([]domain.Resource, error) {
	return getList[domain.Resource](ctx, c, ts, "backend.Client.Resources", request{
		method: http.MethodGet,
		path:   "/api/resources",
		query:  []param{{"category", q.Category}, {"location", q.Location}},
	}, "resources")
}

func (c *Client) SearchResources(ctx context.Context, ts TokenSource, text string) ([]domain.Resource, error) {
	return getList[domain.Resource](ctx, c, ts, "backend.Client.SearchResources", request{
		method: http.MethodGet,
		path:   "/api/resources/search",
		query:  []param{{"q", text}},
	}, "resources")
}

func (c *Client) PopularResources(ctx context.Context, ts TokenSource) ([]domain.Resource, error) {
	return getList[domain.Resource](ctx, c, ts, "backend.Client.PopularResources", request{
		method: http.MethodGet,
		path:   "/api/resources/popular",
	}, "resources")
}

func (c *Client) ResourceCategories(ctx context.Context, ts TokenSource) ([]string, error) {
	return getList[string](ctx, c, ts, "backend.Client.ResourceCategories", request{
		method: http.MethodGet,
		path:   "/api/resources/categories",
	}, "categories")
}

func (c *Client) ResourceLocations(ctx context.Context, ts TokenSource) ([]string, error) {
	return getList[string](ctx, c, ts, "backend.Client.ResourceLocations", request{
		method: http.MethodGet,
		path:   "/api/resources/locations",
	}, "locations")
}

func (c *Client) CreateResource(ctx context.Context, ts TokenSource, r domain.Resource) (domain.Resource, error) {
	return getOne[domain.Resource](ctx, c, ts, "backend.Client.CreateResource", request{
		method: http.MethodPost,
		path:   "/api/resources",
		body:   r,
	}, "resource")
}

func (c *Client) UpdateResource(ctx context.Context, ts TokenSource, r domain.Resource) (domain.Resource, error) {
	return getOne[domain.Resource](ctx, c, ts, "backend.Client.UpdateResource", request{
		method: http.MethodPut,
		path:   "/api/resources/" + escape(r.ID),
		body:   r,
	}, "resource")
}

func (c *Client) DeleteResource(ctx context.Context, ts TokenSource, id string) error {
	return exec(ctx, c, ts, "backend.Client.DeleteResource", request{
		method: http.MethodDelete,
		path:   "/api/resources/" + escape(id),
	})
}

func (c *Client) BookResource(ctx context.Context, ts TokenSource, id string, in domain.ResourceBookingRequest) (domain.Booking, error) {
	return getOne[domain.Booking](ctx, c, ts, "backend.Client.BookResource", request{
		method: http.MethodPost,
		path:   "/api/resources/" + escape(id) + "/book",
		body:   in,
	}, "booking")
}

func (c *Client) ResourceAvailability(ctx context.Context, ts TokenSource, id, date string) (domain.Availability, error) {
	a, err := getOne[domain.Availability](ctx, c, ts, "backend.Client.ResourceAvailability", request{
		method: http.MethodGet,
		path:   "/api/resources/" + escape(id) + "/availability",
		query:  []param{{"date", date}},
	}, "availability")
	if err != nil {
		return a, err
	}
	if a.ID == "" {
		a.ID = id
	}
	if a.Date == "" {
		a.Date = date
	}
	return a, nil
}
