package backend

import (
	"context"
	"net/http"

	"github.com/kirinyoku/deskgo/internal/domain"
)

func (c *Client) Users(ctx context.Context, ts TokenSource) ([]domain.User, error) {
	return getList[domain.User](ctx, c, ts, "backend.Client.Users", request{
		method: http.MethodGet,
		path:   "/api/users",
	}, "users")
}

func (c *Client) CreateUser(ctx context.Context, ts TokenSource, in domain.UserInput) (domain.User, error) {
	return getOne[domain.User](ctx, c, ts, "backend.Client.CreateUser", request{
		method: http.MethodPost,
		path:   "/api/users",
		body:   in,
	}, "user")
}

func (c *Client) UpdateUser(ctx context.Context, ts TokenSource, id string, in domain.UserInput) (domain.User, error) {
	return getOne[domain.User](ctx, c, ts, "backend.Client.UpdateUser", request{
		method: http.MethodPut,
		path:   "/api/users/" + escape(id),
		body:   in,
	}, "user")
}

func (c *Client) DeleteUser(ctx context.Context, ts TokenSource, id string) error {
	return exec(ctx, c, ts, "backend.Client.DeleteUser", request{
		method: http.MethodDelete,
		path:   "/api/users/" + escape(id),
	})
}

// SetUserActive calls the activate or deactivate endpoint.
func (c *Client) SetUserActive(ctx context.Context, ts TokenSource, id string, active bool) error {
	action := "/deactivate"
	if active {
		action = "/activate"
	}
	return exec(ctx, c, ts, "backend.Client.SetUserActive", request{
		method: http.MethodPost,
		path:   "/api/users/" + escape(id) + action,
	})
}

func (c *Client) Roles(ctx context.Context, ts TokenSource) ([]domain.RoleInfo, error) {
	return getList[domain.RoleInfo](ctx, c, ts, "backend.Client.Roles", request{
		method: http.MethodGet,
		path:   "/api/users/roles",
	}, "roles")
}
