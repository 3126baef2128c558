package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/kirinyoku/deskgo/internal/domain"
)

func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	const op = "backend.Client.Login"

	raw, err := c.do(ctx, nil, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := decodeAuth(raw)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if res.Token == "" {
		return domain.AuthResult{}, fmt.Errorf("%s: %w", op, errors.New("no access token in response"))
	}
	return res, nil
}

// Logout tells the API to revoke the refresh token. ts is cleared whatever
// the API answers.
func (c *Client) Logout(ctx context.Context, ts TokenSource) error {
	const op = "backend.Client.Logout"

	defer ts.Clear()
	_, refresh := ts.Tokens()
	if _, err := c.send(ctx, ts, request{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		body:   map[string]string{"refreshToken": refresh},
	}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) Refresh(ctx context.Context, ts TokenSource) (domain.AuthResult, error) {
	const op = "backend.Client.Refresh"

	res, err := c.refresh(ctx, ts)
	if err != nil {
		return domain.AuthResult{}, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (c *Client) Verify(ctx context.Context, ts TokenSource) (domain.User, error) {
	const op = "backend.Client.Verify"

	raw, err := c.do(ctx, ts, request{method: http.MethodGet, path: "/api/auth/verify"})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	u, err := decodeUser(raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (c *Client) Profile(ctx context.Context, ts TokenSource) (domain.User, error) {
	const op = "backend.Client.Profile"

	raw, err := c.do(ctx, ts, request{method: http.MethodGet, path: "/api/auth/profile"})
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	u, err := decodeUser(raw)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func decodeUser(raw json.RawMessage) (domain.User, error) {
	u, err := decode[domain.User](unwrap(raw, "user"))
	if err != nil {
		return domain.User{}, err
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	return u, nil
}
