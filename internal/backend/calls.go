package backend

import (
	"context"
	"fmt"
)

// Pass-through endpoints differ only in path and payload type. These helpers
// keep them to one line each.

func getOne[T any](ctx context.Context, c *Client, ts TokenSource, op string, r request, wrapper string) (T, error) {
	var zero T
	raw, err := c.do(ctx, ts, r)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	if wrapper != "" {
		raw = unwrap(raw, wrapper)
	}
	out, err := decode[T](raw)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func getList[T any](ctx context.Context, c *Client, ts TokenSource, op string, r request, fields ...string) ([]T, error) {
	raw, err := c.do(ctx, ts, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := decodeList[T](raw, fields...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func exec(ctx context.Context, c *Client, ts TokenSource, op string, r request) error {
	if _, err := c.do(ctx, ts, r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
