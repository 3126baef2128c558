package backend

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// rotationGrace is how long a spent refresh token still resolves to the pair
// it was exchanged for. Requests of the same session that loaded it before the
// exchange was stored pick up the new pair instead of refreshing again.
const rotationGrace = 30 * time.Second

type rotation struct {
	res domain.AuthResult
	at  time.Time
}

type rotations struct {
	mu sync.Mutex
	m  map[string]rotation
}

func (r *rotations) get(token string, now time.Time) (domain.AuthResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rot, ok := r.m[token]
	if !ok || now.Sub(rot.at) > rotationGrace {
		return domain.AuthResult{}, false
	}
	return rot.res, true
}

func (r *rotations) put(token string, res domain.AuthResult, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		r.m = make(map[string]rotation)
	}
	for k, rot := range r.m {
		if now.Sub(rot.at) > rotationGrace {
			delete(r.m, k)
		}
	}
	r.m[token] = rotation{res: res, at: now}
}

// refresh exchanges ts's refresh token for a new pair and stores it in ts.
// APIs that do not rotate refresh tokens keep the old one.
//
// Concurrent refreshes with the same token share one exchange, and a token
// exchanged moments ago resolves to its result, so a rotating API never sees
// a spent token from a session that is still valid.
func (c *Client) refresh(ctx context.Context, ts TokenSource) (domain.AuthResult, error) {
	_, refreshToken := ts.Tokens()
	if refreshToken == "" {
		return domain.AuthResult{}, ErrNoSession
	}

	if res, ok := c.rotations.get(refreshToken, time.Now()); ok {
		ts.SetTokens(res.Token, res.RefreshToken)
		return res, nil
	}

	v, err, _ := c.refreshes.Do(refreshToken, func() (any, error) {
		res, err := c.exchange(context.WithoutCancel(ctx), refreshToken)
		if err != nil {
			return nil, err
		}
		c.rotations.put(refreshToken, res, time.Now())
		return res, nil
	})
	if err != nil {
		return domain.AuthResult{}, err
	}

	res := v.(domain.AuthResult)
	ts.SetTokens(res.Token, res.RefreshToken)
	return res, nil
}

func (c *Client) exchange(ctx context.Context, refreshToken string) (domain.AuthResult, error) {
	raw, err := c.send(ctx, nil, request{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		body:   map[string]string{"refreshToken": refreshToken},
	})
	if err != nil {
		return domain.AuthResult{}, err
	}
	res, err := decodeAuth(raw)
	if err != nil {
		return domain.AuthResult{}, err
	}
	if res.Token == "" {
		return domain.AuthResult{}, errors.New("backend: refresh returned no access token")
	}
	res.RefreshToken = firstNonEmpty(res.RefreshToken, refreshToken)
	return res, nil
}
