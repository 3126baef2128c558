package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/domain"
	redisrepo "github.com/kirinyoku/deskgo/internal/repository/redis"
	"github.com/kirinyoku/deskgo/internal/session"
)

var ErrInvalidCredentials = errors.New("email and password are required")

// RateLimitedError is returned when a client made too many login attempts.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("too many login attempts, retry in %s", e.RetryAfter)
}

type API interface {
	Login(ctx context.Context, email, password string) (domain.AuthResult, error)
	Logout(ctx context.Context, ts backend.TokenSource) error
	Refresh(ctx context.Context, ts backend.TokenSource) (domain.AuthResult, error)
	Verify(ctx context.Context, ts backend.TokenSource) (domain.User, error)
	Profile(ctx context.Context, ts backend.TokenSource) (domain.User, error)
}

type Limiter interface {
	Allow(ctx context.Context, id string) (redisrepo.Decision, error)
}

type Service struct {
	api      API
	sessions session.Store
	limiter  Limiter
	logger   *slog.Logger
	now      func() time.Time
}

// New builds the service. limiter may be nil to disable login rate limiting.
func New(api API, sessions session.Store, limiter Limiter, logger *slog.Logger) *Service {
	return &Service{
		api:      api,
		sessions: sessions,
		limiter:  limiter,
		logger:   logger,
		now:      time.Now,
	}
}

// Login exchanges credentials for a new server-side session.
//
// Parameters:
//   - ctx: request-scoped context.
//   - email, password: the user's credentials, passed through to the API.
//   - clientIP: the caller's address, used for rate limiting.
//
// Returns:
//   - *session.Session: the stored session. Its ID goes into the cookie.
//   - error: RateLimitedError, ErrInvalidCredentials or the API's rejection.
func (s *Service) Login(ctx context.Context, email, password, clientIP string) (*session.Session, error) {
	const op = "service.auth.Login"

	if email == "" || password == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if s.limiter != nil && clientIP != "" {
		d, err := s.limiter.Allow(ctx, clientIP)
		if err != nil {
			// A broken limiter must not lock everybody out.
			s.logger.WarnContext(ctx, "login rate limiter failed", slog.String("error", err.Error()))
		} else if !d.Allowed {
			return nil, fmt.Errorf("%s: %w", op, RateLimitedError{RetryAfter: d.RetryAfter})
		}
	}

	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sess := session.New(res, s.now().UTC())
	if err := session.Persist(ctx, s.sessions, sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", sess.User.ID),
		slog.String("role", string(sess.User.Role)),
	)
	return sess, nil
}

// Logout ends the session. The API call is best effort; the local session
// is cleared regardless of its outcome.
func (s *Service) Logout(ctx context.Context, sess *session.Session) {
	if err := s.api.Logout(ctx, sess); err != nil {
		s.logger.WarnContext(ctx, "backend logout failed", slog.String("error", err.Error()))
	}
	sess.Clear()
}

// Refresh rotates the session's tokens and returns the user they belong to.
// The API client stores the new tokens on sess.
func (s *Service) Refresh(ctx context.Context, sess *session.Session) (domain.User, error) {
	const op = "service.auth.Refresh"

	res, err := s.api.Refresh(ctx, sess)
	if err != nil {
		var apiErr *backend.APIError
		if errors.Is(err, backend.ErrNoSession) || (errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized) {
			sess.Clear()
			return domain.User{}, fmt.Errorf("%s: %w", op, backend.ErrSessionExpired)
		}
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if res.User.ID != "" {
		sess.SetUser(res.User)
	}
	return sess.User, nil
}

// Me returns the signed-in user's profile and refreshes the cached copy.
func (s *Service) Me(ctx context.Context, sess *session.Session) (domain.User, error) {
	const op = "service.auth.Me"

	u, err := s.api.Profile(ctx, sess)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	sess.SetUser(u)
	return sess.User, nil
}

func (s *Service) Verify(ctx context.Context, sess *session.Session) (domain.User, error) {
	const op = "service.auth.Verify"

	u, err := s.api.Verify(ctx, sess)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
