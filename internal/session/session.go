// Package session keeps the backend credentials of one signed-in user on the
// server side. A Session is loaded from a Store at the start of a request,
// handed to the backend client as its TokenSource, and written back (or
// deleted) at the end.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/domain"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

type Session struct {
	ID           string      `json:"id"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         domain.User `json:"user"`
	CreatedAt    time.Time   `json:"created_at"`
	// ExpiresAt is the access token's exp claim, zero when it has none.
	ExpiresAt time.Time `json:"expires_at"`

	mu      sync.Mutex
	dirty   bool
	cleared bool
}

// New starts a session for a successful login.
func New(res domain.AuthResult, now time.Time) *Session {
	s := &Session{
		ID:           uuid.NewString(),
		RefreshToken: res.RefreshToken,
		User:         res.User,
		CreatedAt:    now,
		dirty:        true,
	}
	s.setAccess(res.Token)
	return s
}

func (s *Session) Tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.AccessToken, s.RefreshToken
}

func (s *Session) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setAccess(access)
	s.RefreshToken = refresh
	s.dirty = true
}

// SetUser replaces the cached profile, keeping the role carried by the token.
func (s *Session) SetUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, err := ReadClaims(s.AccessToken); err == nil && c.Role != "" {
		u.Role = c.Role
	}
	s.User = u
	s.dirty = true
}

// Clear drops the credentials. The session is deleted from the store when the
// request ends.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AccessToken = ""
	s.RefreshToken = ""
	s.cleared = true
}

func (s *Session) Cleared() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cleared
}

func (s *Session) setAccess(token string) {
	s.AccessToken = token
	s.ExpiresAt = time.Time{}
	c, err := ReadClaims(token)
	if err != nil {
		return
	}
	s.ExpiresAt = c.ExpiresAt
	if c.Role != "" {
		s.User.Role = c.Role
	}
	if s.User.ID == "" {
		s.User.ID = c.Subject
	}
}

// Persist writes s back to store when it changed during the request, or
// deletes it when it was cleared.
func Persist(ctx context.Context, store Store, s *Session) error {
	s.mu.Lock()
	cleared, dirty := s.cleared, s.dirty
	s.dirty = false
	s.mu.Unlock()

	switch {
	case cleared:
		return store.Delete(ctx, s.ID)
	case dirty:
		return store.Save(ctx, s)
	}
	return nil
}
