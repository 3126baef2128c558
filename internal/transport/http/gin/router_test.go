package httpgin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/service"
	"github.com/kirinyoku/deskgo/internal/service/admin"
	"github.com/kirinyoku/deskgo/internal/service/auth"
	"github.com/kirinyoku/deskgo/internal/service/bookings"
	"github.com/kirinyoku/deskgo/internal/service/resources"
	"github.com/kirinyoku/deskgo/internal/service/workspaces"
	"github.com/kirinyoku/deskgo/internal/session"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

type memSessions struct {
	mu   sync.Mutex
	data map[string]*session.Session
}

func snapshot(s *session.Session) *session.Session {
	return &session.Session{
		ID:           s.ID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		User:         s.User,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
	}
}

func (m *memSessions) Get(_ context.Context, id string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.data[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return snapshot(s), nil
}

func (m *memSessions) Save(_ context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[s.ID] = snapshot(s)
	return nil
}

func (m *memSessions) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

func accessToken(t *testing.T, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test"))
	require.NoError(t, err)
	return s
}

const routerPlan = `{"success":true,"data":{"seats":[
{"id":"S1","x":10,"y":10,"rotation":0,"status":"available","type":"desk"},
{"id":"S2","x":30,"y":10,"rotation":0,"status":"occupied","type":"desk"}],
"resources":[],"deskAreas":[],"officeLayout":{"x":0,"y":0,"width":105,"height":55},"floorSymbols":[]}}`

// newTestRouter wires the real services to a fake upstream API that signs
// everybody in with role.
func newTestRouter(t *testing.T, role string) (*gin.Engine, *memSessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	token := accessToken(t, role)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/auth/login":
			_, _ = io.WriteString(w, `{"success":true,"data":{"user":{"id":"u1","email":"a@b.c","name":"Ann"},"token":"`+token+`","refreshToken":"r1"}}`)
		case r.URL.Path == "/api/floorplan":
			_, _ = io.WriteString(w, routerPlan)
		case r.URL.Path == "/api/users":
			_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"not found"}`)
		}
	}))
	t.Cleanup(upstream.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := backend.New(backend.Config{
		BaseURL:          upstream.URL,
		Timeout:          2 * time.Second,
		FloorPlanTimeout: time.Second,
	}, logger)
	sessions := &memSessions{data: map[string]*session.Session{}}

	svcs := &service.Services{
		Auth:       auth.New(api, sessions, nil, logger),
		Workspaces: workspaces.New(api, workspace.NewMemStore(), workspaces.Deps{}, workspaces.Config{}, logger),
		Bookings:   bookings.New(api, nil, logger),
		Resources:  resources.New(api, nil, resources.Config{}, logger),
		Admin:      admin.New(api, nil, logger),
	}
	return NewRouter(svcs, sessions, nil, Options{SessionTTL: time.Hour}, logger), sessions
}

func do(r http.Handler, method, path, sessionID, body string, header ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(sessionHeader, sessionID)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, r http.Handler) string {
	t.Helper()
	rec := do(r, http.MethodPost, "/auth/login", "", `{"email":"a@b.c","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, resp.SessionID, rec.Header().Get(sessionHeader))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), sessionCookie+"="+resp.SessionID)
	return resp.SessionID
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, "user")
	rec := do(r, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSessionRequired(t *testing.T) {
	r, _ := newTestRouter(t, "user")

	rec := do(r, http.MethodGet, "/workspaces/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), codeUnauthenticated)

	rec = do(r, http.MethodGet, "/workspaces/"+uuid.NewString(), "gone", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), codeSessionExpired)
}

func TestLoginValidation(t *testing.T) {
	r, _ := newTestRouter(t, "user")
	rec := do(r, http.MethodPost, "/auth/login", "", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenAndGetWorkspace(t *testing.T) {
	r, _ := newTestRouter(t, "user")
	sid := login(t, r)

	rec := do(r, http.MethodPost, "/workspaces", sid,
		`{"building":"HQ","office":"Berlin","floor":"3","date":"2026-10-19"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var view WorkspaceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "api", view.Source)
	require.Len(t, view.Seats, 2)
	assert.Equal(t, "S1", view.Seats[0].ID)
	assert.Equal(t, domain.SeatAvailable.Color(), view.Seats[0].Color)
	assert.Equal(t, domain.SeatOccupied.Color(), view.Seats[1].Color)
	assert.False(t, view.EditMode)

	rec = do(r, http.MethodGet, "/workspaces/"+view.ID, sid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	rec = do(r, http.MethodGet, "/workspaces/"+view.ID, sid, "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = do(r, http.MethodGet, "/workspaces/"+view.ID+"/floorplan.svg", sid, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "image/svg+xml")
	assert.Contains(t, rec.Body.String(), "<svg")

	rec = do(r, http.MethodGet, "/workspaces/not-a-uuid", sid, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorkspaceInvalidDate(t *testing.T) {
	r, _ := newTestRouter(t, "user")
	sid := login(t, r)

	rec := do(r, http.MethodPost, "/workspaces", sid,
		`{"building":"HQ","office":"Berlin","floor":"3","date":"19.10.2026"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditModeNeedsAdmin(t *testing.T) {
	r, _ := newTestRouter(t, "user")
	sid := login(t, r)

	rec := do(r, http.MethodPost, "/workspaces", sid, `{"building":"HQ","office":"Berlin","floor":"3","date":"2026-10-19"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view WorkspaceView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	rec = do(r, http.MethodPost, "/workspaces/"+view.ID+"/edit-mode", sid, `{"enabled":true}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	r, _ := newTestRouter(t, "user")
	sid := login(t, r)
	rec := do(r, http.MethodGet, "/admin/users", sid, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	r, _ = newTestRouter(t, "admin")
	sid = login(t, r)
	rec = do(r, http.MethodGet, "/admin/users", sid, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestLogoutDropsSession(t *testing.T) {
	r, sessions := newTestRouter(t, "user")
	sid := login(t, r)

	rec := do(r, http.MethodPost, "/auth/logout", sid, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := sessions.Get(context.Background(), sid)
	assert.ErrorIs(t, err, session.ErrNotFound)

	rec = do(r, http.MethodGet, "/auth/me", sid, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
