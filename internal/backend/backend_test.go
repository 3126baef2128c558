package backend

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokens struct {
	mu      sync.Mutex
	access  string
	refresh string
	cleared bool
}

func (t *tokens) Tokens() (string, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.access, t.refresh
}

func (t *tokens) SetTokens(access, refresh string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.access, t.refresh = access, refresh
}

func (t *tokens) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.access, t.refresh, t.cleared = "", "", true
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:          srv.URL,
		Timeout:          5 * time.Second,
		FloorPlanTimeout: time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

var floorKey = domain.FloorKey{Building: "campus30", Office: "IN10", Floor: "Floor8", Date: "2024-01-15"}

const planBody = `{"seats":[{"id":"D1","x":10,"y":20,"rotation":0,"status":"available","type":"desk"}],
"resources":[],"deskAreas":[],"officeLayout":{"x":0,"y":0,"width":105,"height":55},"floorSymbols":[]}`

func TestFloorPlanPrimaryURL(t *testing.T) {
	var got []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RequestURI())
		assert.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"success":true,"data":`+planBody+`}`)
	}))

	plan, err := c.FloorPlan(context.Background(), &tokens{access: "a1"}, floorKey)
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/floorplan?building=campus30&office=IN10&floor=Floor8&date=2024-01-15"}, got)
	require.Len(t, plan.Seats, 1)
	assert.Equal(t, domain.SeatAvailable, plan.Seats[0].Status)
	assert.Equal(t, "#4caf50", plan.Seats[0].Status.Color())
}

func TestFloorPlanFallsThroughCandidates(t *testing.T) {
	var got []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.URL.RequestURI())
		if r.URL.Path == "/api/floorplan" {
			writeJSON(w, http.StatusNotFound, `{"message":"not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"plan_json":`+jsonString(t, planBody)+`}`)
	}))

	plan, err := c.FloorPlan(context.Background(), &tokens{access: "a1"}, floorKey)
	require.NoError(t, err)
	require.Len(t, plan.Seats, 1)
	assert.Equal(t, []string{
		"/api/floorplan?building=campus30&office=IN10&floor=Floor8&date=2024-01-15",
		"/api/floorplan/campus30/IN10/Floor8?date=2024-01-15",
	}, got)
}

func TestFloorPlanUnavailable(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, `upstream down`)
	}))

	_, err := c.FloorPlan(context.Background(), &tokens{access: "a1"}, floorKey)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestFloorPlanCandidateTimeout(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
			return
		}
		writeJSON(w, http.StatusOK, planBody)
	}))
	c.floorPlanTimeout = 100 * time.Millisecond

	plan, err := c.FloorPlan(context.Background(), &tokens{access: "a1"}, floorKey)
	require.NoError(t, err)
	assert.Len(t, plan.Seats, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRefreshOnceThenRetry(t *testing.T) {
	var refreshes int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/auth/refresh":
			refreshes++
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "r1", body["refreshToken"])
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"accessToken":"a2"}}`)
		case r.Header.Get("Authorization") == "Bearer a2":
			writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":"b1","date":"2024-01-15"}]}`)
		default:
			writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"TOKEN_EXPIRED","message":"expired"}}`)
		}
	}))

	ts := &tokens{access: "a1", refresh: "r1"}
	out, err := c.MyBookings(context.Background(), ts)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 1, refreshes)

	access, refresh := ts.Tokens()
	assert.Equal(t, "a2", access)
	assert.Equal(t, "r1", refresh, "refresh token kept when not rotated")
}

func TestSecondUnauthorizedExpiresSession(t *testing.T) {
	var refreshes int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/refresh" {
			refreshes++
			writeJSON(w, http.StatusOK, `{"token":"a2","refreshToken":"r2"}`)
			return
		}
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"TOKEN_EXPIRED","message":"expired"}}`)
	}))

	ts := &tokens{access: "a1", refresh: "r1"}
	_, err := c.MyBookings(context.Background(), ts)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, refreshes)
	assert.True(t, ts.cleared)
}

func TestConcurrentExpiredCallsShareRefresh(t *testing.T) {
	var refreshes atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/auth/refresh":
			// Refresh tokens rotate: r1 is accepted once.
			if refreshes.Add(1) > 1 {
				writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"INVALID_REFRESH","message":"spent"}}`)
				return
			}
			time.Sleep(50 * time.Millisecond)
			writeJSON(w, http.StatusOK, `{"token":"a2","refreshToken":"r2"}`)
		case r.Header.Get("Authorization") == "Bearer a2":
			writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
		default:
			writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"TOKEN_EXPIRED","message":"expired"}}`)
		}
	}))

	// Each request loads its own copy of the same stored session.
	copies := []*tokens{{access: "a1", refresh: "r1"}, {access: "a1", refresh: "r1"}}
	var wg sync.WaitGroup
	errs := make([]error, len(copies))
	for i, ts := range copies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.MyBookings(context.Background(), ts)
		}()
	}
	wg.Wait()

	late := &tokens{access: "a1", refresh: "r1"}
	_, err := c.MyBookings(context.Background(), late)
	require.NoError(t, err, "a copy loaded before the rotation was stored")

	assert.Equal(t, int32(1), refreshes.Load())
	for i, ts := range append(copies, late) {
		if i < len(errs) {
			require.NoError(t, errs[i])
		}
		access, refresh := ts.Tokens()
		assert.Equal(t, "a2", access)
		assert.Equal(t, "r2", refresh)
		assert.False(t, ts.cleared)
	}
}

func TestPlainUnauthorizedDoesNotRefresh(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEqual(t, "/api/auth/refresh", r.URL.Path)
		writeJSON(w, http.StatusUnauthorized, `{"message":"bad credentials"}`)
	}))

	ts := &tokens{access: "a1", refresh: "r1"}
	_, err := c.Users(context.Background(), ts)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "bad credentials", Message(err))
	assert.False(t, ts.cleared)
}

func TestLoginShapes(t *testing.T) {
	cases := map[string]string{
		"envelope": `{"success":true,"data":{"user":{"id":"u1","email":"a@b.c","role":"admin"},"token":"t","refreshToken":"r"}}`,
		"flat":     `{"user":{"id":"u1","email":"a@b.c","role":"admin"},"accessToken":"t","refresh_token":"r"}`,
		"nested":   `{"success":true,"data":{"user":{"id":"u1","email":"a@b.c","role":"admin"},"tokens":{"accessToken":"t","refreshToken":"r"}}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/login", r.URL.Path)
				assert.Empty(t, r.Header.Get("Authorization"))
				writeJSON(w, http.StatusOK, body)
			}))

			res, err := c.Login(context.Background(), "a@b.c", "pw")
			require.NoError(t, err)
			assert.Equal(t, "t", res.Token)
			assert.Equal(t, "r", res.RefreshToken)
			assert.True(t, res.User.IsAdmin())
		})
	}
}

func TestBookingFailureMessage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"error":"Seat already booked"}`)
	}))

	_, err := c.CreateBooking(context.Background(), &tokens{access: "a1"}, domain.BookingRequest{SubType: "D1"})
	require.Error(t, err)
	assert.Equal(t, "Seat already booked", Message(err))
}

func TestCreateBookingBody(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bookings", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "D1", body["subType"])
		assert.Equal(t, "2024-01-15", body["date"])
		assert.Equal(t, "09:00", body["startTime"])
		assert.Equal(t, "17:00", body["endTime"])
		writeJSON(w, http.StatusCreated, `{"success":true,"data":{"booking":{"id":"b9","date":"2024-01-15"}}}`)
	}))

	b, err := c.CreateBooking(context.Background(), &tokens{access: "a1"}, domain.BookingRequest{
		Type: "desk", SubType: "D1", Date: "2024-01-15", StartTime: "09:00", EndTime: "17:00",
		Recurrence: domain.Recurrence{Kind: domain.RecurrenceNone},
	})
	require.NoError(t, err)
	assert.Equal(t, "b9", b.ID)
	assert.Equal(t, "D1", b.SeatID)
}

func TestListShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare":    `[{"id":"u1"},{"id":"u2"}]`,
		"named":   `{"users":[{"id":"u1"},{"id":"u2"}]}`,
		"wrapped": `{"success":true,"data":{"items":[{"id":"u1"},{"id":"u2"}]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			}))
			users, err := c.Users(context.Background(), &tokens{access: "a1"})
			require.NoError(t, err)
			assert.Len(t, users, 2)
		})
	}
}

func TestRolesAcceptStrings(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":["admin",{"name":"user","description":"regular"}]}`)
	}))
	roles, err := c.Roles(context.Background(), &tokens{access: "a1"})
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, domain.RoleAdmin, roles[0].Name)
	assert.Equal(t, "regular", roles[1].Description)
}

func TestNoSessionShortCircuits(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	_, err := c.MyBookings(context.Background(), &tokens{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func jsonString(t *testing.T, s string) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}
