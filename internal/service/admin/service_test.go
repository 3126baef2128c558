package admin

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/session"
)

// fakeAPI implements only what the tests call; anything else panics.
type fakeAPI struct {
	API
	users      []domain.UserInput
	buildings  []string
	seats      []domain.Seat
	deactivate []string
}

func (f *fakeAPI) CreateUser(_ context.Context, _ backend.TokenSource, in domain.UserInput) (domain.User, error) {
	f.users = append(f.users, in)
	return domain.User{ID: "u9", Email: in.Email, Role: in.Role}, nil
}

func (f *fakeAPI) SetUserActive(_ context.Context, _ backend.TokenSource, id string, active bool) error {
	if !active {
		f.deactivate = append(f.deactivate, id)
	}
	return nil
}

func (f *fakeAPI) CreateBuilding(_ context.Context, _ backend.TokenSource, b domain.Building) (domain.Building, error) {
	f.buildings = append(f.buildings, "create:"+b.Name)
	b.ID = "b1"
	return b, nil
}

func (f *fakeAPI) UpdateBuilding(_ context.Context, _ backend.TokenSource, b domain.Building) (domain.Building, error) {
	f.buildings = append(f.buildings, "update:"+b.ID)
	return b, nil
}

func (f *fakeAPI) CreateSeat(_ context.Context, _ backend.TokenSource, _ domain.FloorKey, s domain.Seat) (domain.Seat, error) {
	f.seats = append(f.seats, s)
	return s, nil
}

type floorRecorder struct {
	invalidated []domain.FloorKey
	published   []domain.FloorKey
}

func (r *floorRecorder) InvalidateFloor(_ context.Context, k domain.FloorKey) error {
	r.invalidated = append(r.invalidated, k)
	return nil
}

func (r *floorRecorder) PublishFloorPlanChanged(_ context.Context, k domain.FloorKey, _ string) error {
	r.published = append(r.published, k)
	return nil
}

func sessionAs(role domain.Role) *session.Session {
	return session.New(domain.AuthResult{User: domain.User{ID: "admin-1", Role: role}, Token: "t"}, time.Now())
}

func newService(api API, floors FloorInvalidator) *Service {
	return New(api, floors, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRequiresAdmin(t *testing.T) {
	svc := newService(&fakeAPI{}, nil)

	_, err := svc.Users(context.Background(), sessionAs(domain.RoleUser))
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.SaveBuilding(context.Background(), sessionAs(domain.RoleUser), domain.Building{Name: "HQ"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateUserValidation(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(api, nil)
	admin := sessionAs(domain.RoleAdmin)

	_, err := svc.CreateUser(context.Background(), admin, domain.UserInput{Email: "nope", Name: "X", Password: "short"})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "valid email")
	assert.Contains(t, err.Error(), "at least 8")
	assert.Empty(t, api.users)

	u, err := svc.CreateUser(context.Background(), admin, domain.UserInput{
		Email: "ann@example.com", Name: "Ann", Password: "longenough", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "u9", u.ID)
}

func TestCannotDeactivateSelf(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(api, nil)

	err := svc.SetUserActive(context.Background(), sessionAs(domain.RoleAdmin), "admin-1", false)
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.SetUserActive(context.Background(), sessionAs(domain.RoleAdmin), "u2", false))
	assert.Equal(t, []string{"u2"}, api.deactivate)
}

func TestSaveBuildingCreatesOrUpdates(t *testing.T) {
	api := &fakeAPI{}
	svc := newService(api, nil)
	admin := sessionAs(domain.RoleAdmin)

	b, err := svc.SaveBuilding(context.Background(), admin, domain.Building{Name: "HQ"})
	require.NoError(t, err)
	_, err = svc.SaveBuilding(context.Background(), admin, b)
	require.NoError(t, err)

	assert.Equal(t, []string{"create:HQ", "update:b1"}, api.buildings)
}

func TestCreateSeatNotifiesFloor(t *testing.T) {
	api := &fakeAPI{}
	rec := &floorRecorder{}
	svc := newService(api, rec)
	key := domain.FloorKey{Building: "HQ", Office: "Berlin", Floor: "3"}

	_, err := svc.CreateSeat(context.Background(), sessionAs(domain.RoleAdmin), key, domain.Seat{X: 4, Y: 5})
	require.NoError(t, err)

	require.Len(t, api.seats, 1)
	assert.Equal(t, domain.SeatAvailable, api.seats[0].Status)
	assert.Equal(t, domain.SeatDesk, api.seats[0].Kind)
	assert.Equal(t, []domain.FloorKey{key}, rec.invalidated)
	assert.Equal(t, []domain.FloorKey{key}, rec.published)
}
