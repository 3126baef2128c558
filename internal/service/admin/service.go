package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/session"
)

type API interface {
	Users(ctx context.Context, ts backend.TokenSource) ([]domain.User, error)
	CreateUser(ctx context.Context, ts backend.TokenSource, in domain.UserInput) (domain.User, error)
	UpdateUser(ctx context.Context, ts backend.TokenSource, id string, in domain.UserInput) (domain.User, error)
	DeleteUser(ctx context.Context, ts backend.TokenSource, id string) error
	SetUserActive(ctx context.Context, ts backend.TokenSource, id string, active bool) error
	Roles(ctx context.Context, ts backend.TokenSource) ([]domain.RoleInfo, error)

	Buildings(ctx context.Context, ts backend.TokenSource) ([]domain.Building, error)
	CreateBuilding(ctx context.Context, ts backend.TokenSource, b domain.Building) (domain.Building, error)
	UpdateBuilding(ctx context.Context, ts backend.TokenSource, b domain.Building) (domain.Building, error)
	DeleteBuilding(ctx context.Context, ts backend.TokenSource, id string) error

	Floors(ctx context.Context, ts backend.TokenSource, buildingID string) ([]domain.Floor, error)
	CreateFloor(ctx context.Context, ts backend.TokenSource, f domain.Floor) (domain.Floor, error)
	UpdateFloor(ctx context.Context, ts backend.TokenSource, f domain.Floor) (domain.Floor, error)
	DeleteFloor(ctx context.Context, ts backend.TokenSource, id string) error
	FloorLayout(ctx context.Context, ts backend.TokenSource, floorID string) (*domain.FloorPlan, error)
	SaveFloorLayout(ctx context.Context, ts backend.TokenSource, floorID string, plan domain.FloorPlan) error
	FloorStats(ctx context.Context, ts backend.TokenSource, floorID string) (domain.Stats, error)
	FloorVersions(ctx context.Context, ts backend.TokenSource, floorID string) ([]domain.FloorVersion, error)
	RestoreFloorVersion(ctx context.Context, ts backend.TokenSource, floorID string, version int) error

	Desks(ctx context.Context, ts backend.TokenSource, floorID string) ([]domain.Desk, error)
	CreateDesk(ctx context.Context, ts backend.TokenSource, d domain.Desk) (domain.Desk, error)
	UpdateDesk(ctx context.Context, ts backend.TokenSource, d domain.Desk) (domain.Desk, error)
	DeleteDesk(ctx context.Context, ts backend.TokenSource, id string) error

	Seats(ctx context.Context, ts backend.TokenSource, key domain.FloorKey) ([]domain.Seat, error)
	CreateSeat(ctx context.Context, ts backend.TokenSource, key domain.FloorKey, s domain.Seat) (domain.Seat, error)
	UpdateSeat(ctx context.Context, ts backend.TokenSource, s domain.Seat) (domain.Seat, error)
	DeleteSeat(ctx context.Context, ts backend.TokenSource, id string) error
	SeatAvailability(ctx context.Context, ts backend.TokenSource, key domain.FloorKey) ([]domain.Seat, error)
	SearchSeats(ctx context.Context, ts backend.TokenSource, q string, key domain.FloorKey) ([]domain.Seat, error)
	SeatStats(ctx context.Context, ts backend.TokenSource, key domain.FloorKey) (domain.Stats, error)
}

// FloorInvalidator drops cached plans of a floor and tells open workspaces.
type FloorInvalidator interface {
	InvalidateFloor(ctx context.Context, k domain.FloorKey) error
	PublishFloorPlanChanged(ctx context.Context, k domain.FloorKey, origin string) error
}

type Service struct {
	api    API
	floors FloorInvalidator
	logger *slog.Logger
}

// New builds the service. floors may be nil.
func New(api API, floors FloorInvalidator, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		floors: floors,
		logger: logger,
	}
}

func (s *Service) Users(ctx context.Context, sess *session.Session) ([]domain.User, error) {
	const op = "service.admin.Users"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	us, err := s.api.Users(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return us, nil
}

// CreateUser registers a new account.
//
// Parameters:
//   - ctx: request-scoped context.
//   - sess: an administrator's session.
//   - in: the account; email, name and password are required.
//
// Returns:
//   - domain.User: the created user as the API returns it.
//   - error: ErrForbidden, ErrInvalidInput or the API's rejection.
func (s *Service) CreateUser(ctx context.Context, sess *session.Session, in domain.UserInput) (domain.User, error) {
	const op = "service.admin.CreateUser"

	if err := requireAdmin(sess); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateUser(in, true); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.api.CreateUser(ctx, sess, in)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.InfoContext(ctx, "user created", slog.String("user_id", u.ID), slog.String("by", sess.User.ID))
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, sess *session.Session, id string, in domain.UserInput) (domain.User, error) {
	const op = "service.admin.UpdateUser"

	if err := requireAdmin(sess); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := validateUser(in, false); err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u, err := s.api.UpdateUser(ctx, sess, id, in)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, sess *session.Session, id string) error {
	const op = "service.admin.DeleteUser"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if id == sess.User.ID {
		return fmt.Errorf("%s: %w: cannot delete your own account", op, ErrInvalidInput)
	}
	if err := s.api.DeleteUser(ctx, sess, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id), slog.String("by", sess.User.ID))
	return nil
}

func (s *Service) SetUserActive(ctx context.Context, sess *session.Session, id string, active bool) error {
	const op = "service.admin.SetUserActive"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !active && id == sess.User.ID {
		return fmt.Errorf("%s: %w: cannot deactivate your own account", op, ErrInvalidInput)
	}
	if err := s.api.SetUserActive(ctx, sess, id, active); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) Roles(ctx context.Context, sess *session.Session) ([]domain.RoleInfo, error) {
	const op = "service.admin.Roles"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rs, err := s.api.Roles(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}

func requireAdmin(sess *session.Session) error {
	if !sess.User.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

func validateUser(in domain.UserInput, create bool) error {
	var issues []string
	if create || in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			issues = append(issues, "a valid email is required")
		}
	}
	if create && strings.TrimSpace(in.Name) == "" {
		issues = append(issues, "name is required")
	}
	if create && len(in.Password) < 8 {
		issues = append(issues, "password must be at least 8 characters")
	}
	if in.Role != "" && in.Role != domain.RoleAdmin && in.Role != domain.RoleUser {
		issues = append(issues, fmt.Sprintf("unknown role %q", in.Role))
	}
	if len(issues) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(issues, "; "))
	}
	return nil
}
