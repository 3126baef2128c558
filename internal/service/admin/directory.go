package admin

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/session"
)

func (s *Service) Buildings(ctx context.Context, sess *session.Session) ([]domain.Building, error) {
	const op = "service.admin.Buildings"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bs, err := s.api.Buildings(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bs, nil
}

// SaveBuilding creates b when it has no ID, otherwise updates it.
func (s *Service) SaveBuilding(ctx context.Context, sess *session.Session, b domain.Building) (domain.Building, error) {
	const op = "service.admin.SaveBuilding"

	if err := requireAdmin(sess); err != nil {
		return domain.Building{}, fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(b.Name) == "" {
		return domain.Building{}, fmt.Errorf("%s: %w: building name is required", op, ErrInvalidInput)
	}

	var (
		out domain.Building
		err error
	)
	if b.ID == "" {
		out, err = s.api.CreateBuilding(ctx, sess, b)
	} else {
		out, err = s.api.UpdateBuilding(ctx, sess, b)
	}
	if err != nil {
		return domain.Building{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) DeleteBuilding(ctx context.Context, sess *session.Session, id string) error {
	const op = "service.admin.DeleteBuilding"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.api.DeleteBuilding(ctx, sess, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) Floors(ctx context.Context, sess *session.Session, buildingID string) ([]domain.Floor, error) {
	const op = "service.admin.Floors"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fs, err := s.api.Floors(ctx, sess, buildingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fs, nil
}

// SaveFloor creates f when it has no ID, otherwise updates it.
func (s *Service) SaveFloor(ctx context.Context, sess *session.Session, f domain.Floor) (domain.Floor, error) {
	const op = "service.admin.SaveFloor"

	if err := requireAdmin(sess); err != nil {
		return domain.Floor{}, fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(f.Name) == "" || f.BuildingID == "" {
		return domain.Floor{}, fmt.Errorf("%s: %w: floor name and building are required", op, ErrInvalidInput)
	}

	var (
		out domain.Floor
		err error
	)
	if f.ID == "" {
		out, err = s.api.CreateFloor(ctx, sess, f)
	} else {
		out, err = s.api.UpdateFloor(ctx, sess, f)
	}
	if err != nil {
		return domain.Floor{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) DeleteFloor(ctx context.Context, sess *session.Session, id string) error {
	const op = "service.admin.DeleteFloor"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.api.DeleteFloor(ctx, sess, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) FloorLayout(ctx context.Context, sess *session.Session, floorID string) (*domain.FloorPlan, error) {
	const op = "service.admin.FloorLayout"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plan, err := s.api.FloorLayout(ctx, sess, floorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}

func (s *Service) SaveFloorLayout(ctx context.Context, sess *session.Session, floorID string, plan domain.FloorPlan) error {
	const op = "service.admin.SaveFloorLayout"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if plan.OfficeLayout.Width < 1 || plan.OfficeLayout.Height < 1 {
		return fmt.Errorf("%s: %w: layout width and height must be at least 1", op, ErrInvalidInput)
	}
	if err := s.api.SaveFloorLayout(ctx, sess, floorID, plan); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) FloorStats(ctx context.Context, sess *session.Session, floorID string) (domain.Stats, error) {
	const op = "service.admin.FloorStats"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st, err := s.api.FloorStats(ctx, sess, floorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

func (s *Service) FloorVersions(ctx context.Context, sess *session.Session, floorID string) ([]domain.FloorVersion, error) {
	const op = "service.admin.FloorVersions"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	vs, err := s.api.FloorVersions(ctx, sess, floorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}

func (s *Service) RestoreFloorVersion(ctx context.Context, sess *session.Session, floorID string, version int) error {
	const op = "service.admin.RestoreFloorVersion"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if version < 1 {
		return fmt.Errorf("%s: %w: version must be positive", op, ErrInvalidInput)
	}
	if err := s.api.RestoreFloorVersion(ctx, sess, floorID, version); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.logger.InfoContext(ctx, "floor version restored",
		slog.String("floor_id", floorID),
		slog.Int("version", version),
		slog.String("by", sess.User.ID),
	)
	return nil
}

func (s *Service) Desks(ctx context.Context, sess *session.Session, floorID string) ([]domain.Desk, error) {
	const op = "service.admin.Desks"

	if err := requireAdmin(sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ds, err := s.api.Desks(ctx, sess, floorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ds, nil
}

// SaveDesk creates d when it has no ID, otherwise updates it.
func (s *Service) SaveDesk(ctx context.Context, sess *session.Session, d domain.Desk) (domain.Desk, error) {
	const op = "service.admin.SaveDesk"

	if err := requireAdmin(sess); err != nil {
		return domain.Desk{}, fmt.Errorf("%s: %w", op, err)
	}
	if strings.TrimSpace(d.Label) == "" || d.FloorID == "" {
		return domain.Desk{}, fmt.Errorf("%s: %w: desk label and floor are required", op, ErrInvalidInput)
	}

	var (
		out domain.Desk
		err error
	)
	if d.ID == "" {
		out, err = s.api.CreateDesk(ctx, sess, d)
	} else {
		out, err = s.api.UpdateDesk(ctx, sess, d)
	}
	if err != nil {
		return domain.Desk{}, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) DeleteDesk(ctx context.Context, sess *session.Session, id string) error {
	const op = "service.admin.DeleteDesk"

	if err := requireAdmin(sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.api.DeleteDesk(ctx, sess, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
