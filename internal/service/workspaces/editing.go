package workspaces

import (
	"context"

	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	"github.com/kirinyoku/deskgo/internal/session"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

// SetEditMode enters or leaves edit mode. Leaving keeps unsaved offsets and
// pending entities; only save or reload drops them.
func (s *Service) SetEditMode(ctx context.Context, sess *session.Session, id uuid.UUID, on bool) (*workspace.Workspace, error) {
	const op = "service.workspaces.SetEditMode"

	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		w.Editor.SetEditMode(on)
		// The dialog's purpose depends on the mode it was opened in.
		w.Dialog.Close()
		return nil
	})
}

func (s *Service) Select(ctx context.Context, sess *session.Session, id uuid.UUID, ref floorplan.Ref, additive bool) (*workspace.Workspace, error) {
	const op = "service.workspaces.Select"

	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		return w.Editor.Select(ref, additive)
	})
}

func (s *Service) PointerDown(ctx context.Context, sess *session.Session, id uuid.UUID, ref floorplan.Ref, at floorplan.Point) (*workspace.Workspace, error) {
	const op = "service.workspaces.PointerDown"

	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		return w.Editor.PointerDown(ref, at)
	})
}

// PointerMove advances the drag and returns the entities that moved.
func (s *Service) PointerMove(
	ctx context.Context,
	sess *session.Session,
	id uuid.UUID,
	at floorplan.Point,
	rect floorplan.Rect,
) (*workspace.Workspace, []floorplan.Ref, error) {
	const op = "service.workspaces.PointerMove"

	var moved []floorplan.Ref
	w, err := s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		moved = w.Editor.PointerMove(at, rect)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return w, moved, nil
}

func (s *Service) PointerUp(ctx context.Context, sess *session.Session, id uuid.UUID) (*workspace.Workspace, error) {
	const op = "service.workspaces.PointerUp"

	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		w.Editor.PointerUp()
		return nil
	})
}

func (s *Service) SetPlacement(ctx context.Context, sess *session.Session, id uuid.UUID, mode floorplan.PlacementMode) (*workspace.Workspace, error) {
	const op = "service.workspaces.SetPlacement"

	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		return w.Editor.SetPlacement(mode)
	})
}

// CanvasClick places the armed entity, if any. placed is false when no
// placement mode was armed.
func (s *Service) CanvasClick(
	ctx context.Context,
	sess *session.Session,
	id uuid.UUID,
	at floorplan.Point,
	rect floorplan.Rect,
) (w *workspace.Workspace, ref floorplan.Ref, placed bool, err error) {
	const op = "service.workspaces.CanvasClick"

	w, err = s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		var err error
		ref, placed, err = w.Editor.CanvasClick(at, rect)
		return err
	})
	return w, ref, placed, err
}

type ZoomAction string

const (
	ZoomIn         ZoomAction = "in"
	ZoomOut        ZoomAction = "out"
	ZoomWheel      ZoomAction = "wheel"
	ZoomPinchStart ZoomAction = "pinch-start"
	ZoomPinchMove  ZoomAction = "pinch-move"
	ZoomPinchEnd   ZoomAction = "pinch-end"
)

type ZoomInput struct {
	Action ZoomAction
	// DeltaY and Modifier describe a wheel event.
	DeltaY   float64
	Modifier bool
	// Distance is the current gap between two touch points.
	Distance float64
}

// Zoom applies one zoom gesture. handled reports whether the client should
// suppress the browser's default for the event.
func (s *Service) Zoom(ctx context.Context, sess *session.Session, id uuid.UUID, in ZoomInput) (w *workspace.Workspace, handled bool, err error) {
	const op = "service.workspaces.Zoom"

	w, err = s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		z := &w.Editor.Zoom
		switch in.Action {
		case ZoomIn:
			z.In()
			handled = true
		case ZoomOut:
			z.Out()
			handled = true
		case ZoomWheel:
			handled = z.Wheel(in.DeltaY, in.Modifier)
		case ZoomPinchStart:
			z.PinchStart(in.Distance)
			handled = true
		case ZoomPinchMove:
			handled = z.PinchMove(in.Distance)
		case ZoomPinchEnd:
			z.PinchEnd()
		default:
			return ErrInvalidZoom
		}
		return nil
	})
	return w, handled, err
}

func (s *Service) AddSeat(ctx context.Context, sess *session.Session, id uuid.UUID) (*workspace.Workspace, domain.Seat, error) {
	const op = "service.workspaces.AddSeat"

	if err := requireAdmin(sess); err != nil {
		return nil, domain.Seat{}, err
	}
	var seat domain.Seat
	w, err := s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		var err error
		seat, err = w.Editor.NewSeat()
		return err
	})
	return w, seat, err
}

func (s *Service) AddDeskArea(
	ctx context.Context,
	sess *session.Session,
	id uuid.UUID,
	at floorplan.Point,
	name string,
) (*workspace.Workspace, domain.DeskArea, error) {
	const op = "service.workspaces.AddDeskArea"

	if err := requireAdmin(sess); err != nil {
		return nil, domain.DeskArea{}, err
	}
	var area domain.DeskArea
	w, err := s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		var err error
		area, err = w.Editor.NewDeskArea(at, name)
		return err
	})
	return w, area, err
}

func (s *Service) AddSymbol(
	ctx context.Context,
	sess *session.Session,
	id uuid.UUID,
	kind domain.SymbolKind,
	at floorplan.Point,
) (*workspace.Workspace, domain.FloorSymbol, error) {
	const op = "service.workspaces.AddSymbol"

	if err := requireAdmin(sess); err != nil {
		return nil, domain.FloorSymbol{}, err
	}
	var sym domain.FloorSymbol
	w, err := s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		var err error
		sym, err = w.Editor.NewSymbol(kind, at)
		return err
	})
	return w, sym, err
}

// DeleteSeat removes a seat from the working plan. The deletion reaches the
// API with the next save.
func (s *Service) DeleteSeat(ctx context.Context, sess *session.Session, id uuid.UUID, seatID string, confirm bool) (*workspace.Workspace, error) {
	const op = "service.workspaces.DeleteSeat"

	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		if err := w.Editor.DeleteSeat(seatID, confirm); err != nil {
			return err
		}
		if w.Dialog.SeatID == seatID {
			w.Dialog.Close()
		}
		return nil
	})
}

func (s *Service) ResizeLayout(ctx context.Context, sess *session.Session, id uuid.UUID, width, height float64) (*workspace.Workspace, error) {
	const op = "service.workspaces.ResizeLayout"

	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	return s.mutate(ctx, op, sess, id, func(w *workspace.Workspace) error {
		return w.Editor.ResizeLayout(width, height)
	})
}

// DefaultRenderSize is the unzoomed pixel size of the rendered plan.
var DefaultRenderSize = floorplan.Size{Width: 1050, Height: 550}

// SVG renders the workspace at base, or DefaultRenderSize when base is zero.
func (s *Service) SVG(ctx context.Context, sess *session.Session, id uuid.UUID, base floorplan.Size) (string, error) {
	w, err := s.Get(ctx, sess, id)
	if err != nil {
		return "", err
	}
	if base.Width <= 0 || base.Height <= 0 {
		base = DefaultRenderSize
	}
	return w.Editor.RenderSVG(base), nil
}
