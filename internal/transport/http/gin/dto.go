package httpgin

import (
	"time"

	"github.com/kirinyoku/deskgo/internal/booking"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

type ErrorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code,omitempty"`
	Issues []string `json:"issues,omitempty"`
}

// --- auth ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	SessionID string      `json:"session_id"`
	User      domain.User `json:"user"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
}

// --- workspaces ---

type OpenWorkspaceRequest struct {
	Building string `json:"building" binding:"required"`
	Office   string `json:"office" binding:"required"`
	Floor    string `json:"floor" binding:"required"`
	Date     string `json:"date"`
}

type ReloadRequest struct {
	Building string `json:"building"`
	Office   string `json:"office"`
	Floor    string `json:"floor"`
	Date     string `json:"date"`
}

type EditModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type SelectRequest struct {
	Class    string `json:"class" binding:"required"`
	ID       string `json:"id" binding:"required"`
	Additive bool   `json:"additive"`
}

type PointerDownRequest struct {
	Class string          `json:"class" binding:"required"`
	ID    string          `json:"id"`
	Point floorplan.Point `json:"point"`
}

// PointerRequest carries a pointer position and the plan element's on-screen
// bounds at that moment.
type PointerRequest struct {
	Point floorplan.Point `json:"point"`
	Rect  floorplan.Rect  `json:"rect"`
}

type PointerMoveResponse struct {
	Moved     []floorplan.Ref `json:"moved"`
	Workspace WorkspaceView   `json:"workspace"`
}

type CanvasClickResponse struct {
	Placed    bool           `json:"placed"`
	Created   *floorplan.Ref `json:"created,omitempty"`
	Workspace WorkspaceView  `json:"workspace"`
}

type PlacementRequest struct {
	// Mode is "desk-area", "symbol:<type>", or empty to disarm.
	Mode string `json:"mode"`
}

type ZoomRequest struct {
	Action   string  `json:"action" binding:"required"`
	DeltaY   float64 `json:"delta_y"`
	Ctrl     bool    `json:"ctrl"`
	Distance float64 `json:"distance"`
}

type ZoomResponse struct {
	Handled   bool          `json:"handled"`
	Workspace WorkspaceView `json:"workspace"`
}

type AddDeskAreaRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Name string  `json:"name"`
}

type AddSymbolRequest struct {
	Type string  `json:"type" binding:"required"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type CreatedResponse[T any] struct {
	Created   T             `json:"created"`
	Workspace WorkspaceView `json:"workspace"`
}

type ResizeLayoutRequest struct {
	Width  float64 `json:"width" binding:"required"`
	Height float64 `json:"height" binding:"required"`
}

type OpenDialogRequest struct {
	SeatID string `json:"seat_id" binding:"required"`
}

type UpdateDialogRequest struct {
	StartTime  *string            `json:"start_time"`
	EndTime    *string            `json:"end_time"`
	Recurrence *domain.Recurrence `json:"recurrence"`
}

type SubmitDialogResponse struct {
	Booking   domain.Booking `json:"booking"`
	Workspace WorkspaceView  `json:"workspace"`
}

// WorkspaceView is what a client renders: entities at their effective
// positions, selection, zoom and the dialog.
type WorkspaceView struct {
	ID        string               `json:"id"`
	Floor     domain.FloorKey      `json:"floor"`
	Source    string               `json:"source"`
	Notice    string               `json:"notice,omitempty"`
	Stale     bool                 `json:"stale"`
	EditMode  bool                 `json:"edit_mode"`
	Dirty     bool                 `json:"dirty"`
	Placement string               `json:"placement,omitempty"`
	Zoom      float64              `json:"zoom"`
	Layout    domain.OfficeLayout  `json:"office_layout"`
	Seats     []SeatView           `json:"seats"`
	DeskAreas []domain.DeskArea    `json:"desk_areas"`
	Symbols   []domain.FloorSymbol `json:"floor_symbols"`
	Resources []domain.Resource    `json:"resources"`
	Selection map[string][]string  `json:"selection"`
	Dragging  *floorplan.Ref       `json:"dragging,omitempty"`
	Dialog    DialogView           `json:"dialog"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// SeatView is a rendered seat with the fill for its status.
type SeatView struct {
	domain.Seat
	Color string `json:"color"`
}

func toSeatViews(seats []domain.Seat) []SeatView {
	out := make([]SeatView, 0, len(seats))
	for _, s := range seats {
		out = append(out, SeatView{Seat: s, Color: s.Status.Color()})
	}
	return out
}

type DialogView struct {
	booking.Dialog
	CanSubmit bool `json:"can_submit"`
}

func toView(w *workspace.Workspace) WorkspaceView {
	e := w.Editor

	sel := make(map[string][]string, 3)
	for _, class := range []floorplan.Class{floorplan.ClassSeat, floorplan.ClassDeskArea, floorplan.ClassSymbol} {
		if ids := e.Selection.IDs(class); len(ids) > 0 {
			sel[string(class)] = ids
		}
	}

	var dragging *floorplan.Ref
	if e.Drag.Active {
		ref := e.Drag.Ref
		dragging = &ref
	}

	resources := e.Plan.Resources
	if resources == nil {
		resources = []domain.Resource{}
	}

	return WorkspaceView{
		ID:        w.ID.String(),
		Floor:     w.Key,
		Source:    string(w.Source),
		Notice:    w.Notice,
		Stale:     w.Stale,
		EditMode:  e.EditMode,
		Dirty:     e.Dirty(),
		Placement: string(e.Placement),
		Zoom:      e.Zoom.Factor,
		Layout:    e.Layout(),
		Seats:     toSeatViews(e.Seats()),
		DeskAreas: e.DeskAreas(),
		Symbols:   e.Symbols(),
		Resources: resources,
		Selection: sel,
		Dragging:  dragging,
		Dialog:    DialogView{Dialog: w.Dialog, CanSubmit: w.Dialog.CanSubmit()},
		UpdatedAt: w.UpdatedAt,
	}
}

// --- admin ---

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}
