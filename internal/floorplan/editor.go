// Package floorplan holds the interactive floor-plan model: the entities of one
// floor, the pending edits layered over them, selection, drag, zoom and the
// placement modes an administrator uses to add things to the plan.
//
// An Editor is plain data. It is serialized into a workspace between requests,
// so every field that must survive a round trip is exported.
package floorplan

import (
	"errors"
	"slices"

	"github.com/google/uuid"
	"github.com/kirinyoku/deskgo/internal/domain"
)

var (
	ErrNotEditing           = errors.New("edit mode is not active")
	ErrPlacementActive      = errors.New("a placement mode is active")
	ErrUnknownEntity        = errors.New("unknown entity")
	ErrNotSelectable        = errors.New("entity class is not selectable")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrInvalidPlacement     = errors.New("invalid placement mode")
	ErrInvalidSize          = errors.New("width and height must be at least 1")
	ErrNotMounted           = errors.New("floor plan element is not mounted")
)

type Class string

const (
	ClassSeat     Class = "seat"
	ClassDeskArea Class = "desk-area"
	ClassSymbol   Class = "symbol"
	ClassLayout   Class = "layout"
)

func (c Class) Valid() bool {
	switch c {
	case ClassSeat, ClassDeskArea, ClassSymbol, ClassLayout:
		return true
	}
	return false
}

// Ref names one entity on the plan. The layout has a single instance and
// ignores ID.
type Ref struct {
	Class Class  `json:"class"`
	ID    string `json:"id,omitempty"`
}

func (r Ref) key() string {
	if r.Class == ClassLayout {
		return string(ClassLayout)
	}
	return string(r.Class) + ":" + r.ID
}

// Pending holds entities created in edit mode that the API has not seen yet.
type Pending struct {
	Seats     []domain.Seat        `json:"seats,omitempty"`
	DeskAreas []domain.DeskArea    `json:"deskAreas,omitempty"`
	Symbols   []domain.FloorSymbol `json:"floorSymbols,omitempty"`
}

func (p Pending) empty() bool {
	return len(p.Seats) == 0 && len(p.DeskAreas) == 0 && len(p.Symbols) == 0
}

type Editor struct {
	Plan      domain.FloorPlan     `json:"plan"`
	Pending   Pending              `json:"pending"`
	Overlay   map[string]Placement `json:"overlay,omitempty"`
	Excluded  map[string]bool      `json:"excluded,omitempty"`
	Selection Selection            `json:"selection"`
	Drag      Drag                 `json:"drag"`
	Zoom      Zoom                 `json:"zoom"`
	EditMode  bool                 `json:"edit_mode"`
	Placement PlacementMode        `json:"placement,omitempty"`
	// Modified is set by edits that change the plan in place (seat deletion,
	// layout resize) and so leave no trace in Overlay or Pending.
	Modified bool `json:"modified,omitempty"`
}

func NewEditor(plan domain.FloorPlan) *Editor {
	e := &Editor{Zoom: NewZoom()}
	e.Reset(plan)
	return e
}

// Reset replaces the plan with a freshly loaded one. Pending entities, offsets,
// selections and any drag in progress are discarded; zoom is kept.
func (e *Editor) Reset(plan domain.FloorPlan) {
	e.Plan = plan
	e.Pending = Pending{}
	e.Overlay = nil
	e.Selection = Selection{}
	e.Drag = Drag{}
	e.Placement = ""
	e.Modified = false
	e.Excluded = make(map[string]bool)
	for _, s := range Excluded(plan.Seats, plan.DeskAreas) {
		e.Excluded[s.ID] = true
	}
	if e.Zoom.Factor == 0 {
		e.Zoom = NewZoom()
	}
}

// Dirty reports whether there is anything a save would send that differs from
// the loaded plan.
func (e *Editor) Dirty() bool {
	return e.Modified || len(e.Overlay) > 0 || !e.Pending.empty()
}

// SetEditMode toggles edit mode. Leaving it clears selections, the drag and any
// placement mode; offsets and pending entities survive until save or reload.
func (e *Editor) SetEditMode(on bool) {
	e.EditMode = on
	if !on {
		e.Selection = Selection{}
		e.Drag = Drag{}
		e.Placement = ""
	}
}

// Seats returns the rendered seat list: existing seats that are not covered by a
// desk area, then pending seats, all at their effective positions.
func (e *Editor) Seats() []domain.Seat {
	out := make([]domain.Seat, 0, len(e.Plan.Seats)+len(e.Pending.Seats))
	for _, s := range e.Plan.Seats {
		if e.Excluded[s.ID] {
			continue
		}
		out = append(out, e.placeSeat(s))
	}
	for _, s := range e.Pending.Seats {
		out = append(out, e.placeSeat(s))
	}
	return out
}

// Seat looks up a rendered seat by id.
func (e *Editor) Seat(id string) (domain.Seat, bool) {
	for _, s := range e.Seats() {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Seat{}, false
}

func (e *Editor) DeskAreas() []domain.DeskArea {
	out := make([]domain.DeskArea, 0, len(e.Plan.DeskAreas)+len(e.Pending.DeskAreas))
	for _, a := range slices.Concat(e.Plan.DeskAreas, e.Pending.DeskAreas) {
		out = append(out, e.placeArea(a))
	}
	return out
}

func (e *Editor) Symbols() []domain.FloorSymbol {
	out := make([]domain.FloorSymbol, 0, len(e.Plan.FloorSymbols)+len(e.Pending.Symbols))
	for _, s := range slices.Concat(e.Plan.FloorSymbols, e.Pending.Symbols) {
		out = append(out, e.placeSymbol(s))
	}
	return out
}

func (e *Editor) Layout() domain.OfficeLayout {
	l := e.Plan.OfficeLayout
	p := e.Effective(Ref{Class: ClassLayout})
	l.X, l.Y = p.X, p.Y
	return l
}

// NewSeat creates an available desk at the centre of the plan and selects it.
func (e *Editor) NewSeat() (domain.Seat, error) {
	if !e.EditMode {
		return domain.Seat{}, ErrNotEditing
	}
	s := domain.Seat{
		ID:     syntheticID("new-seat"),
		X:      Midpoint.X,
		Y:      Midpoint.Y,
		Status: domain.SeatAvailable,
		Kind:   domain.SeatDesk,
	}
	e.Pending.Seats = append(e.Pending.Seats, s)
	e.Selection.add(ClassSeat, s.ID)
	return s, nil
}

// NewDeskArea creates a workspace area with its top-left corner at p.
func (e *Editor) NewDeskArea(p Point, name string) (domain.DeskArea, error) {
	if !e.EditMode {
		return domain.DeskArea{}, ErrNotEditing
	}
	if name == "" {
		name = "New Area"
	}
	a := domain.DeskArea{
		ID:     syntheticID("new-area"),
		Name:   name,
		X:      p.X,
		Y:      p.Y,
		Width:  defaultAreaSize.Width,
		Height: defaultAreaSize.Height,
		Kind:   domain.AreaWorkspace,
	}
	e.Pending.DeskAreas = append(e.Pending.DeskAreas, a)
	e.Selection.add(ClassDeskArea, a.ID)
	return a, nil
}

func (e *Editor) NewSymbol(kind domain.SymbolKind, p Point) (domain.FloorSymbol, error) {
	if !e.EditMode {
		return domain.FloorSymbol{}, ErrNotEditing
	}
	if !kind.Valid() {
		return domain.FloorSymbol{}, ErrInvalidPlacement
	}
	s := domain.FloorSymbol{
		ID:   syntheticID("new-symbol"),
		Kind: kind,
		X:    p.X,
		Y:    p.Y,
	}
	e.Pending.Symbols = append(e.Pending.Symbols, s)
	e.Selection.add(ClassSymbol, s.ID)
	return s, nil
}

// DeleteSeat removes an existing or pending seat. confirm must be true.
func (e *Editor) DeleteSeat(id string, confirm bool) error {
	if !e.EditMode {
		return ErrNotEditing
	}
	if !confirm {
		return ErrConfirmationRequired
	}

	match := func(s domain.Seat) bool { return s.ID == id }

	n := len(e.Plan.Seats) + len(e.Pending.Seats)
	e.Plan.Seats = slices.DeleteFunc(e.Plan.Seats, match)
	e.Pending.Seats = slices.DeleteFunc(e.Pending.Seats, match)
	if len(e.Plan.Seats)+len(e.Pending.Seats) == n {
		return ErrUnknownEntity
	}

	ref := Ref{Class: ClassSeat, ID: id}
	delete(e.Overlay, ref.key())
	delete(e.Excluded, id)
	e.Modified = true
	e.Selection.remove(ClassSeat, id)
	if e.Drag.Active && e.Drag.Ref == ref {
		e.Drag = Drag{}
	}
	return nil
}

// ResizeLayout changes the office outline dimensions.
func (e *Editor) ResizeLayout(width, height float64) error {
	if !e.EditMode {
		return ErrNotEditing
	}
	if width < 1 || height < 1 {
		return ErrInvalidSize
	}
	e.Plan.OfficeLayout.Width = width
	e.Plan.OfficeLayout.Height = height
	e.Modified = true
	return nil
}

var defaultAreaSize = Size{Width: 10, Height: 8}

func syntheticID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}
