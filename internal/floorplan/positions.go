package floorplan

import "github.com/kirinyoku/deskgo/internal/domain"

// Placement is a position plus rotation. In the overlay it is a delta relative
// to the entity's base, never an absolute value.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

func (p Placement) add(o Placement) Placement {
	return Placement{X: p.X + o.X, Y: p.Y + o.Y, Rotation: p.Rotation + o.Rotation}
}

// Effective is the only way to read where an entity currently is: its stored
// base plus whatever offset has been accumulated since the last save.
// Unknown entities yield the zero placement.
func (e *Editor) Effective(ref Ref) Placement {
	base, _ := e.base(ref)
	return base.add(e.Overlay[ref.key()])
}

// ApplyDelta moves an entity by (dx, dy) logical units. It reports false when
// the entity does not exist.
func (e *Editor) ApplyDelta(ref Ref, dx, dy float64) bool {
	if _, ok := e.base(ref); !ok {
		return false
	}
	if e.Overlay == nil {
		e.Overlay = make(map[string]Placement)
	}
	k := ref.key()
	e.Overlay[k] = e.Overlay[k].add(Placement{X: dx, Y: dy})
	return true
}

// Commit folds every offset into its entity's base, moves pending entities
// into the plan and clears the overlay.
func (e *Editor) Commit() {
	e.Plan = e.Document()
	e.Pending = Pending{}
	e.Overlay = nil
	e.Modified = false
}

// Document returns the merged plan that a save sends: existing and pending
// entities with their offsets folded in. The editor is not modified.
func (e *Editor) Document() domain.FloorPlan {
	doc := domain.FloorPlan{
		Seats:        make([]domain.Seat, 0, len(e.Plan.Seats)+len(e.Pending.Seats)),
		Resources:    append(make([]domain.Resource, 0, len(e.Plan.Resources)), e.Plan.Resources...),
		OfficeLayout: e.Layout(),
	}
	for _, s := range e.Plan.Seats {
		doc.Seats = append(doc.Seats, e.placeSeat(s))
	}
	for _, s := range e.Pending.Seats {
		doc.Seats = append(doc.Seats, e.placeSeat(s))
	}
	doc.DeskAreas = e.DeskAreas()
	doc.FloorSymbols = e.Symbols()
	return doc
}

func (e *Editor) base(ref Ref) (Placement, bool) {
	switch ref.Class {
	case ClassSeat:
		for _, list := range [][]domain.Seat{e.Plan.Seats, e.Pending.Seats} {
			for _, s := range list {
				if s.ID == ref.ID {
					return Placement{X: s.X, Y: s.Y, Rotation: s.Rotation}, true
				}
			}
		}
	case ClassDeskArea:
		for _, list := range [][]domain.DeskArea{e.Plan.DeskAreas, e.Pending.DeskAreas} {
			for _, a := range list {
				if a.ID == ref.ID {
					return Placement{X: a.X, Y: a.Y, Rotation: a.Rotation}, true
				}
			}
		}
	case ClassSymbol:
		for _, list := range [][]domain.FloorSymbol{e.Plan.FloorSymbols, e.Pending.Symbols} {
			for _, s := range list {
				if s.ID == ref.ID {
					return Placement{X: s.X, Y: s.Y, Rotation: s.Rotation}, true
				}
			}
		}
	case ClassLayout:
		l := e.Plan.OfficeLayout
		return Placement{X: l.X, Y: l.Y}, true
	}
	return Placement{}, false
}

// shown reports whether ref exists and is rendered. Seats covered by a desk
// area exist in the plan but are hidden, so they cannot be picked.
func (e *Editor) shown(ref Ref) bool {
	if ref.Class == ClassSeat && e.Excluded[ref.ID] {
		return false
	}
	_, ok := e.base(ref)
	return ok
}

func (e *Editor) placeSeat(s domain.Seat) domain.Seat {
	p := e.Effective(Ref{Class: ClassSeat, ID: s.ID})
	s.X, s.Y, s.Rotation = p.X, p.Y, p.Rotation
	return s
}

func (e *Editor) placeArea(a domain.DeskArea) domain.DeskArea {
	p := e.Effective(Ref{Class: ClassDeskArea, ID: a.ID})
	a.X, a.Y, a.Rotation = p.X, p.Y, p.Rotation
	return a
}

func (e *Editor) placeSymbol(s domain.FloorSymbol) domain.FloorSymbol {
	p := e.Effective(Ref{Class: ClassSymbol, ID: s.ID})
	s.X, s.Y, s.Rotation = p.X, p.Y, p.Rotation
	return s
}
