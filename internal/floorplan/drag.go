package floorplan

// Drag is the pointer-drag state machine. Active false is Idle.
type Drag struct {
	Active bool  `json:"active"`
	Ref    Ref   `json:"ref"`
	Last   Point `json:"last"`
}

// PointerDown starts dragging ref from the given screen position.
func (e *Editor) PointerDown(ref Ref, screen Point) error {
	if !e.EditMode {
		return ErrNotEditing
	}
	if e.Placement != "" {
		return ErrPlacementActive
	}
	if !e.shown(ref) {
		return ErrUnknownEntity
	}
	e.Drag = Drag{Active: true, Ref: ref, Last: screen}
	return nil
}

// PointerMove advances an active drag to screen. The movement since the last
// event is converted to logical units using rect, the element's current
// on-screen bounds, and applied to the dragged entity. When the dragged entity
// is part of a multi-selection every member moves by the same delta.
//
// It returns the entities that moved. Without an active drag, or while the
// element is not mounted, nothing happens.
func (e *Editor) PointerMove(screen Point, rect Rect) []Ref {
	if !e.Drag.Active {
		return nil
	}
	sx, sy, ok := Scale(rect, ViewBox)
	if !ok {
		return nil
	}

	dx := (screen.X - e.Drag.Last.X) * sx
	dy := (screen.Y - e.Drag.Last.Y) * sy
	e.Drag.Last = screen

	targets := e.dragTargets()
	for _, ref := range targets {
		e.ApplyDelta(ref, dx, dy)
	}
	return targets
}

// PointerUp ends any drag. It is safe to call while idle.
func (e *Editor) PointerUp() {
	e.Drag = Drag{}
}

func (e *Editor) dragTargets() []Ref {
	ref := e.Drag.Ref
	if !e.Selection.Has(ref.Class, ref.ID) || e.Selection.Len(ref.Class) <= 1 {
		return []Ref{ref}
	}
	ids := e.Selection.IDs(ref.Class)
	out := make([]Ref, 0, len(ids))
	for _, id := range ids {
		out = append(out, Ref{Class: ref.Class, ID: id})
	}
	return out
}
