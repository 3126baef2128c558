package floorplan

import (
	"strings"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// PlacementMode is armed by an administrator before clicking on the canvas.
// "desk-area" creates an area, "symbol:<type>" creates a symbol.
type PlacementMode string

const (
	PlaceDeskArea PlacementMode = "desk-area"
	symbolPrefix                = "symbol:"
)

func PlaceSymbol(kind domain.SymbolKind) PlacementMode {
	return PlacementMode(symbolPrefix + string(kind))
}

func (m PlacementMode) symbol() (domain.SymbolKind, bool) {
	rest, ok := strings.CutPrefix(string(m), symbolPrefix)
	if !ok {
		return "", false
	}
	k := domain.SymbolKind(rest)
	return k, k.Valid()
}

func (m PlacementMode) Valid() bool {
	if m == PlaceDeskArea {
		return true
	}
	_, ok := m.symbol()
	return ok
}

// SetPlacement arms a placement mode, or disarms it when m is empty. Any drag
// in progress is abandoned.
func (e *Editor) SetPlacement(m PlacementMode) error {
	if !e.EditMode {
		return ErrNotEditing
	}
	if m != "" && !m.Valid() {
		return ErrInvalidPlacement
	}
	e.Placement = m
	e.Drag = Drag{}
	return nil
}

// CanvasClick places the armed entity at the logical point under the pointer
// and disarms the mode. With no mode armed the click does nothing; in
// particular it does not clear any selection.
func (e *Editor) CanvasClick(screen Point, rect Rect) (Ref, bool, error) {
	if e.Placement == "" {
		return Ref{}, false, nil
	}
	p, ok := ToLogical(screen, rect, ViewBox)
	if !ok {
		return Ref{}, false, ErrNotMounted
	}

	mode := e.Placement
	if mode == PlaceDeskArea {
		a, err := e.NewDeskArea(p, "")
		if err != nil {
			return Ref{}, false, err
		}
		e.Placement = ""
		return Ref{Class: ClassDeskArea, ID: a.ID}, true, nil
	}

	kind, _ := mode.symbol()
	s, err := e.NewSymbol(kind, p)
	if err != nil {
		return Ref{}, false, err
	}
	e.Placement = ""
	return Ref{Class: ClassSymbol, ID: s.ID}, true, nil
}
