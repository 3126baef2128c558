package floorplan

import "sort"

// Selection keeps one id set per selectable class. Membership in one class
// never affects another.
type Selection struct {
	Seats     map[string]bool `json:"seats,omitempty"`
	DeskAreas map[string]bool `json:"deskAreas,omitempty"`
	Symbols   map[string]bool `json:"symbols,omitempty"`
}

func (s *Selection) set(c Class) *map[string]bool {
	switch c {
	case ClassSeat:
		return &s.Seats
	case ClassDeskArea:
		return &s.DeskAreas
	case ClassSymbol:
		return &s.Symbols
	}
	return nil
}

func (s *Selection) add(c Class, id string) {
	m := s.set(c)
	if m == nil {
		return
	}
	if *m == nil {
		*m = make(map[string]bool)
	}
	(*m)[id] = true
}

func (s *Selection) remove(c Class, id string) {
	if m := s.set(c); m != nil {
		delete(*m, id)
	}
}

// Has reports whether id is selected in class c.
func (s *Selection) Has(c Class, id string) bool {
	m := s.set(c)
	return m != nil && (*m)[id]
}

// IDs returns the selected ids of class c in a stable order.
func (s *Selection) IDs(c Class) []string {
	m := s.set(c)
	if m == nil {
		return nil
	}
	out := make([]string, 0, len(*m))
	for id := range *m {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *Selection) Len(c Class) int {
	m := s.set(c)
	if m == nil {
		return 0
	}
	return len(*m)
}

// Select updates the selection for one click. Without additive the class's set
// becomes {id}; with it (modifier key held) id's membership is toggled.
func (e *Editor) Select(ref Ref, additive bool) error {
	m := e.Selection.set(ref.Class)
	if m == nil {
		return ErrNotSelectable
	}
	if !e.shown(ref) {
		return ErrUnknownEntity
	}

	if !additive {
		*m = map[string]bool{ref.ID: true}
		return nil
	}
	if e.Selection.Has(ref.Class, ref.ID) {
		e.Selection.remove(ref.Class, ref.ID)
		return nil
	}
	e.Selection.add(ref.Class, ref.ID)
	return nil
}
