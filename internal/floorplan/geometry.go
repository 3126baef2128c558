package floorplan

// ViewBox is the logical coordinate space every floor plan is drawn in.
var ViewBox = Size{Width: 105, Height: 55}

// Midpoint is where newly created seats are placed.
var Midpoint = Point{X: ViewBox.Width / 2, Y: ViewBox.Height / 2}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is the bounding rectangle of the rendered SVG element in screen pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) mounted() bool {
	return r.Width > 0 && r.Height > 0
}

// Scale returns logical units per screen pixel on each axis. ok is false when
// the element has not been laid out yet.
func Scale(rect Rect, viewBox Size) (sx, sy float64, ok bool) {
	if !rect.mounted() || viewBox.Width <= 0 || viewBox.Height <= 0 {
		return 0, 0, false
	}
	return viewBox.Width / rect.Width, viewBox.Height / rect.Height, true
}

// ToLogical maps a screen pointer position into floor-plan coordinates.
func ToLogical(pointer Point, rect Rect, viewBox Size) (Point, bool) {
	sx, sy, ok := Scale(rect, viewBox)
	if !ok {
		return Point{}, false
	}
	return Point{
		X: (pointer.X - rect.Left) * sx,
		Y: (pointer.Y - rect.Top) * sy,
	}, true
}

// bounds is an axis-aligned rectangle in logical units.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func (b bounds) overlaps(o bounds) bool {
	return b.minX < o.maxX && b.maxX > o.minX && b.minY < o.maxY && b.maxY > o.minY
}
