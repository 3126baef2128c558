package floorplan

import "math"

const (
	MinZoom    = 0.1
	MaxZoom    = 5.0
	ButtonStep = 1.2
	wheelIn    = 1.1
	wheelOut   = 0.9
)

// Zoom is the rendered scale of the plan. Only the pixel size of the SVG
// changes; the logical viewBox stays fixed.
type Zoom struct {
	Factor float64 `json:"factor"`
	Pinch  *Pinch  `json:"pinch,omitempty"`
}

// Pinch remembers where a two-finger gesture started.
type Pinch struct {
	StartDistance float64 `json:"start_distance"`
	StartFactor   float64 `json:"start_factor"`
}

func NewZoom() Zoom {
	return Zoom{Factor: 1}
}

// ClampZoom bounds f to [MinZoom, MaxZoom].
func ClampZoom(f float64) float64 {
	return math.Min(MaxZoom, math.Max(MinZoom, f))
}

func (z *Zoom) set(f float64) {
	if math.IsNaN(f) {
		return
	}
	z.Factor = ClampZoom(f)
}

func (z *Zoom) In() {
	z.set(z.Factor * ButtonStep)
}

func (z *Zoom) Out() {
	z.set(z.Factor / ButtonStep)
}

// Wheel handles one wheel tick. Without the ctrl/cmd modifier the wheel
// scrolls the viewport natively and Wheel reports false.
func (z *Zoom) Wheel(deltaY float64, modifier bool) bool {
	if !modifier || deltaY == 0 {
		return false
	}
	if deltaY > 0 {
		z.set(z.Factor * wheelOut)
	} else {
		z.set(z.Factor * wheelIn)
	}
	return true
}

func (z *Zoom) PinchStart(distance float64) {
	if distance <= 0 {
		return
	}
	z.Pinch = &Pinch{StartDistance: distance, StartFactor: z.Factor}
}

// PinchMove rescales relative to the gesture's start. It is ignored unless a
// pinch is in progress.
func (z *Zoom) PinchMove(distance float64) bool {
	if z.Pinch == nil || distance <= 0 {
		return false
	}
	z.set(z.Pinch.StartFactor * distance / z.Pinch.StartDistance)
	return true
}

func (z *Zoom) PinchEnd() {
	z.Pinch = nil
}

// Rendered returns the on-screen size of a plan whose unzoomed size is base.
func (z Zoom) Rendered(base Size) Size {
	return Size{Width: base.Width * z.Factor, Height: base.Height * z.Factor}
}
