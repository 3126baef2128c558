package floorplan

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// halfRect renders the 105x55 viewBox at 210x110 pixels, so one pixel is half
// a logical unit on both axes.
var halfRect = Rect{Left: 0, Top: 0, Width: 210, Height: 110}

func testPlan() domain.FloorPlan {
	return domain.FloorPlan{
		Seats: []domain.Seat{
			{ID: "D1", X: 10, Y: 10, Status: domain.SeatAvailable, Kind: domain.SeatDesk},
			{ID: "D2", X: 20, Y: 10, Status: domain.SeatOccupied, Kind: domain.SeatDesk},
			{ID: "D3", X: 30, Y: 10, Status: domain.SeatReserved, Kind: domain.SeatDesk},
		},
		DeskAreas: []domain.DeskArea{
			{ID: "A1", Name: "North", X: 60, Y: 30, Width: 20, Height: 10, Kind: domain.AreaMeeting},
		},
		FloorSymbols: []domain.FloorSymbol{
			{ID: "S1", Kind: domain.SymbolDoor, X: 1, Y: 1},
		},
		OfficeLayout: domain.OfficeLayout{X: 0, Y: 0, Width: 100, Height: 50, Fill: "#fafafa"},
	}
}

func editing(t *testing.T) *Editor {
	t.Helper()
	e := NewEditor(testPlan())
	e.SetEditMode(true)
	return e
}

func TestToLogical(t *testing.T) {
	p, ok := ToLogical(Point{X: 110, Y: 70}, Rect{Left: 10, Top: 20, Width: 210, Height: 110}, ViewBox)
	require.True(t, ok)
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 25, p.Y, 1e-9)

	_, ok = ToLogical(Point{X: 1, Y: 1}, Rect{}, ViewBox)
	assert.False(t, ok, "unmounted element must be a no-op")

	_, ok = ToLogical(Point{X: 1, Y: 1}, halfRect, Size{})
	assert.False(t, ok)
}

func TestApplyDeltaIsAdditive(t *testing.T) {
	e := editing(t)
	ref := Ref{Class: ClassSeat, ID: "D1"}

	deltas := [][2]float64{{1, 2}, {-0.5, 3}, {0.25, -1}, {10, 10}}
	var sx, sy float64
	for _, d := range deltas {
		require.True(t, e.ApplyDelta(ref, d[0], d[1]))
		sx += d[0]
		sy += d[1]
	}

	p := e.Effective(ref)
	assert.InDelta(t, 10+sx, p.X, 1e-9)
	assert.InDelta(t, 10+sy, p.Y, 1e-9)
	assert.Zero(t, p.Rotation)

	assert.False(t, e.ApplyDelta(Ref{Class: ClassSeat, ID: "nope"}, 1, 1))
}

func TestCommitFoldsOverlay(t *testing.T) {
	e := editing(t)
	ref := Ref{Class: ClassSeat, ID: "D2"}
	e.ApplyDelta(ref, 3, 4)
	e.ApplyDelta(Ref{Class: ClassLayout}, 1, 1)
	_, err := e.NewSeat()
	require.NoError(t, err)
	require.True(t, e.Dirty())

	e.Commit()

	assert.False(t, e.Dirty())
	assert.Empty(t, e.Overlay)
	assert.Empty(t, e.Pending.Seats)
	assert.Len(t, e.Plan.Seats, 4)
	assert.Equal(t, Placement{X: 23, Y: 14}, e.Effective(ref))
	assert.Equal(t, 1.0, e.Plan.OfficeLayout.X)
}

func TestSelectReplacesOrToggles(t *testing.T) {
	e := editing(t)

	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, false))
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D2"}, true))
	assert.Equal(t, []string{"D1", "D2"}, e.Selection.IDs(ClassSeat))

	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, true))
	assert.Equal(t, []string{"D2"}, e.Selection.IDs(ClassSeat))

	require.NoError(t, e.Select(Ref{Class: ClassDeskArea, ID: "A1"}, false))
	assert.Equal(t, []string{"D2"}, e.Selection.IDs(ClassSeat), "classes are independent")

	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D3"}, false))
	assert.Equal(t, []string{"D3"}, e.Selection.IDs(ClassSeat))
	assert.Equal(t, []string{"A1"}, e.Selection.IDs(ClassDeskArea))

	assert.ErrorIs(t, e.Select(Ref{Class: ClassLayout}, false), ErrNotSelectable)
	assert.ErrorIs(t, e.Select(Ref{Class: ClassSeat, ID: "zz"}, false), ErrUnknownEntity)
}

func TestLeavingEditModeClearsSelection(t *testing.T) {
	e := editing(t)
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, false))
	require.NoError(t, e.Select(Ref{Class: ClassSymbol, ID: "S1"}, false))
	e.ApplyDelta(Ref{Class: ClassSeat, ID: "D1"}, 1, 0)

	e.SetEditMode(false)

	assert.Zero(t, e.Selection.Len(ClassSeat))
	assert.Zero(t, e.Selection.Len(ClassSymbol))
	assert.True(t, e.Dirty(), "offsets survive until save")
}

func TestMultiSelectionDragMovesEveryMember(t *testing.T) {
	e := editing(t)
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, false))
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D2"}, true))

	require.NoError(t, e.PointerDown(Ref{Class: ClassSeat, ID: "D1"}, Point{X: 100, Y: 100}))
	moved := e.PointerMove(Point{X: 110, Y: 120}, halfRect)
	assert.Len(t, moved, 2)
	e.PointerMove(Point{X: 112, Y: 120}, halfRect)
	e.PointerUp()

	assert.False(t, e.Drag.Active)
	assert.Equal(t, Placement{X: 16, Y: 20}, e.Effective(Ref{Class: ClassSeat, ID: "D1"}))
	assert.Equal(t, Placement{X: 26, Y: 20}, e.Effective(Ref{Class: ClassSeat, ID: "D2"}))
	assert.Equal(t, Placement{X: 30, Y: 10}, e.Effective(Ref{Class: ClassSeat, ID: "D3"}))
}

func TestDragOutsideSelectionMovesOnlyDraggedEntity(t *testing.T) {
	e := editing(t)
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, false))
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D2"}, true))

	require.NoError(t, e.PointerDown(Ref{Class: ClassSeat, ID: "D3"}, Point{X: 0, Y: 0}))
	e.PointerMove(Point{X: 20, Y: 0}, halfRect)

	assert.Equal(t, Placement{X: 40, Y: 10}, e.Effective(Ref{Class: ClassSeat, ID: "D3"}))
	assert.Equal(t, Placement{X: 10, Y: 10}, e.Effective(Ref{Class: ClassSeat, ID: "D1"}))
}

func TestDragUsesCurrentRenderedSize(t *testing.T) {
	e := editing(t)
	ref := Ref{Class: ClassDeskArea, ID: "A1"}
	require.NoError(t, e.PointerDown(ref, Point{}))

	e.PointerMove(Point{X: 10}, halfRect)
	// Zoomed to twice the size: the same pixel distance is half the logical distance.
	e.PointerMove(Point{X: 20}, Rect{Width: 420, Height: 220})

	assert.InDelta(t, 60+5+2.5, e.Effective(ref).X, 1e-9)
}

func TestPointerMoveWhileUnmountedIsNoop(t *testing.T) {
	e := editing(t)
	require.NoError(t, e.PointerDown(Ref{Class: ClassSeat, ID: "D1"}, Point{}))
	assert.Nil(t, e.PointerMove(Point{X: 50, Y: 50}, Rect{}))
	assert.Equal(t, Placement{X: 10, Y: 10}, e.Effective(Ref{Class: ClassSeat, ID: "D1"}))
}

func TestPointerDownGuards(t *testing.T) {
	e := NewEditor(testPlan())
	assert.ErrorIs(t, e.PointerDown(Ref{Class: ClassSeat, ID: "D1"}, Point{}), ErrNotEditing)

	e.SetEditMode(true)
	require.NoError(t, e.SetPlacement(PlaceDeskArea))
	assert.ErrorIs(t, e.PointerDown(Ref{Class: ClassSeat, ID: "D1"}, Point{}), ErrPlacementActive)

	require.NoError(t, e.SetPlacement(""))
	assert.ErrorIs(t, e.PointerDown(Ref{Class: ClassSeat, ID: "ghost"}, Point{}), ErrUnknownEntity)
	assert.Nil(t, e.PointerMove(Point{X: 1}, halfRect), "idle move does nothing")
}

func TestZoomIsClamped(t *testing.T) {
	z := NewZoom()
	for range 50 {
		z.In()
	}
	assert.Equal(t, MaxZoom, z.Factor)

	for range 50 {
		z.Wheel(120, true)
	}
	assert.Equal(t, MinZoom, z.Factor)

	z = NewZoom()
	assert.False(t, z.Wheel(-120, false), "plain wheel scrolls")
	assert.True(t, z.Wheel(-120, true))
	assert.InDelta(t, 1.1, z.Factor, 1e-9)

	z.Out()
	assert.InDelta(t, 1.1/1.2, z.Factor, 1e-9)

	for _, f := range []float64{-3, 0, 1e9, 4.99, 0.1} {
		got := ClampZoom(f)
		assert.GreaterOrEqual(t, got, MinZoom)
		assert.LessOrEqual(t, got, MaxZoom)
	}
}

func TestPinchScalesFromGestureStart(t *testing.T) {
	z := NewZoom()
	z.In() // 1.2

	assert.False(t, z.PinchMove(200), "no pinch in progress")

	z.PinchStart(100)
	require.True(t, z.PinchMove(150))
	assert.InDelta(t, 1.8, z.Factor, 1e-9)
	require.True(t, z.PinchMove(50))
	assert.InDelta(t, 0.6, z.Factor, 1e-9)
	require.True(t, z.PinchMove(100000))
	assert.Equal(t, MaxZoom, z.Factor)

	z.PinchEnd()
	assert.Nil(t, z.Pinch)
	assert.Equal(t, Size{Width: 500, Height: 250}, z.Rendered(Size{Width: 100, Height: 50}))
}

func TestBookableExcludesSeatsTouchingDeskAreas(t *testing.T) {
	areas := []domain.DeskArea{{ID: "A", X: 10, Y: 10, Width: 10, Height: 10}}
	seats := []domain.Seat{
		{ID: "inside", X: 15, Y: 15},
		{ID: "edge", X: 9, Y: 15},
		{ID: "outside", X: 30, Y: 30},
		{ID: "near", X: 7.9, Y: 15},
	}

	got := Bookable(seats, areas)
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"outside", "near"}, ids)
	assert.Len(t, Excluded(seats, areas), 2)
}

func TestExclusionIsComputedAtLoad(t *testing.T) {
	plan := testPlan()
	plan.Seats = append(plan.Seats, domain.Seat{ID: "hidden", X: 65, Y: 35, Status: domain.SeatAvailable})
	e := NewEditor(plan)

	_, ok := e.Seat("hidden")
	assert.False(t, ok)
	assert.Len(t, e.Seats(), 3)
	assert.Len(t, e.Document().Seats, 4, "excluded seats are still saved")

	e.SetEditMode(true)
	require.NoError(t, e.PointerDown(Ref{Class: ClassSeat, ID: "D1"}, Point{}))
	e.PointerMove(Point{X: 110, Y: 50}, halfRect)
	_, ok = e.Seat("D1")
	assert.True(t, ok, "dragging into an area does not hide a seat until reload")
}

func TestHiddenSeatCannotBePicked(t *testing.T) {
	plan := testPlan()
	plan.Seats = append(plan.Seats, domain.Seat{ID: "IN", X: 65, Y: 35, Status: domain.SeatAvailable})
	e := NewEditor(plan)
	e.SetEditMode(true)

	ref := Ref{Class: ClassSeat, ID: "IN"}
	assert.ErrorIs(t, e.Select(ref, false), ErrUnknownEntity)
	assert.ErrorIs(t, e.PointerDown(ref, Point{}), ErrUnknownEntity)
	assert.Zero(t, e.Selection.Len(ClassSeat))
	assert.False(t, e.Drag.Active)
}

func TestNewSeatAtMidpoint(t *testing.T) {
	e := NewEditor(testPlan())
	_, err := e.NewSeat()
	require.ErrorIs(t, err, ErrNotEditing)

	e.SetEditMode(true)
	s, err := e.NewSeat()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s.ID, "new-seat-"))
	assert.Equal(t, 52.5, s.X)
	assert.Equal(t, 27.5, s.Y)
	assert.Zero(t, s.Rotation)
	assert.Equal(t, domain.SeatAvailable, s.Status)
	assert.True(t, e.Selection.Has(ClassSeat, s.ID))

	got, ok := e.Seat(s.ID)
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestDeleteSeat(t *testing.T) {
	e := editing(t)
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, false))

	assert.ErrorIs(t, e.DeleteSeat("D1", false), ErrConfirmationRequired)
	require.NoError(t, e.DeleteSeat("D1", true))
	assert.ErrorIs(t, e.DeleteSeat("D1", true), ErrUnknownEntity)

	_, ok := e.Seat("D1")
	assert.False(t, ok)
	assert.Zero(t, e.Selection.Len(ClassSeat))
	assert.True(t, e.Dirty(), "deleted seat is an unsaved change")

	e.Commit()
	assert.False(t, e.Dirty())

	s, err := e.NewSeat()
	require.NoError(t, err)
	require.NoError(t, e.DeleteSeat(s.ID, true))
	assert.Empty(t, e.Pending.Seats)
}

func TestCanvasClickPlacesArmedEntity(t *testing.T) {
	e := editing(t)

	ref, placed, err := e.CanvasClick(Point{X: 10, Y: 10}, halfRect)
	require.NoError(t, err)
	assert.False(t, placed)
	assert.Zero(t, ref)

	assert.ErrorIs(t, e.SetPlacement("symbol:fountain"), ErrInvalidPlacement)
	require.NoError(t, e.SetPlacement(PlaceSymbol(domain.SymbolCafeteria)))

	_, _, err = e.CanvasClick(Point{X: 10, Y: 10}, Rect{})
	assert.ErrorIs(t, err, ErrNotMounted)

	ref, placed, err = e.CanvasClick(Point{X: 40, Y: 20}, halfRect)
	require.NoError(t, err)
	require.True(t, placed)
	assert.Equal(t, ClassSymbol, ref.Class)
	assert.Empty(t, e.Placement)
	assert.Equal(t, Placement{X: 20, Y: 10}, e.Effective(ref))

	require.NoError(t, e.SetPlacement(PlaceDeskArea))
	ref, placed, err = e.CanvasClick(Point{X: 0, Y: 0}, halfRect)
	require.NoError(t, err)
	require.True(t, placed)
	assert.Equal(t, ClassDeskArea, ref.Class)
	assert.Len(t, e.DeskAreas(), 2)
}

func TestResizeLayout(t *testing.T) {
	e := editing(t)
	assert.ErrorIs(t, e.ResizeLayout(0, 10), ErrInvalidSize)
	require.NoError(t, e.ResizeLayout(90, 40))
	assert.Equal(t, 90.0, e.Layout().Width)
	assert.Equal(t, 40.0, e.Layout().Height)
	assert.True(t, e.Dirty())

	e.Reset(testPlan())
	assert.False(t, e.Dirty())
}

func TestSavePayload(t *testing.T) {
	e := editing(t)
	e.ApplyDelta(Ref{Class: ClassSeat, ID: "D1"}, 1, 1)

	p, err := e.SavePayload(domain.FloorKey{Building: "campus30", Office: "IN10", Floor: "Floor8"})
	require.NoError(t, err)

	assert.Equal(t, "campus30", p.BuildingName)
	assert.Equal(t, "IN10", p.OfficeLocation)
	assert.Equal(t, "Floor8", p.FloorID)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(p.PlanJSON), &doc))
	for _, k := range []string{"seats", "resources", "deskAreas", "officeLayout", "floorSymbols"} {
		assert.Contains(t, doc, k)
	}

	var plan domain.FloorPlan
	require.NoError(t, json.Unmarshal([]byte(p.PlanJSON), &plan))
	assert.Equal(t, 11.0, plan.Seats[0].X)
	assert.True(t, e.Dirty(), "building a payload does not commit")
}

func TestEditorSurvivesJSONRoundTrip(t *testing.T) {
	e := editing(t)
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, false))
	require.NoError(t, e.PointerDown(Ref{Class: ClassSeat, ID: "D1"}, Point{X: 5, Y: 5}))
	e.Zoom.PinchStart(10)

	b, err := json.Marshal(e)
	require.NoError(t, err)
	var back Editor
	require.NoError(t, json.Unmarshal(b, &back))

	back.PointerMove(Point{X: 25, Y: 5}, halfRect)
	assert.Equal(t, Placement{X: 20, Y: 10}, back.Effective(Ref{Class: ClassSeat, ID: "D1"}))
	assert.NotNil(t, back.Zoom.Pinch)
}

func TestRenderSVG(t *testing.T) {
	e := editing(t)
	require.NoError(t, e.Select(Ref{Class: ClassSeat, ID: "D1"}, false))
	e.Zoom.In()

	svg := e.RenderSVG(Size{Width: 1050, Height: 550})

	assert.Contains(t, svg, `viewBox="0 0 105 55"`)
	assert.Contains(t, svg, `width="1260"`)
	assert.Contains(t, svg, `id="D1" class="seat available"`)
	assert.Contains(t, svg, domain.SeatOccupied.Color())
	assert.Contains(t, svg, selectColor)
	assert.Contains(t, svg, "<title>North</title>")
}
