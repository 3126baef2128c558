package booking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	seatD1 = domain.Seat{ID: "D1", Status: domain.SeatAvailable}
	key    = domain.FloorKey{Building: "campus30", Office: "IN10", Floor: "Floor8", Date: "2024-01-15"}
)

func ptr[T any](v T) *T { return &v }

func openDialog(t *testing.T) *Dialog {
	t.Helper()
	var d Dialog
	require.NoError(t, d.Open(seatD1, "2024-01-15", false))
	return &d
}

func TestOpenRequiresAvailableSeat(t *testing.T) {
	var d Dialog
	err := d.Open(domain.Seat{ID: "D2", Status: domain.SeatOccupied}, "2024-01-15", false)
	assert.ErrorIs(t, err, ErrSeatUnavailable)
	assert.NotEqual(t, Open, d.State)

	require.NoError(t, d.Open(domain.Seat{ID: "D2", Status: domain.SeatMaintenance}, "2024-01-15", true))
	assert.Equal(t, Open, d.State)
	assert.Equal(t, PurposeEditSeat, d.Purpose)
	assert.False(t, d.CanSubmit())
	assert.ErrorIs(t, d.Update(Form{StartTime: ptr("10:00")}), ErrNotBooking)
}

func TestSubmitGating(t *testing.T) {
	cases := []struct {
		name  string
		form  Form
		valid bool
	}{
		{"defaults", Form{}, true},
		{"end equals start", Form{StartTime: ptr("09:00"), EndTime: ptr("09:00")}, false},
		{"end before start", Form{StartTime: ptr("17:00"), EndTime: ptr("09:00")}, false},
		{"bad time", Form{StartTime: ptr("9am")}, false},
		{"daily without end", Form{Recurrence: &domain.Recurrence{Kind: domain.RecurrenceDaily}}, false},
		{"weekly without end", Form{Recurrence: &domain.Recurrence{Kind: domain.RecurrenceWeekly}}, false},
		{"weekly with end", Form{Recurrence: &domain.Recurrence{Kind: domain.RecurrenceWeekly, EndDate: "2024-02-15"}}, true},
		{"daily ending before start", Form{Recurrence: &domain.Recurrence{Kind: domain.RecurrenceDaily, EndDate: "2024-01-01"}}, false},
		{"custom without dates", Form{Recurrence: &domain.Recurrence{Kind: domain.RecurrenceCustom}}, false},
		{"custom with dates", Form{Recurrence: &domain.Recurrence{Kind: domain.RecurrenceCustom, Dates: []string{"2024-01-16"}}}, true},
		{"unknown recurrence", Form{Recurrence: &domain.Recurrence{Kind: "monthly"}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := openDialog(t)
			require.NoError(t, d.Update(tc.form))
			assert.Equal(t, tc.valid, d.CanSubmit())

			_, err := d.Begin(key, "u1")
			if tc.valid {
				assert.NoError(t, err)
				assert.Equal(t, Submitting, d.State)
				return
			}
			var verr ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Issues)
			assert.Equal(t, Open, d.State, "invalid form never reaches the network")
		})
	}
}

func TestBeginBuildsRequest(t *testing.T) {
	d := openDialog(t)
	require.NoError(t, d.Update(Form{StartTime: ptr("09:00"), EndTime: ptr("17:00")}))

	req, err := d.Begin(key, "u1")
	require.NoError(t, err)

	b, err := json.Marshal(req)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))

	assert.Equal(t, "D1", body["subType"])
	assert.Equal(t, "2024-01-15", body["date"])
	assert.Equal(t, "09:00", body["startTime"])
	assert.Equal(t, "17:00", body["endTime"])
	assert.Equal(t, map[string]any{"type": "none"}, body["recurrence"])

	_, err = d.Begin(key, "u1")
	assert.ErrorIs(t, err, ErrSubmitting)
}

func TestFailKeepsDialogOpenForRetry(t *testing.T) {
	d := openDialog(t)
	require.NoError(t, d.Update(Form{EndTime: ptr("12:30")}))
	_, err := d.Begin(key, "u1")
	require.NoError(t, err)

	d.Fail("Seat already booked")

	assert.Equal(t, Open, d.State)
	assert.Equal(t, "Seat already booked", d.LastError)
	assert.Equal(t, "12:30", d.EndTime)

	_, err = d.Begin(key, "u1")
	require.NoError(t, err)
	assert.Empty(t, d.LastError)

	d.Succeed()
	assert.Equal(t, Closed, d.State)
	assert.Empty(t, d.SeatID)
}

func TestUpdateRequiresOpenDialog(t *testing.T) {
	var d Dialog
	assert.ErrorIs(t, d.Update(Form{}), ErrNotOpen)
	_, err := d.Begin(key, "")
	assert.ErrorIs(t, err, ErrNotOpen)
}

func TestGroupDashboard(t *testing.T) {
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	got := GroupDashboard([]domain.Booking{
		{ID: "1", Date: "2024-01-14", StartTime: "09:00"},
		{ID: "2", Date: "2024-01-15", StartTime: "13:00"},
		{ID: "3", Date: "2024-01-20", StartTime: "09:00"},
		{ID: "4", Date: "2024-01-15", StartTime: "09:00"},
		{ID: "5", Date: "2024-01-16", StartTime: "09:00"},
		{ID: "6", Date: "2023-12-01", StartTime: "09:00"},
		{ID: "7", Date: "soon"},
	}, now)

	ids := func(list []domain.Booking) []string {
		out := []string{}
		for _, b := range list {
			out = append(out, b.ID)
		}
		return out
	}
	assert.Equal(t, []string{"4", "2"}, ids(got.Today))
	assert.Equal(t, []string{"5", "3"}, ids(got.Upcoming))
	assert.Equal(t, []string{"1", "6", "7"}, ids(got.History))
}
