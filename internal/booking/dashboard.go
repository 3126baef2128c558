package booking

import (
	"sort"
	"time"

	"github.com/kirinyoku/deskgo/internal/domain"
)

// GroupDashboard splits bookings into today, upcoming and history relative to
// the calendar day of now. Bookings with an unparseable date go to the end of history.
// Upcoming is sorted soonest first, history most recent first.
func GroupDashboard(bookings []domain.Booking, now time.Time) domain.Dashboard {
	today := now.Format(dateLayout)

	out := domain.Dashboard{
		Today:    []domain.Booking{},
		Upcoming: []domain.Booking{},
		History:  []domain.Booking{},
	}
	var undated []domain.Booking
	for _, b := range bookings {
		if _, err := time.Parse(dateLayout, b.Date); err != nil {
			undated = append(undated, b)
			continue
		}
		// YYYY-MM-DD compares chronologically as a string.
		switch {
		case b.Date == today:
			out.Today = append(out.Today, b)
		case b.Date > today:
			out.Upcoming = append(out.Upcoming, b)
		default:
			out.History = append(out.History, b)
		}
	}

	byStart := func(list []domain.Booking, asc bool) {
		sort.SliceStable(list, func(i, j int) bool {
			a := list[i].Date + " " + list[i].StartTime
			b := list[j].Date + " " + list[j].StartTime
			if asc {
				return a < b
			}
			return a > b
		})
	}
	byStart(out.Today, true)
	byStart(out.Upcoming, true)
	byStart(out.History, false)
	out.History = append(out.History, undated...)

	return out
}
