// Package booking implements the seat booking dialog: which seat is being
// booked, the time range and recurrence the user entered, and the
// Closed -> Open -> Submitting -> Closed lifecycle around the API call.
package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kirinyoku/deskgo/internal/domain"
)

const (
	timeLayout = "15:04"
	dateLayout = "2006-01-02"

	// bookingType is the resource type the API files desk bookings under.
	bookingType = "desk"
)

var (
	ErrSeatUnavailable = errors.New("seat is not available")
	ErrNotOpen         = errors.New("booking dialog is not open")
	ErrSubmitting      = errors.New("booking is already being submitted")
	ErrNotBooking      = errors.New("dialog is open for seat editing, not booking")
)

type State string

const (
	Closed     State = "closed"
	Open       State = "open"
	Submitting State = "submitting"
)

type Purpose string

const (
	PurposeBook     Purpose = "book"
	PurposeEditSeat Purpose = "edit-seat"
)

// ValidationError lists every problem with the current form.
type ValidationError struct {
	Issues []string
}

func (e ValidationError) Error() string {
	return "invalid booking: " + strings.Join(e.Issues, "; ")
}

type Dialog struct {
	State      State             `json:"state"`
	Purpose    Purpose           `json:"purpose,omitempty"`
	SeatID     string            `json:"seat_id,omitempty"`
	Date       string            `json:"date,omitempty"`
	StartTime  string            `json:"start_time,omitempty"`
	EndTime    string            `json:"end_time,omitempty"`
	Recurrence domain.Recurrence `json:"recurrence"`
	LastError  string            `json:"last_error,omitempty"`
}

// Form carries the fields the user can change while the dialog is open.
// Nil fields are left as they are.
type Form struct {
	StartTime  *string
	EndTime    *string
	Recurrence *domain.Recurrence
}

// Open shows the dialog for seat on date. Outside edit mode only available
// seats can be opened, and the dialog books. In edit mode any seat opens, for
// editing its position rather than booking.
func (d *Dialog) Open(seat domain.Seat, date string, editMode bool) error {
	if d.State == Submitting {
		return ErrSubmitting
	}

	purpose := PurposeBook
	if editMode {
		purpose = PurposeEditSeat
	} else if seat.Status != domain.SeatAvailable {
		return fmt.Errorf("%w: %s is %s", ErrSeatUnavailable, seat.ID, seat.Status)
	}

	*d = Dialog{
		State:      Open,
		Purpose:    purpose,
		SeatID:     seat.ID,
		Date:       date,
		StartTime:  "09:00",
		EndTime:    "17:00",
		Recurrence: domain.Recurrence{Kind: domain.RecurrenceNone},
	}
	return nil
}

// Update applies user input. Validation happens on submit, and through
// CanSubmit for callers that gate the submit action.
func (d *Dialog) Update(f Form) error {
	if err := d.requireBooking(); err != nil {
		return err
	}
	if f.StartTime != nil {
		d.StartTime = *f.StartTime
	}
	if f.EndTime != nil {
		d.EndTime = *f.EndTime
	}
	if f.Recurrence != nil {
		d.Recurrence = *f.Recurrence
	}
	return nil
}

// Validate checks the form without touching the network.
func (d *Dialog) Validate() error {
	var issues []string

	start, errStart := time.Parse(timeLayout, d.StartTime)
	if errStart != nil {
		issues = append(issues, "start time must be HH:MM")
	}
	end, errEnd := time.Parse(timeLayout, d.EndTime)
	if errEnd != nil {
		issues = append(issues, "end time must be HH:MM")
	}
	if errStart == nil && errEnd == nil && !end.After(start) {
		issues = append(issues, "end time must be after start time")
	}

	day, errDay := time.Parse(dateLayout, d.Date)
	if errDay != nil {
		issues = append(issues, "date must be YYYY-MM-DD")
	}

	r := d.Recurrence
	switch r.Kind {
	case domain.RecurrenceNone, "":
	case domain.RecurrenceDaily, domain.RecurrenceWeekly:
		if r.EndDate == "" {
			issues = append(issues, fmt.Sprintf("%s recurrence requires an end date", r.Kind))
			break
		}
		until, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			issues = append(issues, "end date must be YYYY-MM-DD")
		} else if errDay == nil && until.Before(day) {
			issues = append(issues, "end date must not be before the booking date")
		}
	case domain.RecurrenceCustom:
		if len(r.Dates) == 0 {
			issues = append(issues, "custom recurrence requires at least one date")
		}
		for _, s := range r.Dates {
			if _, err := time.Parse(dateLayout, s); err != nil {
				issues = append(issues, fmt.Sprintf("custom date %q must be YYYY-MM-DD", s))
			}
		}
	default:
		issues = append(issues, fmt.Sprintf("unknown recurrence %q", r.Kind))
	}

	if len(issues) > 0 {
		return ValidationError{Issues: issues}
	}
	return nil
}

// CanSubmit reports whether the submit action should be enabled.
func (d *Dialog) CanSubmit() bool {
	return d.State == Open && d.Purpose == PurposeBook && d.Validate() == nil
}

// Begin validates the form, moves the dialog to Submitting and returns the
// request to send.
func (d *Dialog) Begin(key domain.FloorKey, userID string) (domain.BookingRequest, error) {
	if d.State == Submitting {
		return domain.BookingRequest{}, ErrSubmitting
	}
	if err := d.requireBooking(); err != nil {
		return domain.BookingRequest{}, err
	}
	if err := d.Validate(); err != nil {
		return domain.BookingRequest{}, err
	}

	r := d.Recurrence
	if r.Kind == "" {
		r.Kind = domain.RecurrenceNone
	}
	if r.Kind != domain.RecurrenceCustom {
		r.Dates = nil
	}
	if r.Kind == domain.RecurrenceNone || r.Kind == domain.RecurrenceCustom {
		r.EndDate = ""
	}

	d.State = Submitting
	d.LastError = ""

	return domain.BookingRequest{
		Type:       bookingType,
		SubType:    d.SeatID,
		Date:       d.Date,
		StartTime:  d.StartTime,
		EndTime:    d.EndTime,
		Recurrence: r,
		Building:   key.Building,
		Office:     key.Office,
		Floor:      key.Floor,
		UserID:     userID,
	}, nil
}

// Succeed closes the dialog after the API accepted the booking.
func (d *Dialog) Succeed() {
	*d = Dialog{State: Closed}
}

// Fail returns to Open so the user can retry, keeping everything they entered.
func (d *Dialog) Fail(msg string) {
	d.State = Open
	d.LastError = msg
}

func (d *Dialog) Close() {
	*d = Dialog{State: Closed}
}

func (d *Dialog) requireBooking() error {
	switch {
	case d.State == Submitting:
		return ErrSubmitting
	case d.State != Open:
		return ErrNotOpen
	case d.Purpose != PurposeBook:
		return ErrNotBooking
	}
	return nil
}
