// Package events publishes deskgo domain events to RabbitMQ for downstream
// consumers (notifications, analytics). Publishing is best effort: callers
// log failures and carry on.
package events

import (
	"time"
)

const (
	QueueBookingCreated = "deskgo.booking.created"
	QueueFloorPlanSaved = "deskgo.floorplan.saved"
)

type BookingCreated struct {
	BookingID string    `json:"booking_id"`
	UserID    string    `json:"user_id"`
	SeatID    string    `json:"seat_id"`
	Building  string    `json:"building"`
	Office    string    `json:"office"`
	Floor     string    `json:"floor"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	At        time.Time `json:"at"`
}

type FloorPlanSaved struct {
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Building    string    `json:"building"`
	Office      string    `json:"office"`
	Floor       string    `json:"floor"`
	Seats       int       `json:"seats"`
	DeskAreas   int       `json:"desk_areas"`
	Symbols     int       `json:"symbols"`
	At          time.Time `json:"at"`
}
