package domain

import (
	"encoding/json"
	"time"
)

type SeatStatus string

const (
	SeatAvailable   SeatStatus = "available"
	SeatOccupied    SeatStatus = "occupied"
	SeatReserved    SeatStatus = "reserved"
	SeatMaintenance SeatStatus = "maintenance"
)

// Color returns the fill used when rendering a seat with this status.
func (s SeatStatus) Color() string {
	switch s {
	case SeatAvailable:
		return "#4caf50"
	case SeatOccupied:
		return "#f44336"
	case SeatReserved:
		return "#ff9800"
	case SeatMaintenance:
		return "#9e9e9e"
	default:
		return "#bdbdbd"
	}
}

type SeatKind string

const (
	SeatDesk        SeatKind = "desk"
	SeatMeetingRoom SeatKind = "meeting-room"
	SeatPhoneBooth  SeatKind = "phone-booth"
)

type AreaKind string

const (
	AreaWorkspace      AreaKind = "workspace"
	AreaMeeting        AreaKind = "meeting-area"
	AreaPhoneBoothArea AreaKind = "phone-booth-area"
)

type SymbolKind string

const (
	SymbolDoor          SymbolKind = "door"
	SymbolWashroom      SymbolKind = "washroom"
	SymbolEmergencyExit SymbolKind = "emergency-exit"
	SymbolCafeteria     SymbolKind = "cafeteria"
)

func (k SymbolKind) Valid() bool {
	switch k {
	case SymbolDoor, SymbolWashroom, SymbolEmergencyExit, SymbolCafeteria:
		return true
	}
	return false
}

type Seat struct {
	ID        string     `json:"id" yaml:"id"`
	X         float64    `json:"x" yaml:"x"`
	Y         float64    `json:"y" yaml:"y"`
	Rotation  float64    `json:"rotation" yaml:"rotation"`
	Status    SeatStatus `json:"status" yaml:"status"`
	Kind      SeatKind   `json:"type" yaml:"type"`
	Equipment []string   `json:"equipment,omitempty" yaml:"equipment,omitempty"`
}

type DeskArea struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	X        float64  `json:"x" yaml:"x"`
	Y        float64  `json:"y" yaml:"y"`
	Width    float64  `json:"width" yaml:"width"`
	Height   float64  `json:"height" yaml:"height"`
	Kind     AreaKind `json:"type" yaml:"type"`
	Rotation float64  `json:"rotation" yaml:"rotation"`
}

type FloorSymbol struct {
	ID       string     `json:"id" yaml:"id"`
	Kind     SymbolKind `json:"type" yaml:"type"`
	X        float64    `json:"x" yaml:"x"`
	Y        float64    `json:"y" yaml:"y"`
	Rotation float64    `json:"rotation" yaml:"rotation"`
}

type OfficeLayout struct {
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
	Fill        string  `json:"fill" yaml:"fill"`
	Stroke      string  `json:"stroke" yaml:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" yaml:"strokeWidth"`
}

// Resource is a bookable non-desk item placed on a floor (projector, locker...).
type Resource struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	Location string  `json:"location,omitempty" yaml:"location,omitempty"`
	X        float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y        float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

// FloorPlan is everything drawn for one (building, office, floor) tuple.
type FloorPlan struct {
	Seats        []Seat        `json:"seats" yaml:"seats"`
	Resources    []Resource    `json:"resources" yaml:"resources"`
	DeskAreas    []DeskArea    `json:"deskAreas" yaml:"deskAreas"`
	OfficeLayout OfficeLayout  `json:"officeLayout" yaml:"officeLayout"`
	FloorSymbols []FloorSymbol `json:"floorSymbols" yaml:"floorSymbols"`
}

type FloorKey struct {
	Building string `json:"building"`
	Office   string `json:"office"`
	Floor    string `json:"floor"`
	Date     string `json:"date"`
}

// SavePayload is the body of a floor-plan save.
type SavePayload struct {
	BuildingName   string `json:"building_name"`
	OfficeLocation string `json:"office_location"`
	FloorID        string `json:"floor_id"`
	PlanJSON       string `json:"plan_json"`
}

type RecurrenceKind string

const (
	RecurrenceNone   RecurrenceKind = "none"
	RecurrenceDaily  RecurrenceKind = "daily"
	RecurrenceWeekly RecurrenceKind = "weekly"
	RecurrenceCustom RecurrenceKind = "custom"
)

type Recurrence struct {
	Kind    RecurrenceKind `json:"type"`
	EndDate string         `json:"endDate,omitempty"`
	Dates   []string       `json:"dates,omitempty"`
}

// BookingRequest is what the API expects on POST /api/bookings.
type BookingRequest struct {
	Type       string     `json:"type"`
	SubType    string     `json:"subType"`
	Date       string     `json:"date"`
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	Recurrence Recurrence `json:"recurrence"`
	Building   string     `json:"building,omitempty"`
	Office     string     `json:"office,omitempty"`
	Floor      string     `json:"floor,omitempty"`
	UserID     string     `json:"userId,omitempty"`
}

type Booking struct {
	ID         string     `json:"id"`
	SeatID     string     `json:"seatId"`
	Date       string     `json:"date"`
	StartTime  string     `json:"startTime"`
	EndTime    string     `json:"endTime"`
	Recurrence Recurrence `json:"recurrence"`
	UserID     string     `json:"userId"`
	Status     string     `json:"status"`
}

// Dashboard groups a user's bookings relative to a reference day.
type Dashboard struct {
	Today    []Booking `json:"today"`
	Upcoming []Booking `json:"upcoming"`
	History  []Booking `json:"history"`
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthResult is the canonical shape of a login or refresh response.
type AuthResult struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type Building struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

type Floor struct {
	ID         string `json:"id"`
	BuildingID string `json:"buildingId"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
}

type Desk struct {
	ID        string   `json:"id"`
	FloorID   string   `json:"floorId"`
	Label     string   `json:"label"`
	Kind      SeatKind `json:"type"`
	Equipment []string `json:"equipment,omitempty"`
}

type FloorVersion struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	Author    string    `json:"author,omitempty"`
}

// Stats is an opaque counter map returned by the various stats endpoints.
type Stats map[string]any

// BookingUpdate carries the fields a user may change on an existing booking.
type BookingUpdate struct {
	Date      string `json:"date,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Status    string `json:"status,omitempty"`
}

type BookingFilter struct {
	Date   string
	SeatID string
	Status string
}

type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

type Availability struct {
	ID    string     `json:"id"`
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

type ResourceBookingRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Quantity  int    `json:"quantity,omitempty"`
}

type UserInput struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

// RoleInfo describes a role. Some API versions list roles as bare strings.
type RoleInfo struct {
	Name        Role   `json:"name"`
	Description string `json:"description,omitempty"`
}

func (r *RoleInfo) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*r = RoleInfo{Name: Role(name)}
		return nil
	}
	type plain RoleInfo
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = RoleInfo(p)
	return nil
}

// Clone returns a deep copy of p, so two editors never share seat slices.
func (p FloorPlan) Clone() FloorPlan {
	out := p
	out.Seats = make([]Seat, len(p.Seats))
	for i, s := range p.Seats {
		s.Equipment = append([]string(nil), s.Equipment...)
		out.Seats[i] = s
	}
	out.Resources = append([]Resource{}, p.Resources...)
	out.DeskAreas = append([]DeskArea{}, p.DeskAreas...)
	out.FloorSymbols = append([]FloorSymbol{}, p.FloorSymbols...)
	return out
}
