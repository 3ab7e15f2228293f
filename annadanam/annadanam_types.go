package annadanam

import "time"

// DefaultCapacity applies to any (date, session) pair with no stored slot
// row. GroupCeiling caps the total confirmed count across a whole session
// group (afternoon or evening) on one date.
const (
	DefaultCapacity = 150
	GroupCeiling    = 150
)

type ReserveRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Session string `json:"session" validate:"required,max=40"`
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,min=8,max=20"`
	// Qty is accepted for compatibility and ignored; bookings are always 1.
	Qty     int64  `json:"qty" validate:"omitempty,min=0,max=100"`
	Next    string `json:"next" validate:"omitempty,max=200"`
	DevTime string `json:"dev_time" validate:"omitempty,len=5"`
}

type ReserveResponse struct {
	BookingID string `json:"booking_id"`
	Date      string `json:"date"`
	Session   string `json:"session"`
	Qty       int64  `json:"qty"`
	QRToken   string `json:"qr_token"`
	PassURL   string `json:"pass_url"`
}

// SlotView is one row of the availability snapshot. Sessions without a stored
// slot row materialize with the default capacity and open status.
type SlotView struct {
	Date        string `json:"date"`
	Session     string `json:"session"`
	Capacity    int64  `json:"capacity"`
	BookedCount int64  `json:"booked_count"`
	Status      string `json:"status"`
}

// PassView is what the scanner and the pass page see for one booking.
type PassView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Date       string     `json:"date"`
	Session    string     `json:"session"`
	Qty        int64      `json:"qty"`
	Status     string     `json:"status"`
	AttendedAt *time.Time `json:"attended_at"`
}

type MarkAttendanceRequest struct {
	Payload string `json:"payload" validate:"omitempty,max=500"`
	Token   string `json:"token" validate:"omitempty,max=100"`
}
