package pooja

import "time"

type ReserveRequest struct {
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Session    string `json:"session" validate:"required,max=20"`
	Name       string `json:"name" validate:"required,max=120"`
	Phone      string `json:"phone" validate:"required,min=8,max=20"`
	Nakshatram string `json:"nakshatram" validate:"omitempty,max=60"`
	Gothram    string `json:"gothram" validate:"omitempty,max=60"`
	Next       string `json:"next" validate:"omitempty,max=200"`
}

type ReserveResponse struct {
	BookingID string `json:"booking_id"`
	Date      string `json:"date"`
	Session   string `json:"session"`
	QRToken   string `json:"qr_token"`
	QRPayload string `json:"qr_payload"`
}

type PassView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Date       string     `json:"date"`
	Session    string     `json:"session"`
	Nakshatram string     `json:"nakshatram"`
	Gothram    string     `json:"gothram"`
	Status     string     `json:"status"`
	AttendedAt *time.Time `json:"attended_at"`
}

// BlockedSession is one (date, session) pair closed for pooja bookings.
type BlockedSession struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Session string `json:"session" validate:"required,max=20"`
}

type MarkAttendanceRequest struct {
	Payload string `json:"payload" validate:"omitempty,max=500"`
	ID      string `json:"id" validate:"omitempty,max=60"`
	Token   string `json:"token" validate:"omitempty,max=100"`
}

type UpdateBlockedRequest struct {
	Blocked []BlockedSession `json:"blocked" validate:"required,dive"`
}
