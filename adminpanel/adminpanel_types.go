package adminpanel

import (
	"time"

	"sevabook/models"
)

type ListRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Session string `json:"session" validate:"required,max=40"`
}

type ExportRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// ExportPayload is the full JSON snapshot an admin pulls for a date range.
type ExportPayload struct {
	ExportedAt        time.Time                 `json:"exported_at"`
	DateRange         [2]string                 `json:"date_range"`
	Users             []UserRow                 `json:"users"`
	Profiles          []ProfileRow              `json:"profiles"`
	PoojaBookings     []models.PoojaBooking     `json:"pooja_bookings"`
	AnnadanamBookings []models.AnnadanamBooking `json:"annadanam_bookings"`
	Donations         []models.Donation         `json:"donations"`
	ContactMessages   []models.ContactMessage   `json:"contact_messages"`
	VolunteerBookings []models.VolunteerBooking `json:"volunteer_bookings"`
}

// UserRow is the export shape of an account. Password hashes never leave the
// database.
type UserRow struct {
	ID        int64     `json:"id" bun:"id"`
	Email     string    `json:"email" bun:"email"`
	Name      string    `json:"name" bun:"name"`
	CreatedAt time.Time `json:"created_at" bun:"created_at"`
}

type ProfileRow struct {
	UserID        int64  `json:"user_id" bun:"user_id"`
	Phone         string `json:"phone" bun:"phone"`
	AadhaarNumber string `json:"aadhaar_number" bun:"aadhaar_number"`
	PANNumber     string `json:"pan_number" bun:"pan_number"`
}
