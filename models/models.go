package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents a registered devotee or admin account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Email        string    `bun:"email,unique,notnull"`
	Name         string    `bun:"name,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Profile holds per-user contact and identity-document references.
// Bookings require either an Aadhaar or PAN reference on file.
type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:pf"`

	ID            int64     `bun:"id,pk,autoincrement"`
	UserID        int64     `bun:"user_id,unique,notnull"`
	Phone         string    `bun:"phone"`
	AadhaarNumber string    `bun:"aadhaar_number"`
	PANNumber     string    `bun:"pan_number"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// HasIdentityDocument reports whether an Aadhaar or PAN reference is on file.
func (p Profile) HasIdentityDocument() bool {
	return p.AadhaarNumber != "" || p.PANNumber != ""
}

// AnnadanamSlot is the stored capacity/status record for a (date, session)
// pair. Dates are YYYY-MM-DD strings throughout; booked counts are derived
// from confirmed bookings, never stored.
type AnnadanamSlot struct {
	bun.BaseModel `bun:"table:annadanam_slots,alias:asl"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Date     string `bun:"date,notnull"`
	Session  string `bun:"session,notnull"`
	Capacity int64  `bun:"capacity,notnull"`
	Status   string `bun:"status,notnull,default:'open'"`
}

// AnnadanamBooking is a confirmed or cancelled meal-session reservation.
// QRToken is the authorization credential for pass lookup and attendance;
// the id alone must never retrieve a booking.
type AnnadanamBooking struct {
	bun.BaseModel `bun:"table:annadanam_bookings,alias:ab"`

	ID         string     `bun:"id,pk"`
	CreatedAt  time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	Date       string     `bun:"date,notnull"`
	Session    string     `bun:"session,notnull"`
	UserID     int64      `bun:"user_id,notnull"`
	Name       string     `bun:"name,notnull"`
	Email      string     `bun:"email,notnull"`
	Phone      string     `bun:"phone"`
	Qty        int64      `bun:"qty,notnull,default:1"`
	Status     string     `bun:"status,notnull,default:'confirmed'"`
	QRToken    string     `bun:"qr_token,unique,notnull"`
	AttendedAt *time.Time `bun:"attended_at"`
}

// PoojaBooking is a pooja reservation. Pooja sessions have no capacity
// counters; availability is gated by the blocked-sessions registry.
type PoojaBooking struct {
	bun.BaseModel `bun:"table:pooja_bookings,alias:pb"`

	ID         string     `bun:"id,pk"`
	CreatedAt  time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	Date       string     `bun:"date,notnull"`
	Session    string     `bun:"session,notnull"`
	UserID     int64      `bun:"user_id,notnull"`
	Name       string     `bun:"name,notnull"`
	Email      string     `bun:"email,notnull"`
	Phone      string     `bun:"phone"`
	Nakshatram string     `bun:"nakshatram"`
	Gothram    string     `bun:"gothram"`
	Status     string     `bun:"status,notnull,default:'confirmed'"`
	QRToken    string     `bun:"qr_token,unique,notnull"`
	AttendedAt *time.Time `bun:"attended_at"`
}

// VolunteerBooking is a volunteer sign-up for a date and session.
type VolunteerBooking struct {
	bun.BaseModel `bun:"table:volunteer_bookings,alias:vb"`

	ID        string    `bun:"id,pk"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	Date      string    `bun:"date,notnull"`
	Session   string    `bun:"session,notnull"`
	Role      string    `bun:"role,notnull"`
	Note      string    `bun:"note"`
	UserID    int64     `bun:"user_id,notnull"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,notnull"`
	Phone     string    `bun:"phone"`
}

// Donation records a devotee donation.
type Donation struct {
	bun.BaseModel `bun:"table:donations,alias:d"`

	ID        int64     `bun:"id,pk,autoincrement"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,notnull"`
	Phone     string    `bun:"phone"`
	Amount    int64     `bun:"amount,notnull"`
	Purpose   string    `bun:"purpose"`
	Note      string    `bun:"note"`
}

// ContactMessage is an inbound contact-form message.
type ContactMessage struct {
	bun.BaseModel `bun:"table:contact_messages,alias:cm"`

	ID        int64     `bun:"id,pk,autoincrement"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	Name      string    `bun:"name,notnull"`
	Email     string    `bun:"email,notnull"`
	Subject   string    `bun:"subject"`
	Message   string    `bun:"message,notnull"`
}

// AdminConfig is a key-value configuration row holding JSON-encoded values.
// The blocked-sessions registry lives under the "pooja_blocked_dates" key.
type AdminConfig struct {
	bun.BaseModel `bun:"table:admin_config,alias:ac"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for privileged operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     int64     `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
