package volunteer

import "time"

type SignupRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Session string `json:"session" validate:"required,oneof=Morning Evening"`
	Role    string `json:"role" validate:"required,max=80"`
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,min=8,max=20"`
	Note    string `json:"note" validate:"omitempty,max=500"`
	Next    string `json:"next" validate:"omitempty,max=200"`
}

type SignupResponse struct {
	BookingID string `json:"booking_id"`
	Date      string `json:"date"`
	Session   string `json:"session"`
	Role      string `json:"role"`
}

type ListFilter struct {
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Session   string `json:"session" validate:"omitempty,oneof=Morning Evening all"`
}

type BookingRow struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Date      string    `json:"date"`
	Session   string    `json:"session"`
	Role      string    `json:"role"`
	Note      string    `json:"note"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
}
