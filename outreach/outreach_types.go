// Package outreach handles the public-facing donation and contact forms.
// Neither requires an account.
package outreach

type DonationRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,min=8,max=20"`
	Amount  int64  `json:"amount" validate:"required,gt=0"`
	Purpose string `json:"purpose" validate:"omitempty,max=120"`
	Note    string `json:"note" validate:"omitempty,max=500"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
}
