package profile

type IdentityInput struct {
	Phone         string `json:"phone" validate:"omitempty,min=8,max=20"`
	AadhaarNumber string `json:"aadhaar" validate:"omitempty,len=12,numeric"`
	PANNumber     string `json:"pan" validate:"omitempty,len=10,alphanum"`
}

type ProfileView struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	AadhaarNumber string `json:"aadhaar"`
	PANNumber     string `json:"pan"`
	HasIdentity   bool   `json:"has_identity_document"`
}
