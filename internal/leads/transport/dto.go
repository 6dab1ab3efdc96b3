package transport

// CleaningLeadRequest is the homeowner form posted by the website.
type CleaningLeadRequest struct {
	Name               string `json:"name" validate:"required,min=1,max=200"`
	Email              string `json:"email" validate:"required,email"`
	Phone              string `json:"phone" validate:"required,max=30,phone_digits"`
	Address            string `json:"address,omitempty" validate:"omitempty,max=300"`
	City               string `json:"city,omitempty" validate:"omitempty,max=100"`
	Zip                string `json:"zip,omitempty" validate:"omitempty,max=20"`
	HomeSize           string `json:"home_size,omitempty" validate:"omitempty,max=100"`
	Bedrooms           *int   `json:"bedrooms,omitempty" validate:"omitempty,min=0,max=50"`
	Bathrooms          *int   `json:"bathrooms,omitempty" validate:"omitempty,min=0,max=50"`
	PreferredFrequency string `json:"preferred_frequency,omitempty" validate:"omitempty,max=50"`
	Notes              string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ProsApplicationRequest is the contractor application posted by the website.
type ProsApplicationRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Phone      string `json:"phone" validate:"required,max=30,phone_digits"`
	Email      string `json:"email" validate:"required,email"`
	Experience string `json:"experience,omitempty" validate:"omitempty,max=2000"`
	Notes      string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type LeadResponse struct {
	OK        bool   `json:"ok"`
	ContactID string `json:"contact_id"`
	Message   string `json:"message"`
}
