package request

import "time"

type CreatePassengerRequest struct {
	OwnerUsername  string `json:"owner_username" validate:"required"`
	PassportNumber string `json:"passport_number" validate:"required,passport"`
	Phone          string `json:"phone" validate:"required,phone"`
	Email          string `json:"email" validate:"required,email,max=255"`
}

type UpdateLuggageRequest struct {
	Checked *bool `json:"checked" validate:"required"`
}

type PassengerLookup struct {
	Passport string
	Phone    string
	Email    string
}

type RegisterVisaRequest struct {
	PassportNumber string    `json:"passport_number" validate:"required,passport"`
	Country        string    `json:"country" validate:"required,max=100"`
	ValidUntil     time.Time `json:"valid_until" validate:"required"`
}
