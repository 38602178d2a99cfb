package response

import (
	"time"

	"airport-ops/internal/data/entity"
)

type PassengerResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	PassportNumber string `json:"passport_number"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	LuggageChecked bool   `json:"luggage_checked"`
}

type PassportVerification struct {
	Valid     bool               `json:"valid"`
	Message   string             `json:"message"`
	Passenger *PassengerResponse `json:"passenger,omitempty"`
}

type VisaResponse struct {
	ID             string    `json:"id"`
	PassportNumber string    `json:"passport_number"`
	Country        string    `json:"country"`
	ValidUntil     time.Time `json:"valid_until"`
}

func PassengerToResponse(p *entity.Passenger) PassengerResponse {
	return PassengerResponse{
		ID:             p.ID.String(),
		Username:       p.Username,
		PassportNumber: p.PassportNumber,
		Phone:          p.Phone,
		Email:          p.Email,
		LuggageChecked: p.LuggageChecked,
	}
}

func PassengersToResponse(passengers []*entity.Passenger) []PassengerResponse {
	out := make([]PassengerResponse, 0, len(passengers))
	for _, p := range passengers {
		out = append(out, PassengerToResponse(p))
	}
	return out
}

func VisaToResponse(v *entity.Visa) VisaResponse {
	return VisaResponse{
		ID:             v.ID.String(),
		PassportNumber: v.PassportNumber,
		Country:        v.Country,
		ValidUntil:     v.ValidUntil,
	}
}
