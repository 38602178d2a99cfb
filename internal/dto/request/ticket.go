package request

type BookTicketRequest struct {
	FlightNumber string `json:"flight_number" validate:"required,flightno"`
	// PassportNumber may be omitted by passengers booking for themselves.
	PassportNumber string  `json:"passport_number" validate:"omitempty,passport"`
	SeatNumber     string  `json:"seat_number" validate:"required,seat"`
	Price          float64 `json:"price" validate:"gte=0"`
	TicketNumber   string  `json:"ticket_number" validate:"omitempty,max=20"`
}

type VerificationRequest struct {
	PassportVerified *bool `json:"passport_verified,omitempty"`
	LuggageVerified  *bool `json:"luggage_verified,omitempty"`
}

type BoardedRequest struct {
	Boarded *bool `json:"boarded" validate:"required"`
}

type ClearanceRequest struct {
	PassportNumber string `json:"passport_number" validate:"required"`
	TicketNumber   string `json:"ticket_number,omitempty"`
	Notes          string `json:"notes,omitempty" validate:"max=500"`
}
