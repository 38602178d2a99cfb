package response

import "time"

type BorderCheckResponse struct {
	PassportNumber        string             `json:"passport_number"`
	TicketNumber          string             `json:"ticket_number,omitempty"`
	Passenger             *PassengerResponse `json:"passenger,omitempty"`
	Ticket                *TicketResponse    `json:"ticket,omitempty"`
	Destination           string             `json:"destination,omitempty"`
	PassportValid         bool               `json:"passport_valid"`
	TicketValid           bool               `json:"ticket_valid"`
	VisaRequired          bool               `json:"visa_required"`
	VisaValid             bool               `json:"visa_valid"`
	RestrictedDestination bool               `json:"restricted_destination"`
	ClearanceGranted      bool               `json:"clearance_granted"`
	Message               string             `json:"message"`
	Recommendations       []string           `json:"recommendations"`
}

type CustomsCheckResponse struct {
	PassportNumber   string             `json:"passport_number"`
	TicketNumber     string             `json:"ticket_number,omitempty"`
	Passenger        *PassengerResponse `json:"passenger,omitempty"`
	Ticket           *TicketResponse    `json:"ticket,omitempty"`
	PassportVerified bool               `json:"passport_verified"`
	PassportMessage  string             `json:"passport_message"`
	LuggageChecked   bool               `json:"luggage_checked"`
	TicketValid      bool               `json:"ticket_valid"`
	AllChecksPassed  bool               `json:"all_checks_passed"`
	Message          string             `json:"message"`
}

type ClearanceRecord struct {
	PassportNumber string    `json:"passport_number"`
	Kind           string    `json:"kind"`
	Officer        string    `json:"officer"`
	Notes          string    `json:"notes,omitempty"`
	ClearedAt      time.Time `json:"cleared_at"`
}
