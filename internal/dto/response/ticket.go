package response

import (
	"time"

	"airport-ops/internal/data/entity"
)

type TicketResponse struct {
	ID             string              `json:"id"`
	TicketNumber   string              `json:"ticket_number"`
	FlightNumber   string              `json:"flight_number"`
	PassportNumber string              `json:"passport_number"`
	SeatNumber     string              `json:"seat_number"`
	Price          float64             `json:"price"`
	Status         entity.TicketStatus `json:"status"`
	BookedAt       time.Time           `json:"booked_at"`
}

type CheckInResponse struct {
	Ticket       TicketResponse       `json:"ticket"`
	BoardingPass BoardingPassResponse `json:"boarding_pass"`
}

type BulkCheckInResponse struct {
	FlightNumber string `json:"flight_number"`
	CheckedIn    int    `json:"checked_in"`
}

type BoardingPassResponse struct {
	ID                    string              `json:"id"`
	TicketNumber          string              `json:"ticket_number"`
	TicketStatus          entity.TicketStatus `json:"ticket_status"`
	CheckInTime           time.Time           `json:"check_in_time"`
	PassportVerified      bool                `json:"passport_verified"`
	LuggageVerified       bool                `json:"luggage_verified"`
	Boarded               bool                `json:"boarded"`
	VerifiedByBorderGuard *string             `json:"verified_by_border_guard,omitempty"`
	VerifiedByCustoms     *string             `json:"verified_by_customs,omitempty"`
}

type ReadinessResponse struct {
	BoardingPassID   string              `json:"boarding_pass_id"`
	TicketNumber     string              `json:"ticket_number"`
	TicketStatus     entity.TicketStatus `json:"ticket_status"`
	PassportVerified bool                `json:"passport_verified"`
	LuggageVerified  bool                `json:"luggage_verified"`
	Ready            bool                `json:"ready"`
	Issues           []string            `json:"issues"`
}

func TicketToResponse(t *entity.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID.String(),
		TicketNumber:   t.TicketNumber,
		FlightNumber:   t.FlightNumber,
		PassportNumber: t.PassportNumber,
		SeatNumber:     t.SeatNumber,
		Price:          t.Price,
		Status:         t.Status,
		BookedAt:       t.BookedAt,
	}
}

func TicketsToResponse(tickets []*entity.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketToResponse(t))
	}
	return out
}

func BoardingPassToResponse(b *entity.BoardingPass) BoardingPassResponse {
	resp := BoardingPassResponse{
		ID:               b.ID.String(),
		TicketNumber:     b.TicketNumber,
		TicketStatus:     b.TicketStatus,
		CheckInTime:      b.CheckInTime,
		PassportVerified: b.PassportVerified,
		LuggageVerified:  b.LuggageVerified,
		Boarded:          b.Boarded,
	}
	if b.VerifiedByBorderGuard != nil {
		id := b.VerifiedByBorderGuard.String()
		resp.VerifiedByBorderGuard = &id
	}
	if b.VerifiedByCustoms != nil {
		id := b.VerifiedByCustoms.String()
		resp.VerifiedByCustoms = &id
	}
	return resp
}
