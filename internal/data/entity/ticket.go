package entity

import (
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketBooked    TicketStatus = "BOOKED"
	TicketCheckedIn TicketStatus = "CHECKED_IN"
	TicketBoarded   TicketStatus = "BOARDED"
)

// Next returns the only status the ticket may move to from s.
func (s TicketStatus) Next() (TicketStatus, bool) {
	switch s {
	case TicketBooked:
		return TicketCheckedIn, true
	case TicketCheckedIn:
		return TicketBoarded, true
	default:
		return "", false
	}
}

type Ticket struct {
	Base
	FlightID     uuid.UUID    `db:"flight_id"`
	PassengerID  uuid.UUID    `db:"passenger_id"`
	TicketNumber string       `db:"ticket_number"`
	SeatNumber   string       `db:"seat_number"`
	Price        float64      `db:"price"`
	Status       TicketStatus `db:"status"`
	BookedAt     time.Time    `db:"booked_at"`

	// populated by joins
	FlightNumber   string `db:"flight_number"`
	PassportNumber string `db:"passport_number"`
}

// SortSeats orders seat labels by row number, then by letter, so "2A" comes
// before "10A".
func SortSeats(seats []string) {
	sort.Slice(seats, func(i, j int) bool {
		ri, li := splitSeat(seats[i])
		rj, lj := splitSeat(seats[j])
		if ri != rj {
			return ri < rj
		}
		return li < lj
	})
}

func splitSeat(seat string) (int, string) {
	i := 0
	for i < len(seat) && seat[i] >= '0' && seat[i] <= '9' {
		i++
	}
	row, _ := strconv.Atoi(seat[:i])
	return row, seat[i:]
}
