package entity

import (
	"time"

	"github.com/google/uuid"
)

type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightBoarding  FlightStatus = "BOARDING"
	FlightDeparted  FlightStatus = "DEPARTED"
	FlightArrived   FlightStatus = "ARRIVED"
)

var flightStatusOrder = map[FlightStatus]int{
	FlightScheduled: 0,
	FlightBoarding:  1,
	FlightDeparted:  2,
	FlightArrived:   3,
}

func (s FlightStatus) Valid() bool {
	_, ok := flightStatusOrder[s]
	return ok
}

// CanAdvanceTo allows strictly forward moves; skipping a stage is allowed.
func (s FlightStatus) CanAdvanceTo(next FlightStatus) bool {
	from, ok := flightStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := flightStatusOrder[next]
	return ok && to > from
}

// Bookable reports whether new tickets may still be sold.
func (s FlightStatus) Bookable() bool {
	return s == FlightScheduled || s == FlightBoarding
}

type Flight struct {
	Base
	FlightNumber   string       `db:"flight_number"`
	DepartureCity  string       `db:"departure_city"`
	ArrivalCity    string       `db:"arrival_city"`
	DepartureTime  time.Time    `db:"departure_time"`
	ArrivalTime    time.Time    `db:"arrival_time"`
	TotalSeats     int          `db:"total_seats"`
	AvailableSeats int          `db:"available_seats"`
	Status         FlightStatus `db:"status"`
	CreatedBy      *uuid.UUID   `db:"created_by"`
}
