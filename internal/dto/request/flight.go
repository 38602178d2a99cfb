package request

import "time"

type CreateFlightRequest struct {
	FlightNumber  string    `json:"flight_number" validate:"required,flightno"`
	DepartureCity string    `json:"departure_city" validate:"required,max=100"`
	ArrivalCity   string    `json:"arrival_city" validate:"required,max=100"`
	DepartureTime time.Time `json:"departure_time" validate:"required"`
	ArrivalTime   time.Time `json:"arrival_time" validate:"required,gtfield=DepartureTime"`
	TotalSeats    int       `json:"total_seats" validate:"required,min=1,max=1000"`
}

type UpdateFlightStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=SCHEDULED BOARDING DEPARTED ARRIVED"`
}

type AdjustSeatsRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// FlightFilter selects a listing; at most one of cities or status is used.
type FlightFilter struct {
	DepartureCity string
	ArrivalCity   string
	Status        string `validate:"omitempty,oneof=SCHEDULED BOARDING DEPARTED ARRIVED"`
}
