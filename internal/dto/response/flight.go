package response

import (
	"time"

	"airport-ops/internal/data/entity"
)

type FlightResponse struct {
	ID             string              `json:"id"`
	FlightNumber   string              `json:"flight_number"`
	DepartureCity  string              `json:"departure_city"`
	ArrivalCity    string              `json:"arrival_city"`
	DepartureTime  time.Time           `json:"departure_time"`
	ArrivalTime    time.Time           `json:"arrival_time"`
	TotalSeats     int                 `json:"total_seats"`
	AvailableSeats int                 `json:"available_seats"`
	Status         entity.FlightStatus `json:"status"`
}

type SeatMapResponse struct {
	FlightNumber   string   `json:"flight_number"`
	TotalSeats     int      `json:"total_seats"`
	AvailableSeats int      `json:"available_seats"`
	OccupiedSeats  []string `json:"occupied_seats"`
}

func FlightToResponse(f *entity.Flight) FlightResponse {
	return FlightResponse{
		ID:             f.ID.String(),
		FlightNumber:   f.FlightNumber,
		DepartureCity:  f.DepartureCity,
		ArrivalCity:    f.ArrivalCity,
		DepartureTime:  f.DepartureTime,
		ArrivalTime:    f.ArrivalTime,
		TotalSeats:     f.TotalSeats,
		AvailableSeats: f.AvailableSeats,
		Status:         f.Status,
	}
}

func FlightsToResponse(flights []*entity.Flight) []FlightResponse {
	out := make([]FlightResponse, 0, len(flights))
	for _, f := range flights {
		out = append(out, FlightToResponse(f))
	}
	return out
}
