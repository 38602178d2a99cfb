package memory

import (
	"context"
	"sort"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
)

type flightRepo struct {
	s    *Store
	held bool
}

func (r *flightRepo) Create(_ context.Context, flight *entity.Flight) error {
	defer r.s.lock(r.held)()

	for _, existing := range r.s.data.flights {
		if existing.FlightNumber == flight.FlightNumber {
			return apperror.AlreadyExists("flight %s already exists", flight.FlightNumber)
		}
	}
	if flight.AvailableSeats < 0 || flight.AvailableSeats > flight.TotalSeats {
		return apperror.NotPermitted("available seats must be between 0 and %d", flight.TotalSeats)
	}
	r.s.data.flights[flight.ID] = *flight
	return nil
}

func (r *flightRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Flight, error) {
	defer r.s.lock(r.held)()

	flight, ok := r.s.data.flights[id]
	if !ok {
		return nil, nil
	}
	return &flight, nil
}

func (r *flightRepo) FindByNumber(_ context.Context, flightNumber string) (*entity.Flight, error) {
	defer r.s.lock(r.held)()

	for _, flight := range r.s.data.flights {
		if flight.FlightNumber == flightNumber {
			return &flight, nil
		}
	}
	return nil, nil
}

func (r *flightRepo) filter(match func(entity.Flight) bool) []*entity.Flight {
	flights := make([]*entity.Flight, 0)
	for _, flight := range r.s.data.flights {
		if match(flight) {
			flights = append(flights, &flight)
		}
	}
	sort.Slice(flights, func(i, j int) bool {
		if !flights[i].DepartureTime.Equal(flights[j].DepartureTime) {
			return flights[i].DepartureTime.Before(flights[j].DepartureTime)
		}
		return flights[i].FlightNumber < flights[j].FlightNumber
	})
	return flights
}

func (r *flightRepo) FindAll(_ context.Context) ([]*entity.Flight, error) {
	defer r.s.lock(r.held)()
	return r.filter(func(entity.Flight) bool { return true }), nil
}

func (r *flightRepo) FindByCities(_ context.Context, departureCity, arrivalCity string) ([]*entity.Flight, error) {
	defer r.s.lock(r.held)()
	return r.filter(func(f entity.Flight) bool {
		return (departureCity == "" || f.DepartureCity == departureCity) &&
			(arrivalCity == "" || f.ArrivalCity == arrivalCity)
	}), nil
}

func (r *flightRepo) FindByStatus(_ context.Context, status entity.FlightStatus) ([]*entity.Flight, error) {
	defer r.s.lock(r.held)()
	return r.filter(func(f entity.Flight) bool { return f.Status == status }), nil
}

func (r *flightRepo) AdjustAvailableSeats(_ context.Context, id uuid.UUID, delta int) (*entity.Flight, error) {
	defer r.s.lock(r.held)()

	flight, ok := r.s.data.flights[id]
	if !ok {
		return nil, apperror.NotFound("flight %s not found", id.String())
	}
	next := flight.AvailableSeats + delta
	if next < 0 {
		return nil, apperror.NotPermitted("flight %s has no available seats", flight.FlightNumber)
	}
	if next > flight.TotalSeats {
		return nil, apperror.NotPermitted("flight %s cannot exceed %d seats", flight.FlightNumber, flight.TotalSeats)
	}
	flight.AvailableSeats = next
	flight.UpdatedAt = time.Now()
	r.s.data.flights[id] = flight
	return &flight, nil
}

func (r *flightRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entity.FlightStatus) error {
	defer r.s.lock(r.held)()

	flight, ok := r.s.data.flights[id]
	if !ok || flight.Status != from {
		return apperror.NotPermitted("flight is no longer %s", from)
	}
	flight.Status = to
	flight.UpdatedAt = time.Now()
	r.s.data.flights[id] = flight
	return nil
}

func (r *flightRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lock(r.held)()

	if _, ok := r.s.data.flights[id]; !ok {
		return apperror.NotFound("flight %s not found", id.String())
	}
	r.s.data.deleteFlight(id)
	return nil
}
