package usecase

import (
	"context"
	"fmt"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/pkg/apperror"

	"go.uber.org/zap"
)

type FlightService interface {
	Create(ctx context.Context, creatorUsername string, req *request.CreateFlightRequest) (*response.FlightResponse, error)
	Get(ctx context.Context, flightNumber string) (*response.FlightResponse, error)
	List(ctx context.Context, filter request.FlightFilter) ([]response.FlightResponse, error)
	Delete(ctx context.Context, flightNumber string) error
	AdjustAvailableSeats(ctx context.Context, flightNumber string, delta int) (*response.FlightResponse, error)
	UpdateStatus(ctx context.Context, flightNumber string, req *request.UpdateFlightStatusRequest) (*response.FlightResponse, error)
}

type flightService struct {
	repo  *repository.Repository
	infra Infra
	log   *zap.Logger
}

func NewFlightService(repo *repository.Repository, infra Infra, log *zap.Logger) FlightService {
	return &flightService{
		repo:  repo,
		infra: infra,
		log:   log.With(zap.String("service", "flight")),
	}
}

func (s *flightService) Create(ctx context.Context, creatorUsername string, req *request.CreateFlightRequest) (*response.FlightResponse, error) {
	// 1. Validate input
	if err := validate(s.log, "CreateFlight", req); err != nil {
		return nil, err
	}

	// 2. Resolve creator
	creator, err := requireUser(ctx, s.repo, creatorUsername)
	if err != nil {
		return nil, err
	}

	// 3. Build flight; every seat starts free
	flight := &entity.Flight{
		Base:           entity.NewBase(s.infra.Now()),
		FlightNumber:   req.FlightNumber,
		DepartureCity:  req.DepartureCity,
		ArrivalCity:    req.ArrivalCity,
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         entity.FlightScheduled,
		CreatedBy:      &creator.ID,
	}

	// 4. Save
	if err := s.repo.Flight.Create(ctx, flight); err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed to create flight", zap.Error(err), zap.String("flight_number", req.FlightNumber))
		}
		return nil, err
	}
	invalidateFlights(ctx, s.infra, s.log)

	s.log.Info("Flight created",
		zap.String("flight_number", flight.FlightNumber),
		zap.String("route", flight.DepartureCity+" -> "+flight.ArrivalCity),
		zap.Int("total_seats", flight.TotalSeats),
		zap.String("created_by", creator.Username))

	resp := response.FlightToResponse(flight)
	return &resp, nil
}

func (s *flightService) Get(ctx context.Context, flightNumber string) (*response.FlightResponse, error) {
	flight, err := requireFlight(ctx, s.repo, flightNumber)
	if err != nil {
		return nil, err
	}
	resp := response.FlightToResponse(flight)
	return &resp, nil
}

// List returns flights filtered by status, or by exact departure and arrival
// city, or all flights when no filter is set. Only the unfiltered listing is
// cached.
func (s *flightService) List(ctx context.Context, filter request.FlightFilter) ([]response.FlightResponse, error) {
	if err := validate(s.log, "ListFlights", &filter); err != nil {
		return nil, err
	}

	var (
		flights []*entity.Flight
		err     error
	)
	switch {
	case filter.Status != "":
		flights, err = s.repo.Flight.FindByStatus(ctx, entity.FlightStatus(filter.Status))
	case filter.DepartureCity != "" || filter.ArrivalCity != "":
		flights, err = s.repo.Flight.FindByCities(ctx, filter.DepartureCity, filter.ArrivalCity)
	default:
		flights, err = s.listAll(ctx)
	}
	if err != nil {
		s.log.Error("Failed to list flights", zap.Error(err))
		return nil, fmt.Errorf("failed to get flights")
	}

	return response.FlightsToResponse(flights), nil
}

func (s *flightService) listAll(ctx context.Context) ([]*entity.Flight, error) {
	cached, version, err := s.infra.Cache.GetFlights(ctx)
	if err != nil {
		s.log.Warn("Flight cache unavailable", zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	flights, err := s.repo.Flight.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// an invalidation after GetFlights moves the version and the write is dropped
	if err := s.infra.Cache.SetFlights(ctx, version, flights); err != nil {
		s.log.Warn("Failed to cache flights", zap.Error(err))
	}
	return flights, nil
}

// Delete removes the flight with its tickets and boarding passes.
func (s *flightService) Delete(ctx context.Context, flightNumber string) error {
	flight, err := requireFlight(ctx, s.repo, flightNumber)
	if err != nil {
		return err
	}

	if err := s.repo.Flight.Delete(ctx, flight.ID); err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed to delete flight", zap.Error(err), zap.String("flight_number", flightNumber))
		}
		return err
	}
	invalidateFlights(ctx, s.infra, s.log)

	s.log.Info("Flight deleted", zap.String("flight_number", flightNumber))
	return nil
}

// AdjustAvailableSeats moves the free-seat count by delta; the bounds check
// and the write happen in one statement.
func (s *flightService) AdjustAvailableSeats(ctx context.Context, flightNumber string, delta int) (*response.FlightResponse, error) {
	flight, err := requireFlight(ctx, s.repo, flightNumber)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Flight.AdjustAvailableSeats(ctx, flight.ID, delta)
	if err != nil {
		if apperror.IsExpected(err) {
			s.log.Warn("Seat adjustment rejected",
				zap.String("flight_number", flightNumber),
				zap.Int("delta", delta),
				zap.String("reason", apperror.Message(err)))
		}
		return nil, err
	}
	invalidateFlights(ctx, s.infra, s.log)

	s.log.Info("Available seats adjusted",
		zap.String("flight_number", flightNumber),
		zap.Int("delta", delta),
		zap.Int("available_seats", updated.AvailableSeats))

	resp := response.FlightToResponse(updated)
	return &resp, nil
}

// UpdateStatus only moves a flight forward through its lifecycle.
func (s *flightService) UpdateStatus(ctx context.Context, flightNumber string, req *request.UpdateFlightStatusRequest) (*response.FlightResponse, error) {
	if err := validate(s.log, "UpdateFlightStatus", req); err != nil {
		return nil, err
	}
	next := entity.FlightStatus(req.Status)

	flight, err := requireFlight(ctx, s.repo, flightNumber)
	if err != nil {
		return nil, err
	}

	if !flight.Status.CanAdvanceTo(next) {
		s.log.Warn("Flight status change rejected",
			zap.String("flight_number", flightNumber),
			zap.String("from", string(flight.Status)),
			zap.String("to", string(next)))
		return nil, apperror.NotPermitted("flight %s cannot move from %s to %s", flightNumber, flight.Status, next)
	}

	if err := s.repo.Flight.UpdateStatus(ctx, flight.ID, flight.Status, next); err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed to update flight status", zap.Error(err), zap.String("flight_number", flightNumber))
		}
		return nil, err
	}
	invalidateFlights(ctx, s.infra, s.log)

	s.log.Info("Flight status updated",
		zap.String("flight_number", flightNumber),
		zap.String("from", string(flight.Status)),
		zap.String("to", string(next)))

	flight.Status = next
	flight.UpdatedAt = s.infra.Now()
	resp := response.FlightToResponse(flight)
	return &resp, nil
}
