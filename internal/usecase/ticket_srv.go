package usecase

import (
	"context"
	"errors"
	"fmt"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/internal/events"
	"airport-ops/internal/policy"
	"airport-ops/pkg/apperror"

	"go.uber.org/zap"
)

type TicketService interface {
	Book(ctx context.Context, actor policy.Actor, req *request.BookTicketRequest) (*response.TicketResponse, error)
	CheckIn(ctx context.Context, actor policy.Actor, ticketNumber string) (*response.CheckInResponse, error)
	Board(ctx context.Context, ticketNumber string) (*response.TicketResponse, error)
	Delete(ctx context.Context, actor policy.Actor, ticketNumber string) error
	Get(ctx context.Context, ticketNumber string) (*response.TicketResponse, error)
	ListByFlight(ctx context.Context, flightNumber string) ([]response.TicketResponse, error)
	ListByPassport(ctx context.Context, actor policy.Actor, passport string) ([]response.TicketResponse, error)
	OccupiedSeats(ctx context.Context, flightNumber string) (*response.SeatMapResponse, error)
	BulkCheckIn(ctx context.Context, flightNumber string) (*response.BulkCheckInResponse, error)
}

const maxTicketNumberAttempts = 5

type ticketService struct {
	repo  *repository.Repository
	infra Infra
	log   *zap.Logger
}

func NewTicketService(repo *repository.Repository, infra Infra, log *zap.Logger) TicketService {
	return &ticketService{
		repo:  repo,
		infra: infra,
		log:   log.With(zap.String("service", "ticket")),
	}
}

// Book reserves a seat and writes the ticket in one transaction. A
// concurrent booking of the same seat loses with AlreadyExists.
func (s *ticketService) Book(ctx context.Context, actor policy.Actor, req *request.BookTicketRequest) (*response.TicketResponse, error) {
	// 1. Validate input
	if err := validate(s.log, "BookTicket", req); err != nil {
		return nil, err
	}

	// 2. Passengers book for themselves
	passport := req.PassportNumber
	if actor.Is(entity.RolePassenger) {
		own, err := ownPassenger(ctx, s.repo, actor)
		if err != nil {
			return nil, err
		}
		if passport != "" && passport != own.PassportNumber {
			return nil, apperror.Denied("passengers may only book tickets for themselves")
		}
		passport = own.PassportNumber
	}
	if passport == "" {
		return nil, apperror.Validation("validation failed: passport_number is required")
	}

	// a generated number can collide with an earlier ticket; draw again
	generated := req.TicketNumber == ""
	var ticket *entity.Ticket
	var remaining int
	var err error
	for attempt := 1; ; attempt++ {
		ticketNumber := req.TicketNumber
		if generated {
			ticketNumber = s.infra.TicketNumber(s.infra.Now())
		}
		ticket, remaining, err = s.book(ctx, req, passport, ticketNumber)
		if !generated || attempt == maxTicketNumberAttempts || !errors.Is(err, repository.ErrTicketNumberTaken) {
			break
		}
		s.log.Debug("Generated ticket number in use, drawing another",
			zap.String("ticket_number", ticketNumber), zap.Int("attempt", attempt))
	}
	if err != nil {
		if apperror.IsExpected(err) {
			s.log.Warn("Booking rejected",
				zap.String("flight_number", req.FlightNumber),
				zap.String("seat", req.SeatNumber),
				zap.String("reason", apperror.Message(err)))
		} else {
			s.log.Error("Failed to book ticket", zap.Error(err), zap.String("flight_number", req.FlightNumber))
		}
		return nil, err
	}

	invalidateFlights(ctx, s.infra, s.log)
	s.infra.Metrics.IncrementBooked()
	s.publish(ctx, events.TicketBooked, ticket)

	s.log.Info("Ticket booked",
		zap.String("ticket_number", ticket.TicketNumber),
		zap.String("flight_number", ticket.FlightNumber),
		zap.String("seat", ticket.SeatNumber),
		zap.String("passport", ticket.PassportNumber),
		zap.Int("available_seats", remaining))

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

// book runs one booking attempt in its own transaction.
func (s *ticketService) book(ctx context.Context, req *request.BookTicketRequest, passport, ticketNumber string) (*entity.Ticket, int, error) {
	var ticket *entity.Ticket
	var remaining int
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		// 3. Resolve flight and passenger
		flight, err := requireFlight(ctx, tx, req.FlightNumber)
		if err != nil {
			return err
		}
		passenger, err := requirePassenger(ctx, tx, passport)
		if err != nil {
			return err
		}

		// 4. Business rules
		if !flight.Status.Bookable() {
			return apperror.NotPermitted("flight %s is %s and no longer accepts bookings", flight.FlightNumber, flight.Status)
		}
		taken, err := tx.Ticket.SeatTaken(ctx, flight.ID, req.SeatNumber)
		if err != nil {
			return err
		}
		if taken {
			return apperror.AlreadyExists("seat %s on flight %s is already taken", req.SeatNumber, flight.FlightNumber)
		}

		// 5. Take the seat, then write the ticket
		updated, err := tx.Flight.AdjustAvailableSeats(ctx, flight.ID, -1)
		if err != nil {
			return err
		}
		remaining = updated.AvailableSeats

		now := s.infra.Now()
		ticket = &entity.Ticket{
			Base:           entity.NewBase(now),
			FlightID:       flight.ID,
			PassengerID:    passenger.ID,
			TicketNumber:   ticketNumber,
			SeatNumber:     req.SeatNumber,
			Price:          req.Price,
			Status:         entity.TicketBooked,
			BookedAt:       now,
			FlightNumber:   flight.FlightNumber,
			PassportNumber: passenger.PassportNumber,
		}
		return tx.Ticket.Create(ctx, ticket)
	})
	if err != nil {
		return nil, 0, err
	}
	return ticket, remaining, nil
}

// CheckIn moves a BOOKED ticket to CHECKED_IN and issues its boarding pass.
func (s *ticketService) CheckIn(ctx context.Context, actor policy.Actor, ticketNumber string) (*response.CheckInResponse, error) {
	var ticket *entity.Ticket
	var pass *entity.BoardingPass
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		ticket, err = requireTicket(ctx, tx, ticketNumber)
		if err != nil {
			return err
		}
		if err := checkOwnership(ctx, tx, actor, ticket.PassengerID); err != nil {
			return err
		}

		pass, err = s.checkIn(ctx, tx, ticket)
		return err
	})
	if err != nil {
		s.logRejection("Check-in", ticketNumber, err)
		return nil, err
	}

	s.infra.Metrics.IncrementCheckIns(1)
	s.publish(ctx, events.TicketCheckedIn, ticket)

	s.log.Info("Ticket checked in",
		zap.String("ticket_number", ticketNumber),
		zap.String("by", actor.Username))

	return &response.CheckInResponse{
		Ticket:       response.TicketToResponse(ticket),
		BoardingPass: response.BoardingPassToResponse(pass),
	}, nil
}

// checkIn must run inside a transaction.
func (s *ticketService) checkIn(ctx context.Context, tx *repository.Repository, ticket *entity.Ticket) (*entity.BoardingPass, error) {
	if ticket.Status != entity.TicketBooked {
		return nil, apperror.NotPermitted("ticket %s is %s; only BOOKED tickets can be checked in", ticket.TicketNumber, ticket.Status)
	}
	if err := tx.Ticket.UpdateStatus(ctx, ticket.ID, entity.TicketBooked, entity.TicketCheckedIn); err != nil {
		return nil, err
	}
	ticket.Status = entity.TicketCheckedIn

	pass, err := tx.BoardingPass.FindByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, err
	}
	if pass == nil {
		now := s.infra.Now()
		pass = &entity.BoardingPass{
			Base:        entity.NewBase(now),
			TicketID:    ticket.ID,
			CheckInTime: now,
		}
		if err := tx.BoardingPass.Create(ctx, pass); err != nil {
			return nil, err
		}
	}
	pass.TicketNumber = ticket.TicketNumber
	pass.TicketStatus = ticket.Status
	return pass, nil
}

// Board moves a CHECKED_IN ticket to BOARDED and raises the pass flag.
func (s *ticketService) Board(ctx context.Context, ticketNumber string) (*response.TicketResponse, error) {
	var ticket *entity.Ticket
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		ticket, err = requireTicket(ctx, tx, ticketNumber)
		if err != nil {
			return err
		}
		if ticket.Status != entity.TicketCheckedIn {
			return apperror.NotPermitted("ticket %s is %s; only CHECKED_IN tickets can board", ticketNumber, ticket.Status)
		}
		if err := tx.Ticket.UpdateStatus(ctx, ticket.ID, entity.TicketCheckedIn, entity.TicketBoarded); err != nil {
			return err
		}
		ticket.Status = entity.TicketBoarded

		pass, err := tx.BoardingPass.FindByTicketID(ctx, ticket.ID)
		if err != nil {
			return err
		}
		now := s.infra.Now()
		if pass == nil {
			return tx.BoardingPass.Create(ctx, &entity.BoardingPass{
				Base:        entity.NewBase(now),
				TicketID:    ticket.ID,
				CheckInTime: now,
				Boarded:     true,
			})
		}
		return tx.BoardingPass.SetBoarded(ctx, pass.ID, true, now)
	})
	if err != nil {
		s.logRejection("Boarding", ticketNumber, err)
		return nil, err
	}

	s.infra.Metrics.IncrementBoarded()
	s.publish(ctx, events.TicketBoarded, ticket)
	s.log.Info("Passenger boarded", zap.String("ticket_number", ticketNumber))

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

// Delete cancels a ticket and returns its seat to the flight.
func (s *ticketService) Delete(ctx context.Context, actor policy.Actor, ticketNumber string) error {
	var ticket *entity.Ticket
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		var err error
		ticket, err = requireTicket(ctx, tx, ticketNumber)
		if err != nil {
			return err
		}
		if err := checkOwnership(ctx, tx, actor, ticket.PassengerID); err != nil {
			return err
		}
		if err := tx.Ticket.Delete(ctx, ticket.ID); err != nil {
			return err
		}
		_, err = tx.Flight.AdjustAvailableSeats(ctx, ticket.FlightID, 1)
		return err
	})
	if err != nil {
		s.logRejection("Cancellation", ticketNumber, err)
		return err
	}

	invalidateFlights(ctx, s.infra, s.log)
	s.infra.Metrics.IncrementCancelled()
	s.publish(ctx, events.TicketCancelled, ticket)

	s.log.Info("Ticket cancelled",
		zap.String("ticket_number", ticketNumber),
		zap.String("flight_number", ticket.FlightNumber),
		zap.String("seat", ticket.SeatNumber),
		zap.String("by", actor.Username))
	return nil
}

func (s *ticketService) Get(ctx context.Context, ticketNumber string) (*response.TicketResponse, error) {
	ticket, err := requireTicket(ctx, s.repo, ticketNumber)
	if err != nil {
		return nil, err
	}
	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

func (s *ticketService) ListByFlight(ctx context.Context, flightNumber string) ([]response.TicketResponse, error) {
	flight, err := requireFlight(ctx, s.repo, flightNumber)
	if err != nil {
		return nil, err
	}

	tickets, err := s.repo.Ticket.FindByFlight(ctx, flight.ID)
	if err != nil {
		s.log.Error("Failed to list tickets", zap.Error(err), zap.String("flight_number", flightNumber))
		return nil, fmt.Errorf("failed to get tickets")
	}
	return response.TicketsToResponse(tickets), nil
}

// ListByPassport lists a passenger's tickets. An empty passport means the
// calling passenger's own profile.
func (s *ticketService) ListByPassport(ctx context.Context, actor policy.Actor, passport string) ([]response.TicketResponse, error) {
	var (
		passenger *entity.Passenger
		err       error
	)
	if passport == "" {
		passenger, err = ownPassenger(ctx, s.repo, actor)
	} else {
		passenger, err = requirePassenger(ctx, s.repo, passport)
	}
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(ctx, s.repo, actor, passenger.ID); err != nil {
		return nil, err
	}

	tickets, err := s.repo.Ticket.FindByPassenger(ctx, passenger.ID)
	if err != nil {
		s.log.Error("Failed to list tickets", zap.Error(err), zap.String("passport", passport))
		return nil, fmt.Errorf("failed to get tickets")
	}
	return response.TicketsToResponse(tickets), nil
}

func (s *ticketService) OccupiedSeats(ctx context.Context, flightNumber string) (*response.SeatMapResponse, error) {
	flight, err := requireFlight(ctx, s.repo, flightNumber)
	if err != nil {
		return nil, err
	}

	seats, err := s.repo.Ticket.OccupiedSeats(ctx, flight.ID)
	if err != nil {
		s.log.Error("Failed to list occupied seats", zap.Error(err), zap.String("flight_number", flightNumber))
		return nil, fmt.Errorf("failed to get seats")
	}
	if seats == nil {
		seats = []string{}
	}

	return &response.SeatMapResponse{
		FlightNumber:   flight.FlightNumber,
		TotalSeats:     flight.TotalSeats,
		AvailableSeats: flight.AvailableSeats,
		OccupiedSeats:  seats,
	}, nil
}

// BulkCheckIn checks in every BOOKED ticket of the flight in one transaction.
func (s *ticketService) BulkCheckIn(ctx context.Context, flightNumber string) (*response.BulkCheckInResponse, error) {
	var checkedIn []*entity.Ticket
	err := s.repo.WithinTx(ctx, func(tx *repository.Repository) error {
		flight, err := requireFlight(ctx, tx, flightNumber)
		if err != nil {
			return err
		}

		tickets, err := tx.Ticket.FindByFlight(ctx, flight.ID)
		if err != nil {
			return err
		}
		for _, ticket := range tickets {
			if ticket.Status != entity.TicketBooked {
				continue
			}
			if _, err := s.checkIn(ctx, tx, ticket); err != nil {
				return err
			}
			checkedIn = append(checkedIn, ticket)
		}
		return nil
	})
	if err != nil {
		if !apperror.IsExpected(err) {
			s.log.Error("Failed bulk check-in", zap.Error(err), zap.String("flight_number", flightNumber))
		}
		return nil, err
	}

	s.infra.Metrics.IncrementCheckIns(len(checkedIn))
	for _, ticket := range checkedIn {
		s.publish(ctx, events.TicketCheckedIn, ticket)
	}

	s.log.Info("Flight checked in",
		zap.String("flight_number", flightNumber),
		zap.Int("checked_in", len(checkedIn)))

	return &response.BulkCheckInResponse{FlightNumber: flightNumber, CheckedIn: len(checkedIn)}, nil
}

func (s *ticketService) publish(ctx context.Context, eventType string, ticket *entity.Ticket) {
	s.infra.Events.Ticket(ctx, events.TicketEvent{
		Type:           eventType,
		TicketNumber:   ticket.TicketNumber,
		FlightNumber:   ticket.FlightNumber,
		PassportNumber: ticket.PassportNumber,
		SeatNumber:     ticket.SeatNumber,
		Status:         string(ticket.Status),
		At:             s.infra.Now(),
	})
}

func (s *ticketService) logRejection(action, ticketNumber string, err error) {
	if apperror.IsExpected(err) {
		s.log.Warn(action+" rejected",
			zap.String("ticket_number", ticketNumber),
			zap.String("reason", apperror.Message(err)))
		return
	}
	s.log.Error(action+" failed", zap.Error(err), zap.String("ticket_number", ticketNumber))
}
