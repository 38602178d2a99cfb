package usecase

import (
	"context"
	"strings"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/response"
	"airport-ops/internal/events"
	"airport-ops/internal/policy"
	"airport-ops/pkg/utils"

	"go.uber.org/zap"
)

const (
	KindBorder  = "border"
	KindCustoms = "customs"
)

// ClearanceService evaluates border and customs checks. Lookup failures end
// up as negative fields of the verdict and are never returned as errors.
type ClearanceService interface {
	BorderCheck(ctx context.Context, passport, ticketNumber string) *response.BorderCheckResponse
	CustomsCheck(ctx context.Context, passport, ticketNumber string) *response.CustomsCheckResponse
	MarkBorderCleared(ctx context.Context, actor policy.Actor, passport, notes string) (*response.ClearanceRecord, error)
	MarkCustomsCleared(ctx context.Context, actor policy.Actor, passport, notes string) (*response.ClearanceRecord, error)
}

type clearanceService struct {
	repo         *repository.Repository
	visas        VisaRegistry
	visaRequired map[string]bool
	restricted   map[string]bool
	infra        Infra
	log          *zap.Logger
}

func NewClearanceService(repo *repository.Repository, visas VisaRegistry, config utils.ClearanceConfig, infra Infra, log *zap.Logger) ClearanceService {
	return &clearanceService{
		repo:         repo,
		visas:        visas,
		visaRequired: toSet(config.VisaRequired),
		restricted:   toSet(config.Restricted),
		infra:        infra,
		log:          log.With(zap.String("service", "clearance")),
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToUpper(strings.TrimSpace(v))] = true
	}
	return set
}

func (s *clearanceService) BorderCheck(ctx context.Context, passport, ticketNumber string) *response.BorderCheckResponse {
	result := s.borderCheck(ctx, passport, ticketNumber)
	s.infra.Metrics.ObserveClearance(KindBorder, result.ClearanceGranted)
	return result
}

func (s *clearanceService) borderCheck(ctx context.Context, passport, ticketNumber string) *response.BorderCheckResponse {
	result := &response.BorderCheckResponse{
		PassportNumber:  passport,
		TicketNumber:    ticketNumber,
		Recommendations: []string{},
	}

	// 1. Passport
	passenger, ok, message := s.verifyPassport(ctx, passport)
	if !ok {
		result.Message = "Passport invalid: " + message
		return result
	}
	result.PassportValid = true
	result.Passenger = passengerResponse(passenger)

	// 2. Without a ticket only the passport is checked
	if ticketNumber == "" {
		result.ClearanceGranted = true
		result.Message = "Passport valid"
		result.Recommendations = append(result.Recommendations, "Provide a ticket number for a full check")
		return result
	}

	// 3. Ticket ownership
	ticket, problem := s.ownedTicket(ctx, passenger, ticketNumber)
	if ticket != nil {
		result.Ticket = ticketResponse(ticket)
	}
	if problem != "" {
		result.Message = problem
		return result
	}

	flight, err := s.repo.Flight.FindByID(ctx, ticket.FlightID)
	if err != nil || flight == nil {
		if err != nil {
			s.log.Error("Failed to find flight for border check", zap.Error(err), zap.String("ticket_number", ticketNumber))
		}
		result.Message = "Ticket check failed: flight " + ticket.FlightNumber + " not found"
		return result
	}
	result.TicketValid = true

	// 4. Destination rules
	destination := strings.ToUpper(flight.ArrivalCity)
	result.Destination = destination
	result.VisaRequired = s.visaRequired[destination]
	result.RestrictedDestination = s.restricted[destination]
	if result.VisaRequired {
		valid, err := s.visas.HasValidVisa(ctx, passport, destination, flight.DepartureTime)
		if err != nil {
			s.log.Error("Failed to check visa", zap.Error(err), zap.String("passport", passport))
			result.Recommendations = append(result.Recommendations, "Visa registry unavailable, check the visa manually")
		}
		result.VisaValid = valid
	}

	if result.VisaRequired && !result.VisaValid {
		result.Recommendations = append(result.Recommendations, "A valid visa for "+destination+" is required")
	}
	if result.RestrictedDestination {
		result.Recommendations = append(result.Recommendations, "Destination "+destination+" is restricted")
	}

	// 5. Verdict
	result.ClearanceGranted = result.PassportValid &&
		result.TicketValid &&
		(!result.VisaRequired || result.VisaValid) &&
		!result.RestrictedDestination

	if result.ClearanceGranted {
		result.Message = "All checks passed. Border crossing permitted."
		return result
	}

	var attention []string
	if result.VisaRequired && !result.VisaValid {
		attention = append(attention, "visa documents")
	}
	if result.RestrictedDestination {
		attention = append(attention, "destination restrictions")
	}
	result.Message = "Attention required: " + strings.Join(attention, ", ")
	return result
}

func (s *clearanceService) CustomsCheck(ctx context.Context, passport, ticketNumber string) *response.CustomsCheckResponse {
	result := s.customsCheck(ctx, passport, ticketNumber)
	s.infra.Metrics.ObserveClearance(KindCustoms, result.AllChecksPassed)
	return result
}

func (s *clearanceService) customsCheck(ctx context.Context, passport, ticketNumber string) *response.CustomsCheckResponse {
	result := &response.CustomsCheckResponse{
		PassportNumber: passport,
		TicketNumber:   ticketNumber,
	}

	// 1. Passport
	passenger, ok, message := s.verifyPassport(ctx, passport)
	result.PassportMessage = message
	if !ok {
		result.Message = "Passport check failed: " + message
		return result
	}
	result.PassportVerified = true
	result.Passenger = passengerResponse(passenger)

	// 2. Luggage
	result.LuggageChecked = passenger.LuggageChecked

	// 3. Ticket: the named one must be owned, otherwise any ticket will do
	if ticketNumber != "" {
		ticket, problem := s.ownedTicket(ctx, passenger, ticketNumber)
		if ticket != nil {
			result.Ticket = ticketResponse(ticket)
		}
		if problem != "" {
			result.Message = problem
			return result
		}
		result.TicketValid = true
	} else {
		tickets, err := s.repo.Ticket.FindByPassenger(ctx, passenger.ID)
		if err != nil {
			s.log.Error("Failed to list tickets for customs check", zap.Error(err), zap.String("passport", passport))
		}
		if len(tickets) > 0 {
			result.TicketValid = true
			result.Ticket = ticketResponse(tickets[0])
		}
	}

	// 4. Verdict
	result.AllChecksPassed = result.PassportVerified && result.LuggageChecked && result.TicketValid
	if result.AllChecksPassed {
		result.Message = "All checks passed. Passenger may proceed through customs."
		return result
	}

	var attention []string
	if !result.LuggageChecked {
		attention = append(attention, "luggage not checked in")
	}
	if !result.TicketValid {
		attention = append(attention, "no valid ticket")
	}
	result.Message = "Attention required: " + strings.Join(attention, ", ")
	return result
}

func (s *clearanceService) MarkBorderCleared(ctx context.Context, actor policy.Actor, passport, notes string) (*response.ClearanceRecord, error) {
	return s.markCleared(ctx, actor, KindBorder, events.BorderClearance, passport, notes)
}

func (s *clearanceService) MarkCustomsCleared(ctx context.Context, actor policy.Actor, passport, notes string) (*response.ClearanceRecord, error) {
	return s.markCleared(ctx, actor, KindCustoms, events.CustomsClearance, passport, notes)
}

func (s *clearanceService) markCleared(ctx context.Context, actor policy.Actor, kind, eventType, passport, notes string) (*response.ClearanceRecord, error) {
	if _, err := requirePassenger(ctx, s.repo, passport); err != nil {
		return nil, err
	}

	now := s.infra.Now()
	s.log.Info("Passenger cleared",
		zap.String("kind", kind),
		zap.String("passport", passport),
		zap.String("officer", actor.Username),
		zap.String("notes", notes))

	s.infra.Events.Clearance(ctx, events.ClearanceEvent{
		Type:           eventType,
		PassportNumber: passport,
		Cleared:        true,
		Officer:        actor.Username,
		At:             now,
	})

	return &response.ClearanceRecord{
		PassportNumber: passport,
		Kind:           kind,
		Officer:        actor.Username,
		Notes:          notes,
		ClearedAt:      now,
	}, nil
}

// verifyPassport is the passport verdict shared by both checks.
func (s *clearanceService) verifyPassport(ctx context.Context, passport string) (*entity.Passenger, bool, string) {
	passenger, err := s.repo.Passenger.FindByPassport(ctx, passport)
	if err != nil {
		s.log.Error("Failed to find passenger for clearance", zap.Error(err), zap.String("passport", passport))
		return nil, false, "Passenger lookup failed"
	}
	ok, message := passportVerdict(passenger, passport)
	return passenger, ok, message
}

// ownedTicket returns the ticket and a non-empty problem when it is missing
// or belongs to someone else.
func (s *clearanceService) ownedTicket(ctx context.Context, passenger *entity.Passenger, ticketNumber string) (*entity.Ticket, string) {
	ticket, err := s.repo.Ticket.FindByNumber(ctx, ticketNumber)
	if err != nil {
		s.log.Error("Failed to find ticket for clearance", zap.Error(err), zap.String("ticket_number", ticketNumber))
		return nil, "Ticket check failed: lookup error"
	}
	if ticket == nil {
		return nil, "Ticket check failed: ticket " + ticketNumber + " not found"
	}
	if ticket.PassengerID != passenger.ID {
		return ticket, "Ticket does not belong to this passenger"
	}
	return ticket, ""
}

func passengerResponse(p *entity.Passenger) *response.PassengerResponse {
	resp := response.PassengerToResponse(p)
	return &resp
}

func ticketResponse(t *entity.Ticket) *response.TicketResponse {
	resp := response.TicketToResponse(t)
	return &resp
}
