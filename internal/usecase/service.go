package usecase

import (
	"time"

	"airport-ops/internal/cache"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/events"
	"airport-ops/pkg/metrics"
	"airport-ops/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Infra bundles the collaborators that live outside the relational store.
// Nil fields fall back to no-op implementations.
type Infra struct {
	Cache   cache.FlightCache
	Events  *events.Bus
	Metrics *metrics.Metrics
	Now     func() time.Time

	// TicketNumber draws a ticket number for bookings that do not bring one.
	TicketNumber func(time.Time) string
}

type Service struct {
	Auth         AuthService
	User         UserService
	Flight       FlightService
	Passenger    PassengerService
	Ticket       TicketService
	BoardingPass BoardingPassService
	Visa         VisaService
	Clearance    ClearanceService
}

func NewService(repo *repository.Repository, config *utils.Config, infra Infra, log *zap.Logger) *Service {
	if infra.Now == nil {
		infra.Now = time.Now
	}
	if infra.Cache == nil {
		infra.Cache = cache.Nop{}
	}
	if infra.Events == nil {
		infra.Events = events.NewBus(events.Nop{}, "", "", log)
	}
	if infra.Metrics == nil {
		infra.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if infra.TicketNumber == nil {
		infra.TicketNumber = utils.GenerateTicketNumber
	}

	visa := NewVisaService(repo, infra, log)
	return &Service{
		Auth:         NewAuthService(repo, config, infra, log),
		User:         NewUserService(repo, infra, log),
		Flight:       NewFlightService(repo, infra, log),
		Passenger:    NewPassengerService(repo, infra, log),
		Ticket:       NewTicketService(repo, infra, log),
		BoardingPass: NewBoardingPassService(repo, infra, log),
		Visa:         visa,
		Clearance:    NewClearanceService(repo, visa, config.Clearance, infra, log),
	}
}
