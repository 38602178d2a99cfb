package usecase

import (
	"context"
	"testing"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/memory"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/internal/events"
	"airport-ops/internal/policy"
	"airport-ops/pkg/metrics"
	"airport-ops/pkg/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetFlights(ctx context.Context) ([]*entity.Flight, int64, error) {
	args := m.Called(ctx)
	flights, _ := args.Get(0).([]*entity.Flight)
	return flights, args.Get(1).(int64), args.Error(2)
}

func (m *mockCache) SetFlights(ctx context.Context, version int64, flights []*entity.Flight) error {
	return m.Called(ctx, version, flights).Error(0)
}

func (m *mockCache) InvalidateFlights(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	return m.Called(ctx, topic, key, payload).Error(0)
}

func (m *mockPublisher) Close() error {
	return m.Called().Error(0)
}

const (
	ticketTopic    = "test.tickets"
	clearanceTopic = "test.clearances"
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	svc     *Service
	repo    *repository.Repository
	infra   Infra
	cache   *mockCache
	pub     *mockPublisher
	metrics *metrics.Metrics
	now     time.Time
	admin   policy.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := zap.NewNop()
	repo := memory.NewRepository(log)

	c := &mockCache{}
	c.On("GetFlights", mock.Anything).Return(nil, int64(0), nil).Maybe()
	c.On("SetFlights", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	c.On("InvalidateFlights", mock.Anything).Return(nil).Maybe()

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m := metrics.New(prometheus.NewRegistry())
	config := &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		Clearance: utils.ClearanceConfig{
			VisaRequired: []string{"USA", "JAPAN"},
			Restricted:   []string{"SYRIA"},
		},
	}

	infra := Infra{
		Cache:   c,
		Events:  events.NewBus(pub, ticketTopic, clearanceTopic, log),
		Metrics: m,
		Now:     func() time.Time { return now },
	}
	svc := NewService(repo, config, infra, log)

	f := &fixture{t: t, ctx: context.Background(), svc: svc, repo: repo, infra: infra, cache: c, pub: pub, metrics: m, now: now}

	require.NoError(t, svc.User.EnsureAdmin(f.ctx, "admin", "admin-secret"))
	admin, err := repo.User.FindByUsername(f.ctx, "admin")
	require.NoError(t, err)
	f.admin = policy.Actor{UserID: admin.ID, Username: admin.Username, Role: admin.Role}

	return f
}

// register signs up a passenger and returns them as an actor.
func (f *fixture) register(username, passport string) policy.Actor {
	f.t.Helper()

	resp, err := f.svc.Auth.Register(f.ctx, &request.RegisterRequest{
		Username:       username,
		Password:       "password1",
		FirstName:      "Ivan",
		LastName:       "Petrov",
		PassportNumber: passport,
		Phone:          "+79991234567",
		Email:          username + "@example.com",
	})
	require.NoError(f.t, err)

	return policy.Actor{UserID: uuid.MustParse(resp.UserID), Username: resp.Username, Role: resp.Role}
}

func (f *fixture) staff(username string, role entity.UserRole) policy.Actor {
	f.t.Helper()

	resp, err := f.svc.User.CreateStaff(f.ctx, &request.CreateUserRequest{
		Username:  username,
		Password:  "password1",
		Role:      string(role),
		FirstName: "Staff",
		LastName:  "Member",
	})
	require.NoError(f.t, err)

	return policy.Actor{UserID: uuid.MustParse(resp.ID), Username: resp.Username, Role: resp.Role}
}

func (f *fixture) flight(number, arrival string, seats int) *response.FlightResponse {
	f.t.Helper()

	resp, err := f.svc.Flight.Create(f.ctx, f.admin.Username, &request.CreateFlightRequest{
		FlightNumber:  number,
		DepartureCity: "MOSCOW",
		ArrivalCity:   arrival,
		DepartureTime: f.now.Add(48 * time.Hour),
		ArrivalTime:   f.now.Add(52 * time.Hour),
		TotalSeats:    seats,
	})
	require.NoError(f.t, err)
	return resp
}

func (f *fixture) book(actor policy.Actor, flight, passport, seat string) (*response.TicketResponse, error) {
	return f.svc.Ticket.Book(f.ctx, actor, &request.BookTicketRequest{
		FlightNumber:   flight,
		PassportNumber: passport,
		SeatNumber:     seat,
		Price:          120.5,
	})
}

func (f *fixture) mustBook(actor policy.Actor, flight, passport, seat string) *response.TicketResponse {
	f.t.Helper()
	ticket, err := f.book(actor, flight, passport, seat)
	require.NoError(f.t, err)
	return ticket
}

func (f *fixture) availableSeats(flightNumber string) int {
	f.t.Helper()
	flight, err := f.svc.Flight.Get(f.ctx, flightNumber)
	require.NoError(f.t, err)
	return flight.AvailableSeats
}
