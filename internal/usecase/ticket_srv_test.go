package usecase

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/events"
	"airport-ops/pkg/apperror"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBookUntilFlightIsFull(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 2)

	ticket := f.mustBook(ivan, "SU100", "", "1A")
	assert.Equal(t, entity.TicketBooked, ticket.Status)
	assert.Equal(t, "RU123456", ticket.PassportNumber)
	assert.Regexp(t, `^TKT-\d{6}-\d{5}$`, ticket.TicketNumber)
	assert.Equal(t, 1, f.availableSeats("SU100"))

	_, err := f.book(ivan, "SU100", "", "1A")
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
	assert.Equal(t, 1, f.availableSeats("SU100"))

	f.mustBook(ivan, "SU100", "", "1B")
	assert.Equal(t, 0, f.availableSeats("SU100"))

	_, err = f.book(ivan, "SU100", "", "1C")
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)
	assert.Equal(t, 0, f.availableSeats("SU100"))

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.TicketsBooked))
	f.pub.AssertCalled(t, "Publish", mock.Anything, ticketTopic, ticket.TicketNumber,
		mock.MatchedBy(func(ev events.TicketEvent) bool {
			return ev.Type == events.TicketBooked && ev.FlightNumber == "SU100" && ev.SeatNumber == "1A"
		}))
}

func TestBookMissingReferences(t *testing.T) {
	f := newFixture(t)
	f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 2)

	_, err := f.book(f.admin, "SU999", "RU123456", "1A")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.book(f.admin, "SU100", "XX000000", "1A")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.book(f.admin, "SU100", "", "1A")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.book(f.admin, "SU100", "RU123456", "A1")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Equal(t, 2, f.availableSeats("SU100"))
}

func TestPassengerBooksOnlyForThemselves(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.register("anna", "RU654321")
	f.flight("SU100", "SOCHI", 5)

	_, err := f.book(ivan, "SU100", "RU654321", "1A")
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	ticket := f.mustBook(f.admin, "SU100", "RU654321", "1A")
	assert.Equal(t, "RU654321", ticket.PassportNumber)
}

func TestConcurrentBookingsOfOneSeat(t *testing.T) {
	f := newFixture(t)
	f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 10)

	const attempts = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.Ticket.Book(f.ctx, f.admin, &request.BookTicketRequest{
				FlightNumber:   "SU100",
				PassportNumber: "RU123456",
				SeatNumber:     "7C",
				TicketNumber:   fmt.Sprintf("TKT-RACE-%d", i),
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperror.ErrAlreadyExists):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, conflict)
	assert.Equal(t, 9, f.availableSeats("SU100"))
}

func TestDeleteTicketRestoresSeat(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 3)

	ticket := f.mustBook(ivan, "SU100", "", "2B")
	assert.Equal(t, 2, f.availableSeats("SU100"))

	require.NoError(t, f.svc.Ticket.Delete(f.ctx, ivan, ticket.TicketNumber))
	assert.Equal(t, 3, f.availableSeats("SU100"))

	_, err := f.svc.Ticket.Get(f.ctx, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = f.svc.Ticket.Delete(f.ctx, ivan, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	// the seat can be sold again
	f.mustBook(ivan, "SU100", "", "2B")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TicketsCancelled))
}

func TestTicketStatusOnlyMovesForward(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 3)
	ticket := f.mustBook(ivan, "SU100", "", "1A")

	_, err := f.svc.Ticket.Board(f.ctx, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	checkIn, err := f.svc.Ticket.CheckIn(f.ctx, ivan, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketCheckedIn, checkIn.Ticket.Status)
	assert.Equal(t, ticket.TicketNumber, checkIn.BoardingPass.TicketNumber)
	assert.False(t, checkIn.BoardingPass.Boarded)

	_, err = f.svc.Ticket.CheckIn(f.ctx, ivan, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	boarded, err := f.svc.Ticket.Board(f.ctx, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketBoarded, boarded.Status)

	pass, err := f.svc.BoardingPass.GetByTicketNumber(f.ctx, ticket.TicketNumber)
	require.NoError(t, err)
	require.NotNil(t, pass)
	assert.True(t, pass.Boarded)
	assert.Equal(t, checkIn.BoardingPass.ID, pass.ID)

	_, err = f.svc.Ticket.CheckIn(f.ctx, ivan, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)
	_, err = f.svc.Ticket.Board(f.ctx, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CheckIns))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Boardings))
}

func TestPassengerCannotTouchAnotherTicket(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	anna := f.register("anna", "RU654321")
	f.flight("SU100", "SOCHI", 3)
	ticket := f.mustBook(ivan, "SU100", "", "1A")

	_, err := f.svc.Ticket.CheckIn(f.ctx, anna, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	err = f.svc.Ticket.Delete(f.ctx, anna, ticket.TicketNumber)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	_, err = f.svc.Ticket.ListByPassport(f.ctx, anna, "RU123456")
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	own, err := f.svc.Ticket.ListByPassport(f.ctx, ivan, "RU123456")
	require.NoError(t, err)
	assert.Len(t, own, 1)

	own, err = f.svc.Ticket.ListByPassport(f.ctx, ivan, "")
	require.NoError(t, err)
	assert.Len(t, own, 1)

	own, err = f.svc.Ticket.ListByPassport(f.ctx, anna, "")
	require.NoError(t, err)
	assert.Empty(t, own)
}

func TestOccupiedSeatsAreOrdered(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 10)

	for _, seat := range []string{"10A", "2C", "2A"} {
		f.mustBook(ivan, "SU100", "", seat)
	}

	seats, err := f.svc.Ticket.OccupiedSeats(f.ctx, "SU100")
	require.NoError(t, err)
	assert.Equal(t, []string{"2A", "2C", "10A"}, seats.OccupiedSeats)
	assert.Equal(t, 7, seats.AvailableSeats)

	byFlight, err := f.svc.Ticket.ListByFlight(f.ctx, "SU100")
	require.NoError(t, err)
	assert.Len(t, byFlight, 3)
}

func TestBulkCheckIn(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 10)

	first := f.mustBook(ivan, "SU100", "", "1A")
	f.mustBook(ivan, "SU100", "", "1B")
	f.mustBook(ivan, "SU100", "", "1C")
	_, err := f.svc.Ticket.CheckIn(f.ctx, ivan, first.TicketNumber)
	require.NoError(t, err)

	result, err := f.svc.Ticket.BulkCheckIn(f.ctx, "SU100")
	require.NoError(t, err)
	assert.Equal(t, 2, result.CheckedIn)

	tickets, err := f.svc.Ticket.ListByFlight(f.ctx, "SU100")
	require.NoError(t, err)
	for _, ticket := range tickets {
		assert.Equal(t, entity.TicketCheckedIn, ticket.Status)
		pass, err := f.svc.BoardingPass.GetByTicketNumber(f.ctx, ticket.TicketNumber)
		require.NoError(t, err)
		assert.NotNil(t, pass)
	}

	_, err = f.svc.Ticket.BulkCheckIn(f.ctx, "SU999")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBookingClosedAfterDeparture(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 10)

	_, err := f.svc.Flight.UpdateStatus(f.ctx, "SU100", &request.UpdateFlightStatusRequest{Status: "BOARDING"})
	require.NoError(t, err)
	f.mustBook(ivan, "SU100", "", "1A")

	_, err = f.svc.Flight.UpdateStatus(f.ctx, "SU100", &request.UpdateFlightStatusRequest{Status: "DEPARTED"})
	require.NoError(t, err)

	_, err = f.book(ivan, "SU100", "", "1B")
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)
	assert.Equal(t, 9, f.availableSeats("SU100"))
}

// scriptedNumbers hands out draws in order and repeats the last one.
type scriptedNumbers struct {
	draws []string
	calls int
}

func (n *scriptedNumbers) next(time.Time) string {
	i := min(n.calls, len(n.draws)-1)
	n.calls++
	return n.draws[i]
}

func TestBookDrawsAnotherTicketNumberOnCollision(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	anna := f.register("anna", "RU654321")
	f.flight("SU100", "SOCHI", 5)

	numbers := &scriptedNumbers{draws: []string{"TKT-260301-00042", "TKT-260301-00042", "TKT-260301-00043"}}
	infra := f.infra
	infra.TicketNumber = numbers.next
	tickets := NewTicketService(f.repo, infra, zap.NewNop())

	first, err := tickets.Book(f.ctx, ivan, &request.BookTicketRequest{FlightNumber: "SU100", SeatNumber: "1A", Price: 100})
	require.NoError(t, err)
	assert.Equal(t, "TKT-260301-00042", first.TicketNumber)

	second, err := tickets.Book(f.ctx, anna, &request.BookTicketRequest{FlightNumber: "SU100", SeatNumber: "1B", Price: 100})
	require.NoError(t, err)
	assert.Equal(t, "TKT-260301-00043", second.TicketNumber)
	assert.Equal(t, 3, numbers.calls)

	// the collided attempt rolled back its seat
	assert.Equal(t, 3, f.availableSeats("SU100"))
}

func TestBookGivesUpOnPersistentTicketNumberCollision(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	anna := f.register("anna", "RU654321")
	f.flight("SU100", "SOCHI", 5)

	numbers := &scriptedNumbers{draws: []string{"TKT-260301-00042"}}
	infra := f.infra
	infra.TicketNumber = numbers.next
	tickets := NewTicketService(f.repo, infra, zap.NewNop())

	_, err := tickets.Book(f.ctx, ivan, &request.BookTicketRequest{FlightNumber: "SU100", SeatNumber: "1A", Price: 100})
	require.NoError(t, err)

	_, err = tickets.Book(f.ctx, anna, &request.BookTicketRequest{FlightNumber: "SU100", SeatNumber: "1B", Price: 100})
	assert.ErrorIs(t, err, repository.ErrTicketNumberTaken)
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
	assert.Equal(t, 1+maxTicketNumberAttempts, numbers.calls)
	assert.Equal(t, 4, f.availableSeats("SU100"))

	// a caller-supplied number is never replaced
	_, err = tickets.Book(f.ctx, f.admin, &request.BookTicketRequest{
		FlightNumber:   "SU100",
		PassportNumber: "RU654321",
		SeatNumber:     "1C",
		TicketNumber:   "TKT-260301-00042",
	})
	assert.ErrorIs(t, err, repository.ErrTicketNumberTaken)
	assert.Equal(t, 1+maxTicketNumberAttempts, numbers.calls)
}
