package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"airport-ops/internal/data/entity"
	"airport-ops/internal/data/repository"
	"airport-ops/internal/dto/request"
	"airport-ops/internal/dto/response"
	"airport-ops/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func boolPtr(b bool) *bool { return &b }

func TestBoardingPassAbsentBeforeCheckIn(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 5)
	ticket := f.mustBook(ivan, "SU100", "", "1A")

	pass, err := f.svc.BoardingPass.GetByTicketNumber(f.ctx, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Nil(t, pass)

	_, err = f.svc.BoardingPass.GetByTicketNumber(f.ctx, "TKT-MISSING")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestVerificationFlagsByRole(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	guard := f.staff("guard", entity.RoleBorderGuard)
	officer := f.staff("officer", entity.RoleCustomsOfficer)
	f.flight("SU100", "SOCHI", 5)
	ticket := f.mustBook(ivan, "SU100", "", "1A")
	checkIn, err := f.svc.Ticket.CheckIn(f.ctx, ivan, ticket.TicketNumber)
	require.NoError(t, err)
	id := uuid.MustParse(checkIn.BoardingPass.ID)

	_, err = f.svc.BoardingPass.SetVerificationFlags(f.ctx, guard, id, &request.VerificationRequest{LuggageVerified: boolPtr(true)})
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	_, err = f.svc.BoardingPass.SetVerificationFlags(f.ctx, officer, id, &request.VerificationRequest{})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	pass, err := f.svc.BoardingPass.SetVerificationFlags(f.ctx, guard, id, &request.VerificationRequest{PassportVerified: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, pass.PassportVerified)
	require.NotNil(t, pass.VerifiedByBorderGuard)
	assert.Equal(t, guard.UserID.String(), *pass.VerifiedByBorderGuard)

	readiness, err := f.svc.BoardingPass.Readiness(f.ctx, id)
	require.NoError(t, err)
	assert.False(t, readiness.Ready)
	assert.Equal(t, []string{"Luggage not verified"}, readiness.Issues)

	pass, err = f.svc.BoardingPass.SetVerificationFlags(f.ctx, officer, id, &request.VerificationRequest{LuggageVerified: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, pass.PassportVerified)
	assert.True(t, pass.LuggageVerified)
	require.NotNil(t, pass.VerifiedByCustoms)
	assert.Equal(t, officer.UserID.String(), *pass.VerifiedByCustoms)

	readiness, err = f.svc.BoardingPass.Readiness(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, readiness.Ready)
	assert.Empty(t, readiness.Issues)

	_, err = f.svc.BoardingPass.Readiness(f.ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBoardedFlagFollowsTicket(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	f.flight("SU100", "SOCHI", 5)
	ticket := f.mustBook(ivan, "SU100", "", "1A")
	checkIn, err := f.svc.Ticket.CheckIn(f.ctx, ivan, ticket.TicketNumber)
	require.NoError(t, err)
	id := uuid.MustParse(checkIn.BoardingPass.ID)

	_, err = f.svc.BoardingPass.SetBoardedFlag(f.ctx, id, true)
	assert.ErrorIs(t, err, apperror.ErrNotPermitted)

	_, err = f.svc.Ticket.Board(f.ctx, ticket.TicketNumber)
	require.NoError(t, err)

	// unboarding clears the flag and leaves the ticket BOARDED
	pass, err := f.svc.BoardingPass.SetBoardedFlag(f.ctx, id, false)
	require.NoError(t, err)
	assert.False(t, pass.Boarded)
	assert.Equal(t, entity.TicketBoarded, pass.TicketStatus)

	pass, err = f.svc.BoardingPass.SetBoardedFlag(f.ctx, id, true)
	require.NoError(t, err)
	assert.True(t, pass.Boarded)

	readiness, err := f.svc.BoardingPass.Readiness(f.ctx, id)
	require.NoError(t, err)
	assert.False(t, readiness.Ready)
	assert.Contains(t, readiness.Issues, "Ticket already BOARDED")
}

// readGate holds FindByID until parties callers have reached it.
type readGate struct {
	repository.BoardingPassRepository
	parties int32
	arrived atomic.Int32
	open    chan struct{}
}

func newReadGate(inner repository.BoardingPassRepository, parties int32) *readGate {
	return &readGate{BoardingPassRepository: inner, parties: parties, open: make(chan struct{})}
}

func (g *readGate) FindByID(ctx context.Context, id uuid.UUID) (*entity.BoardingPass, error) {
	if g.arrived.Add(1) == g.parties {
		close(g.open)
	}
	select {
	case <-g.open:
	case <-time.After(5 * time.Second):
	}
	return g.BoardingPassRepository.FindByID(ctx, id)
}

func TestConcurrentVerificationKeepsBothFlags(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	guard := f.staff("guard", entity.RoleBorderGuard)
	officer := f.staff("officer", entity.RoleCustomsOfficer)
	f.flight("SU100", "SOCHI", 5)
	ticket := f.mustBook(ivan, "SU100", "", "1A")
	checkIn, err := f.svc.Ticket.CheckIn(f.ctx, ivan, ticket.TicketNumber)
	require.NoError(t, err)
	id := uuid.MustParse(checkIn.BoardingPass.ID)

	f.repo.BoardingPass = newReadGate(f.repo.BoardingPass, 2)

	var byGuard, byOfficer *response.BoardingPassResponse
	var g errgroup.Group
	g.Go(func() error {
		var err error
		byGuard, err = f.svc.BoardingPass.SetVerificationFlags(f.ctx, guard, id, &request.VerificationRequest{PassportVerified: boolPtr(true)})
		return err
	})
	g.Go(func() error {
		var err error
		byOfficer, err = f.svc.BoardingPass.SetVerificationFlags(f.ctx, officer, id, &request.VerificationRequest{LuggageVerified: boolPtr(true)})
		return err
	})
	require.NoError(t, g.Wait())

	for _, pass := range []*response.BoardingPassResponse{byGuard, byOfficer} {
		assert.True(t, pass.PassportVerified)
		assert.True(t, pass.LuggageVerified)
	}

	readiness, err := f.svc.BoardingPass.Readiness(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, readiness.Ready)

	stored, err := f.repo.BoardingPass.FindByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, stored.VerifiedByBorderGuard)
	require.NotNil(t, stored.VerifiedByCustoms)
	assert.Equal(t, guard.UserID, *stored.VerifiedByBorderGuard)
	assert.Equal(t, officer.UserID, *stored.VerifiedByCustoms)
}

func TestBoardedFlagLeavesVerificationAlone(t *testing.T) {
	f := newFixture(t)
	ivan := f.register("ivan", "RU123456")
	guard := f.staff("guard", entity.RoleBorderGuard)
	f.flight("SU100", "SOCHI", 5)
	ticket := f.mustBook(ivan, "SU100", "", "1A")
	checkIn, err := f.svc.Ticket.CheckIn(f.ctx, ivan, ticket.TicketNumber)
	require.NoError(t, err)
	id := uuid.MustParse(checkIn.BoardingPass.ID)

	_, err = f.svc.BoardingPass.SetVerificationFlags(f.ctx, guard, id, &request.VerificationRequest{PassportVerified: boolPtr(true)})
	require.NoError(t, err)
	_, err = f.svc.Ticket.Board(f.ctx, ticket.TicketNumber)
	require.NoError(t, err)

	stored, err := f.repo.BoardingPass.FindByID(f.ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.Boarded)
	assert.True(t, stored.PassportVerified)
	require.NotNil(t, stored.VerifiedByBorderGuard)
	assert.Equal(t, guard.UserID, *stored.VerifiedByBorderGuard)

	_, err = f.svc.BoardingPass.SetBoardedFlag(f.ctx, uuid.New(), false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
