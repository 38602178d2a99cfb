package entity

import (
	"time"

	"github.com/google/uuid"
)

type BoardingPass struct {
	Base
	TicketID              uuid.UUID  `db:"ticket_id"`
	CheckInTime           time.Time  `db:"check_in_time"`
	PassportVerified      bool       `db:"passport_verified"`
	LuggageVerified       bool       `db:"luggage_verified"`
	Boarded               bool       `db:"boarded"`
	VerifiedByBorderGuard *uuid.UUID `db:"verified_by_border_guard"`
	VerifiedByCustoms     *uuid.UUID `db:"verified_by_customs"`

	// populated by joins
	TicketNumber string       `db:"ticket_number"`
	TicketStatus TicketStatus `db:"ticket_status"`
}
