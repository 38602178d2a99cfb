package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Visa struct {
	BaseSimple
	PassportNumber string     `db:"passport_number"`
	Country        string     `db:"country"`
	ValidUntil     time.Time  `db:"valid_until"`
	IssuedBy       *uuid.UUID `db:"issued_by"`
}

// CoversAt reports whether the visa admits its holder to country at t.
func (v *Visa) CoversAt(country string, t time.Time) bool {
	return strings.EqualFold(v.Country, country) && !t.After(v.ValidUntil)
}
