package entity

import "github.com/google/uuid"

type Passenger struct {
	Base
	UserID         uuid.UUID `db:"user_id"`
	PassportNumber string    `db:"passport_number"`
	Phone          string    `db:"phone"`
	Email          string    `db:"email"`
	LuggageChecked bool      `db:"luggage_checked"`

	// populated by joins
	Username string `db:"username"`
}
